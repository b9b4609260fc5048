package constraint

import "errors"

var errEmptyRefTypes = errors.New("constraint: ref type set must not be empty")
