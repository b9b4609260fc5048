package floorgraph

import "fmt"

// RoomConnection is an unordered edge of the abstract dungeon graph.
type RoomConnection struct {
	AID, BID int
}

// NewRoomConnection builds a connection between two distinct node ids.
func NewRoomConnection(a, b int) (*RoomConnection, error) {
	if a == b {
		return nil, fmt.Errorf("floorgraph: connection endpoints must differ, got %d twice", a)
	}
	return &RoomConnection{AID: a, BID: b}, nil
}

// GetOtherNodeID returns the endpoint that is not x. Panics if x is not an
// endpoint of this connection, which indicates a programmer error in the
// caller, not a data condition.
func (c *RoomConnection) GetOtherNodeID(x int) int {
	switch x {
	case c.AID:
		return c.BID
	case c.BID:
		return c.AID
	default:
		panic(fmt.Sprintf("floorgraph: node %d is not an endpoint of connection (%d,%d)", x, c.AID, c.BID))
	}
}

// Has reports whether id is one of the connection's endpoints.
func (c *RoomConnection) Has(id int) bool {
	return c.AID == id || c.BID == id
}

// String returns a human-readable representation of the connection.
func (c *RoomConnection) String() string {
	return fmt.Sprintf("RoomConnection(%d, %d)", c.AID, c.BID)
}
