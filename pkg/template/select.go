package template

import (
	"fmt"
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

// ZonePool supplies the zone-specific template ids (if any) available to
// a node's zone. An empty/nil pool means the node has no zone or its zone
// lists no templates, and only global candidates apply.
type ZonePool map[string][]string // zone id -> template ids

// Pool is the full set of templates Select draws from: a global list plus
// optional per-zone additions, indexed by id for deterministic lookup.
type Pool[T comparable] struct {
	byID []*RoomTemplate[T] // sorted by ID, built once via NewPool
	ids  map[string]*RoomTemplate[T]
}

// NewPool indexes global templates by id, sorted for deterministic
// iteration. Duplicate ids are rejected.
func NewPool[T comparable](templates []*RoomTemplate[T]) (*Pool[T], error) {
	ids := make(map[string]*RoomTemplate[T], len(templates))
	for _, tmpl := range templates {
		if _, exists := ids[tmpl.ID]; exists {
			return nil, fmt.Errorf("template: duplicate template id %q", tmpl.ID)
		}
		ids[tmpl.ID] = tmpl
	}
	sorted := make([]*RoomTemplate[T], 0, len(templates))
	sorted = append(sorted, templates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Pool[T]{byID: sorted, ids: ids}, nil
}

// Select performs weighted sampling for a single node: candidate set =
// global templates for roomType, plus zone-specific templates for
// roomType (if the node's zone lists any), filtered by difficulty
// bounds, then a uniform draw in [0, totalWeight) walked over the
// id-sorted candidate list.
func (p *Pool[T]) Select(roomType T, zoneID string, zonePool ZonePool, difficulty float64, stream *rng.Stream) (*RoomTemplate[T], error) {
	candidates := p.candidatesFor(roomType, zoneID, zonePool, difficulty)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("template: no candidate template for room type %v", roomType)
	}

	var total float64
	anyPositive := false
	for _, c := range candidates {
		if c.Weight > 0 {
			anyPositive = true
			total += c.Weight
		}
	}
	if !anyPositive {
		return nil, fmt.Errorf("template: all candidate templates for room type %v have weight 0", roomType)
	}

	// Zero-weight candidates are excluded once at least one positive
	// weight exists.
	positive := candidates[:0:0]
	for _, c := range candidates {
		if c.Weight > 0 {
			positive = append(positive, c)
		}
	}

	draw := stream.WeightedDraw(total)
	var cumulative float64
	for _, c := range positive {
		cumulative += c.Weight
		if draw < cumulative {
			return c, nil
		}
	}
	return positive[len(positive)-1], nil
}

func (p *Pool[T]) candidatesFor(roomType T, zoneID string, zonePool ZonePool, difficulty float64) []*RoomTemplate[T] {
	seen := make(map[string]bool)
	var out []*RoomTemplate[T]

	add := func(tmpl *RoomTemplate[T]) {
		if seen[tmpl.ID] {
			return
		}
		if !tmpl.AllowsRoomType(roomType) || !tmpl.AllowsDifficulty(difficulty) {
			return
		}
		seen[tmpl.ID] = true
		out = append(out, tmpl)
	}

	if zoneID != "" && zonePool != nil {
		zoneIDs := zonePool[zoneID]
		sortedZoneIDs := append([]string(nil), zoneIDs...)
		sort.Strings(sortedZoneIDs)
		for _, id := range sortedZoneIDs {
			if tmpl, ok := p.ids[id]; ok {
				add(tmpl)
			}
		}
	}
	for _, tmpl := range p.byID {
		add(tmpl)
	}
	// The draw walks candidates sorted by template id, regardless of
	// whether each entered via the zone pool or the global pool.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
