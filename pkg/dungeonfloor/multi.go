package dungeonfloor

import (
	"context"
	"fmt"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorerr"
)

// ConnectionType identifies how two floors are linked.
type ConnectionType int

const (
	StairsDown ConnectionType = iota
	StairsUp
	Teleporter
	// Secret links a node to another floor through a connector that, like
	// a same-floor secret passage, must not double up with one: a node
	// already consumed by a secret passage on its own floor cannot also
	// carry a secret multi-floor link.
	Secret
)

// FloorConnection links a node on one generated floor to a node on
// another.
type FloorConnection struct {
	FromFloor int
	FromNode  int
	ToFloor   int
	ToNode    int
	Type      ConnectionType
}

// MultiFloorLayout is the aggregate GenerateMulti returns: one FloorLayout
// per floor config, plus the validated cross-floor connections.
type MultiFloorLayout[T comparable] struct {
	Floors      map[int]*FloorLayout[T]
	Connections []FloorConnection
}

// GenerateMulti generates every floor in floorConfigs (in order, under
// floor index equal to its position) and validates connections against
// the resulting layouts. Each floor's Config.Constraints may reference its
// own floor index via multi-floor constraints (MinFloor/MaxFloor/
// OnlyOnFloor/NotOnFloor); GenerateMulti does not reorder or retry floors.
func GenerateMulti[T comparable](ctx context.Context, g *Generator[T], floorConfigs []Config[T], connections []FloorConnection) (*MultiFloorLayout[T], error) {
	floors := make(map[int]*FloorLayout[T], len(floorConfigs))
	for i, cfg := range floorConfigs {
		layout, err := g.generate(ctx, cfg, i)
		if err != nil {
			return nil, fmt.Errorf("floor %d: %w", i, err)
		}
		floors[i] = layout
	}

	secretConsumed := make(map[[2]int]bool)
	for i, layout := range floors {
		for _, sp := range layout.SecretPassages {
			secretConsumed[[2]int{i, sp.RoomA}] = true
			secretConsumed[[2]int{i, sp.RoomB}] = true
		}
	}

	for _, conn := range connections {
		fromLayout, ok := floors[conn.FromFloor]
		if !ok {
			return nil, floorerr.NewInvalidConfiguration("multi_floor", fmt.Sprintf("connection references nonexistent floor %d", conn.FromFloor), conn)
		}
		toLayout, ok := floors[conn.ToFloor]
		if !ok {
			return nil, floorerr.NewInvalidConfiguration("multi_floor", fmt.Sprintf("connection references nonexistent floor %d", conn.ToFloor), conn)
		}
		if _, ok := fromLayout.GetRoom(conn.FromNode); !ok {
			return nil, floorerr.NewInvalidConfiguration("multi_floor", fmt.Sprintf("connection references nonexistent node %d on floor %d", conn.FromNode, conn.FromFloor), conn)
		}
		if _, ok := toLayout.GetRoom(conn.ToNode); !ok {
			return nil, floorerr.NewInvalidConfiguration("multi_floor", fmt.Sprintf("connection references nonexistent node %d on floor %d", conn.ToNode, conn.ToFloor), conn)
		}
		if conn.Type == Secret {
			if secretConsumed[[2]int{conn.FromFloor, conn.FromNode}] {
				return nil, floorerr.NewInvalidConfiguration("multi_floor", fmt.Sprintf("node %d on floor %d already carries a same-floor secret passage", conn.FromNode, conn.FromFloor), conn)
			}
			if secretConsumed[[2]int{conn.ToFloor, conn.ToNode}] {
				return nil, floorerr.NewInvalidConfiguration("multi_floor", fmt.Sprintf("node %d on floor %d already carries a same-floor secret passage", conn.ToNode, conn.ToFloor), conn)
			}
		}
	}

	return &MultiFloorLayout[T]{Floors: floors, Connections: connections}, nil
}
