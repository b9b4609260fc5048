package dungeonfloor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/assign"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/cluster"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/constraint"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/difficulty"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/dlog"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorerr"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/hallway"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/placement"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/secretpassage"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// Generator runs the floor-generation pipeline. Logger, if set, receives
// diagnostic output when generation starts and when it completes; a nil
// Logger (the zero value) costs nothing on the generation path.
type Generator[T comparable] struct {
	Logger *dlog.Logger
}

// NewGenerator returns a Generator with no logger attached.
func NewGenerator[T comparable]() *Generator[T] { return &Generator[T]{} }

// Generate runs the full pipeline for a single floor: PRNG derivation,
// graph generation, analysis, zone assignment, difficulty scoring,
// constraint-satisfaction room typing, template selection, spatial
// placement, hallway routing, secret passages, and clustering, in that
// fixed order. ctx is checked only at stage boundaries, since generation
// itself has no suspension points.
func (g *Generator[T]) Generate(ctx context.Context, cfg Config[T]) (*FloorLayout[T], error) {
	return g.generate(ctx, cfg, -1)
}

func (g *Generator[T]) generate(ctx context.Context, cfg Config[T], floorIndex int) (*FloorLayout[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	master := rng.NewMasterStream(cfg.Seed)
	g.log(dlog.LevelInfo, "generate", "starting floor generation", func() logrus.Fields {
		return logrus.Fields{"seed": cfg.Seed, "room_count": cfg.RoomCount}
	})

	graph, err := floorgraph.Generate(cfg.RoomCount, cfg.BranchingFactor, master.StreamFor(rng.StageGraph), cfg.GraphAlgorithm)
	if err != nil {
		return nil, floorerr.NewInvalidConfiguration("graph", err.Error(), nil)
	}
	spawnID := 0

	// Provisional analysis: the constraint solver needs distances, a
	// critical path, and difficulties before any room type exists. The
	// provisional boss is the farthest node from spawn (ties by lowest
	// id); the real boss is whichever node the solver types as boss, and
	// the graph is re-analyzed against it below.
	if err := graph.ComputeDistances(spawnID); err != nil {
		return nil, floorerr.NewInvalidConfiguration("analyze", err.Error(), nil)
	}
	provisionalBoss := farthestNode(graph)
	if err := graph.Analyze(spawnID, provisionalBoss); err != nil {
		return nil, floorerr.NewInvalidConfiguration("analyze", err.Error(), nil)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	zoneAssignments, err := floorgraph.AssignZones(graph, cfg.Zones)
	if err != nil {
		return nil, err
	}

	difficulties := g.scoreDifficulty(cfg, graph)

	templateStream := master.StreamFor(rng.StageTemplate)

	assignCfg := assign.Config[T]{
		SpawnRoomType:    cfg.SpawnRoomType,
		BossRoomType:     cfg.BossRoomType,
		DefaultRoomType:  cfg.DefaultRoomType,
		RoomRequirements: cfg.RoomRequirements,
		ZoneRequirements: zoneRequirements(cfg.Zones),
		Constraints:      cfg.Constraints,
		FloorIndex:       floorIndex,
	}
	assignResult, err := assign.AssignDetailed(graph, assignCfg, zoneAssignments, templateStream)
	if err != nil {
		return nil, err
	}
	roomTypes := assignResult.RoomTypes

	bossID := -1
	for _, id := range graph.NodeIDsSorted() {
		if roomTypes[id] == cfg.BossRoomType {
			bossID = id
			break
		}
	}
	if bossID == -1 {
		return nil, floorerr.NewInvalidConfiguration("assign", "no node was assigned the boss room type", nil)
	}
	if bossID != provisionalBoss {
		// Re-analyze so the critical path ends at the true boss node, and
		// re-derive zone assignments: CriticalPathBased zones depend on it.
		if err := graph.Analyze(spawnID, bossID); err != nil {
			return nil, floorerr.NewInvalidConfiguration("analyze", err.Error(), nil)
		}
		zoneAssignments, err = floorgraph.AssignZones(graph, cfg.Zones)
		if err != nil {
			return nil, err
		}
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	templatePool, err := template.NewPool(cfg.Templates)
	if err != nil {
		return nil, floorerr.NewInvalidConfiguration("template", err.Error(), nil)
	}
	zonePool := make(template.ZonePool, len(cfg.Zones))
	for _, z := range cfg.Zones {
		zonePool[z.ID] = z.Templates
	}
	selected := make(map[int]*template.RoomTemplate[T], graph.NodeCount())
	for _, id := range graph.NodeIDsSorted() {
		tmpl, err := templatePool.Select(roomTypes[id], zoneAssignments[id], zonePool, difficulties[id], templateStream)
		if err != nil {
			return nil, err
		}
		selected[id] = tmpl
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var spatialConstraints []constraint.Constraint[T]
	for _, c := range cfg.Constraints {
		if constraint.IsSpatial(c) {
			spatialConstraints = append(spatialConstraints, c)
		}
	}

	placeResult, err := placement.Place[T](
		graph, roomTypes, selected, difficulties, spatialConstraints, zoneAssignments,
		toPlacementMode(cfg.HallwayMode), master.StreamFor(rng.StageSpatial), cfg.PlacementConfig,
	)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	rooms := make(map[int]Room[T], len(placeResult.Rooms))
	for id, pr := range placeResult.Rooms {
		rooms[id] = Room[T]{NodeID: pr.NodeID, RoomType: pr.RoomType, Template: pr.Template, Anchor: pr.Anchor, Difficulty: pr.Difficulty}
	}

	hallways, doors, err := g.routeHallways(graph, rooms, placeResult, cfg, master.StreamFor(rng.StageHallway))
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	var secretPassages []secretpassage.SecretPassage
	if cfg.SecretPassage != nil && cfg.SecretPassage.Count > 0 {
		secretPassages, err = g.insertSecretPassages(graph, rooms, cfg, master.StreamFor(rng.StageSecret))
		if err != nil {
			return nil, err
		}
	}

	clusters := map[T][]cluster.RoomCluster[T]{}
	if cfg.Cluster != nil && cfg.Cluster.Enabled {
		clusters = g.detectClusters(rooms, *cfg.Cluster)
	}

	transitions := floorgraph.TransitionRooms(graph, zoneAssignments)

	var trace *GenerationTrace
	if cfg.Trace {
		subSeeds := make(map[string]int32, len(master.DrawOrder()))
		for _, stage := range master.DrawOrder() {
			subSeeds[stage] = master.SeedFor(stage)
		}
		trace = &GenerationTrace{
			SubSeeds:          subSeeds,
			DrawOrder:         master.DrawOrder(),
			AssignSteps:       assignResult.Steps,
			PlacementAttempts: placeResult.Attempts,
		}
	}

	layout := &FloorLayout[T]{
		Seed:            cfg.Seed,
		Graph:           graph,
		Rooms:           rooms,
		Hallways:        hallways,
		Doors:           doors,
		DirectDoors:     placeResult.DirectDoors,
		SpawnRoomID:     spawnID,
		BossRoomID:      bossID,
		CriticalPath:    graph.CriticalPath,
		ZoneAssignments: zoneAssignments,
		TransitionRooms: transitions,
		SecretPassages:  secretPassages,
		Clusters:        clusters,
		Trace:           trace,
	}

	g.log(dlog.LevelInfo, "generate", "floor generation complete", func() logrus.Fields {
		return logrus.Fields{"rooms": len(rooms), "hallways": len(hallways)}
	})

	return layout, nil
}

func (g *Generator[T]) log(level dlog.Level, component, message string, fields dlog.FieldBuilder) {
	if g == nil || g.Logger == nil {
		return
	}
	g.Logger.Log(level, component, message, fields)
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// farthestNode returns the node with maximum DistanceFromStart, ties
// broken by lowest id. ComputeDistances must have run first.
func farthestNode(graph *floorgraph.FloorGraph) int {
	best := graph.NodeIDsSorted()[0]
	bestDist := -1
	for _, id := range graph.NodeIDsSorted() {
		node, _ := graph.Node(id)
		if node.DistanceFromStart > bestDist {
			best = id
			bestDist = node.DistanceFromStart
		}
	}
	return best
}

func zoneRequirements[T comparable](zones []floorgraph.Zone[T]) []assign.ZoneRequirement[T] {
	var out []assign.ZoneRequirement[T]
	for _, z := range zones {
		for _, req := range z.RoomRequirements {
			out = append(out, assign.ZoneRequirement[T]{ZoneID: z.ID, RoomType: req.RoomType, Count: req.Count})
		}
	}
	return out
}

// scoreDifficulty computes every node's difficulty from its distance and
// records it both in the returned map (consumed by template selection and
// placement) and on the RoomNode itself, where difficulty constraints
// read it during assignment.
func (g *Generator[T]) scoreDifficulty(cfg Config[T], graph *floorgraph.FloorGraph) map[int]float64 {
	out := make(map[int]float64, graph.NodeCount())
	if cfg.Difficulty == nil || !cfg.Difficulty.Enabled {
		return out
	}
	dcfg := difficulty.Config{
		Base:     cfg.Difficulty.Base,
		Factor:   cfg.Difficulty.Factor,
		Function: cfg.Difficulty.Function,
		CustomFn: cfg.Difficulty.CustomFn,
		Max:      cfg.Difficulty.Max,
	}
	for _, id := range graph.NodeIDsSorted() {
		node, _ := graph.Node(id)
		node.Difficulty = difficulty.Score(dcfg, node.DistanceFromStart)
		out[id] = node.Difficulty
	}
	return out
}

func (g *Generator[T]) detectClusters(rooms map[int]Room[T], cfg ClusterConfig[T]) map[T][]cluster.RoomCluster[T] {
	views := make(map[int]cluster.RoomView[T], len(rooms))
	for id, r := range rooms {
		views[id] = cluster.RoomView[T]{NodeID: id, RoomType: r.RoomType, WorldCells: r.WorldCells()}
	}
	detected := cluster.Detect(views, cluster.Config[T]{
		Epsilon:            cfg.Epsilon,
		MinClusterSize:     cfg.MinClusterSize,
		RoomTypesToCluster: cfg.RoomTypesToCluster,
	})
	out := make(map[T][]cluster.RoomCluster[T])
	for _, c := range detected {
		out[c.RoomType] = append(out[c.RoomType], c)
	}
	return out
}

// buildObstacles merges every placed room's world cells into one hallway
// obstacle index.
func buildObstacles[T comparable](rooms map[int]Room[T]) *hallway.CellSetObstacles {
	sets := make([]map[geo.Cell]bool, 0, len(rooms))
	for _, r := range rooms {
		sets = append(sets, r.WorldCells())
	}
	return hallway.NewCellSetObstacles(sets...)
}

// doorAtGap finds the exterior (cell, edge) pair of room whose outward
// neighbor is gapCell, producing the Door that reservation created during
// placement (pkg/placement's shared 1-cell-gap mechanism).
func doorAtGap[T comparable](room Room[T], gapCell geo.Cell) (hallway.Door, bool) {
	for _, ee := range room.Template.ExteriorEdges() {
		world := room.Anchor.Add(ee.Cell.X, ee.Cell.Y)
		if world.Neighbor(ee.Edge) == gapCell {
			return hallway.Door{Position: gapCell, Edge: ee.Edge, ConnectsToRoomID: room.NodeID}, true
		}
	}
	return hallway.Door{}, false
}

// pickDoor selects a door-capable exterior edge of room whose outward
// cell is not already occupied, for routing a hallway to another room.
func pickDoor[T comparable](room Room[T], obstacles *hallway.CellSetObstacles) (hallway.Door, error) {
	for _, ee := range room.Template.ExteriorEdges() {
		if !room.Template.DoorEdges.Permits(ee.Edge) {
			continue
		}
		world := room.Anchor.Add(ee.Cell.X, ee.Cell.Y)
		candidate := world.Neighbor(ee.Edge)
		if !obstacles.Blocked(candidate) {
			return hallway.Door{Position: candidate, Edge: ee.Edge, ConnectsToRoomID: room.NodeID}, nil
		}
	}
	return hallway.Door{}, fmt.Errorf("hallway: no free door-capable exterior edge on room %d", room.NodeID)
}

// routeHallways resolves every graph edge into either the direct-door pair
// pkg/placement already reserved, or a freshly A*-routed hallway, per
// cfg.HallwayMode.
func (g *Generator[T]) routeHallways(
	graph *floorgraph.FloorGraph,
	rooms map[int]Room[T],
	placeResult *placement.Result[T],
	cfg Config[T],
	stream *rng.Stream,
) ([]hallway.Hallway, []hallway.Door, error) {
	obstacles := buildObstacles(rooms)
	var hallways []hallway.Hallway
	var doors []hallway.Door
	nextID := 0

	for _, conn := range graph.Connections() {
		key := placement.EdgeKey{A: conn.AID, B: conn.BID}
		if key.A > key.B {
			key.A, key.B = key.B, key.A
		}

		if gap, ok := placeResult.DirectDoors[key]; ok && cfg.HallwayMode != Always {
			doorA, okA := doorAtGap(rooms[conn.AID], gap)
			doorB, okB := doorAtGap(rooms[conn.BID], gap)
			if okA && okB {
				doors = append(doors, doorA, doorB)
				continue
			}
		}

		doorA, err := pickDoor(rooms[conn.AID], obstacles)
		if err != nil {
			return nil, nil, err
		}
		doorB, err := pickDoor(rooms[conn.BID], obstacles)
		if err != nil {
			return nil, nil, err
		}

		h, err := hallway.Route(doorA, doorB, obstacles, hallway.Config{})
		if err != nil {
			return nil, nil, err
		}
		h.ID = nextID
		nextID++
		for _, seg := range h.Segments {
			for _, c := range seg.GetCells() {
				obstacles.Reserve(c)
			}
		}
		hallways = append(hallways, *h)
		doors = append(doors, doorA, doorB)
	}

	return hallways, doors, nil
}

func centroid(cells map[geo.Cell]bool) geo.Cell {
	if len(cells) == 0 {
		return geo.C(0, 0)
	}
	var sx, sy int64
	for c := range cells {
		sx += int64(c.X)
		sy += int64(c.Y)
	}
	n := int64(len(cells))
	return geo.C(int32(sx/n), int32(sy/n))
}

func (g *Generator[T]) insertSecretPassages(graph *floorgraph.FloorGraph, rooms map[int]Room[T], cfg Config[T], stream *rng.Stream) ([]secretpassage.SecretPassage, error) {
	views := make(map[int]secretpassage.RoomView[T], len(rooms))
	for id, r := range rooms {
		views[id] = secretpassage.RoomView[T]{
			NodeID:     id,
			RoomType:   r.RoomType,
			OnCritical: containsInt(graph.CriticalPath, id),
			Center:     centroid(r.WorldCells()),
			WorldCells: r.WorldCells(),
		}
	}

	obstacles := buildObstacles(rooms)
	doorFor := func(id int) hallway.Door {
		door, err := pickDoor(rooms[id], obstacles)
		if err != nil {
			// Fall back to the room center as the door position; if a
			// hallway is then routed and fails, Route surfaces a
			// SpatialPlacementException with both endpoints named.
			return hallway.Door{Position: views[id].Center, ConnectsToRoomID: id}
		}
		return door
	}

	spCfg := secretpassage.Config[T]{
		Count:                        cfg.SecretPassage.Count,
		MaxSpatialDistance:           cfg.SecretPassage.MaxSpatialDistance,
		AllowedRoomTypes:             cfg.SecretPassage.AllowedRoomTypes,
		ForbiddenRoomTypes:           cfg.SecretPassage.ForbiddenRoomTypes,
		AllowCriticalPathConnections: cfg.SecretPassage.AllowCriticalPathConnections,
		AllowGraphConnectedRooms:     cfg.SecretPassage.AllowGraphConnectedRooms,
	}
	return secretpassage.Insert[T](graph, views, spCfg, obstacles, doorFor, stream)
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
