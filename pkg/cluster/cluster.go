// Package cluster implements the DBSCAN room-cluster detector: per room
// type, group rooms whose centroids lie within epsilon of one another
// (transitively) into clusters meeting a minimum size. A pure,
// read-only analysis pass over the finished placements.
package cluster

import (
	"math"
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
)

// RoomView is the minimal per-room input DBSCAN needs.
type RoomView[T comparable] struct {
	NodeID     int
	RoomType   T
	WorldCells map[geo.Cell]bool
}

// Centroid returns the average of WorldCells, as a float64 pair (cell
// centers are integers but a centroid need not land on the lattice).
func (r RoomView[T]) Centroid() (x, y float64) {
	if len(r.WorldCells) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for c := range r.WorldCells {
		sx += float64(c.X)
		sy += float64(c.Y)
	}
	n := float64(len(r.WorldCells))
	return sx / n, sy / n
}

// RoomCluster is one detected group of same-typed rooms.
type RoomCluster[T comparable] struct {
	ClusterID   int
	RoomType    T
	Rooms       []int
	Centroid    geo.Cell
	BoundingMin geo.Cell
	BoundingMax geo.Cell
}

// ContainsRoom reports whether nodeID is a member of the cluster.
func (c RoomCluster[T]) ContainsRoom(nodeID int) bool {
	for _, id := range c.Rooms {
		if id == nodeID {
			return true
		}
	}
	return false
}

// GetSize returns the cluster's member count.
func (c RoomCluster[T]) GetSize() int { return len(c.Rooms) }

// GetAverageDistance returns the mean Manhattan distance from every
// member's centroid to the cluster's own centroid.
func (c RoomCluster[T]) GetAverageDistance(rooms map[int]RoomView[T]) float64 {
	if len(c.Rooms) == 0 {
		return 0
	}
	var total float64
	for _, id := range c.Rooms {
		x, y := rooms[id].Centroid()
		total += math.Abs(x-float64(c.Centroid.X)) + math.Abs(y-float64(c.Centroid.Y))
	}
	return total / float64(len(c.Rooms))
}

// Config parameterizes the detector.
type Config[T comparable] struct {
	Epsilon            float64
	MinClusterSize     int
	RoomTypesToCluster map[T]bool // nil/empty means every room type
}

// Detect runs DBSCAN per room type over rooms and returns every resulting
// cluster with at least MinClusterSize members, with stable cluster ids
// assigned in ascending order of the minimum member node id.
func Detect[T comparable](rooms map[int]RoomView[T], cfg Config[T]) []RoomCluster[T] {
	byType := make(map[T][]int)
	for id, r := range rooms {
		if len(cfg.RoomTypesToCluster) > 0 && !cfg.RoomTypesToCluster[r.RoomType] {
			continue
		}
		byType[r.RoomType] = append(byType[r.RoomType], id)
	}

	var unsorted []RoomCluster[T]
	for roomType, ids := range byType {
		sort.Ints(ids)
		groups := dbscan(rooms, ids, cfg.Epsilon, cfg.MinClusterSize)
		for _, group := range groups {
			unsorted = append(unsorted, buildCluster(roomType, group, rooms))
		}
	}

	sort.Slice(unsorted, func(i, j int) bool { return unsorted[i].minMember() < unsorted[j].minMember() })
	for i := range unsorted {
		unsorted[i].ClusterID = i
	}
	return unsorted
}

func (c RoomCluster[T]) minMember() int {
	min := c.Rooms[0]
	for _, id := range c.Rooms[1:] {
		if id < min {
			min = id
		}
	}
	return min
}

func buildCluster[T comparable](roomType T, members []int, rooms map[int]RoomView[T]) RoomCluster[T] {
	sort.Ints(members)
	var sx, sy float64
	var minX, minY, maxX, maxY int32
	first := true
	for _, id := range members {
		for c := range rooms[id].WorldCells {
			if first {
				minX, minY, maxX, maxY = c.X, c.Y, c.X, c.Y
				first = false
			} else {
				if c.X < minX {
					minX = c.X
				}
				if c.Y < minY {
					minY = c.Y
				}
				if c.X > maxX {
					maxX = c.X
				}
				if c.Y > maxY {
					maxY = c.Y
				}
			}
		}
		x, y := rooms[id].Centroid()
		sx += x
		sy += y
	}
	n := float64(len(members))
	return RoomCluster[T]{
		RoomType:    roomType,
		Rooms:       members,
		Centroid:    geo.C(int32(sx/n), int32(sy/n)),
		BoundingMin: geo.C(minX, minY),
		BoundingMax: geo.C(maxX, maxY),
	}
}

// dbscan runs the classic DBSCAN algorithm over ids' centroids under
// Euclidean distance, returning the member-id groups of every cluster
// meeting minSize. ids must already be sorted for deterministic
// neighbor-expansion order.
func dbscan[T comparable](rooms map[int]RoomView[T], ids []int, epsilon float64, minSize int) [][]int {
	visited := make(map[int]bool, len(ids))
	assigned := make(map[int]bool, len(ids))
	var groups [][]int

	centroid := make(map[int][2]float64, len(ids))
	for _, id := range ids {
		x, y := rooms[id].Centroid()
		centroid[id] = [2]float64{x, y}
	}

	regionQuery := func(id int) []int {
		var neighbors []int
		cx, cy := centroid[id][0], centroid[id][1]
		for _, other := range ids {
			if other == id {
				continue
			}
			ox, oy := centroid[other][0], centroid[other][1]
			if math.Hypot(cx-ox, cy-oy) <= epsilon {
				neighbors = append(neighbors, other)
			}
		}
		return neighbors
	}

	for _, id := range ids {
		if visited[id] {
			continue
		}
		visited[id] = true
		neighbors := regionQuery(id)
		if len(neighbors)+1 < minSize {
			continue
		}

		group := []int{id}
		assigned[id] = true
		seeds := append([]int{}, neighbors...)
		for i := 0; i < len(seeds); i++ {
			cur := seeds[i]
			if !visited[cur] {
				visited[cur] = true
				curNeighbors := regionQuery(cur)
				if len(curNeighbors)+1 >= minSize {
					for _, n := range curNeighbors {
						already := false
						for _, s := range seeds {
							if s == n {
								already = true
								break
							}
						}
						if !already {
							seeds = append(seeds, n)
						}
					}
				}
			}
			if !assigned[cur] {
				assigned[cur] = true
				group = append(group, cur)
			}
		}

		if len(group) < minSize {
			continue
		}
		sort.Ints(group)
		groups = append(groups, group)
	}

	return groups
}
