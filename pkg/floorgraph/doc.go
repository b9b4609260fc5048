// Package floorgraph implements the abstract dungeon graph: rooms as
// integer-lattice-agnostic nodes, room-to-room connections, the multiple
// graph generation algorithms, and the BFS/critical-path analyzer that
// derives distance-from-start and the spawn-to-boss critical path.
//
// Node storage is backed by gonum.org/v1/gonum/graph/simple so that BFS
// distance (the graph analyzer's primary product) reuses a maintained
// traversal implementation rather than a hand-rolled queue. Critical-path
// extraction keeps its own parent-pointer BFS because it must break ties
// by lowest node id, a guarantee the generic traversal package does not
// offer.
package floorgraph
