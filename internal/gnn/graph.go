// Package gnn implements graph neural network layers built on message
// passing over explicit edge lists.
//
// A Graph stores a directed edge list as two parallel index slices. The Conv
// layer implements the normalized graph convolution (Kipf & Welling): add
// self-loops, transform features, weight each edge by the inverse square
// roots of the endpoint degrees and sum the messages into the target nodes.
package gnn

import (
	"fmt"
)

// Graph is a directed graph over nodes 0..NumNodes-1 with edges given as two
// parallel slices: edge e points from Src[e] to Dst[e]. An undirected graph
// stores every edge in both directions.
type Graph struct {
	numNodes int
	src      []int32
	dst      []int32
}

// NewGraph creates a graph and validates the edge list: both sides must have
// equal length and every index must lie in [0, numNodes).
func NewGraph(numNodes int, src, dst []int32) (*Graph, error) {
	if numNodes <= 0 {
		return nil, fmt.Errorf("gnn: node count must be positive, got %d", numNodes)
	}
	if len(src) != len(dst) {
		return nil, fmt.Errorf("gnn: edge list sides differ: %d sources, %d targets", len(src), len(dst))
	}
	for i, s := range src {
		if s < 0 || int(s) >= numNodes {
			return nil, fmt.Errorf("gnn: source index %d out of range [0, %d) at edge %d", s, numNodes, i)
		}
	}
	for i, d := range dst {
		if d < 0 || int(d) >= numNodes {
			return nil, fmt.Errorf("gnn: target index %d out of range [0, %d) at edge %d", d, numNodes, i)
		}
	}
	return &Graph{numNodes: numNodes, src: src, dst: dst}, nil
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int {
	return g.numNodes
}

// NumEdges returns the number of directed edges.
func (g *Graph) NumEdges() int {
	return len(g.src)
}

// Src returns the edge source indices. Callers must not modify the slice.
func (g *Graph) Src() []int32 {
	return g.src
}

// Dst returns the edge target indices. Callers must not modify the slice.
func (g *Graph) Dst() []int32 {
	return g.dst
}

// WithSelfLoops returns a new graph with one (i, i) edge appended per node.
// The receiver is never mutated, and existing self-loops are kept as they
// are: a node that already had one ends up with two, both contributing to
// its degree and its aggregated sum.
func (g *Graph) WithSelfLoops() *Graph {
	n := len(g.src)
	src := make([]int32, n, n+g.numNodes)
	dst := make([]int32, n, n+g.numNodes)
	copy(src, g.src)
	copy(dst, g.dst)
	for i := 0; i < g.numNodes; i++ {
		src = append(src, int32(i))
		dst = append(dst, int32(i))
	}
	return &Graph{numNodes: g.numNodes, src: src, dst: dst}
}

// InDegrees counts incoming edges per node. The result is computed fresh on
// every call.
func (g *Graph) InDegrees() []int32 {
	degrees := make([]int32, g.numNodes)
	for _, d := range g.dst {
		degrees[d]++
	}
	return degrees
}

// UndirectedEdges expands an edge pair list into a directed edge list holding
// each pair in both directions. Loaders for undirected datasets use this to
// build Graph inputs.
func UndirectedEdges(pairs [][2]int32) (src, dst []int32) {
	src = make([]int32, 0, 2*len(pairs))
	dst = make([]int32, 0, 2*len(pairs))
	for _, p := range pairs {
		src = append(src, p[0], p[1])
		dst = append(dst, p[1], p[0])
	}
	return src, dst
}
