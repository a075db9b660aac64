/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package matching holds the undirected weighted graph used for pairing and
// a minimum weight perfect matching solver that runs over it.
package matching

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Edge is an undirected weighted edge with U < V.
type Edge struct {
	U, V   int64
	Weight int64
}

// Pair is one matched pair of node ids.
type Pair [2]int64

// Graph is an undirected graph with integer edge weights.
type Graph struct {
	g *simple.WeightedUndirectedGraph
}

func NewGraph() *Graph {
	return &Graph{g: simple.NewWeightedUndirectedGraph(0, math.Inf(1))}
}

// AddNode adds id to the graph if it is not already present.
func (g *Graph) AddNode(id int64) {
	if g.g.Node(id) == nil {
		g.g.AddNode(simple.Node(id))
	}
}

// SetEdge adds or replaces the edge between u and v.
func (g *Graph) SetEdge(u, v int64, weight int64) {
	g.g.SetWeightedEdge(simple.WeightedEdge{
		F: simple.Node(u),
		T: simple.Node(v),
		W: float64(weight),
	})
}

func (g *Graph) RemoveEdge(u, v int64) {
	g.g.RemoveEdge(u, v)
}

func (g *Graph) HasEdge(u, v int64) bool {
	return g.g.HasEdgeBetween(u, v)
}

// Weight returns the weight of the edge between u and v.
func (g *Graph) Weight(u, v int64) (int64, bool) {
	if u == v {
		return 0, false
	}
	w, ok := g.g.Weight(u, v)
	if !ok {
		return 0, false
	}
	return int64(w), true
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := NewGraph()
	graph.CopyWeighted(c.g, g.g)
	return c
}

// Nodes returns the node ids in ascending order.
func (g *Graph) Nodes() []int64 {
	nodes := graph.NodesOf(g.g.Nodes())
	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Edges returns every edge once, ordered by (U, V).
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, e := range graph.WeightedEdgesOf(g.g.WeightedEdges()) {
		u, v := e.From().ID(), e.To().ID()
		if u > v {
			u, v = v, u
		}
		edges = append(edges, Edge{U: u, V: v, Weight: int64(e.Weight())})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})

	return edges
}

// Len is the number of nodes.
func (g *Graph) Len() int {
	return g.g.Nodes().Len()
}

// IsConnected reports whether every node can reach every other node. An
// empty graph is connected.
func (g *Graph) IsConnected() bool {
	return len(topo.ConnectedComponents(g.g)) <= 1
}

// Uniform returns a copy of g with every edge weight set to w.
func (g *Graph) Uniform(w int64) *Graph {
	c := NewGraph()
	for _, id := range g.Nodes() {
		c.AddNode(id)
	}
	for _, e := range g.Edges() {
		c.SetEdge(e.U, e.V, w)
	}

	return c
}
