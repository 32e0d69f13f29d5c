// Package score compares the structural cost of a candidate with the naive
// cost of writing its target graph down directly.
package score

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
)

// Graph is an undirected graph with integer vertices. Self-loops are
// allowed; parallel edges are not.
type Graph struct {
	g *core.Graph
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{core.NewGraph(core.WithLoops())}
}

// AddVertex adds v to the graph if it is not there yet.
func (g *Graph) AddVertex(v int) {
	// Only an empty ID is rejected.
	_ = g.g.AddVertex(strconv.Itoa(v))
}

// AddEdge adds the edge between u and v, adding the endpoints as needed.
// Adding an edge twice is a no-op.
func (g *Graph) AddEdge(u, v int) {
	from, to := strconv.Itoa(u), strconv.Itoa(v)
	if g.g.HasEdge(from, to) || g.g.HasEdge(to, from) {
		return
	}
	// Loops are allowed and weights are 0, so AddEdge cannot fail.
	_, _ = g.g.AddEdge(from, to, 0)
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return g.g.VertexCount() }

// Size returns the number of edges.
func (g *Graph) Size() int { return g.g.EdgeCount() }

// Vertices returns the vertices in ascending order.
func (g *Graph) Vertices() []int {
	ids := g.g.Vertices()
	vs := make([]int, len(ids))
	for i, id := range ids {
		vs[i] = mustAtoi(id)
	}
	sort.Ints(vs)
	return vs
}

// Edges returns the edges as pairs with the smaller vertex first, sorted.
func (g *Graph) Edges() [][2]int {
	var es [][2]int
	for _, e := range g.g.Edges() {
		u, v := mustAtoi(e.From), mustAtoi(e.To)
		if u > v {
			u, v = v, u
		}
		es = append(es, [2]int{u, v})
	}
	sort.Slice(es, func(i, j int) bool {
		if es[i][0] != es[j][0] {
			return es[i][0] < es[j][0]
		}
		return es[i][1] < es[j][1]
	})
	return es
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}
	return i
}

// ErrNotSquare is returned by FromAdjacencyMatrix for a matrix whose rows do
// not all have as many entries as there are rows.
var ErrNotSquare = errors.New("adjacency matrix is not square")

// AsymmetryError is returned by FromAdjacencyMatrix for a matrix that is not
// symmetric.
type AsymmetryError struct {
	I, J       int
	Got, Other int
}

func (e *AsymmetryError) Error() string {
	return fmt.Sprintf("matrix is not symmetric at position (%d,%d): %d != %d",
		e.I, e.J, e.Got, e.Other)
}

// FromAdjacencyMatrix builds the graph of a symmetric adjacency matrix. The
// vertices are 0 to n-1; an edge (i, j) with i <= j exists when entry (i, j)
// is 1.
func FromAdjacencyMatrix(m [][]int) (*Graph, error) {
	n := len(m)
	for _, row := range m {
		if len(row) != n {
			return nil, ErrNotSquare
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if m[i][j] != m[j][i] {
				return nil, &AsymmetryError{i, j, m[i][j], m[j][i]}
			}
		}
	}
	g := NewGraph()
	for i := 0; i < n; i++ {
		g.AddVertex(i)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if m[i][j] == 1 {
				g.AddEdge(i, j)
			}
		}
	}
	return g, nil
}

// AdjacencyMatrix returns the adjacency matrix of g, with rows and columns in
// the order of g.Vertices().
func AdjacencyMatrix(g *Graph) [][]int {
	vs := g.Vertices()
	index := make(map[int]int, len(vs))
	for i, v := range vs {
		index[v] = i
	}
	m := make([][]int, len(vs))
	for i := range m {
		m[i] = make([]int, len(vs))
	}
	for _, e := range g.Edges() {
		i, j := index[e[0]], index[e[1]]
		m[i][j] = 1
		m[j][i] = 1
	}
	return m
}

// NaiveCost returns the cost of describing g without structure: either by
// listing its edges, or by listing the edges missing from the complete
// graph, whichever is cheaper. Each way costs one more than the number of
// edges listed.
func NaiveCost(g *Graph) int {
	v, e := g.Order(), g.Size()
	byAdding := e + 1
	byRemoving := v*(v-1)/2 - e + 1
	if byRemoving < byAdding {
		return byRemoving
	}
	return byAdding
}

// Ratio returns the compression ratio naive/structural, or 0 if structural
// is 0.
func Ratio(naive, structural int) float64 {
	if structural == 0 {
		return 0
	}
	return float64(naive) / float64(structural)
}

// Improvement returns how much a candidate improves on the naive cost. A
// candidate that does not reconstruct the graph (ok is false) scores 1, as
// does one that is no cheaper than the naive description.
func Improvement(naive, generated int, ok bool) float64 {
	if !ok {
		return 1
	}
	if generated > naive {
		generated = naive
	}
	if generated <= 0 {
		return 1
	}
	return float64(naive) / float64(generated)
}
