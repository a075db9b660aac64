/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package matching

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteForce returns the minimum perfect matching weight of g, or -1.
func bruteForce(g *Graph) int64 {
	ids := g.Nodes()
	used := make(map[int64]bool)
	best := int64(-1)

	var rec func(total int64)
	rec = func(total int64) {
		first := int64(-1)
		for _, id := range ids {
			if !used[id] {
				first = id
				break
			}
		}
		if first == -1 {
			if best == -1 || total < best {
				best = total
			}
			return
		}
		used[first] = true
		for _, id := range ids {
			if used[id] {
				continue
			}
			w, ok := g.Weight(first, id)
			if !ok {
				continue
			}
			used[id] = true
			rec(total + w)
			used[id] = false
		}
		used[first] = false
	}
	rec(0)

	return best
}

func matchingWeight(t *testing.T, g *Graph, pairs []Pair) int64 {
	seen := make(map[int64]bool)
	var total int64
	for _, p := range pairs {
		w, ok := g.Weight(p[0], p[1])
		require.True(t, ok, "pair %v is not an edge", p)
		require.False(t, seen[p[0]] || seen[p[1]], "node reused in %v", p)
		seen[p[0]], seen[p[1]] = true, true
		total += w
	}
	require.Len(t, seen, g.Len())

	return total
}

func TestMinWeightPerfectMatchingSimple(t *testing.T) {
	g := NewGraph()
	g.SetEdge(0, 1, 10)
	g.SetEdge(2, 3, 10)
	g.SetEdge(0, 2, 1)
	g.SetEdge(1, 3, 1)
	g.SetEdge(0, 3, 5)

	pairs, err := MinWeightPerfectMatching(g)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{0, 2}, {1, 3}}, pairs)
}

func TestMinWeightPerfectMatchingInfeasible(t *testing.T) {
	g := NewGraph()
	for i := int64(0); i < 4; i++ {
		g.AddNode(i)
	}
	// star: 0 is adjacent to everyone, nobody else is adjacent
	g.SetEdge(0, 1, 1)
	g.SetEdge(0, 2, 1)
	g.SetEdge(0, 3, 1)

	_, err := MinWeightPerfectMatching(g)
	assert.True(t, errors.Is(err, ErrNoPerfectMatching))

	odd := NewGraph()
	odd.SetEdge(0, 1, 1)
	odd.AddNode(2)
	_, err = MinWeightPerfectMatching(odd)
	assert.True(t, errors.Is(err, ErrNoPerfectMatching))
}

func TestMinWeightPerfectMatchingRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 300; iter++ {
		n := 2 * (1 + rng.Intn(5))
		g := NewGraph()
		for i := 0; i < n; i++ {
			g.AddNode(int64(i))
		}
		density := 0.3 + rng.Float64()*0.7
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < density {
					g.SetEdge(int64(i), int64(j), int64(rng.Intn(50000)))
				}
			}
		}

		want := bruteForce(g)
		pairs, err := MinWeightPerfectMatching(g)
		if want == -1 {
			assert.True(t, errors.Is(err, ErrNoPerfectMatching),
				"iter %d: expected infeasible, got %v", iter, pairs)
			continue
		}
		require.NoError(t, err, "iter %d", iter)
		assert.Equal(t, want, matchingWeight(t, g, pairs), "iter %d", iter)
	}
}

func TestGraphCloneAndConnectivity(t *testing.T) {
	g := NewGraph()
	g.SetEdge(0, 1, 3)
	g.SetEdge(1, 2, 4)
	g.SetEdge(2, 3, 5)
	require.True(t, g.IsConnected())

	c := g.Clone()
	c.RemoveEdge(1, 2)
	assert.False(t, c.IsConnected())
	assert.True(t, g.IsConnected())
	assert.True(t, g.HasEdge(2, 1))

	u := g.Uniform(1)
	for _, e := range u.Edges() {
		assert.EqualValues(t, 1, e.Weight)
	}
	assert.Equal(t, []int64{0, 1, 2, 3}, u.Nodes())
}
