/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package matching

import (
	"sort"

	"github.com/cockroachdb/errors"
)

var ErrNoPerfectMatching = errors.New("graph has no perfect matching")

// Oracle computes a minimum weight perfect matching of a graph.
type Oracle func(g *Graph) ([]Pair, error)

// MinWeightPerfectMatching returns a perfect matching of g with minimum total
// edge weight. Pairs are ordered by their lower node id and each pair lists
// the lower id first.
func MinWeightPerfectMatching(g *Graph) ([]Pair, error) {
	ids := g.Nodes()
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids)%2 != 0 {
		return nil, errors.Wrapf(ErrNoPerfectMatching, "odd node count %d",
			len(ids))
	}

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	edges := g.Edges()
	var maxW int64
	for _, e := range edges {
		if e.Weight > maxW {
			maxW = e.Weight
		}
	}
	// Among maximum cardinality matchings, the one maximising maxW+1-w is
	// the perfect matching minimising w.
	bEdges := make([]blossomEdge, 0, len(edges))
	for _, e := range edges {
		bEdges = append(bEdges, blossomEdge{
			i: index[e.U],
			j: index[e.V],
			w: maxW + 1 - e.Weight,
		})
	}

	mate := maxWeightMatching(len(ids), bEdges, true)

	pairs := make([]Pair, 0, len(ids)/2)
	for v, m := range mate {
		if m < 0 {
			return nil, errors.Wrapf(ErrNoPerfectMatching, "node %d unmatched",
				ids[v])
		}
		if v < m {
			pairs = append(pairs, Pair{ids[v], ids[m]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })

	return pairs, nil
}

type blossomEdge struct {
	i, j int
	w    int64
}

// blossomState is Edmonds' weighted matching algorithm in the primal-dual
// formulation of Galil, with integer duals. Vertices are 0..n-1; blossoms
// take ids n..2n-1. Endpoint p of edge k is endpoint[p]; p^1 is the other
// end of the same edge.
type blossomState struct {
	n        int
	edges    []blossomEdge
	endpoint []int
	neighb   [][]int

	mate             []int
	label            []int
	labelEnd         []int
	inBlossom        []int
	blossomParent    []int
	blossomChilds    [][]int
	blossomBase      []int
	blossomEndps     [][]int
	bestEdge         []int
	blossomBestEdges [][]int
	unusedBlossoms   []int
	dual             []int64
	allowEdge        []bool
	queue            []int
}

// maxWeightMatching returns mate, where mate[v] is the vertex matched to v or
// -1. With maxCardinality set only maximum cardinality matchings are
// considered.
func maxWeightMatching(n int, edges []blossomEdge,
	maxCardinality bool) []int {

	mate := make([]int, n)
	for i := range mate {
		mate[i] = -1
	}
	if len(edges) == 0 {
		return mate
	}

	s := newBlossomState(n, edges)
	s.solve(maxCardinality)

	for v := 0; v < n; v++ {
		if s.mate[v] >= 0 {
			mate[v] = s.endpoint[s.mate[v]]
		}
	}

	return mate
}

func newBlossomState(n int, edges []blossomEdge) *blossomState {
	var maxW int64
	for _, e := range edges {
		if e.w > maxW {
			maxW = e.w
		}
	}

	s := &blossomState{
		n:                n,
		edges:            edges,
		endpoint:         make([]int, 2*len(edges)),
		neighb:           make([][]int, n),
		mate:             filled(n, -1),
		label:            make([]int, 2*n),
		labelEnd:         filled(2*n, -1),
		inBlossom:        make([]int, n),
		blossomParent:    filled(2*n, -1),
		blossomChilds:    make([][]int, 2*n),
		blossomBase:      filled(2*n, -1),
		blossomEndps:     make([][]int, 2*n),
		bestEdge:         filled(2*n, -1),
		blossomBestEdges: make([][]int, 2*n),
		dual:             make([]int64, 2*n),
		allowEdge:        make([]bool, len(edges)),
	}
	for p := range s.endpoint {
		if p%2 == 0 {
			s.endpoint[p] = edges[p/2].i
		} else {
			s.endpoint[p] = edges[p/2].j
		}
	}
	for k, e := range edges {
		s.neighb[e.i] = append(s.neighb[e.i], 2*k+1)
		s.neighb[e.j] = append(s.neighb[e.j], 2*k)
	}
	for v := 0; v < n; v++ {
		s.inBlossom[v] = v
		s.blossomBase[v] = v
		s.dual[v] = maxW
	}
	for b := n; b < 2*n; b++ {
		s.unusedBlossoms = append(s.unusedBlossoms, b)
	}

	return s
}

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// wrap maps a possibly negative index onto a slice of length n.
func wrap(j, n int) int {
	return ((j % n) + n) % n
}

func indexOf(list []int, x int) int {
	for i, v := range list {
		if v == x {
			return i
		}
	}
	return -1
}

func (s *blossomState) slack(k int) int64 {
	e := s.edges[k]
	return s.dual[e.i] + s.dual[e.j] - 2*e.w
}

func (s *blossomState) leaves(b int) []int {
	if b < s.n {
		return []int{b}
	}
	var out []int
	for _, t := range s.blossomChilds[b] {
		if t < s.n {
			out = append(out, t)
		} else {
			out = append(out, s.leaves(t)...)
		}
	}
	return out
}

func (s *blossomState) assignLabel(w, t, p int) {
	b := s.inBlossom[w]
	s.label[w], s.label[b] = t, t
	s.labelEnd[w], s.labelEnd[b] = p, p
	s.bestEdge[w], s.bestEdge[b] = -1, -1
	if t == 1 {
		s.queue = append(s.queue, s.leaves(b)...)
	} else if t == 2 {
		base := s.blossomBase[b]
		s.assignLabel(s.endpoint[s.mate[base]], 1, s.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find either a new blossom base or
// an augmenting path. It returns the base or -1.
func (s *blossomState) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := s.inBlossom[v]
		if s.label[b]&4 != 0 {
			base = s.blossomBase[b]
			break
		}
		path = append(path, b)
		s.label[b] = 5
		if s.labelEnd[b] == -1 {
			v = -1
		} else {
			v = s.endpoint[s.labelEnd[b]]
			b = s.inBlossom[v]
			v = s.endpoint[s.labelEnd[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		s.label[b] = 1
	}

	return base
}

func (s *blossomState) addBlossom(base, k int) {
	v, w := s.edges[k].i, s.edges[k].j
	bb := s.inBlossom[base]
	bv := s.inBlossom[v]
	bw := s.inBlossom[w]

	b := s.unusedBlossoms[len(s.unusedBlossoms)-1]
	s.unusedBlossoms = s.unusedBlossoms[:len(s.unusedBlossoms)-1]

	s.blossomBase[b] = base
	s.blossomParent[b] = -1
	s.blossomParent[bb] = b

	var path, endps []int
	for bv != bb {
		s.blossomParent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelEnd[bv])
		v = s.endpoint[s.labelEnd[bv]]
		bv = s.inBlossom[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		s.blossomParent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelEnd[bw]^1)
		w = s.endpoint[s.labelEnd[bw]]
		bw = s.inBlossom[w]
	}
	s.blossomChilds[b] = path
	s.blossomEndps[b] = endps

	s.label[b] = 1
	s.labelEnd[b] = s.labelEnd[bb]
	s.dual[b] = 0
	for _, leaf := range s.leaves(b) {
		if s.label[s.inBlossom[leaf]] == 2 {
			s.queue = append(s.queue, leaf)
		}
		s.inBlossom[leaf] = b
	}

	bestEdgeTo := filled(2*s.n, -1)
	for _, sub := range path {
		var nbLists [][]int
		if s.blossomBestEdges[sub] == nil {
			for _, leaf := range s.leaves(sub) {
				list := make([]int, 0, len(s.neighb[leaf]))
				for _, p := range s.neighb[leaf] {
					list = append(list, p/2)
				}
				nbLists = append(nbLists, list)
			}
		} else {
			nbLists = [][]int{s.blossomBestEdges[sub]}
		}
		for _, nbList := range nbLists {
			for _, ek := range nbList {
				j := s.edges[ek].j
				if s.inBlossom[j] == b {
					j = s.edges[ek].i
				}
				bj := s.inBlossom[j]
				if bj != b && s.label[bj] == 1 &&
					(bestEdgeTo[bj] == -1 || s.slack(ek) < s.slack(bestEdgeTo[bj])) {
					bestEdgeTo[bj] = ek
				}
			}
		}
		s.blossomBestEdges[sub] = nil
		s.bestEdge[sub] = -1
	}

	best := []int{}
	for _, ek := range bestEdgeTo {
		if ek != -1 {
			best = append(best, ek)
		}
	}
	s.blossomBestEdges[b] = best
	s.bestEdge[b] = -1
	for _, ek := range best {
		if s.bestEdge[b] == -1 || s.slack(ek) < s.slack(s.bestEdge[b]) {
			s.bestEdge[b] = ek
		}
	}
}

func (s *blossomState) expandBlossom(b int, endStage bool) {
	for _, sub := range s.blossomChilds[b] {
		s.blossomParent[sub] = -1
		if sub < s.n {
			s.inBlossom[sub] = sub
		} else if endStage && s.dual[sub] == 0 {
			s.expandBlossom(sub, endStage)
		} else {
			for _, leaf := range s.leaves(sub) {
				s.inBlossom[leaf] = sub
			}
		}
	}

	if !endStage && s.label[b] == 2 {
		childs := s.blossomChilds[b]
		endps := s.blossomEndps[b]
		nc := len(childs)

		entryChild := s.inBlossom[s.endpoint[s.labelEnd[b]^1]]
		j := indexOf(childs, entryChild)
		var jstep, endpTrick int
		if j&1 != 0 {
			j -= nc
			jstep = 1
			endpTrick = 0
		} else {
			jstep = -1
			endpTrick = 1
		}

		p := s.labelEnd[b]
		for j != 0 {
			s.label[s.endpoint[p^1]] = 0
			s.label[s.endpoint[endps[wrap(j-endpTrick, nc)]^endpTrick^1]] = 0
			s.assignLabel(s.endpoint[p^1], 2, p)
			s.allowEdge[endps[wrap(j-endpTrick, nc)]/2] = true
			j += jstep
			p = endps[wrap(j-endpTrick, nc)] ^ endpTrick
			s.allowEdge[p/2] = true
			j += jstep
		}

		bv := childs[wrap(j, nc)]
		s.label[s.endpoint[p^1]], s.label[bv] = 2, 2
		s.labelEnd[s.endpoint[p^1]], s.labelEnd[bv] = p, p
		s.bestEdge[bv] = -1
		j += jstep
		for childs[wrap(j, nc)] != entryChild {
			bv = childs[wrap(j, nc)]
			if s.label[bv] == 1 {
				j += jstep
				continue
			}
			labelled := -1
			for _, leaf := range s.leaves(bv) {
				if s.label[leaf] != 0 {
					labelled = leaf
					break
				}
			}
			if labelled >= 0 {
				s.label[labelled] = 0
				s.label[s.endpoint[s.mate[s.blossomBase[bv]]]] = 0
				s.assignLabel(labelled, 2, s.labelEnd[labelled])
			}
			j += jstep
		}
	}

	s.label[b], s.labelEnd[b] = -1, -1
	s.blossomChilds[b], s.blossomEndps[b] = nil, nil
	s.blossomBase[b] = -1
	s.blossomBestEdges[b] = nil
	s.bestEdge[b] = -1
	s.unusedBlossoms = append(s.unusedBlossoms, b)
}

func (s *blossomState) augmentBlossom(b, v int) {
	t := v
	for s.blossomParent[t] != b {
		t = s.blossomParent[t]
	}
	if t >= s.n {
		s.augmentBlossom(t, v)
	}

	childs := s.blossomChilds[b]
	endps := s.blossomEndps[b]
	nc := len(childs)

	i := indexOf(childs, t)
	j := i
	var jstep, endpTrick int
	if i&1 != 0 {
		j -= nc
		jstep = 1
		endpTrick = 0
	} else {
		jstep = -1
		endpTrick = 1
	}
	for j != 0 {
		j += jstep
		t = childs[wrap(j, nc)]
		p := endps[wrap(j-endpTrick, nc)] ^ endpTrick
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p])
		}
		j += jstep
		t = childs[wrap(j, nc)]
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p^1])
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}

	s.blossomChilds[b] = rotate(childs, i)
	s.blossomEndps[b] = rotate(endps, i)
	s.blossomBase[b] = s.blossomBase[s.blossomChilds[b][0]]
}

func (s *blossomState) augmentMatching(k int) {
	v, w := s.edges[k].i, s.edges[k].j
	for _, start := range [][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		sv, p := start[0], start[1]
		for {
			bs := s.inBlossom[sv]
			if bs >= s.n {
				s.augmentBlossom(bs, sv)
			}
			s.mate[sv] = p
			if s.labelEnd[bs] == -1 {
				break
			}
			t := s.endpoint[s.labelEnd[bs]]
			bt := s.inBlossom[t]
			sv = s.endpoint[s.labelEnd[bt]]
			j := s.endpoint[s.labelEnd[bt]^1]
			if bt >= s.n {
				s.augmentBlossom(bt, j)
			}
			s.mate[j] = s.labelEnd[bt]
			p = s.labelEnd[bt] ^ 1
		}
	}
}

func (s *blossomState) solve(maxCardinality bool) {
	n := s.n
	for stage := 0; stage < n; stage++ {
		for i := range s.label {
			s.label[i] = 0
			s.bestEdge[i] = -1
		}
		for b := n; b < 2*n; b++ {
			s.blossomBestEdges[b] = nil
		}
		for k := range s.allowEdge {
			s.allowEdge[k] = false
		}
		s.queue = s.queue[:0]

		for v := 0; v < n; v++ {
			if s.mate[v] == -1 && s.label[s.inBlossom[v]] == 0 {
				s.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			for len(s.queue) > 0 && !augmented {
				v := s.queue[len(s.queue)-1]
				s.queue = s.queue[:len(s.queue)-1]

				for _, p := range s.neighb[v] {
					k := p / 2
					w := s.endpoint[p]
					if s.inBlossom[v] == s.inBlossom[w] {
						continue
					}
					var kslack int64
					if !s.allowEdge[k] {
						kslack = s.slack(k)
						if kslack <= 0 {
							s.allowEdge[k] = true
						}
					}
					if s.allowEdge[k] {
						if s.label[s.inBlossom[w]] == 0 {
							s.assignLabel(w, 2, p^1)
						} else if s.label[s.inBlossom[w]] == 1 {
							base := s.scanBlossom(v, w)
							if base >= 0 {
								s.addBlossom(base, k)
							} else {
								s.augmentMatching(k)
								augmented = true
								break
							}
						} else if s.label[w] == 0 {
							s.label[w] = 2
							s.labelEnd[w] = p ^ 1
						}
					} else if s.label[s.inBlossom[w]] == 1 {
						b := s.inBlossom[v]
						if s.bestEdge[b] == -1 || kslack < s.slack(s.bestEdge[b]) {
							s.bestEdge[b] = k
						}
					} else if s.label[w] == 0 {
						if s.bestEdge[w] == -1 || kslack < s.slack(s.bestEdge[w]) {
							s.bestEdge[w] = k
						}
					}
				}
			}
			if augmented {
				break
			}

			deltaType := -1
			var delta int64
			deltaEdge, deltaBlossom := -1, -1

			if !maxCardinality {
				deltaType = 1
				delta = minDual(s.dual[:n])
			}
			for v := 0; v < n; v++ {
				if s.label[s.inBlossom[v]] == 0 && s.bestEdge[v] != -1 {
					d := s.slack(s.bestEdge[v])
					if deltaType == -1 || d < delta {
						delta = d
						deltaType = 2
						deltaEdge = s.bestEdge[v]
					}
				}
			}
			for b := 0; b < 2*n; b++ {
				if s.blossomParent[b] == -1 && s.label[b] == 1 && s.bestEdge[b] != -1 {
					d := s.slack(s.bestEdge[b]) / 2
					if deltaType == -1 || d < delta {
						delta = d
						deltaType = 3
						deltaEdge = s.bestEdge[b]
					}
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossomBase[b] >= 0 && s.blossomParent[b] == -1 &&
					s.label[b] == 2 && (deltaType == -1 || s.dual[b] < delta) {
					delta = s.dual[b]
					deltaType = 4
					deltaBlossom = b
				}
			}
			if deltaType == -1 {
				// maximum cardinality reached
				deltaType = 1
				delta = max(0, minDual(s.dual[:n]))
			}

			for v := 0; v < n; v++ {
				switch s.label[s.inBlossom[v]] {
				case 1:
					s.dual[v] -= delta
				case 2:
					s.dual[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossomBase[b] >= 0 && s.blossomParent[b] == -1 {
					switch s.label[b] {
					case 1:
						s.dual[b] += delta
					case 2:
						s.dual[b] -= delta
					}
				}
			}

			if deltaType == 1 {
				break
			} else if deltaType == 2 {
				s.allowEdge[deltaEdge] = true
				i := s.edges[deltaEdge].i
				if s.label[s.inBlossom[i]] == 0 {
					i = s.edges[deltaEdge].j
				}
				s.queue = append(s.queue, i)
			} else if deltaType == 3 {
				s.allowEdge[deltaEdge] = true
				s.queue = append(s.queue, s.edges[deltaEdge].i)
			} else if deltaType == 4 {
				s.expandBlossom(deltaBlossom, false)
			}
		}

		if !augmented {
			break
		}

		for b := n; b < 2*n; b++ {
			if s.blossomParent[b] == -1 && s.blossomBase[b] >= 0 &&
				s.label[b] == 1 && s.dual[b] == 0 {
				s.expandBlossom(b, true)
			}
		}
	}
}

func minDual(d []int64) int64 {
	m := d[0]
	for _, v := range d[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func rotate(s []int, i int) []int {
	out := make([]int, 0, len(s))
	out = append(out, s[i:]...)
	return append(out, s[:i]...)
}
