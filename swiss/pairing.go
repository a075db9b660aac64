/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/matching"
	"github.com/mikeb26/ttswiss/score"
)

const (
	maxPairingAttempts = 3

	winDiffWeight     = 10000
	handicapWeight    = 1000
	maxRatingDiff     = 1000
	uniformEdgeWeight = 1

	maxByeLoserPoints = score.PointsToWin - 2
)

// GenerateNextRound pairs the next round and makes it the current round. On
// any error the tournament is left unchanged; ErrNoPairing may succeed on a
// later attempt.
func (t *Tournament) GenerateNextRound() ([]*Match, error) {
	for idx, m := range t.RunningMatches() {
		if !m.IsFinished() {
			return nil, errors.Wrapf(ErrRoundInProgress, "round %d match %d",
				t.CurrentRound(), idx)
		}
	}
	if t.CurrentRound() >= t.MaxRounds() {
		return nil, errors.Wrapf(ErrTooManyRounds, "%d rounds played",
			t.CurrentRound())
	}

	var pairs []matching.Pair
	if t.CurrentRound() == 0 {
		pairs = t.seedFirstRound()
	} else {
		t.rebuildResults()
		var err error
		pairs, err = t.pairNextRound()
		if err != nil {
			t.logger.Warn("swiss.GenerateNextRound: pairing failed",
				zap.Int("round", t.CurrentRound()+1), zap.Error(err))
			return nil, err
		}
	}

	round := t.CurrentRound() + 1
	matches := make([]*Match, 0, len(pairs))
	for _, p := range pairs {
		first, second := t.normalizePair(p)
		matches = append(matches, t.createMatch(round, first, second))
	}
	t.rounds = append(t.rounds, matches)

	t.logger.Info("swiss.GenerateNextRound: round generated",
		zap.Int("round", round), zap.Int("matches", len(matches)))

	return matches, nil
}

// seedFirstRound pairs each player of the higher rated half with a random
// player of the lower rated half.
func (t *Tournament) seedFirstRound() []matching.Pair {
	sorted := append([]*TournamentPlayer(nil), t.players...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TTR > sorted[j].TTR
	})

	half := len(sorted) / 2
	seated := sorted[:half]
	pool := append([]*TournamentPlayer(nil), sorted[half:]...)

	pairs := make([]matching.Pair, 0, half)
	for _, p := range seated {
		idx := t.rng.Intn(len(pool))
		opp := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		pairs = append(pairs, matching.Pair{int64(p.ID), int64(opp.ID)})
	}

	return pairs
}

// pairNextRound solves the pairing graph. When two or three rounds remain
// after this one it also checks that the opponents still unplayed form a
// connected graph, retrying with uniform weights and then with one edge of
// the rejected matching removed.
func (t *Tournament) pairNextRound() ([]matching.Pair, error) {
	original := t.buildPairingGraph()
	g := original.Clone()

	// rounds left once the round being paired is played
	remaining := t.MaxRounds() - t.CurrentRound() - 1
	lookahead := remaining > 1 && remaining <= 3

	var pairs []matching.Pair
	for attempt := 1; attempt <= maxPairingAttempts; attempt++ {
		var err error
		pairs, err = t.oracle(g)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "attempt %d", attempt),
				ErrNoPairing)
		}
		if len(pairs) != len(t.players)/2 {
			return nil, errors.Wrapf(ErrNoPairing, "attempt %d: %d pairs for %d players",
				attempt, len(pairs), len(t.players))
		}
		if !lookahead || leavesConnected(original, pairs) {
			return pairs, nil
		}

		t.logger.Debug("swiss.pairNextRound: remaining opponents would be disconnected",
			zap.Int("attempt", attempt), zap.Int("remaining", remaining))

		if attempt == 1 {
			g = original.Uniform(uniformEdgeWeight)
		} else {
			drop := pairs[t.rng.Intn(len(pairs))]
			g.RemoveEdge(drop[0], drop[1])
		}
	}

	if t.lookaheadFallback {
		t.logger.Warn("swiss.pairNextRound: accepting last candidate",
			zap.Int("round", t.CurrentRound()+1))
		return pairs, nil
	}

	return nil, errors.Wrapf(ErrNoPairing,
		"remaining opponents disconnected after %d attempts", maxPairingAttempts)
}

// leavesConnected reports whether g stays connected once the pairs are
// played.
func leavesConnected(g *matching.Graph, pairs []matching.Pair) bool {
	next := g.Clone()
	for _, p := range pairs {
		next.RemoveEdge(p[0], p[1])
	}
	return next.IsConnected()
}

// buildPairingGraph connects every pair of players that have not met yet.
func (t *Tournament) buildPairingGraph() *matching.Graph {
	g := matching.NewGraph()
	for _, p := range t.players {
		g.AddNode(int64(p.ID))
	}
	for i, a := range t.players {
		for _, b := range t.players[i+1:] {
			if a.HasPlayedAgainst(b.ID) {
				continue
			}
			g.SetEdge(int64(a.ID), int64(b.ID), t.edgeWeight(a, b))
		}
	}

	return g
}

func (t *Tournament) edgeWeight(a, b *TournamentPlayer) int64 {
	diffWins := int64(abs(a.WinCount() - b.WinCount()))

	var tiebreak int64
	if t.settings.WithHandicaps {
		tiebreak = int64(abs(a.Handicap-b.Handicap)) * handicapWeight
	} else {
		tiebreak = int64(min(abs(a.TTR-b.TTR), maxRatingDiff))
	}

	return diffWins*diffWins*winDiffWeight + tiebreak
}

// normalizePair lists the lower id first, except that the bye player is
// always second.
func (t *Tournament) normalizePair(p matching.Pair) (*TournamentPlayer,
	*TournamentPlayer) {

	first, second := t.players[p[0]], t.players[p[1]]
	if first.ID > second.ID {
		first, second = second, first
	}
	if first.IsBye() {
		first, second = second, first
	}

	return first, second
}

func (t *Tournament) createMatch(round int, first,
	second *TournamentPlayer) *Match {

	offset := 0
	if t.settings.WithHandicaps {
		offset = clampOffset(first.Handicap - second.Handicap)
	}
	m := newMatch(round, t.settings.GameMode, first, second, offset)

	if second.IsBye() {
		t.markBye(m)
		// the real player always takes the bye in straight sets; the
		// handicap only shapes the losing score
		m.autoComplete(score.New(min(abs(offset), maxByeLoserPoints), true))
	}

	return m
}

func clampOffset(v int) int {
	return max(-score.MaxEntry, min(score.MaxEntry, v))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
