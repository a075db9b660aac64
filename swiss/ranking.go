/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "sort"

// rebuildResults recomputes every player's wins and losses from the match
// history.
func (t *Tournament) rebuildResults() {
	for _, p := range t.players {
		p.resetResults()
	}
	for _, m := range t.AllMatches() {
		winner, loser, ok := m.Winner()
		if !ok {
			continue
		}
		t.players[winner].Wins[loser] = struct{}{}
		t.players[loser].Losses[winner] = struct{}{}
	}
}

// updateBuchholz sums, per player, the win counts of every beaten opponent.
// A win over the bye counts as the lowest win count among real players.
func (t *Tournament) updateBuchholz() {
	minWins := -1
	for _, p := range t.players {
		if p.IsBye() {
			continue
		}
		if minWins == -1 || p.WinCount() < minWins {
			minWins = p.WinCount()
		}
	}

	for _, p := range t.players {
		p.Buchholz = 0
		for loserID := range p.Wins {
			loser := t.players[loserID]
			if loser.IsBye() {
				p.Buchholz += minWins
			} else {
				p.Buchholz += loser.WinCount()
			}
		}
	}
}

// GetRanking returns the real players best first. Ties on wins are broken by
// Buchholz, then by the direct encounter and finally in favour of the lower
// rating.
func (t *Tournament) GetRanking() []*TournamentPlayer {
	t.rebuildResults()
	t.updateBuchholz()

	ranking := make([]*TournamentPlayer, 0, len(t.players))
	for _, p := range t.players {
		if !p.IsBye() {
			ranking = append(ranking, p)
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranksAbove(ranking[i], ranking[j])
	})

	return ranking
}

func ranksAbove(a, b *TournamentPlayer) bool {
	if a.WinCount() != b.WinCount() {
		return a.WinCount() > b.WinCount()
	}
	if a.Buchholz != b.Buchholz {
		return a.Buchholz > b.Buchholz
	}
	if a.HasPlayedAgainst(b.ID) {
		return a.HasWonAgainst(b.ID)
	}
	// lower rated players are rewarded for equal results
	return a.TTR < b.TTR
}
