/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import "github.com/mikeb26/ttswiss/score"

// PlayerStatistics aggregates the set results of one player.
type PlayerStatistics struct {
	PlayerID     int
	SetsWon      int
	SetsLost     int
	PointsWon    int
	PointsLost   int
	// DiffWon and DiffLost accumulate the point margin of won and lost sets;
	// sets against the bye contribute nothing.
	DiffWon      int
	DiffLost     int
	// ByeSets is the number of sets won against the bye.
	ByeSets      int
	HasPlayedBye bool
}

// AvgDiffWon is the mean margin of the sets won outside of byes.
func (s PlayerStatistics) AvgDiffWon() (float64, bool) {
	n := s.SetsWon - s.ByeSets
	if n <= 0 {
		return 0, false
	}
	return float64(s.DiffWon) / float64(n), true
}

// AvgDiffLost is the mean margin of the sets lost.
func (s PlayerStatistics) AvgDiffLost() (float64, bool) {
	if s.SetsLost <= 0 {
		return 0, false
	}
	return float64(s.DiffLost) / float64(s.SetsLost), true
}

// setMargin is the point difference of a single set.
func setMargin(res score.Score) int {
	if res.LoserPoints() <= score.PointsToWin-2 {
		return score.PointsToWin - res.LoserPoints()
	}
	return 2
}

// GetPlayerStatistics returns the statistics of every real player keyed by
// id. Sets are read in order up to the first empty slot.
func (t *Tournament) GetPlayerStatistics() map[int]PlayerStatistics {
	stats := make(map[int]*PlayerStatistics, len(t.players))
	for _, p := range t.players {
		stats[p.ID] = &PlayerStatistics{PlayerID: p.ID}
	}

	for _, m := range t.AllMatches() {
		first, second := stats[m.FirstPlayerID], stats[m.SecondPlayerID]
		for _, res := range m.SetResults {
			if res == nil {
				break
			}
			winPts, losePts := res.WinnerPoints(), res.LoserPoints()
			margin := setMargin(*res)
			if m.Bye {
				first.HasPlayedBye = true
				if res.FirstWon() {
					first.ByeSets++
				}
				margin = 0
			}

			winner, loser := first, second
			if !res.FirstWon() {
				winner, loser = second, first
			}
			winner.SetsWon++
			winner.PointsWon += winPts
			winner.PointsLost += losePts
			winner.DiffWon += margin
			loser.SetsLost++
			loser.PointsWon += losePts
			loser.PointsLost += winPts
			loser.DiffLost += margin
		}
	}

	out := make(map[int]PlayerStatistics, len(stats))
	for id, s := range stats {
		if id == t.byeID {
			continue
		}
		out[id] = *s
	}

	return out
}
