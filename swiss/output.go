/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"
)

// BuildPairingsOutput formats the current round into an aligned table.
func BuildPairingsOutput(t *Tournament) string {
	var sb strings.Builder

	running := t.RunningMatches()
	if len(running) == 0 {
		sb.WriteString("No pairings yet; generate the first round to start.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Round %v of %v pairings (%v):\n\n",
		t.CurrentRound(), t.MaxRounds(), t.settings.GameMode))

	headers := []string{"Table", "Player", "Opponent", "Sets"}
	if t.settings.WithHandicaps {
		headers = append(headers, "Offset")
	}
	var rows [][]string
	for idx, m := range running {
		opp := m.SecondName
		if m.Bye {
			opp = "BYE"
		}
		row := []string{
			fmt.Sprintf("%d.", idx+1),
			m.FirstName,
			opp,
			setsSummary(m),
		}
		if t.settings.WithHandicaps {
			row = append(row, fmt.Sprintf("%+d", m.StartOffset))
		}
		rows = append(rows, row)
	}
	writeTable(&sb, headers, rows)

	return sb.String()
}

// BuildStandingsOutput formats the current ranking.
func BuildStandingsOutput(t *Tournament) string {
	var sb strings.Builder
	if t.CurrentRound() == 0 {
		return "Cannot determine standings before the first round"
	}

	ranking := t.GetRanking()
	sb.WriteString(fmt.Sprintf("Standings after Round %v:\n\n",
		t.CurrentRound()))

	var rows [][]string
	for idx, p := range ranking {
		rows = append(rows, []string{
			fmt.Sprintf("%v.", idx+1),
			p.DisplayName,
			fmt.Sprintf("%v", p.WinCount()),
			fmt.Sprintf("%v", p.LossCount()),
			fmt.Sprintf("%v", p.Buchholz),
			fmt.Sprintf("%v", p.TTR),
		})
	}
	writeTable(&sb, []string{"Place", "Name", "Won", "Lost", "BHZ", "TTR"},
		rows)

	return sb.String()
}

// BuildStatisticsOutput formats per player set and point statistics in
// ranking order.
func BuildStatisticsOutput(t *Tournament) string {
	var sb strings.Builder
	if t.CurrentRound() == 0 {
		return "No statistics before the first round"
	}

	ranking := t.GetRanking()
	stats := t.GetPlayerStatistics()

	var rows [][]string
	for idx, p := range ranking {
		s := stats[p.ID]
		avgWon, avgLost := "-", "-"
		if v, ok := s.AvgDiffWon(); ok {
			avgWon = fmt.Sprintf("%.1f", v)
		}
		if v, ok := s.AvgDiffLost(); ok {
			avgLost = fmt.Sprintf("%.1f", v)
		}
		name := p.DisplayName
		if s.HasPlayedBye {
			name += "*"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%v.", idx+1),
			name,
			fmt.Sprintf("%v : %v", s.SetsWon, s.SetsLost),
			fmt.Sprintf("%v : %v", s.PointsWon, s.PointsLost),
			fmt.Sprintf("%v", p.Buchholz),
			avgWon,
			avgLost,
		})
	}
	writeTable(&sb, []string{"Place", "Name", "Sets", "Points", "BHZ",
		"Avg+", "Avg-"}, rows)
	sb.WriteString("\n* had a bye\n")

	return sb.String()
}

// BuildHistoryOutput lists every round with its set scores.
func BuildHistoryOutput(t *Tournament) string {
	var sb strings.Builder
	if t.CurrentRound() == 0 {
		return "No rounds played yet"
	}

	for idx, round := range t.Rounds() {
		sb.WriteString(fmt.Sprintf("Round %v\n", idx+1))
		var rows [][]string
		for _, m := range round {
			opp := m.SecondName
			if m.Bye {
				opp = "BYE"
			}
			var sets []string
			for _, res := range m.SetResults {
				if res == nil {
					break
				}
				sets = append(sets, res.String())
			}
			rows = append(rows, []string{m.FirstName, opp, setsSummary(m),
				strings.Join(sets, ", ")})
		}
		writeTable(&sb, []string{"Player", "Opponent", "Sets", "Scores"}, rows)
		sb.WriteString("\n")
	}

	return sb.String()
}

func setsSummary(m *Match) string {
	if m.SetsWon() == 0 && m.SetsLost() == 0 {
		return "-"
	}
	s := fmt.Sprintf("%v : %v", m.SetsWon(), m.SetsLost())
	if !m.IsFinished() {
		s += " (running)"
	}
	return s
}

func writeTable(sb *strings.Builder, headers []string, rows [][]string) {
	// Compute column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if l := len([]rune(cell)); l > widths[i] {
				widths[i] = l
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			pad := widths[i] - len([]rune(cell))
			sb.WriteString(cell)
			if i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", pad))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for _, r := range rows {
		writeRow(r)
	}
}
