/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"github.com/cockroachdb/errors"

	"github.com/mikeb26/ttswiss/score"
)

// GameMode is the number of sets needed to win a match.
type GameMode int

const (
	BestOfTwo   GameMode = 2
	BestOfThree GameMode = 3
)

func (m GameMode) Valid() bool {
	return m == BestOfTwo || m == BestOfThree
}

// RequiredSets is the number of sets a side must take to win.
func (m GameMode) RequiredSets() int {
	return int(m)
}

// Slots is the maximum number of sets a match can last.
func (m GameMode) Slots() int {
	return 2*int(m) - 1
}

func (m GameMode) String() string {
	switch m {
	case BestOfTwo:
		return "best of 3 sets (2 to win)"
	case BestOfThree:
		return "best of 5 sets (3 to win)"
	}
	return "unknown"
}

// Match is one contest between two players within a round. The set results
// are the only mutable part.
type Match struct {
	Round          int
	Mode           GameMode
	FirstPlayerID  int
	SecondPlayerID int
	FirstName      string
	SecondName     string
	SetResults     []*score.Score
	// StartOffset is the handicap margin of the first player over the
	// second. It is not a set.
	StartOffset int
	Bye         bool
}

func newMatch(round int, mode GameMode, first, second *TournamentPlayer,
	startOffset int) *Match {

	return &Match{
		Round:          round,
		Mode:           mode,
		FirstPlayerID:  first.ID,
		SecondPlayerID: second.ID,
		FirstName:      first.DisplayName,
		SecondName:     second.DisplayName,
		SetResults:     make([]*score.Score, mode.Slots()),
		StartOffset:    startOffset,
		Bye:            first.IsBye() || second.IsBye(),
	}
}

// SetsWon counts the sets taken by the first player.
func (m *Match) SetsWon() int {
	won := 0
	for _, res := range m.SetResults {
		if res != nil && res.FirstWon() {
			won++
		}
	}
	return won
}

// SetsLost counts the sets taken by the second player.
func (m *Match) SetsLost() int {
	lost := 0
	for _, res := range m.SetResults {
		if res != nil && !res.FirstWon() {
			lost++
		}
	}
	return lost
}

func (m *Match) IsFinished() bool {
	req := m.Mode.RequiredSets()
	return m.SetsWon() == req || m.SetsLost() == req
}

// Winner returns the winner and loser ids of a finished match.
func (m *Match) Winner() (winner int, loser int, ok bool) {
	if !m.IsFinished() {
		return 0, 0, false
	}
	if m.SetsWon() > m.SetsLost() {
		return m.FirstPlayerID, m.SecondPlayerID, true
	}
	return m.SecondPlayerID, m.FirstPlayerID, true
}

func (m *Match) Involves(id int) bool {
	return m.FirstPlayerID == id || m.SecondPlayerID == id
}

// UpdateSetResult stores res in the given slot; a nil res clears it. No
// standings are recomputed.
func (m *Match) UpdateSetResult(slot int, res *score.Score) error {
	if slot < 0 || slot >= len(m.SetResults) {
		return errors.Wrapf(ErrInvalidSlot, "slot %d of %d", slot,
			len(m.SetResults))
	}
	if res == nil {
		m.SetResults[slot] = nil
		return nil
	}
	v := *res
	m.SetResults[slot] = &v

	return nil
}

// autoComplete fills empty slots with res until the match is decided.
func (m *Match) autoComplete(res score.Score) {
	for slot := 0; slot < len(m.SetResults) && !m.IsFinished(); slot++ {
		if m.SetResults[slot] == nil {
			v := res
			m.SetResults[slot] = &v
		}
	}
}
