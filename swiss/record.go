/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"github.com/cockroachdb/errors"

	"github.com/mikeb26/ttswiss/score"
)

// Record is the serialisable form of a tournament. Set results are kept in
// their "A : B" text form; an empty string is an empty slot.
type Record struct {
	Settings Settings        `json:"settings"`
	Roster   []Entry         `json:"roster"`
	Rounds   [][]MatchRecord `json:"rounds"`
}

type MatchRecord struct {
	First       int      `json:"first"`
	Second      int      `json:"second"`
	StartOffset int      `json:"startOffset,omitempty"`
	Sets        []string `json:"sets"`
}

// Export snapshots the tournament.
func (t *Tournament) Export() Record {
	rec := Record{
		Settings: t.settings,
		Roster:   append([]Entry(nil), t.entries...),
	}
	for _, round := range t.rounds {
		var mrs []MatchRecord
		for _, m := range round {
			mr := MatchRecord{
				First:       m.FirstPlayerID,
				Second:      m.SecondPlayerID,
				StartOffset: m.StartOffset,
				Sets:        make([]string, len(m.SetResults)),
			}
			for i, res := range m.SetResults {
				if res != nil {
					mr.Sets[i] = res.String()
				}
			}
			mrs = append(mrs, mr)
		}
		rec.Rounds = append(rec.Rounds, mrs)
	}

	return rec
}

// Restore rebuilds a tournament from a Record.
func Restore(rec Record, opts ...Option) (*Tournament, error) {
	t, err := New(rec.Settings, rec.Roster, opts...)
	if err != nil {
		return nil, err
	}

	for rIdx, mrs := range rec.Rounds {
		round := rIdx + 1
		matches := make([]*Match, 0, len(mrs))
		for mIdx, mr := range mrs {
			first, okFirst := t.Player(mr.First)
			second, okSecond := t.Player(mr.Second)
			if !okFirst || !okSecond || mr.First == mr.Second {
				return nil, errors.Wrapf(ErrInvalidMatch,
					"round %d match %d: players %d vs %d", round, mIdx,
					mr.First, mr.Second)
			}
			if len(mr.Sets) > rec.Settings.GameMode.Slots() {
				return nil, errors.Wrapf(ErrInvalidSlot,
					"round %d match %d: %d sets", round, mIdx, len(mr.Sets))
			}

			m := newMatch(round, rec.Settings.GameMode, first, second,
				mr.StartOffset)
			for slot, text := range mr.Sets {
				if text == "" {
					continue
				}
				res, err := score.Decode(text)
				if err != nil {
					return nil, errors.Wrapf(err, "round %d match %d slot %d",
						round, mIdx, slot)
				}
				m.SetResults[slot] = &res
			}
			if m.Bye {
				t.markBye(m)
			}
			matches = append(matches, m)
		}
		t.rounds = append(t.rounds, matches)
	}
	t.rebuildResults()

	return t, nil
}

func (t *Tournament) markBye(m *Match) {
	p := t.players[m.FirstPlayerID]
	if p.IsBye() {
		p = t.players[m.SecondPlayerID]
	}
	p.HadByeInRound = m.Round
}
