/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/ttswiss/score"
)

func TestExportRestoreRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tour, err := New(Settings{GameMode: BestOfTwo}, testEntries(5),
		WithRand(rng))
	require.NoError(t, err)

	for r := 0; r < 2; r++ {
		_, err = tour.GenerateNextRound()
		require.NoError(t, err)
		finishRound(t, tour, rng)
	}
	_, err = tour.GenerateNextRound()
	require.NoError(t, err)
	// leave the third round partially played
	require.NoError(t, tour.UpdateSetResult(0, 0, scorePtr(score.New(7, true))))

	raw, err := json.Marshal(tour.Export())
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	restored, err := Restore(rec)
	require.NoError(t, err)

	assert.Equal(t, tour.CurrentRound(), restored.CurrentRound())
	assert.Equal(t, rankingIDs(tour.GetRanking()),
		rankingIDs(restored.GetRanking()))
	assert.Equal(t, tour.Export(), restored.Export())

	for _, p := range tour.Players() {
		q, ok := restored.Player(p.ID)
		require.True(t, ok)
		assert.Equal(t, p.HadByeInRound, q.HadByeInRound, "player %d", p.ID)
	}
	assert.False(t, restored.RunningMatches()[0].IsFinished())
}

func TestRestoreRejectsBadRecords(t *testing.T) {
	base := func() Record {
		return Record{
			Settings: Settings{GameMode: BestOfTwo},
			Roster:   testEntries(2),
			Rounds: [][]MatchRecord{{
				{First: 0, Second: 1, Sets: []string{"11 : 3", "", ""}},
			}},
		}
	}

	rec := base()
	rec.Rounds[0][0].Sets[1] = "11 : 10"
	_, err := Restore(rec)
	assert.True(t, errors.Is(err, score.ErrInvalidScore))

	rec = base()
	rec.Rounds[0][0].Second = 7
	_, err = Restore(rec)
	assert.True(t, errors.Is(err, ErrInvalidMatch))

	rec = base()
	rec.Rounds[0][0].Sets = []string{"", "", "", ""}
	_, err = Restore(rec)
	assert.True(t, errors.Is(err, ErrInvalidSlot))

	rec = base()
	rec.Settings.GameMode = 0
	_, err = Restore(rec)
	assert.True(t, errors.Is(err, ErrInvalidSettings))
}
