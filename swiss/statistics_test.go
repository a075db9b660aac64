/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/ttswiss/score"
)

func TestGetPlayerStatistics(t *testing.T) {
	entries := []Entry{
		{Name: "Anna Alt", TTR: 1500},
		{Name: "Bernd Bach", TTR: 1400},
		{Name: "Carla Conrad", TTR: 1300},
	}
	tour, err := New(Settings{GameMode: BestOfTwo}, entries,
		WithRand(rand.New(rand.NewSource(4))))
	require.NoError(t, err)
	byeID, _ := tour.ByeID()

	matches, err := tour.GenerateNextRound()
	require.NoError(t, err)

	var played, bye *Match
	for _, m := range matches {
		if m.Bye {
			bye = m
		} else {
			played = m
		}
	}
	require.NotNil(t, played)
	require.NotNil(t, bye)

	for slot, text := range []string{"11:5", "9:11", "12:10"} {
		res, err := score.Decode(text)
		require.NoError(t, err)
		require.NoError(t, played.UpdateSetResult(slot, &res))
	}
	require.True(t, played.IsFinished())

	stats := tour.GetPlayerStatistics()
	require.Len(t, stats, 3)
	_, ok := stats[byeID]
	assert.False(t, ok)

	first := stats[played.FirstPlayerID]
	assert.Equal(t, PlayerStatistics{
		PlayerID:   played.FirstPlayerID,
		SetsWon:    2,
		SetsLost:   1,
		PointsWon:  32,
		PointsLost: 26,
		DiffWon:    8,
		DiffLost:   2,
	}, first)
	avg, ok := first.AvgDiffWon()
	require.True(t, ok)
	assert.InDelta(t, 4.0, avg, 0.001)

	second := stats[played.SecondPlayerID]
	assert.Equal(t, 1, second.SetsWon)
	assert.Equal(t, 2, second.SetsLost)
	assert.Equal(t, 26, second.PointsWon)
	assert.Equal(t, 32, second.PointsLost)
	assert.Equal(t, 2, second.DiffWon)
	assert.Equal(t, 8, second.DiffLost)

	withBye := stats[bye.FirstPlayerID]
	assert.True(t, withBye.HasPlayedBye)
	assert.Equal(t, 2, withBye.SetsWon)
	assert.Equal(t, 2, withBye.ByeSets)
	assert.Equal(t, 22, withBye.PointsWon)
	assert.Equal(t, 0, withBye.DiffWon)
	_, ok = withBye.AvgDiffWon()
	assert.False(t, ok)
	_, ok = withBye.AvgDiffLost()
	assert.False(t, ok)
}

func TestStatisticsStopAtFirstEmptySlot(t *testing.T) {
	tour, err := New(Settings{GameMode: BestOfThree}, testEntries(2))
	require.NoError(t, err)
	matches, err := tour.GenerateNextRound()
	require.NoError(t, err)
	m := matches[0]

	require.NoError(t, m.UpdateSetResult(0, scorePtr(3)))
	require.NoError(t, m.UpdateSetResult(2, scorePtr(4)))

	stats := tour.GetPlayerStatistics()
	assert.Equal(t, 1, stats[m.FirstPlayerID].SetsWon)
	assert.Equal(t, 1, stats[m.SecondPlayerID].SetsLost)
}
