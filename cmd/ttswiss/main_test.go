/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gregjones/httpcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/internal/config"
	"github.com/mikeb26/ttswiss/score"
	"github.com/mikeb26/ttswiss/store"
	"github.com/mikeb26/ttswiss/swiss"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	cache := httpcache.NewMemoryCache()
	out := &bytes.Buffer{}
	return &app{
		cfg:    &config.Config{GameMode: 2, StoreDir: t.TempDir()},
		logger: zap.NewNop(),
		snaps:  store.NewSnapshots(cache, zap.NewNop()),
		cache:  cache,
		out:    out,
	}, out
}

func writeRoster(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "players.json")
	data := `[
  {"name": "Anna Alt", "ttr": 1500},
  {"name": "Bernd Bach", "ttr": 1400},
  {"name": "Carla Conrad", "ttr": 1600},
  {"name": "Dora Dietz", "ttr": 1300},
  {"name": "Emil Ernst", "ttr": 1200}
]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func run(t *testing.T, a *app, out *bytes.Buffer, cmd string,
	args ...string) string {

	t.Helper()
	out.Reset()
	require.NoError(t, commands[cmd](context.Background(), a, args), cmd)
	return out.String()
}

func TestTournamentFlow(t *testing.T) {
	a, out := newTestApp(t)

	got := run(t, a, out, "new", "--roster", writeRoster(t), "--date",
		"2025-05-02", "--seed", "3", "--players",
		"Anna Alt,Bernd Bach,Carla Conrad")
	assert.Contains(t, got, "Created tournament/2025-05-02 with 3 players")
	assert.Contains(t, got, "Recommended rounds: 2 to 2")

	got = run(t, a, out, "next")
	assert.Contains(t, got, "Round 1 of 3 pairings")
	assert.Contains(t, got, "BYE")

	rec, err := a.snaps.Latest()
	require.NoError(t, err)
	tour, err := swiss.Restore(rec)
	require.NoError(t, err)
	matchNum := 0
	for idx, m := range tour.RunningMatches() {
		if !m.Bye {
			matchNum = idx + 1
		}
	}
	require.NotZero(t, matchNum)

	// round 1 is still open
	err = commands["next"](context.Background(), a, nil)
	assert.True(t, errors.Is(err, swiss.ErrRoundInProgress))

	run(t, a, out, "result", "--match", strconv.Itoa(matchNum), "--set", "1",
		"--score", "11:4")
	got = run(t, a, out, "result", "--match", strconv.Itoa(matchNum), "--set", "2",
		"--score", "-0")
	assert.Contains(t, got, "1 : 1 in sets")
	got = run(t, a, out, "result", "--match", strconv.Itoa(matchNum), "--set", "3",
		"--score", "13:11")
	assert.Contains(t, got, "Round 1 is complete.")

	got = run(t, a, out, "standings")
	assert.Contains(t, got, "Standings after Round 1")
	got = run(t, a, out, "stats", "--date", "May 2, 2025")
	assert.Contains(t, got, "Avg+")
	got = run(t, a, out, "history")
	assert.Contains(t, got, "0 : 11")
	assert.Contains(t, got, "13 : 11")

	// a bye field of 3 plays every round without rematches
	for round := 2; round <= 3; round++ {
		got = run(t, a, out, "next")
		assert.Contains(t, got, "Round "+strconv.Itoa(round)+" of 3 pairings")
		finishOpenMatches(t, a, out)
	}
	err = commands["next"](context.Background(), a, nil)
	assert.True(t, errors.Is(err, swiss.ErrTooManyRounds))

	got = run(t, a, out, "list")
	assert.Contains(t, got, "2025-05-02")

	got = run(t, a, out, "delete", "--date", "2025-05-02")
	assert.Equal(t, "Deleted tournament 2025-05-02.\n", got)
	got = run(t, a, out, "list")
	assert.Equal(t, "No tournaments saved yet.\n", got)
	err = commands["delete"](context.Background(), a,
		[]string{"--date", "2025-05-02"})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

// finishOpenMatches lets the first player win every open match of the
// latest tournament.
func finishOpenMatches(t *testing.T, a *app, out *bytes.Buffer) {
	t.Helper()
	rec, err := a.snaps.Latest()
	require.NoError(t, err)
	tour, err := swiss.Restore(rec)
	require.NoError(t, err)
	for idx, m := range tour.RunningMatches() {
		for set := 1; !m.IsFinished(); set++ {
			run(t, a, out, "result", "--match", strconv.Itoa(idx+1), "--set",
				strconv.Itoa(set), "--score", "5")
			require.NoError(t, m.UpdateSetResult(set-1, scorePtr(5)))
		}
	}
}

func scorePtr(s score.Score) *score.Score {
	return &s
}

func TestResultRejectsBadScore(t *testing.T) {
	a, _ := newTestApp(t)
	err := commands["result"](context.Background(), a,
		[]string{"--match", "1", "--set", "1", "--score", "11:10"})
	assert.True(t, errors.Is(err, score.ErrInvalidScore))
}

func TestNewRequiresOneSource(t *testing.T) {
	a, _ := newTestApp(t)
	err := commands["new"](context.Background(), a, nil)
	assert.Error(t, err)
}

func TestRoundsAndHelp(t *testing.T) {
	a, out := newTestApp(t)
	got := run(t, a, out, "rounds", "--players", "9")
	assert.Equal(t, "9 players: play 4 to 6 rounds (at most 9 possible).\n", got)

	got = run(t, a, out, "help")
	assert.True(t, strings.HasPrefix(got, "ttswiss"))
}
