/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package swiss runs a Swiss-system table tennis tournament: it seeds and
// pairs rounds, tracks set results and computes the live ranking.
package swiss

import (
	"math"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/matching"
	"github.com/mikeb26/ttswiss/score"
)

// Settings are fixed for the lifetime of a tournament.
type Settings struct {
	GameMode      GameMode  `json:"gameMode"`
	WithHandicaps bool      `json:"withHandicaps"`
	UseNicknames  bool      `json:"useNicknames"`
	Date          time.Time `json:"date"`
}

// Tournament owns the roster and the match history. It is not safe for
// concurrent use.
type Tournament struct {
	settings Settings
	entries  []Entry
	players  []*TournamentPlayer
	byeID    int
	rounds   [][]*Match

	rng               *rand.Rand
	logger            *zap.Logger
	oracle            matching.Oracle
	lookaheadFallback bool
}

type Option func(*Tournament)

// WithRand sets the random source used for first round seeding.
func WithRand(rng *rand.Rand) Option {
	return func(t *Tournament) { t.rng = rng }
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tournament) { t.logger = logger }
}

// WithOracle replaces the minimum weight perfect matching solver.
func WithOracle(oracle matching.Oracle) Option {
	return func(t *Tournament) { t.oracle = oracle }
}

// WithLookaheadFallback accepts the last complete candidate pairing when
// every lookahead attempt leaves the remaining opponents disconnected,
// instead of failing with ErrNoPairing. Small fields need this to reach
// their final rounds.
func WithLookaheadFallback() Option {
	return func(t *Tournament) { t.lookaheadFallback = true }
}

// New creates a tournament for the given roster. Players get ids in roster
// order; an odd roster gets the bye player appended with id len(entries).
func New(settings Settings, entries []Entry, opts ...Option) (*Tournament, error) {
	if !settings.GameMode.Valid() {
		return nil, errors.Wrapf(ErrInvalidSettings, "game mode %d",
			settings.GameMode)
	}
	if len(entries) < 2 {
		return nil, errors.Wrapf(ErrInvalidRoster, "need at least 2 players, got %d",
			len(entries))
	}

	t := &Tournament{
		settings: settings,
		entries:  append([]Entry(nil), entries...),
		byeID:    -1,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   zap.NewNop(),
		oracle:   matching.MinWeightPerfectMatching,
	}
	for _, opt := range opts {
		opt(t)
	}

	names := DisambiguateNames(entries, settings.UseNicknames)
	for i, e := range entries {
		t.players = append(t.players, newTournamentPlayer(RosterPlayer{
			ID:          i,
			Name:        e.Name,
			TTR:         e.TTR,
			Handicap:    e.Handicap,
			Nickname:    e.Nickname,
			DisplayName: names[i],
		}))
	}
	if len(t.players)%2 != 0 {
		t.byeID = len(t.players)
		t.players = append(t.players, newByePlayer(t.byeID))
	}

	t.logger.Debug("swiss.New: created tournament",
		zap.Int("players", len(entries)),
		zap.Bool("bye", t.byeID >= 0),
		zap.Stringer("mode", settings.GameMode))

	return t, nil
}

func (t *Tournament) Settings() Settings {
	return t.settings
}

// CurrentRound is the number of rounds generated so far.
func (t *Tournament) CurrentRound() int {
	return len(t.rounds)
}

// MaxRounds is the number of rounds after which every pair has met.
func (t *Tournament) MaxRounds() int {
	return len(t.players) - 1
}

// RunningMatches returns the matches of the current round.
func (t *Tournament) RunningMatches() []*Match {
	if len(t.rounds) == 0 {
		return nil
	}
	return t.rounds[len(t.rounds)-1]
}

// Rounds returns the matches of every round, oldest first.
func (t *Tournament) Rounds() [][]*Match {
	return append([][]*Match(nil), t.rounds...)
}

// AllMatches returns every match of every round.
func (t *Tournament) AllMatches() []*Match {
	var all []*Match
	for _, r := range t.rounds {
		all = append(all, r...)
	}
	return all
}

// Players returns every player including the bye player.
func (t *Tournament) Players() []*TournamentPlayer {
	return append([]*TournamentPlayer(nil), t.players...)
}

func (t *Tournament) Player(id int) (*TournamentPlayer, bool) {
	if id < 0 || id >= len(t.players) {
		return nil, false
	}
	return t.players[id], true
}

// ByeID returns the bye player's id if the roster is odd.
func (t *Tournament) ByeID() (int, bool) {
	return t.byeID, t.byeID >= 0
}

// UpdateSetResult changes one set of a match in the current round.
func (t *Tournament) UpdateSetResult(matchIdx, slot int, res *score.Score) error {
	running := t.RunningMatches()
	if matchIdx < 0 || matchIdx >= len(running) {
		return errors.Wrapf(ErrInvalidMatch, "match %d of %d", matchIdx,
			len(running))
	}

	return running[matchIdx].UpdateSetResult(slot, res)
}

// RecommendedRounds returns the suggested round range for a field of n
// players.
func RecommendedRounds(n int) (minRounds int, maxRounds int) {
	if n < 2 {
		return 0, 0
	}
	minRounds = int(math.Ceil(math.Log2(float64(n))))
	maxRounds = min(minRounds+2, n-1)
	minRounds = min(minRounds, maxRounds)

	return minRounds, maxRounds
}
