/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/internal"
	"github.com/mikeb26/ttswiss/internal/config"
	"github.com/mikeb26/ttswiss/internal/logging"
	"github.com/mikeb26/ttswiss/roster"
	"github.com/mikeb26/ttswiss/score"
	"github.com/mikeb26/ttswiss/store"
	"github.com/mikeb26/ttswiss/swiss"
)

//go:embed help.txt
var helpText string

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	snaps  *store.Snapshots
	cache  httpcache.Cache
	out    io.Writer
}

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, a *app, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"new":       handleNew,
	"next":      handleNext,
	"result":    handleResult,
	"pairings":  handleView(swiss.BuildPairingsOutput),
	"standings": handleView(swiss.BuildStandingsOutput),
	"stats":     handleView(swiss.BuildStatisticsOutput),
	"history":   handleView(swiss.BuildHistoryOutput),
	"list":      handleList,
	"delete":    handleDelete,
	"rounds":    handleRounds,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage(os.Stdout)
		os.Exit(1)
	}
	cmd := os.Args[1]
	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage(os.Stdout)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cache := store.Open(ctx, cfg, logger)
	a := &app{
		cfg:    cfg,
		logger: logger,
		snaps:  store.NewSnapshots(cache, logger),
		cache:  cache,
		out:    os.Stdout,
	}
	if err := handler(ctx, a, os.Args[2:]); err != nil {
		logger.Debug("ttswiss: command failed", zap.String("cmd", cmd),
			zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "%v", helpText)
}

func handleHelp(ctx context.Context, a *app, args []string) error {
	usage(a.out)
	return nil
}

func handleNew(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	rosterPath := fs.String("roster", "", "Roster file (JSON or HTML)")
	urls := fs.String("url", "", "Comma separated roster URLs")
	players := fs.String("players", "", "Comma separated player names to enter")
	mode := fs.Int("mode", a.cfg.GameMode, "Sets needed to win a match (2 or 3)")
	handicap := fs.Bool("handicap", a.cfg.WithHandicaps, "Play with handicaps")
	nicknames := fs.Bool("nicknames", false, "Show nicknames")
	dateStr := fs.String("date", "", "Tournament date (default today)")
	seed := fs.Int64("seed", 0, "Random seed for the first round")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*rosterPath == "") == (*urls == "") {
		return errors.New("please provide exactly one of --roster or --url")
	}

	var entries []swiss.Entry
	var err error
	if *rosterPath != "" {
		entries, err = loadRosterFile(*rosterPath)
	} else {
		client := internal.NewCachedHttpClient(a.cache, internal.RosterMaxAge,
			a.logger)
		entries, err = roster.FetchAll(ctx, client, splitList(*urls))
	}
	if err != nil {
		return err
	}
	if *players != "" {
		entries, err = roster.Select(entries, splitList(*players))
		if err != nil {
			return err
		}
	}
	roster.SortByRating(entries)

	date := time.Now()
	if *dateStr != "" {
		date, err = internal.ParseDateOrZero(*dateStr)
		if err != nil {
			return errors.Wrapf(err, "invalid --date %q", *dateStr)
		}
	}

	settings := swiss.Settings{
		GameMode:      swiss.GameMode(*mode),
		WithHandicaps: *handicap,
		UseNicknames:  *nicknames,
		Date:          date,
	}
	t, err := swiss.New(settings, entries, a.tournamentOpts(*seed)...)
	if err != nil {
		return err
	}
	key, err := a.snaps.Save(t.Export())
	if err != nil {
		return err
	}

	minRounds, maxRounds := swiss.RecommendedRounds(len(entries))
	fmt.Fprintf(a.out, "Created %v with %v players (%v).\n", key, len(entries),
		settings.GameMode)
	for _, p := range t.Players() {
		if !p.IsBye() {
			fmt.Fprintf(a.out, "  %v (%v)\n", p.DisplayName, p.TTR)
		}
	}
	fmt.Fprintf(a.out, "Recommended rounds: %v to %v. Run '%v next' to pair round 1.\n",
		minRounds, maxRounds, filepath.Base(os.Args[0]))

	return nil
}

func handleNext(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("next", flag.ContinueOnError)
	dateStr := fs.String("date", "", "Tournament date (default latest)")
	seed := fs.Int64("seed", 0, "Random seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := a.load(*dateStr, *seed)
	if err != nil {
		return err
	}
	if _, err := t.GenerateNextRound(); err != nil {
		return err
	}
	if _, err := a.snaps.Save(t.Export()); err != nil {
		return err
	}
	fmt.Fprint(a.out, swiss.BuildPairingsOutput(t))

	return nil
}

func handleResult(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("result", flag.ContinueOnError)
	dateStr := fs.String("date", "", "Tournament date (default latest)")
	matchNum := fs.Int("match", 0, "Table number of the match (1-based)")
	setNum := fs.Int("set", 0, "Set number (1-based)")
	scoreStr := fs.String("score", "", `Set score, e.g. "11:7", 7, -7 or clear`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *matchNum <= 0 || *setNum <= 0 || *scoreStr == "" {
		return errors.New("please provide --match, --set and --score")
	}

	var res *score.Score
	if !strings.EqualFold(*scoreStr, "clear") {
		s, err := score.ParseEntry(*scoreStr)
		if err != nil {
			return err
		}
		res = &s
	}

	t, err := a.load(*dateStr, 0)
	if err != nil {
		return err
	}
	if err := t.UpdateSetResult(*matchNum-1, *setNum-1, res); err != nil {
		return err
	}
	if _, err := a.snaps.Save(t.Export()); err != nil {
		return err
	}

	m := t.RunningMatches()[*matchNum-1]
	fmt.Fprintf(a.out, "%v vs %v: %v : %v in sets\n", m.FirstName, m.SecondName,
		m.SetsWon(), m.SetsLost())
	if roundFinished(t) {
		fmt.Fprintf(a.out, "Round %v is complete.\n", t.CurrentRound())
	}

	return nil
}

// handleView prints one of the text reports of a saved tournament.
func handleView(build func(*swiss.Tournament) string) cmdHandler {
	return func(ctx context.Context, a *app, args []string) error {
		fs := flag.NewFlagSet("view", flag.ContinueOnError)
		dateStr := fs.String("date", "", "Tournament date (default latest)")
		if err := fs.Parse(args); err != nil {
			return err
		}

		t, err := a.load(*dateStr, 0)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, strings.TrimRight(build(t), "\n"))

		return nil
	}
}

func handleList(ctx context.Context, a *app, args []string) error {
	keys, err := a.snaps.List()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(a.out, "No tournaments saved yet.")
		return nil
	}
	for _, k := range keys {
		fmt.Fprintf(a.out, "  - %v\n", strings.TrimPrefix(k, "tournament/"))
	}

	return nil
}

func handleDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	dateStr := fs.String("date", "", "Tournament date to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dateStr == "" {
		return errors.New("please provide --date")
	}

	date, err := internal.ParseDateOrZero(*dateStr)
	if err != nil {
		return errors.Wrapf(err, "invalid --date %q", *dateStr)
	}
	key := internal.DateKey(date)
	if err := a.snaps.Delete(key); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted tournament %v.\n", key)

	return nil
}

func handleRounds(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rounds", flag.ContinueOnError)
	players := fs.Int("players", 0, "Number of players")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *players < 2 {
		return errors.New("please provide --players with at least 2")
	}

	minRounds, maxRounds := swiss.RecommendedRounds(*players)
	fmt.Fprintf(a.out, "%v players: play %v to %v rounds (at most %v possible).\n",
		*players, minRounds, maxRounds, *players+*players%2-1)

	return nil
}

func (a *app) tournamentOpts(seed int64) []swiss.Option {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return []swiss.Option{
		swiss.WithRand(rand.New(rand.NewSource(seed))),
		swiss.WithLogger(a.logger),
	}
}

// load restores the tournament saved for dateStr, or the latest one.
func (a *app) load(dateStr string, seed int64) (*swiss.Tournament, error) {
	var rec swiss.Record
	var err error
	if dateStr == "" {
		rec, err = a.snaps.Latest()
	} else {
		var date time.Time
		date, err = internal.ParseDateOrZero(dateStr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --date %q", dateStr)
		}
		rec, err = a.snaps.Load(internal.DateKey(date))
	}
	if err != nil {
		return nil, err
	}

	return swiss.Restore(rec, a.tournamentOpts(seed)...)
}

func loadRosterFile(path string) ([]swiss.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open roster")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return roster.ParseMembersTable(f)
	default:
		return roster.LoadJSON(f)
	}
}

func roundFinished(t *swiss.Tournament) bool {
	for _, m := range t.RunningMatches() {
		if !m.IsFinished() {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
