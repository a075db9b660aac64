/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/internal"
	"github.com/mikeb26/ttswiss/swiss"
)

type SwissSubCommand string

const (
	SwissHelpCmd      SwissSubCommand = "help"
	SwissPairingsCmd  SwissSubCommand = "pairings"
	SwissStandingsCmd SwissSubCommand = "standings"
	SwissStatsCmd     SwissSubCommand = "stats"
	SwissHistoryCmd   SwissSubCommand = "history"
	SwissListCmd      SwissSubCommand = "list"
)

var swissSubCmdHdlrs = map[SwissSubCommand]CmdHandler{
	SwissHelpCmd:      swissHelpCmdHandler,
	SwissPairingsCmd:  viewCmdHandler("pairings", swiss.BuildPairingsOutput),
	SwissStandingsCmd: viewCmdHandler("standings", swiss.BuildStandingsOutput),
	SwissStatsCmd:     viewCmdHandler("stats", swiss.BuildStatisticsOutput),
	SwissHistoryCmd:   viewCmdHandler("history", swiss.BuildHistoryOutput),
	SwissListCmd:      swissListCmdHandler,
}

func swissCmdHandler(ctx context.Context, b *bot,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := swissHelpCmdHandler
	if len(data.Options) > 0 {
		if h, ok := swissSubCmdHdlrs[SwissSubCommand(data.Options[0].Name)]; ok {
			hdlr = h
		}
	}
	return hdlr(ctx, b, inter)
}

func newEphemeralResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

//go:embed help.md
var helpText string

func swissHelpCmdHandler(ctx context.Context, b *bot,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

type viewArgs struct {
	date      string
	broadcast bool
}

func parseViewArgs(inter *discordgo.Interaction) viewArgs {
	var args viewArgs
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return args
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Name {
		case "date":
			args.date = opt.StringValue()
		case "broadcast":
			args.broadcast = opt.BoolValue()
		}
	}
	return args
}

// viewCmdHandler renders one of the tournament reports in a code block.
func viewCmdHandler(name string,
	build func(*swiss.Tournament) string) CmdHandler {

	return func(ctx context.Context, b *bot,
		inter *discordgo.Interaction) *discordgo.InteractionResponse {

		resp := newEphemeralResponse()
		args := parseViewArgs(inter)

		t, err := b.loadTournament(args.date)
		if err != nil {
			resp.Data.Content = fmt.Sprintf("Error loading tournament: %v", err)
			b.logger.Info("swissbot."+name, zap.String("date", args.date),
				zap.Error(err))
			return resp
		}

		// Wrap output in code block for monospace formatting in Discord
		resp.Data.Content = fmt.Sprintf("```\n%s\n```",
			truncateContent(strings.TrimRight(build(t), "\n")))
		if args.broadcast {
			resp.Data.Flags = 0
		}

		return resp
	}
}

func swissListCmdHandler(ctx context.Context, b *bot,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newEphemeralResponse()
	keys, err := b.snaps.List()
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing tournaments: %v", err)
		b.logger.Warn("swissbot.list", zap.Error(err))
		return resp
	}
	if len(keys) == 0 {
		resp.Data.Content = "No tournaments saved yet."
		return resp
	}

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("- %v\n", strings.TrimPrefix(k, "tournament/")))
	}
	resp.Data.Content = truncateContent(sb.String())

	return resp
}

func (b *bot) loadTournament(dateStr string) (*swiss.Tournament, error) {
	var rec swiss.Record
	var err error
	if dateStr == "" {
		rec, err = b.snaps.Latest()
	} else {
		date, perr := internal.ParseDateOrZero(dateStr)
		if perr != nil {
			return nil, perr
		}
		rec, err = b.snaps.Load(internal.DateKey(date))
	}
	if err != nil {
		return nil, err
	}

	return swiss.Restore(rec, swiss.WithLogger(b.logger))
}

// discord limits messages to 2000 characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
