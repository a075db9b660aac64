/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/internal/config"
	"github.com/mikeb26/ttswiss/internal/logging"
	"github.com/mikeb26/ttswiss/store"
)

type TopLevelCommand string

const SwissCmd TopLevelCommand = "swiss"

type CmdHandler func(ctx context.Context, b *bot,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	SwissCmd: swissCmdHandler,
}

type bot struct {
	appID   string
	pubKey  ed25519.PublicKey
	session *discordgo.Session
	snaps   *store.Snapshots
	logger  *zap.Logger
}

func newBot(cfg *config.Config, snaps *store.Snapshots,
	logger *zap.Logger) (*bot, error) {

	pubKeyBytes, err := hex.DecodeString(cfg.Discord.PubKey)
	if err != nil {
		return nil, errors.Wrap(err, "swissbot: failed to parse public key")
	}
	session, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return nil, errors.Wrap(err, "swissbot: failed to initialize discord client")
	}

	return &bot{
		appID:   cfg.Discord.AppID,
		pubKey:  ed25519.PublicKey(pubKeyBytes),
		session: session,
		snaps:   snaps,
		logger:  logger,
	}, nil
}

func (b *bot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		b.logger.Info("swissbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.logger.Warn("swissbot.int: failed to read request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		b.logger.Warn("swissbot.int: failed to unmarshal interaction",
			zap.Error(err), zap.ByteString("body", body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	switch inter.Type {
	case discordgo.InteractionPing:
		resp.Type = discordgo.InteractionResponsePong
	case discordgo.InteractionApplicationCommand:
		name := inter.ApplicationCommandData().Name
		hdlr, ok := topLevelCmdHdlrs[TopLevelCommand(name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'", name),
				Flags:   discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), b, &inter)
		}
	default:
		b.logger.Info("swissbot.int: unimplemented interaction type",
			zap.Stringer("type", inter.Type))
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		b.logger.Error("swissbot.int: failed to marshal resp", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		b.logger.Warn("swissbot.int: failed to write resp", zap.Error(err))
	}
}

func viewOptions(description string) []*discordgo.ApplicationCommandOption {
	return []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "date",
			Description: description,
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "broadcast",
			Description: "Share with the rest of the channel instead of only to you (default is false)",
			Required:    false,
		},
	}
}

func swissCommand() *discordgo.ApplicationCommand {
	const dateDesc = "Tournament date (default is the latest tournament)"

	return &discordgo.ApplicationCommand{
		Name:        string(SwissCmd),
		Description: "Swiss system table tennis tournaments; try /swiss help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissHelpCmd),
				Description: "Show usage for swiss",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissPairingsCmd),
				Description: "Show the pairings of the current round",
				Options:     viewOptions(dateDesc),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStandingsCmd),
				Description: "Show the current standings",
				Options:     viewOptions(dateDesc),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStatsCmd),
				Description: "Show set and point statistics",
				Options:     viewOptions(dateDesc),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissHistoryCmd),
				Description: "Show every round played so far",
				Options:     viewOptions(dateDesc),
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissListCmd),
				Description: "List saved tournaments",
			},
		},
	}
}

// registerSlashCommands creates or overwrites the global /swiss command.
func (b *bot) registerSlashCommands() {
	cmd, err := b.session.ApplicationCommandCreate(b.appID, "", swissCommand())
	if err != nil {
		b.logger.Warn("swissbot.reg: failed to register command",
			zap.String("cmd", string(SwissCmd)), zap.Error(err))
		return
	}

	b.logger.Info("swissbot.reg: registered command", zap.String("cmd", cmd.Name),
		zap.String("cmdID", cmd.ID))
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "swissbot: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.RequireDiscord(); err != nil {
		fmt.Fprintf(os.Stderr, "swissbot: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "swissbot: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	snaps := store.NewSnapshots(store.Open(ctx, cfg, logger), logger)
	b, err := newBot(cfg, snaps, logger)
	if err != nil {
		logger.Fatal("swissbot.main: init failed", zap.Error(err))
	}

	go b.registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	logger.Info("swissbot.main: starting server", zap.String("host", hostname),
		zap.String("addr", cfg.HTTPAddr))

	http.HandleFunc("/DiscordBot/Interaction", b.interactionHandler)
	if err := http.ListenAndServe(cfg.HTTPAddr, nil); err != nil {
		logger.Fatal("swissbot.main: serve failed", zap.Error(err))
	}
}
