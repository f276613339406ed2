// Package telegram is the chat front end over the analysis engine.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"solana-token-scan/internal/analyzer"
	"solana-token-scan/internal/domain"
	"solana-token-scan/internal/mint"
)

const welcomeMessage = `🚀 *Solana Token Analysis Bot*

Welcome! This bot analyses Solana tokens.

*Available commands:*
• ` + "`/analyse <mint_address>`" + ` - analyse a token
• ` + "`/help`" + ` - show this help

*Example:*
` + "`/analyse EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v`" + `

Send a mint address to start an analysis!`

const helpMessage = `📚 *Help - Solana Token Analysis Bot*

*How to use the bot:*
1. Send ` + "`/analyse`" + ` followed by a mint address
2. The bot analyses the token and reports:
   • General information (name, symbol)
   • Trading metrics (price, volume, liquidity)
   • Tokenomics (supply, holders, distribution)
   • Risk score and evaluation

*The score is computed over 20 points from:*
• Number of liquidity pools
• 24h trading volume
• Total liquidity
• Price stability
• Market cap
• Holder count
• Token distribution
• Rug-pull risk`

const loadingMessage = `🔄 *Analysis in progress...*

📊 Fetching trading data...
🏦 Evaluating financial metrics...
👥 Computing holder distribution...
🔍 Checking rug-pull risk...`

const unknownMessage = `❓ *Unrecognized message*

Send ` + "`/analyse <mint_address>`" + ` to analyse a token.
Or send ` + "`/help`" + ` for more information.`

// Engine is the analysis operation the bot fronts.
type Engine interface {
	Analyze(ctx context.Context, mint string) (*domain.AnalysisRecord, error)
}

// Bot polls Telegram updates and serves analysis requests.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine Engine
	logger zerolog.Logger
}

// NewBot creates a bot over the given engine.
func NewBot(token string, debug bool, engine Engine, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	api.Debug = debug

	return &Bot{
		api:    api,
		engine: engine,
		logger: logger.With().Str("component", "telegram").Logger(),
	}, nil
}

// Run polls for updates until ctx is cancelled. Each message is handled in
// its own goroutine so one slow analysis does not block the chat.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.reply(msg.Chat.ID, welcomeMessage)
		case "help":
			b.reply(msg.Chat.ID, helpMessage)
		case "analyse", "analyze":
			arg := strings.TrimSpace(msg.CommandArguments())
			if arg == "" {
				b.reply(msg.Chat.ID, "❌ *Error*: please provide a mint address.\n\n"+
					"*Example:* `/analyse EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v`")
				return
			}
			b.analyse(ctx, msg.Chat.ID, arg)
		default:
			b.reply(msg.Chat.ID, unknownMessage)
		}
		return
	}

	// Bare messages that look like a mint address start an analysis.
	text := strings.TrimSpace(msg.Text)
	if mint.Valid(text) {
		b.analyse(ctx, msg.Chat.ID, text)
		return
	}

	b.reply(msg.Chat.ID, unknownMessage)
}

func (b *Bot) analyse(ctx context.Context, chatID int64, mintAddr string) {
	loading, err := b.send(chatID, loadingMessage)
	if err != nil {
		b.logger.Warn().Err(err).Msg("send loading message failed")
		return
	}

	record, err := b.engine.Analyze(ctx, mintAddr)
	if err != nil {
		b.edit(chatID, loading.MessageID, errorMessage(err))
		return
	}

	b.edit(chatID, loading.MessageID, Report(record))
}

func errorMessage(err error) string {
	if errors.Is(err, analyzer.ErrInvalidMint) {
		return "❌ *Error*: that does not look like a valid mint address.\n\n" +
			"Mint addresses are 32-44 base58 characters."
	}
	return fmt.Sprintf("❌ *Error*: the analysis could not be completed.\n\n*Details*: %s", err)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.send(chatID, text); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (b *Bot) send(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return b.api.Send(msg)
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("edit failed")
	}
}
