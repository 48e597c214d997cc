// Package gateway is the messaging side of the bot: it renders abstract
// response keys into Telegram messages with the main inline keyboard and
// delivers them. Delivery is best-effort and always happens outside the
// ledger transaction.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/mrarafathossain10-collab/moneystepearn10/internal/processor"
)

const sendTimeout = 10 * time.Second

type Telegram struct {
	bot *telego.Bot
}

func New(token string) (*Telegram, error) {
	tgBot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Telegram{bot: tgBot}, nil
}

// Send renders key/data and delivers it to chatID with the main keyboard.
func (g *Telegram) Send(ctx context.Context, chatID int64, key processor.TextKey, data map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := g.bot.SendMessage(ctx, tu.Message(
		tu.ID(chatID),
		renderText(key, data),
	).WithReplyMarkup(mainKeyboard()))
	if err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}

// Acknowledge answers a callback query so the client stops its spinner.
func (g *Telegram) Acknowledge(ctx context.Context, callbackID string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := g.bot.AnswerCallbackQuery(ctx, tu.CallbackQuery(callbackID)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// RegisterWebhook points Telegram at url for update delivery.
func (g *Telegram) RegisterWebhook(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := g.bot.SetWebhook(ctx, &telego.SetWebhookParams{URL: url}); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

func mainKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("💰 Earn").WithCallbackData(string(processor.KindEarn)),
			tu.InlineKeyboardButton("💳 Balance").WithCallbackData(string(processor.KindBalance)),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("👥 Referral").WithCallbackData(string(processor.KindReferrals)),
			tu.InlineKeyboardButton("🏧 Withdraw").WithCallbackData(string(processor.KindWithdraw)),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🏆 Top").WithCallbackData(string(processor.KindLeaderboard)),
			tu.InlineKeyboardButton("⭐ VIP").WithCallbackData(string(processor.KindVIPInfo)),
		),
	)
}
