// Package notify delivers out-of-band seller notifications. Delivery is
// best effort: failures are logged and never change the outcome of a
// bargaining operation.
package notify

import (
	"log"

	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pings sellers on Telegram when buyers open sessions or
// place offers. Sellers opt in by having a chat id on their user record.
type TelegramNotifier struct {
	Bot     *tgbotapi.BotAPI
	Storage storage.Storage
}

// NewTelegramNotifier authenticates the bot with the given token.
func NewTelegramNotifier(token string, s storage.Storage) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("Seller notifications authorized on bot account %s", bot.Self.UserName)
	return &TelegramNotifier{Bot: bot, Storage: s}, nil
}

// NotifySeller sends the text to the seller's Telegram chat, if they have
// one linked.
func (n *TelegramNotifier) NotifySeller(sellerID, text string) {
	seller, err := n.Storage.GetUserByID(sellerID)
	if err != nil {
		log.Printf("ERROR: Failed to load seller %s for notification: %v", sellerID, err)
		return
	}
	if seller == nil || seller.TelegramChatID == nil {
		return
	}
	msg := tgbotapi.NewMessage(*seller.TelegramChatID, text)
	if _, err := n.Bot.Send(msg); err != nil {
		log.Printf("ERROR: Failed to notify seller %s via Telegram: %v", sellerID, err)
	}
}

// Noop discards all notifications. Used when no bot token is configured.
type Noop struct{}

// NotifySeller does nothing.
func (Noop) NotifySeller(sellerID, text string) {}

// Compile-time interface checks.
var (
	_ bargain.SellerNotifier = (*TelegramNotifier)(nil)
	_ bargain.SellerNotifier = Noop{}
)
