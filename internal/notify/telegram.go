// Package notify tells staff Telegram chats about change requests and cascade cancellations.
package notify

import (
	"fmt"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/events"
	"hotelbooking/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const dateLayout = "02.01.2006"

type TelegramNotifier struct {
	bot     domain.TelegramSender
	chatIDs []int64
	logger  *zerolog.Logger
}

func NewTelegramNotifier(bot domain.TelegramSender, chatIDs []int64, logger *zerolog.Logger) *TelegramNotifier {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &TelegramNotifier{bot: bot, chatIDs: chatIDs, logger: logger}
}

// Subscribe registers the notifier on bus.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(n.handleRequestEvent,
		events.EventChangeRequestSubmitted,
		events.EventChangeRequestApproved,
		events.EventChangeRequestDisapproved,
	)
	bus.Subscribe(n.handleCascadeEvent, events.EventBookingCascadeCancelled)
}

func (n *TelegramNotifier) handleRequestEvent(event *events.Event) error {
	var p events.ChangeRequestEventPayload
	if err := event.Decode(&p); err != nil {
		return fmt.Errorf("decode %s: %w", event.Type, err)
	}
	return n.broadcast(requestText(event.Type, p))
}

func (n *TelegramNotifier) handleCascadeEvent(event *events.Event) error {
	var p events.BookingEventPayload
	if err := event.Decode(&p); err != nil {
		return fmt.Errorf("decode %s: %w", event.Type, err)
	}
	return n.broadcast(cascadeText(p))
}

// broadcast sends text to every staff chat and returns the last failure.
func (n *TelegramNotifier) broadcast(text string) error {
	var lastErr error
	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
			lastErr = err
		}
	}
	return lastErr
}

func requestText(eventType string, p events.ChangeRequestEventPayload) string {
	var sb strings.Builder
	switch eventType {
	case events.EventChangeRequestSubmitted:
		fmt.Fprintf(&sb, "📝 *New %s request #%d*\n", strings.ToLower(p.Type), p.RequestID)
	case events.EventChangeRequestApproved:
		fmt.Fprintf(&sb, "✅ *Request #%d approved*\n", p.RequestID)
	case events.EventChangeRequestDisapproved:
		fmt.Fprintf(&sb, "❌ *Request #%d disapproved*\n", p.RequestID)
	default:
		fmt.Fprintf(&sb, "*Request #%d: %s*\n", p.RequestID, eventType)
	}
	fmt.Fprintf(&sb, "Booking: #%d\nCustomer: #%d\n", p.BookingID, p.CustomerID)
	if p.DecidedBy != 0 {
		fmt.Fprintf(&sb, "Decided by: #%d\n", p.DecidedBy)
	} else if p.Status == models.RequestDisapproved {
		sb.WriteString("Decided by: system\n")
	}
	if p.Reason != "" {
		fmt.Fprintf(&sb, "Reason: %s\n", escape(p.Reason))
	}
	return sb.String()
}

func cascadeText(p events.BookingEventPayload) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ *Booking #%d cancelled*\n", p.BookingID)
	fmt.Fprintf(&sb, "Room: #%d, %s - %s\n", p.RoomID, p.CheckIn.Format(dateLayout), p.CheckOut.Format(dateLayout))
	fmt.Fprintf(&sb, "Customer: #%d\nPayment: %s\n", p.CustomerID, p.PaymentStatus)
	if p.CausedByRequestID != 0 {
		fmt.Fprintf(&sb, "Caused by request #%d\n", p.CausedByRequestID)
	}
	return sb.String()
}

// escape strips characters that legacy Markdown would treat as markup.
func escape(s string) string {
	return strings.NewReplacer("*", "", "_", "", "`", "", "[", "(", "]", ")").Replace(s)
}
