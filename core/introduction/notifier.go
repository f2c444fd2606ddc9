package introduction

import (
	"context"
	"log/slog"

	"github.com/siherrmann/matchmaker/model"
)

// DefaultInterests is used when a match has no common interests text.
const DefaultInterests = "Shared interests from your responses"

// LogNotifier writes introductions to the log instead of delivering them.
// It is used when no external delivery service is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs the introduction for the configured outreach channel.
// WhatsApp only events need a phone number on at least one side.
func (n *LogNotifier) Notify(ctx context.Context, introduction *model.Introduction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !Reachable(introduction) {
		return ErrNoChannel
	}

	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Introduction",
		slog.String("event", introduction.EventName),
		slog.String("channel", string(introduction.Channel)),
		slog.String("attendee_a", introduction.A.DisplayName()),
		slog.String("attendee_b", introduction.B.DisplayName()),
		slog.String("common_interests", Interests(introduction)),
	)
	return nil
}

// Reachable reports whether the introduction can go out on its channel.
func Reachable(introduction *model.Introduction) bool {
	if introduction.Channel != model.OutreachChannelWhatsApp {
		return introduction.A.Email != "" || introduction.B.Email != ""
	}
	return hasPhone(introduction.A) || hasPhone(introduction.B)
}

// Interests returns the common interests or DefaultInterests.
func Interests(introduction *model.Introduction) string {
	if introduction.CommonInterests == "" {
		return DefaultInterests
	}
	return introduction.CommonInterests
}

func hasPhone(contact model.Contact) bool {
	return contact.Phone != nil && *contact.Phone != ""
}
