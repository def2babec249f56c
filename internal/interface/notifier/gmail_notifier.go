package notifier

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"cpaptracker-service/internal/domain/repository"
	"cpaptracker-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailNotifier delivers reminders as emails sent through the Gmail API
type GmailNotifier struct {
	gmailService *gmail.Service
	from         string
	to           string
	logger       logger.Logger
}

// NewGmailNotifier creates a new Gmail notifier. from may be "me" for the authorized account.
func NewGmailNotifier(
	ctx context.Context,
	tokenSource oauth2.TokenSource,
	from string,
	to string,
	logger logger.Logger,
	opts ...option.ClientOption,
) (repository.Notifier, error) {
	if to == "" {
		return nil, fmt.Errorf("gmail notifier requires a recipient")
	}
	if tokenSource != nil {
		opts = append([]option.ClientOption{option.WithTokenSource(tokenSource)}, opts...)
	}

	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GmailNotifier{
		gmailService: service,
		from:         from,
		to:           to,
		logger:       logger,
	}, nil
}

// Notify sends one reminder email
func (n *GmailNotifier) Notify(ctx context.Context, partName string, daysUntilReplacement int, notificationID int) error {
	msg := BuildMessage(partName, daysUntilReplacement)

	raw := n.buildRaw(msg, notificationID)
	sent, err := n.gmailService.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send reminder %d: %w", notificationID, err)
	}

	n.logger.Info("Reminder email sent",
		"notificationID", notificationID,
		"msgId", sent.Id,
		"title", msg.Title)

	return nil
}

// buildRaw renders an RFC 822 message
func (n *GmailNotifier) buildRaw(msg Message, notificationID int) string {
	var b strings.Builder
	if n.from != "" && n.from != "me" {
		fmt.Fprintf(&b, "From: %s\r\n", n.from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", n.to)
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(msg.Title))
	fmt.Fprintf(&b, "X-Reminder-ID: %d\r\n", notificationID)
	if msg.Priority == PriorityHigh {
		b.WriteString("X-Priority: 1\r\n")
		b.WriteString("Importance: high\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}

// headerValue folds control characters to spaces and Q-encodes anything outside printable ASCII
func headerValue(v string) string {
	v = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, v)
	return mime.QEncoding.Encode("utf-8", v)
}
