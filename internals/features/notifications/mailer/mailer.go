package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Tags    map[string]string
}

// Mailer sends one message synchronously and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

var ErrNoRecipient = errors.New("mailer: empty recipient")

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return "", ErrNoRecipient
	}
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for k, v := range msg.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: k, Value: v})
	}
	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}

// LogMailer only logs; used when no RESEND_API_KEY is configured.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(_ context.Context, msg Message) (string, error) {
	if strings.TrimSpace(msg.To) == "" {
		return "", ErrNoRecipient
	}
	id := "log-" + uuid.NewString()
	m.Log.Info("email (not sent, no provider)",
		zap.String("id", id),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return id, nil
}

// New picks Resend when a key is set.
func New(apiKey, from string, log *zap.Logger) Mailer {
	if strings.TrimSpace(apiKey) == "" {
		return LogMailer{Log: log.Named("mailer")}
	}
	return NewResendMailer(apiKey, from)
}
