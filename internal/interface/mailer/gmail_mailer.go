package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/errs"
	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/logger"
	"autocare-service/templates"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailMailer sends notification emails through the Gmail API and
// implements NotifierRepository.
type GmailMailer struct {
	gmailService *gmail.Service
	from         string
	logger       logger.Logger
}

// NewGmailMailer creates a new Gmail mailer
func NewGmailMailer(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (*GmailMailer, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailMailer{
		gmailService: service,
		from:         from,
		logger:       logger,
	}, nil
}

var _ repository.NotifierRepository = (*GmailMailer)(nil)

// Send renders the template for kind and delivers it to the recipient.
func (m *GmailMailer) Send(ctx context.Context, recipientEmail string, kind entity.TemplateKind, tmplCtx entity.TemplateContext) error {
	if recipientEmail == "" {
		return errs.Notification(recipientEmail, string(kind), fmt.Errorf("empty recipient"))
	}

	subject, body, err := templates.Render(kind, tmplCtx)
	if err != nil {
		return errs.Notification(recipientEmail, string(kind), err)
	}

	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.from, recipientEmail, subject, body)

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	if _, err := m.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return errs.Notification(recipientEmail, string(kind), err)
	}

	m.logger.Debug("Notification sent", "to", recipientEmail, "kind", kind)
	return nil
}
