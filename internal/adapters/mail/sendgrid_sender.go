package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/appointmentcake/backend/internal/domain/providers"
	"github.com/appointmentcake/backend/pkg/config"
	apperrors "github.com/appointmentcake/backend/pkg/errors"
)

// SendGridSender sends transactional mail through the SendGrid v3 API
type SendGridSender struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

// Ensure SendGridSender implements MailProvider
var _ providers.MailProvider = (*SendGridSender)(nil)

// NewSendGridSender creates a new SendGrid mail sender
func NewSendGridSender(cfg *config.MailConfig) (*SendGridSender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mail API key must be set")
	}

	return &SendGridSender{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type sendGridAddress struct {
	Email string `json:"email"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridMessage struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// Send delivers a single message to one recipient
func (s *SendGridSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	message := sendGridMessage{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: to}}},
		},
		From:    sendGridAddress{Email: s.from},
		Subject: subject,
		Content: []sendGridContent{
			{Type: "text/html", Value: htmlBody},
		},
	}

	jsonData, err := json.Marshal(message)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal mail message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return apperrors.NewInternalError("failed to create mail request", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return apperrors.NewExternalError("failed to send mail request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.NewExternalError(
			fmt.Sprintf("mail API error (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	return nil
}
