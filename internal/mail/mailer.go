// Package mail provides the outbound mail collaborator. Delivery goes
// through an HTTP mail API; the service treats it as best-effort.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// Message is one outbound mail.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer dispatches messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPMailer posts messages to an HTTP mail API, retrying transient failures
// with exponential backoff.
type HTTPMailer struct {
	client *resty.Client
	from   string
}

func NewHTTPMailer(baseURL, from string) *HTTPMailer {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second)
	return &HTTPMailer{client: client, from: from}
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	if msg.From == "" {
		msg.From = m.from
	}

	attempt := func() error {
		resp, err := m.client.R().
			SetContext(ctx).
			SetBody(msg).
			Post("/v1/messages")
		if err != nil {
			return err
		}
		if resp.IsError() {
			if resp.StatusCode() >= 500 {
				return fmt.Errorf("mail api returned %d", resp.StatusCode())
			}
			// 4xx will not improve on retry.
			return backoff.Permanent(fmt.Errorf("mail api rejected message: %d", resp.StatusCode()))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(attempt, policy)
}

// Noop discards messages; used when no mail API is configured.
type Noop struct{}

func (Noop) Send(ctx context.Context, msg Message) error { return nil }
