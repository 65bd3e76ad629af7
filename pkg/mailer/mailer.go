// Package mailer sends transactional email through a ranked list of
// providers, falling back to the next provider when one fails.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"giftcircle/pkg/logger"
)

var ErrNoSenders = errors.New("mailer: no senders configured")

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Name() string
	Send(ctx context.Context, message Message) error
}

// Ranked tries each sender in order and stops at the first success.
type Ranked struct {
	senders []Sender
	log     logger.Logger
}

func NewRanked(log logger.Logger, senders ...Sender) *Ranked {
	return &Ranked{senders: senders, log: log}
}

func (r *Ranked) Name() string {
	return "ranked"
}

func (r *Ranked) Send(ctx context.Context, message Message) error {
	if len(r.senders) == 0 {
		return ErrNoSenders
	}

	var lastErr error
	for _, sender := range r.senders {
		err := sender.Send(ctx, message)
		if err == nil {
			return nil
		}

		lastErr = err
		r.log.Warn("mail provider failed, trying next",
			"provider", sender.Name(),
			"to", message.To,
			"err", err,
		)
	}

	return fmt.Errorf("all mail providers failed: %w", lastErr)
}

// LogOnly logs outbound mail instead of delivering it. Used in
// development when no provider is configured.
type LogOnly struct {
	log logger.Logger
}

func NewLogOnly(log logger.Logger) *LogOnly {
	return &LogOnly{log: log}
}

func (l *LogOnly) Name() string {
	return "log"
}

func (l *LogOnly) Send(_ context.Context, message Message) error {
	l.log.Info("dropping outbound email", "to", message.To, "subject", message.Subject)
	return nil
}
