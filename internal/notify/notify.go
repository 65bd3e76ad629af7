// Package notify turns domain events into outbound email.
package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"giftcircle/pkg/logger"
	"giftcircle/pkg/mailer"
)

const sendTimeout = 30 * time.Second

// Notifier renders and sends application email. Verification and
// welcome mail is sent in the background so registration never blocks
// on a mail provider; family invites are sent inline because the
// caller needs the outcome.
type Notifier struct {
	sender mailer.Sender
	appURL string
	log    logger.Logger
}

func New(sender mailer.Sender, appURL string, log logger.Logger) *Notifier {
	return &Notifier{sender: sender, appURL: appURL, log: log}
}

func (n *Notifier) SendVerificationEmail(email, name, token string) {
	verifyURL := fmt.Sprintf("%s/verify?token=%s", n.appURL, token)
	message := mailer.Message{
		To:      email,
		Subject: "Verify your email address",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>Confirm your email address to finish setting up your account.</p><p><a href="%s">Verify email</a></p><p>The link expires in 24 hours.</p>`,
			html.EscapeString(name), verifyURL,
		),
		Text: fmt.Sprintf(
			"Hi %s,\n\nConfirm your email address to finish setting up your account:\n%s\n\nThe link expires in 24 hours.\n",
			name, verifyURL,
		),
	}
	n.sendAsync("verification", message)
}

func (n *Notifier) SendWelcomeEmail(email, name string) {
	message := mailer.Message{
		To:      email,
		Subject: "Welcome to GiftCircle",
		HTML: fmt.Sprintf(
			`<p>Hi %s,</p><p>Your email is verified. Create a family or join one with an invite code to get started.</p><p><a href="%s">Open GiftCircle</a></p>`,
			html.EscapeString(name), n.appURL,
		),
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour email is verified. Create a family or join one with an invite code to get started:\n%s\n",
			name, n.appURL,
		),
	}
	n.sendAsync("welcome", message)
}

func (n *Notifier) SendFamilyInvite(ctx context.Context, toEmail, familyName, inviterName, code string) error {
	message := mailer.Message{
		To:      toEmail,
		Subject: fmt.Sprintf("%s invited you to join %s", inviterName, familyName),
		HTML: fmt.Sprintf(
			`<p>%s invited you to join the family <strong>%s</strong> on GiftCircle.</p><p>Your invite code: <strong>%s</strong></p><p><a href="%s/join?code=%s">Join the family</a></p>`,
			html.EscapeString(inviterName), html.EscapeString(familyName), code, n.appURL, code,
		),
		Text: fmt.Sprintf(
			"%s invited you to join the family %s on GiftCircle.\n\nYour invite code: %s\n\nJoin here: %s/join?code=%s\n",
			inviterName, familyName, code, n.appURL, code,
		),
	}

	if err := n.sender.Send(ctx, message); err != nil {
		return fmt.Errorf("send family invite: %w", err)
	}
	return nil
}

func (n *Notifier) sendAsync(kind string, message mailer.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.sender.Send(ctx, message); err != nil {
			n.log.InternalError("failed to send "+kind+" email", err, "to", message.To)
		}
	}()
}
