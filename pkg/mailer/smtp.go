package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers through a plain SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTP(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) Name() string {
	return "smtp"
}

func (s *SMTPSender) Send(ctx context.Context, message Message) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(message.Subject)
	if message.HTML != "" {
		msg.SetBodyString(gomail.TypeTextHTML, message.HTML)
		if message.Text != "" {
			msg.AddAlternativeString(gomail.TypeTextPlain, message.Text)
		}
	} else {
		msg.SetBodyString(gomail.TypeTextPlain, message.Text)
	}

	options := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}

	client, err := gomail.NewClient(s.host, options...)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send via smtp: %w", err)
	}
	return nil
}
