package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Sender delivers a like notification to its recipient.
type Sender interface {
	Send(ctx context.Context, ev LikeEvent) error
}

// SMTPSender delivers like notifications over SMTP with STARTTLS.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(host string, port int, user, password string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Password: password}
}

// Send builds the "your post was liked" email and hands it to the SMTP server.
func (s *SMTPSender) Send(ctx context.Context, ev LikeEvent) error {
	addr := net.JoinHostPort(s.Host, fmt.Sprintf("%d", s.Port))

	var msg strings.Builder
	msg.WriteString("From: " + s.User + "\r\n")
	msg.WriteString("To: " + ev.Email + "\r\n")
	msg.WriteString("Subject: Your post was liked\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(fmt.Sprintf(
		"<div><h1>Hello %s, your post %q was liked by %s</h1></div>\r\n",
		ev.NameUser, ev.TitlePost, ev.NameFriend,
	))

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if s.User != "" {
		auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.User); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(ev.Email); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg.String())); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}
