package services

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/domodwyer/mailyak/v3"
)

// Sink delivers an exported PDF somewhere and reports where it went.
type Sink interface {
	Share(ctx context.Context, exp Export) (string, error)
}

// DirSink writes exports into a directory, creating it when needed.
type DirSink struct {
	Dir string
}

var filenameReplacer = strings.NewReplacer("/", "-", "\\", "-", ":", "-")

func (s DirSink) Share(ctx context.Context, exp Export) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("share: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, filenameReplacer.Replace(exp.Filename))
	if err := os.WriteFile(path, exp.PDF, 0o644); err != nil {
		return "", fmt.Errorf("share: write %s: %w", path, err)
	}
	return path, nil
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailSink sends the PDF as an attachment over SMTP.
type MailSink struct {
	cfg MailConfig
	to  []string
	// send defaults to (*mailyak.MailYak).Send.
	send func(*mailyak.MailYak) error
}

func NewMailSink(cfg MailConfig, to ...string) *MailSink {
	return &MailSink{cfg: cfg, to: to, send: (*mailyak.MailYak).Send}
}

func (s *MailSink) message(exp Export) *mailyak.MailYak {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	mail := mailyak.New(net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)), auth)
	mail.To(s.to...)
	mail.From(s.cfg.From)
	mail.Subject(strings.TrimSuffix(exp.Filename, ".pdf"))
	mail.Plain().Set("Please find your document attached.")
	mail.AttachWithMimeType(exp.Filename, bytes.NewReader(exp.PDF), "application/pdf")
	return mail
}

func (s *MailSink) Share(ctx context.Context, exp Export) (string, error) {
	if len(s.to) == 0 {
		return "", ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.send(s.message(exp)); err != nil {
		return "", fmt.Errorf("share: send mail: %w", err)
	}
	return "mailto:" + strings.Join(s.to, ","), nil
}
