package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"

	"whatsflow/internal/config"
	"whatsflow/internal/exporter"
	"whatsflow/pkg/contracts/domain"
)

// Notifier tells the business owner about a new submission.
type Notifier interface {
	NotifyNewSubmission(ctx context.Context, sub domain.Submission) error
}

// LogNotifier records new submissions in the application log. It is used
// when no mail server is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(slog.String("component", "notifier"))}
}

// NotifyNewSubmission logs the submission.
func (n *LogNotifier) NotifyNewSubmission(ctx context.Context, sub domain.Submission) error {
	n.logger.InfoContext(ctx, "New client submission",
		slog.Int64("submission_id", sub.ID),
		slog.String("business_name", sub.BusinessName),
		slog.String("plan", sub.PlanSelected),
		slog.String("country", sub.Country))
	return nil
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails the admin address for each new submission.
type SMTPNotifier struct {
	cfg      config.MailConfig
	sendMail SendMailFunc
	logger   *slog.Logger
}

// NewSMTPNotifier creates a notifier that sends through cfg.Host.
func NewSMTPNotifier(cfg config.MailConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:      cfg,
		sendMail: smtp.SendMail,
		logger:   logger.With(slog.String("component", "notifier")),
	}
}

// WithSendMail replaces the transport, mainly for tests.
func (n *SMTPNotifier) WithSendMail(fn SendMailFunc) *SMTPNotifier {
	n.sendMail = fn
	return n
}

const newSubmissionSubject = "New WhatsFlow Client Submission"

var newSubmissionBody = template.Must(template.New("new_submission").Parse(
	`A new client has submitted the contact form.

Name:      {{.FullName}}
Business:  {{.BusinessName}}
Email:     {{.Email}}
WhatsApp:  {{.WhatsAppNumber}}
Country:   {{.Country}}
Plan:      {{.PlanSelected}}
Submitted: {{.Submitted}}

Message:
{{.Message}}
`))

// NotifyNewSubmission sends the notification mail.
func (n *SMTPNotifier) NotifyNewSubmission(ctx context.Context, sub domain.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.buildMessage(sub)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.sendMail(addr, auth, n.sender(), []string{n.cfg.AdminEmail}, msg); err != nil {
		return fmt.Errorf("failed to send notification mail: %w", err)
	}

	n.logger.InfoContext(ctx, "Notification mail sent",
		slog.Int64("submission_id", sub.ID),
		slog.String("to", n.cfg.AdminEmail))
	return nil
}

func (n *SMTPNotifier) sender() string {
	if n.cfg.From != "" {
		return n.cfg.From
	}
	return n.cfg.Username
}

func (n *SMTPNotifier) buildMessage(sub domain.Submission) ([]byte, error) {
	var body bytes.Buffer
	data := struct {
		domain.Submission
		Submitted string
	}{sub, exporter.FormatDateTime(sub.CreatedAt)}
	if err := newSubmissionBody.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to render notification: %w", err)
	}

	var msg bytes.Buffer
	header := []string{
		"From: " + n.sender(),
		"To: " + n.cfg.AdminEmail,
		"Subject: " + newSubmissionSubject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
	}
	msg.WriteString(strings.Join(header, "\r\n"))
	msg.WriteString("\r\n\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return msg.Bytes(), nil
}

// NewNotifier picks the SMTP notifier when a mail host is configured.
func NewNotifier(cfg config.MailConfig, logger *slog.Logger) Notifier {
	if cfg.Host == "" || cfg.AdminEmail == "" {
		return NewLogNotifier(logger)
	}
	return NewSMTPNotifier(cfg, logger)
}
