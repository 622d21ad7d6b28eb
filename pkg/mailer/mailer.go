package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/strahovfest/vstupenky-backend/pkg/config"
	"github.com/strahovfest/vstupenky-backend/pkg/logger"
)

var errFromRequired = errors.New("sender address is required")

// Mailer sends ticket codes to buyers over SMTP as a plain-text message
// carrying the ticket link.
type Mailer struct {
	cfg  config.MailConfig
	logg *logger.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New validates the mail configuration and builds the mailer.
func New(cfg config.MailConfig, logg *logger.Logger) (*Mailer, error) {
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errFromRequired
	}
	return &Mailer{cfg: cfg, logg: logg, send: smtp.SendMail}, nil
}

// Deliver mails the minted ticket codes for one paid purchase. The caller
// treats a failure as reportable but final: the ledger mutation stands.
func (m *Mailer) Deliver(ctx context.Context, buyerName, buyerEmail, purchaseUUID string, codes []string) error {
	if strings.TrimSpace(buyerEmail) == "" {
		return fmt.Errorf("delivering tickets for %s: empty recipient", purchaseUUID)
	}

	link := fmt.Sprintf("%s/%s?uuid=%s", strings.TrimRight(m.cfg.TicketsURL, "/"), strings.Join(codes, ","), purchaseUUID)

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", buyerEmail)
	fmt.Fprintf(&body, "Subject: Vase vstupenky\r\n")
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&body, "Ahoj %s,\r\n\r\nplatba dorazila a vstupenky jsou tady:\r\n\r\n", buyerName)
	for _, code := range codes {
		fmt.Fprintf(&body, "  - %s\r\n", code)
	}
	fmt.Fprintf(&body, "\r\n%s\r\n", link)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{buyerEmail}, []byte(body.String())); err != nil {
		return fmt.Errorf("delivering tickets for %s: %w", purchaseUUID, err)
	}

	if m.logg != nil {
		m.logg.Info(m.logg.WithPurchase(ctx, purchaseUUID), "tickets delivered")
	}
	return nil
}
