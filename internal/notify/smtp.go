package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// smtpTransport delivers events as plain-text mail through a single SMTP
// server, without authentication. That matches the usual local-relay setup
// on the hosts this tool administers.
type smtpTransport struct {
	// addr is host:port of the SMTP server.
	addr string
	// from is the envelope sender.
	from string
}

// NewSMTPTransport creates a Transport that mails events via the SMTP
// server at addr. An empty from defaults to sysward@<host part of addr>.
func NewSMTPTransport(addr, from string) Transport {
	if from == "" {
		host := addr
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		}
		from = "sysward@" + host
	}
	return &smtpTransport{addr: addr, from: from}
}

func (t *smtpTransport) Send(ctx context.Context, event Event) error {
	if len(event.Recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		t.from, strings.Join(event.Recipients, ", "), event.Subject, event.Body)

	// net/smtp has no context support; run the session in a goroutine and
	// abandon it on timeout. The bounded attempt is what matters to the
	// caller, not the fate of a stalled session.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(t.addr, nil, t.from, event.Recipients, []byte(msg))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send via %s: %w", t.addr, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send via %s: %w", t.addr, ctx.Err())
	}
}
