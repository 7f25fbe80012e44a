package notify

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSMTPServer speaks just enough SMTP to accept one message.
type fakeSMTPServer struct {
	listener net.Listener

	mu   sync.Mutex
	data string
	rcpt []string
}

func newFakeSMTPServer(t *testing.T) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	s := &fakeSMTPServer{listener: ln}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *fakeSMTPServer) addr() string { return s.listener.Addr().String() }

func (s *fakeSMTPServer) serve() {
	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)
	write := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	write("220 fake ESMTP")
	inData := false
	var body strings.Builder
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if inData {
			if line == "." {
				inData = false
				s.mu.Lock()
				s.data = body.String()
				s.mu.Unlock()
				write("250 OK")
				continue
			}
			body.WriteString(line + "\n")
			continue
		}

		switch {
		case strings.HasPrefix(line, "EHLO"):
			write("250 fake")
		case strings.HasPrefix(line, "HELO"):
			write("250 fake")
		case strings.HasPrefix(line, "MAIL FROM:"):
			write("250 OK")
		case strings.HasPrefix(line, "RCPT TO:"):
			s.mu.Lock()
			s.rcpt = append(s.rcpt, line)
			s.mu.Unlock()
			write("250 OK")
		case line == "DATA":
			inData = true
			write("354 go ahead")
		case line == "QUIT":
			write("221 bye")
			return
		default:
			write("250 OK")
		}
	}
}

func (s *fakeSMTPServer) received() (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data, append([]string(nil), s.rcpt...)
}

func TestSMTPTransport_DeliversMessage(t *testing.T) {
	srv := newFakeSMTPServer(t)
	tr := NewSMTPTransport(srv.addr(), "sysward@example.com")

	event := Event{
		ID:         "evt-1",
		Level:      "ERROR",
		Subject:    "[sysward] ERROR alert on host1",
		Body:       "disk usage at 97%",
		Recipients: []string{"ops@example.com", "admin@example.com"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tr.Send(ctx, event); err != nil {
		t.Fatalf("Send: %v", err)
	}

	data, rcpt := srv.received()
	if len(rcpt) != 2 {
		t.Errorf("recipients seen by server = %d, want 2", len(rcpt))
	}
	if !strings.Contains(data, "Subject: [sysward] ERROR alert on host1") {
		t.Errorf("message missing subject header:\n%s", data)
	}
	if !strings.Contains(data, "disk usage at 97%") {
		t.Errorf("message missing body:\n%s", data)
	}
}

func TestSMTPTransport_NoRecipients(t *testing.T) {
	tr := NewSMTPTransport("127.0.0.1:1", "")
	err := tr.Send(context.Background(), Event{Subject: "s", Body: "b"})
	if err == nil {
		t.Error("Send without recipients succeeded, want error")
	}
}

func TestSMTPTransport_TimeoutOnUnresponsiveServer(t *testing.T) {
	// A listener that never responds: the context bound must cut the
	// attempt short.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = ln.Close() }()
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			defer func() { _ = conn.Close() }()
			time.Sleep(5 * time.Second)
		}
	}()

	tr := NewSMTPTransport(ln.Addr().String(), "")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = tr.Send(ctx, Event{Recipients: []string{"ops@example.com"}})
	if err == nil {
		t.Error("Send to unresponsive server succeeded, want timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("Send blocked for %v, want bounded by context", time.Since(start))
	}
}
