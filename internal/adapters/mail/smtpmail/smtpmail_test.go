package smtpmail

import (
	"context"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	perr "leadscore/internal/platform/errors"
)

// relay is a single connection SMTP server speaking just enough of the protocol
type relay struct {
	addr     string
	rejectTo bool
	got      chan session
}

type session struct {
	cmds []string
	data string
}

func startRelay(t *testing.T, rejectTo bool) *relay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	r := &relay{addr: ln.Addr().String(), rejectTo: rejectTo, got: make(chan session, 1)}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
		r.got <- r.serve(textproto.NewConn(conn))
	}()
	return r
}

func (r *relay) serve(tp *textproto.Conn) session {
	var s session
	_ = tp.PrintfLine("220 relay ready")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return s
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		s.cmds = append(s.cmds, verb)
		switch verb {
		case "EHLO":
			_ = tp.PrintfLine("250-relay")
			_ = tp.PrintfLine("250 8BITMIME")
		case "MAIL":
			_ = tp.PrintfLine("250 sender ok")
		case "RCPT":
			if r.rejectTo {
				_ = tp.PrintfLine("550 no such user")
				continue
			}
			_ = tp.PrintfLine("250 recipient ok")
		case "DATA":
			_ = tp.PrintfLine("354 end with dot")
			b, _ := tp.ReadDotBytes()
			s.data = string(b)
			_ = tp.PrintfLine("250 queued")
		case "QUIT":
			_ = tp.PrintfLine("221 bye")
			return s
		default:
			_ = tp.PrintfLine("502 not implemented")
		}
	}
}

func mailerFor(t *testing.T, addr string) *Mailer {
	t.Helper()
	host, port, _ := net.SplitHostPort(addr)
	p, _ := strconv.Atoi(port)
	m, err := New(Config{Host: host, Port: p, From: "hello@leadscore.test", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.now = func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	return m
}

func TestNew_Validates(t *testing.T) {
	if _, err := New(Config{Port: 587}); err == nil {
		t.Fatal("missing host should fail")
	}
	if _, err := New(Config{Host: "smtp.example.com"}); err == nil {
		t.Fatal("missing port should fail")
	}
	m, err := New(Config{Host: "smtp.example.com", Port: 587})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.cfg.From != DefaultFrom || m.cfg.Timeout != 20*time.Second {
		t.Fatalf("defaults = %+v", m.cfg)
	}
}

func TestSend_DeliversMessage(t *testing.T) {
	r := startRelay(t, false)
	m := mailerFor(t, r.addr)

	err := m.Send(context.Background(), "ada@acme.io", "Your LeadScore verification code", "Your code is: 123456\nBye")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	s := <-r.got
	if got := strings.Join(s.cmds, " "); got != "EHLO MAIL RCPT DATA QUIT" {
		t.Fatalf("commands = %s", got)
	}
	for _, want := range []string{
		"From: hello@leadscore.test",
		"To: ada@acme.io",
		"Subject: Your LeadScore verification code",
		"Content-Type: text/plain; charset=UTF-8",
		"Your code is: 123456\nBye",
	} {
		if !strings.Contains(s.data, want) {
			t.Fatalf("data missing %q:\n%s", want, s.data)
		}
	}
}

func TestSend_RejectedRecipient(t *testing.T) {
	r := startRelay(t, true)
	m := mailerFor(t, r.addr)

	err := m.Send(context.Background(), "ghost@acme.io", "hi", "body")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v (%v)", err, perr.CodeOf(err))
	}
}

func TestSend_RefusesHeaderInjection(t *testing.T) {
	m, _ := New(Config{Host: "127.0.0.1", Port: 1})
	err := m.Send(context.Background(), "ada@acme.io\r\nBcc: all@acme.io", "hi", "body")
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestSend_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	m := mailerFor(t, addr)
	if err := m.Send(context.Background(), "ada@acme.io", "hi", "body"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
