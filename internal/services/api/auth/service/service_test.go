package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/testkit"
	"leadscore/internal/services/api/auth/domain"
	"leadscore/internal/services/api/auth/repo"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type harness struct {
	svc    *Svc
	clock  *clock
	users  *repo.MemoryUsers
	signer *Signer
	events []string
}

func (h *harness) AuthEvent(event, outcome string) { h.events = append(h.events, event+":"+outcome) }

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{clock: &clock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}, users: repo.NewMemoryUsers()}
	signer, err := NewSigner("0123456789abcdef0123456789abcdef", "leadscore", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	signer.now = h.clock.now
	h.signer = signer
	base := []Option{
		WithClock(h.clock.now),
		WithCodes(func() (string, error) { return "123456", nil }),
		WithMetrics(h),
	}
	h.svc = New(h.users, repo.NewMemoryPending(h.clock.now), signer,
		Config{BcryptCost: bcrypt.MinCost},
		append(base, opts...)...,
	)
	return h
}

func signup() domain.SignupInput {
	return domain.SignupInput{Name: " Ada Lovelace ", Email: " Ada@Acme.IO ", Password: "s3cret!"}
}

func code(t *testing.T, err error, want perr.ErrorCode, msg string) {
	t.Helper()
	e, ok := perr.As(err)
	if !ok || e.Code() != want || e.Message() != msg {
		t.Fatalf("err = %v, want %v %q", err, want, msg)
	}
}

func TestSignupVerifyLogin_HappyPath(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	rep, err := h.svc.Signup(ctx, signup())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if rep.Email != "ada@acme.io" || !rep.ExpiresAt.Equal(h.clock.t.Add(10*time.Minute)) {
		t.Fatalf("signup reply = %+v", rep)
	}

	v, err := h.svc.Verify(ctx, domain.VerifyInput{Email: "ADA@acme.io", Code: " 123456 "})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if v.User.UserType != domain.DefaultUserType || v.User.Name != "Ada Lovelace" || v.User.ID == "" {
		t.Fatalf("user = %+v", v.User)
	}
	stored, _ := h.users.ByEmail(ctx, "ada@acme.io")
	if stored.PasswordHash == "" || stored.PasswordHash == "s3cret!" {
		t.Fatal("password must be stored hashed")
	}

	lr, err := h.svc.Login(ctx, domain.LoginInput{Email: "ada@acme.io", Password: "s3cret!"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	who, err := h.signer.Parse(lr.Token)
	if err != nil || who.UserID != v.User.ID || who.Email != "ada@acme.io" {
		t.Fatalf("token principal = %+v %v", who, err)
	}
	testkit.MustEqual(t, []string{"signup:pending", "verify:ok", "login:ok"}, h.events)
}

func TestSignup_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	in := signup()
	in.Password = "12345"
	_, err := h.svc.Signup(ctx, in)
	if e, ok := perr.As(err); !ok || e.Field() != "password" {
		t.Fatalf("short password = %v", err)
	}

	_, _ = h.svc.Signup(ctx, signup())
	_, _ = h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "123456"})

	_, err = h.svc.Signup(ctx, signup())
	code(t, err, perr.ErrorCodeConflict, MsgEmailTaken)
}

func TestVerify_Failures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "123456"})
	code(t, err, perr.ErrorCodeValidation, MsgNoPending)

	_, _ = h.svc.Signup(ctx, signup())
	_, err = h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "654321"})
	code(t, err, perr.ErrorCodeValidation, MsgInvalidCode)

	h.clock.t = h.clock.t.Add(10*time.Minute + time.Second)
	_, err = h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "123456"})
	code(t, err, perr.ErrorCodeExpired, MsgExpiredCode)

	// expired registrations are cleared
	_, err = h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "123456"})
	code(t, err, perr.ErrorCodeValidation, MsgNoPending)
}

func TestVerify_RaceForSameEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, _ = h.svc.Signup(ctx, signup())
	_ = h.users.Create(ctx, domain.User{ID: "other", Email: "ada@acme.io"})

	_, err := h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "123456"})
	code(t, err, perr.ErrorCodeConflict, MsgEmailTaken)
}

func TestLogin_SameErrorForUnknownAndWrong(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, _ = h.svc.Signup(ctx, signup())
	_, _ = h.svc.Verify(ctx, domain.VerifyInput{Email: "ada@acme.io", Code: "123456"})

	_, err := h.svc.Login(ctx, domain.LoginInput{Email: "ada@acme.io", Password: "wrong!!"})
	code(t, err, perr.ErrorCodeUnauthorized, MsgInvalidCreds)

	_, err = h.svc.Login(ctx, domain.LoginInput{Email: "bob@acme.io", Password: "s3cret!"})
	code(t, err, perr.ErrorCodeUnauthorized, MsgInvalidCreds)
}

func TestSixDigits(t *testing.T) {
	for range 50 {
		c, err := sixDigits()
		if err != nil || len(c) != 6 {
			t.Fatalf("code %q %v", c, err)
		}
		for _, r := range c {
			if r < '0' || r > '9' {
				t.Fatalf("code %q", c)
			}
		}
	}
}

type fakeMailer struct {
	err     error
	calls   int
	to      string
	subject string
	body    string
	ctxErr  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.calls++
	f.to, f.subject, f.body, f.ctxErr = to, subject, body, ctx.Err()
	return f.err
}

// mailHarness queues spawned deliveries so the test decides when they run
func mailHarness(t *testing.T, m *fakeMailer) (*harness, *bytes.Buffer, *[]func()) {
	t.Helper()
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	queued := &[]func(){}
	h := newHarness(t,
		WithMailer(m),
		WithLogger(&l),
		WithSpawn(func(fn func()) { *queued = append(*queued, fn) }),
	)
	return h, &buf, queued
}

func TestSignup_MailsCodeWithoutLoggingIt(t *testing.T) {
	m := &fakeMailer{}
	h, logs, queued := mailHarness(t, m)

	// delivery must outlive the request
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := h.svc.Signup(ctx, signup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	cancel()
	if m.calls != 0 || len(*queued) != 1 {
		t.Fatalf("delivery should run off the request path, calls=%d queued=%d", m.calls, len(*queued))
	}
	(*queued)[0]()

	if m.calls != 1 || m.to != "ada@acme.io" || m.subject != VerificationSubject {
		t.Fatalf("mail = %+v", m)
	}
	if !strings.Contains(m.body, "123456") {
		t.Fatalf("body lacks code: %q", m.body)
	}
	if m.ctxErr != nil {
		t.Fatalf("mail ctx was cancelled with the request: %v", m.ctxErr)
	}
	if strings.Contains(logs.String(), "123456") {
		t.Fatalf("code leaked to the log: %s", logs.String())
	}
	testkit.MustEqual(t, []string{"signup:pending", "mail:sent"}, h.events)
}

func TestSignup_MailFailureLogsCode(t *testing.T) {
	m := &fakeMailer{err: errors.New("relay down")}
	h, logs, queued := mailHarness(t, m)

	if _, err := h.svc.Signup(context.Background(), signup()); err != nil {
		t.Fatalf("Signup should not fail on mail errors: %v", err)
	}
	for _, fn := range *queued {
		fn()
	}
	if !strings.Contains(logs.String(), `"code":"123456"`) || !strings.Contains(logs.String(), "relay down") {
		t.Fatalf("fallback log = %s", logs.String())
	}
	testkit.MustEqual(t, []string{"signup:pending", "mail:failed"}, h.events)

	// the pending registration stands, the logged code still verifies
	if _, err := h.svc.Verify(context.Background(), domain.VerifyInput{Email: "ada@acme.io", Code: "123456"}); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestSignup_NoMailerLogsCode(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	h := newHarness(t, WithLogger(&l))

	if _, err := h.svc.Signup(context.Background(), signup()); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !strings.Contains(buf.String(), `"code":"123456"`) {
		t.Fatalf("log = %s", buf.String())
	}
}
