// Package service contains signup, verification and login workflows
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/logger"
	"leadscore/internal/platform/net/http/bind"
	"leadscore/internal/services/api/auth/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Messages returned to clients, kept stable
const (
	MsgEmailTaken   = "Email already registered"
	MsgNoPending    = "No pending verification for this email"
	MsgInvalidCode  = "Invalid verification code"
	MsgExpiredCode  = "Verification code expired"
	MsgInvalidCreds = "Invalid credentials"
)

// Service defines the auth service contract
type Service interface {
	domain.ServicePort
}

// Config tunes the service
type Config struct {
	CodeTTL    time.Duration
	BcryptCost int
	// MailTimeout bounds one verification mail delivery
	MailTimeout time.Duration
}

// VerificationSubject is the subject line of the code mail
const VerificationSubject = "Your LeadScore verification code"

// Svc implements the auth service
type Svc struct {
	users   domain.Users
	pending domain.PendingStore
	tokens  domain.TokenPort
	metrics domain.Metrics
	mailer  domain.Mailer
	cfg     Config
	now     func() time.Time
	code    func() (string, error)
	spawn   func(func())
	log     *logger.Logger
}

// Option configures optional collaborators
type Option func(*Svc)

// WithMetrics reports auth outcomes
func WithMetrics(m domain.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// WithClock fixes the clock
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithCodes fixes the verification code generator
func WithCodes(fn func() (string, error)) Option { return func(s *Svc) { s.code = fn } }

// WithMailer sends verification codes by mail, without one codes are only logged
func WithMailer(m domain.Mailer) Option { return func(s *Svc) { s.mailer = m } }

// WithSpawn replaces the goroutine launcher used for mail delivery
func WithSpawn(fn func(func())) Option { return func(s *Svc) { s.spawn = fn } }

// WithLogger pins the logger instead of deriving one from the request context
func WithLogger(l *logger.Logger) Option { return func(s *Svc) { s.log = l } }

// New constructs the auth service
func New(users domain.Users, pending domain.PendingStore, tokens domain.TokenPort, cfg Config, opts ...Option) *Svc {
	if users == nil || pending == nil || tokens == nil {
		panic("auth.Service requires users, pending and tokens")
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 10 * time.Minute
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = 20 * time.Second
	}
	s := &Svc{
		users: users, pending: pending, tokens: tokens, cfg: cfg,
		now: time.Now, code: sixDigits, spawn: func(fn func()) { go fn() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Signup records a pending registration and issues a verification code
// the code is mailed in the background, the log carries it only when mail is off or fails
func (s *Svc) Signup(ctx context.Context, in domain.SignupInput) (domain.SignupReply, error) {
	in.Normalize()
	if err := bind.Validate(in); err != nil {
		return domain.SignupReply{}, err
	}
	if err := s.ensureFree(ctx, in.Email); err != nil {
		s.event("signup", "rejected")
		return domain.SignupReply{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return domain.SignupReply{}, perr.Wrap(err, perr.ErrorCodeUnknown, "hash password")
	}
	code, err := s.code()
	if err != nil {
		return domain.SignupReply{}, perr.Wrap(err, perr.ErrorCodeUnknown, "generate code")
	}
	p := domain.Pending{
		Name:         in.Name,
		Phone:        in.Phone,
		UserType:     in.UserType,
		Email:        in.Email,
		PasswordHash: string(hash),
		Code:         code,
		ExpiresAt:    s.now().UTC().Add(s.cfg.CodeTTL),
	}
	if err := s.pending.Put(ctx, p, s.cfg.CodeTTL); err != nil {
		return domain.SignupReply{}, err
	}

	s.deliver(ctx, p)
	s.event("signup", "pending")

	return domain.SignupReply{Message: "Verification code sent", Email: p.Email, ExpiresAt: p.ExpiresAt}, nil
}

// Verify turns a pending registration into a user when the code matches and is still valid
func (s *Svc) Verify(ctx context.Context, in domain.VerifyInput) (domain.VerifyReply, error) {
	in.Normalize()
	if err := bind.Validate(in); err != nil {
		return domain.VerifyReply{}, err
	}

	p, err := s.pending.Get(ctx, in.Email)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		s.event("verify", "no_pending")
		return domain.VerifyReply{}, perr.WithField(perr.Validationf(MsgNoPending), "email")
	}
	if err != nil {
		return domain.VerifyReply{}, err
	}
	if subtle.ConstantTimeCompare([]byte(p.Code), []byte(in.Code)) != 1 {
		s.event("verify", "bad_code")
		return domain.VerifyReply{}, perr.WithField(perr.Validationf(MsgInvalidCode), "code")
	}
	if s.now().After(p.ExpiresAt) {
		_ = s.pending.Delete(ctx, in.Email)
		s.event("verify", "expired")
		return domain.VerifyReply{}, perr.WithField(perr.Expiredf(MsgExpiredCode), "code")
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Name:         p.Name,
		Phone:        p.Phone,
		UserType:     p.UserType,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
			_ = s.pending.Delete(ctx, in.Email)
			s.event("verify", "rejected")
			return domain.VerifyReply{}, perr.WithField(perr.Conflictf(MsgEmailTaken), "email")
		}
		return domain.VerifyReply{}, err
	}
	if err := s.pending.Delete(ctx, in.Email); err != nil {
		s.logger(ctx).Warn().Err(err).Str("email", in.Email).Msg("pending registration not cleared")
	}
	s.event("verify", "ok")
	return domain.VerifyReply{Message: "User registered", User: u.Public()}, nil
}

// Login checks credentials and issues a session token
// unknown email and wrong password answer the same error
func (s *Svc) Login(ctx context.Context, in domain.LoginInput) (domain.LoginReply, error) {
	in.Normalize()
	if err := bind.Validate(in); err != nil {
		return domain.LoginReply{}, err
	}

	u, err := s.users.ByEmail(ctx, in.Email)
	if err != nil && !perr.IsCode(err, perr.ErrorCodeNotFound) {
		return domain.LoginReply{}, err
	}
	if err != nil || u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		s.event("login", "rejected")
		return domain.LoginReply{}, perr.Unauthorizedf(MsgInvalidCreds)
	}

	tok, exp, err := s.tokens.Issue(u)
	if err != nil {
		return domain.LoginReply{}, perr.Wrap(err, perr.ErrorCodeUnknown, "issue token")
	}
	s.event("login", "ok")
	return domain.LoginReply{Token: tok, ExpiresAt: exp, User: u.Public()}, nil
}

func (s *Svc) ensureFree(ctx context.Context, email string) error {
	_, err := s.users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return perr.WithField(perr.Conflictf(MsgEmailTaken), "email")
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return nil
	default:
		return err
	}
}

// deliver mails the code on its own goroutine, detached from the request
func (s *Svc) deliver(ctx context.Context, p domain.Pending) {
	log := s.logger(ctx)
	if s.mailer == nil {
		log.Info().Str("email", p.Email).Str("code", p.Code).Time("expires_at", p.ExpiresAt).
			Msg("verification code issued, no mailer configured")
		return
	}
	bg := context.WithoutCancel(ctx)
	s.spawn(func() {
		ctx, cancel := context.WithTimeout(bg, s.cfg.MailTimeout)
		defer cancel()
		if err := s.mailer.Send(ctx, p.Email, VerificationSubject, verificationBody(p.Code)); err != nil {
			log.Warn().Err(err).Str("email", p.Email).Str("code", p.Code).Time("expires_at", p.ExpiresAt).
				Msg("verification mail failed, code logged instead")
			s.event("mail", "failed")
			return
		}
		log.Info().Str("email", p.Email).Msg("verification mail sent")
		s.event("mail", "sent")
	})
}

func verificationBody(code string) string {
	return fmt.Sprintf("Hello,\n\nYour LeadScore verification code is: %s\n\n"+
		"If you did not request this, please ignore.\n\nThe LeadScore Team\n", code)
}

func (s *Svc) logger(ctx context.Context) *logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.C(ctx)
}

func (s *Svc) event(name, outcome string) {
	if s.metrics != nil {
		s.metrics.AuthEvent(name, outcome)
	}
}

// sixDigits draws a uniform code in 000000..999999
func sixDigits() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	s := n.String()
	for len(s) < 6 {
		s = "0" + s
	}
	return s, nil
}
