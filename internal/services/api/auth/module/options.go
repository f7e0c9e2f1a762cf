package module

import (
	"time"

	"leadscore/internal/platform/config"
)

// Options holds configuration settings for the auth module
type Options struct {
	Secret      string
	Issuer      string
	TokenTTL    time.Duration
	CodeTTL     time.Duration
	BcryptCost  int
	MailTimeout time.Duration
}

// FromConfig reads AUTH_ settings, AUTH_JWT_SECRET is required
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("AUTH_")
	return Options{
		Secret:      ac.MustSecret("JWT_SECRET", 32),
		Issuer:      ac.MayString("JWT_ISSUER", "leadscore"),
		TokenTTL:    ac.MayDuration("TOKEN_TTL", 24*time.Hour),
		CodeTTL:     ac.MayDuration("CODE_TTL", 10*time.Minute),
		BcryptCost:  ac.MayInt("BCRYPT_COST", 10),
		MailTimeout: ac.MayDuration("MAIL_TIMEOUT", 20*time.Second),
	}
}
