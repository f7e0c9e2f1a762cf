// Package domain holds DTOs and ports for account signup and sessions
package domain

import (
	"strings"
	"time"

	str "leadscore/internal/platform/strings"
)

// DefaultUserType applies when signup leaves userType empty
const DefaultUserType = "Internal"

// SignupInput starts a pending registration
type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2,max=200" example:"Ada Lovelace"`
	Phone    string `json:"phone,omitempty" validate:"max=40" example:"+44 20 7946 0958"`
	UserType string `json:"userType,omitempty" validate:"max=40" example:"Internal"`
	Email    string `json:"email" validate:"required,email,max=320" example:"ada@acme.io"`
	Password string `json:"password" validate:"required,min=6,max=72" example:"s3cret!"`
}

// Normalize trims text fields, lowercases the email and applies the user type default
// the password is left untouched
func (in *SignupInput) Normalize() {
	str.TrimAll(&in.Name, &in.Phone, &in.UserType, &in.Email)
	in.Email = strings.ToLower(in.Email)
	if in.UserType == "" {
		in.UserType = DefaultUserType
	}
}

// VerifyInput completes a pending registration
type VerifyInput struct {
	Email string `json:"email" validate:"required,email,max=320" example:"ada@acme.io"`
	Code  string `json:"code" validate:"required,max=12" example:"042917"`
}

// Normalize trims and lowercases
func (in *VerifyInput) Normalize() {
	str.TrimAll(&in.Email, &in.Code)
	in.Email = strings.ToLower(in.Email)
}

// LoginInput exchanges credentials for a session token
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=320" example:"ada@acme.io"`
	Password string `json:"password" validate:"required,max=72" example:"s3cret!"`
}

// Normalize trims and lowercases the email
func (in *LoginInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// User is a registered account
type User struct {
	ID           string
	Name         string
	Phone        string
	UserType     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Public strips the password hash
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Phone: u.Phone, UserType: u.UserType, Email: u.Email, CreatedAt: u.CreatedAt}
}

// PublicUser is the user as returned to clients
type PublicUser struct {
	ID        string    `json:"id" example:"5b0d1f8e-2c61-4f5e-9a43-0f3b7c9d8e21"`
	Name      string    `json:"name" example:"Ada Lovelace"`
	Phone     string    `json:"phone,omitempty" example:"+44 20 7946 0958"`
	UserType  string    `json:"userType" example:"Internal"`
	Email     string    `json:"email" example:"ada@acme.io"`
	CreatedAt time.Time `json:"createdAt" example:"2026-10-18T09:30:00Z"`
}

// Pending is a registration waiting for its code
// the password is already hashed
type Pending struct {
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	UserType     string    `json:"userType"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// SignupReply acknowledges a signup without revealing the code
type SignupReply struct {
	Message   string    `json:"message" example:"Verification code sent"`
	Email     string    `json:"email" example:"ada@acme.io"`
	ExpiresAt time.Time `json:"expiresAt" example:"2026-10-18T09:40:00Z"`
}

// VerifyReply confirms a registration
type VerifyReply struct {
	Message string     `json:"message" example:"User registered"`
	User    PublicUser `json:"user"`
}

// LoginReply carries the session token
type LoginReply struct {
	Token     string     `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt time.Time  `json:"expiresAt" example:"2026-10-19T09:30:00Z"`
	User      PublicUser `json:"user"`
}
