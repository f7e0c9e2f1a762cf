// Package http provides http transport for auth
package http

import (
	stdhttp "net/http"

	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/services/api/auth/domain"
)

// Register mounts the public auth endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.CreateJSON(r, "/signup", h.signup)
	httpkit.PostJSON(r, "/verify", h.verify)
	httpkit.PostJSON(r, "/login", h.login)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /auth/signup Auth authSignup
// @Summary Start a registration, a verification code is issued
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.SignupInput true "Signup"
// @Success 201 {object} domain.SignupReply "pending"
// @Failure 409 {object} httpkit.Envelope "email already registered"
// @Router /auth/signup [post]
func (h *handlers) signup(r *stdhttp.Request, in domain.SignupInput) (any, error) {
	return h.svc.Signup(r.Context(), in)
}

// swagger:route POST /auth/verify Auth authVerify
// @Summary Complete a registration with its code
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.VerifyInput true "Verification"
// @Success 200 {object} domain.VerifyReply "registered"
// @Router /auth/verify [post]
func (h *handlers) verify(r *stdhttp.Request, in domain.VerifyInput) (any, error) {
	return h.svc.Verify(r.Context(), in)
}

// swagger:route POST /auth/login Auth authLogin
// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body domain.LoginInput true "Credentials"
// @Success 200 {object} domain.LoginReply "session"
// @Failure 401 {object} httpkit.Envelope "invalid credentials"
// @Router /auth/login [post]
func (h *handlers) login(r *stdhttp.Request, in domain.LoginInput) (any, error) {
	return h.svc.Login(r.Context(), in)
}
