// Package http provides http transport for lead intake
package http

import (
	stdhttp "net/http"
	"strconv"

	"leadscore/internal/modkit/httpkit"
	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/net/http/bind"
	"leadscore/internal/services/api/leads/domain"
)

// Register mounts lead endpoints, the caller is expected to have applied auth
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.CreateJSON(r, "/", h.submit)
	httpkit.GetJSON(r, "/", h.recent)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /leads Leads leadsSubmit
// @Summary Submit a lead and get its score
// @Tags Leads
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body domain.SubmitInput true "Lead form"
// @Success 201 {object} domain.Submitted "created"
// @Router /leads [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	p, err := httpkit.Principal(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Submit(r.Context(), p.UserID, in)
}

// swagger:route GET /leads Leads leadsRecent
// @Summary Most recent leads
// @Tags Leads
// @Security BearerAuth
// @Produce json
// @Param limit query int false "max rows, 1..500"
// @Success 200 {array} leads.Record "ok"
// @Router /leads [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	var in domain.ListInput
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a number"), "limit")
		}
		in.Limit = n
	}
	if err := bind.Validate(in); err != nil {
		return nil, err
	}
	return h.svc.Recent(r.Context(), in.Limit)
}
