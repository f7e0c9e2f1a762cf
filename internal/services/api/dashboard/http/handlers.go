// Package http provides http transport for dashboards
package http

import (
	stdhttp "net/http"

	"leadscore/internal/modkit/httpkit"
	"leadscore/internal/services/api/dashboard/domain"
)

// Register mounts dashboard endpoints, every route needs a principal
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	httpkit.GetJSON(r, "/", h.view)
	httpkit.DeleteJSON(r, "/", h.end)
	httpkit.PutJSON(r, "/filters", h.setFilter)
	httpkit.DeleteJSON(r, "/filters", h.resetFilter)
	httpkit.PostJSON(r, "/query", h.query)
	httpkit.GetJSON(r, "/sources", h.sources)
}

type handlers struct{ svc domain.ServicePort }

func session(r *stdhttp.Request) (string, error) {
	p, err := httpkit.Principal(r)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}

// swagger:route GET /dashboard Dashboard dashboardView
// @Summary Current dashboard view of the caller
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} leads.View "ok"
// @Router /dashboard [get]
func (h *handlers) view(r *stdhttp.Request) (any, error) {
	sid, err := session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.View(r.Context(), sid), nil
}

// swagger:route DELETE /dashboard Dashboard dashboardEnd
// @Summary End the caller's dashboard session
// @Tags Dashboard
// @Security BearerAuth
// @Success 204 "ended"
// @Router /dashboard [delete]
func (h *handlers) end(r *stdhttp.Request) (any, error) {
	sid, err := session(r)
	if err != nil {
		return nil, err
	}
	h.svc.End(r.Context(), sid)
	return nil, nil
}

// swagger:route PUT /dashboard/filters Dashboard dashboardSetFilter
// @Summary Replace the caller's filter
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filter"
// @Success 200 {object} leads.View "ok"
// @Router /dashboard/filters [put]
func (h *handlers) setFilter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	sid, err := session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.SetFilter(r.Context(), sid, in)
}

// swagger:route DELETE /dashboard/filters Dashboard dashboardResetFilter
// @Summary Reset the caller's filter
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} leads.View "ok"
// @Router /dashboard/filters [delete]
func (h *handlers) resetFilter(r *stdhttp.Request) (any, error) {
	sid, err := session(r)
	if err != nil {
		return nil, err
	}
	return h.svc.ResetFilter(r.Context(), sid), nil
}

// swagger:route POST /dashboard/query Dashboard dashboardQuery
// @Summary One-shot view for a filter over the live snapshot
// @Tags Dashboard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filter"
// @Success 200 {object} leads.View "ok"
// @Router /dashboard/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	return h.svc.Query(r.Context(), in)
}

// swagger:route GET /dashboard/sources Dashboard dashboardSources
// @Summary Source filter options
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {array} string "ok"
// @Router /dashboard/sources [get]
func (h *handlers) sources(r *stdhttp.Request) (any, error) {
	return h.svc.Sources(r.Context()), nil
}
