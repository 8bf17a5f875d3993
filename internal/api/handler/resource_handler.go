package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/api/metrics"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

// ResourceHandler serves the CRUD routes of one client-owned resource kind.
type ResourceHandler struct {
	svc    ports.ResourceService
	schema ResourceSchema
}

func NewResourceHandler(svc ports.ResourceService, schema ResourceSchema) *ResourceHandler {
	return &ResourceHandler{svc: svc, schema: schema}
}

type listQuery struct {
	Page     int `query:"page" validate:"gte=0"`
	PageSize int `query:"pageSize" validate:"gte=0"`
}

type listResponse struct {
	Items      []domain.Record `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// Create stores a new resource for the client named in the body.
//
// @Summary      Create a resource
// @Description  Non-admins may only create resources for themselves.
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "audits, simulations or eligibility"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Router       /{kind} [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	req := h.schema.NewCreate()
	if err := bindAndValidate(c, req); err != nil {
		return err
	}

	created, err := h.svc.Create(c.Request().Context(), identity, req.record())
	if err != nil {
		return err
	}

	metrics.ResourcesCreatedTotal.WithLabelValues(h.svc.Kind().Name).Inc()
	return respond(c, http.StatusOK, created)
}

// Get returns a single resource.
//
// @Summary      Get a resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "audits, simulations or eligibility"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  envelope
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /{kind}/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	rec, err := h.svc.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, rec)
}

// Update applies a partial update.
//
// @Summary      Update a resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "audits, simulations or eligibility"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  envelope
// @Failure      400   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /{kind}/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	req := h.schema.NewUpdate()
	if err := bindAndValidate(c, req); err != nil {
		return err
	}

	updated, err := h.svc.Update(c.Request().Context(), identity, c.Param("id"), req.record())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated)
}

// Delete removes a resource.
//
// @Summary      Delete a resource
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "audits, simulations or eligibility"
// @Param        id    path      string  true  "Resource id"
// @Success      200   {object}  envelope
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /{kind}/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]string{"id": id})
}

// ListByClient returns one page of a client's resources, newest first.
//
// @Summary      List a client's resources
// @Tags         resources
// @Produce      json
// @Security     BearerAuth
// @Param        kind      path      string  true   "audits, simulations or eligibility"
// @Param        clientId  path      string  true   "Client id"
// @Param        page      query     int     false  "1-based page"
// @Param        pageSize  query     int     false  "Page size (max 100)"
// @Success      200       {object}  listResponse
// @Failure      403       {object}  errorBody
// @Router       /{kind}/client/{clientId} [get]
func (h *ResourceHandler) ListByClient(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var q listQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.svc.ListByOwner(c.Request().Context(), identity, ports.ListInput{
		OwnerID:  c.Param("clientId"),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, listResponse{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}
