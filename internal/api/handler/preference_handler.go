package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

type PreferenceHandler struct {
	svc ports.PreferenceService
}

func NewPreferenceHandler(svc ports.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

type updatePreferencesRequest struct {
	UISettings           map[string]any `json:"ui_settings,omitempty"`
	NotificationSettings map[string]any `json:"notification_settings,omitempty"`
	DashboardVisited     *bool          `json:"dashboard_visited,omitempty"`
	LastViewedRequest    *int64         `json:"last_viewed_request,omitempty" validate:"omitempty,gte=0"`
}

// Get returns the caller's preferences, or defaults before the first write.
//
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Preferences
// @Failure      401  {object}  errorBody
// @Router       /preferences [get]
func (h *PreferenceHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	prefs, err := h.svc.Get(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, prefs)
}

// Update merges the body into the caller's preferences.
//
// @Summary      Update preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePreferencesRequest  true  "Fields to change"
// @Success      200   {object}  domain.Preferences
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /preferences [put]
func (h *PreferenceHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req updatePreferencesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	prefs, err := h.svc.Update(c.Request().Context(), identity.ID, domain.PreferencesPatch{
		UISettings:           req.UISettings,
		NotificationSettings: req.NotificationSettings,
		DashboardVisited:     req.DashboardVisited,
		LastViewedRequest:    req.LastViewedRequest,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, prefs)
}
