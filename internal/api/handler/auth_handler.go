package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/api/metrics"
	"github.com/profitum/platform-api/internal/api/middleware"
	"github.com/profitum/platform-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=client expert"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

func newAuthResponse(res *ports.AuthResult) authResponse {
	metrics.TokensIssuedTotal.WithLabelValues(res.Identity.Role).Inc()
	return authResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: newUserView(res.Identity)}
}

// Register creates a new client or expert account and signs it in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, newAuthResponse(res))
}

// Login authenticates a client or expert and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, newAuthResponse(res))
}

// Check returns the identity behind the presented token.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userView
// @Failure      401  {object}  errorBody
// @Router       /auth/check [get]
func (h *AuthHandler) Check(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, newUserView(identity))
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope
// @Failure      401  {object}  errorBody
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxIdentity(c); err != nil {
		return err
	}
	if claims, ok := middleware.ClaimsFrom(c); ok {
		if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
			return err
		}
	}
	return respond(c, http.StatusOK, map[string]string{"message": "logged out"})
}

// ListClients returns every client account. Experts only.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userView
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /clients [get]
func (h *AuthHandler) ListClients(c echo.Context) error {
	clients, err := h.authService.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userView, len(clients))
	for i, cl := range clients {
		out[i] = newUserView(cl)
	}
	return respond(c, http.StatusOK, out)
}
