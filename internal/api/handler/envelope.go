package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/core/domain"
)

// envelope is the success body of every API response.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

// userView is the public projection of an identity.
type userView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Type     string `json:"type"`
}

func newUserView(i *domain.Identity) userView {
	return userView{ID: i.ID, Email: i.Email, Username: i.Name, Type: i.Role}
}

// errorBody documents the failure envelope rendered by the API error handler.
type errorBody struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
	Code    string `json:"code" example:"Forbidden"`
}
