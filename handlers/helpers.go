package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Anish-Karthik/OD-automation/core"
)

var validate = validator.New()

func currentUserID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

func bindAndValidate(c echo.Context, payload any) error {
	if err := c.Bind(payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": err.Error()})
	}
	return nil
}

// respondCoreError maps the core error taxonomy onto HTTP statuses; message
// text is surfaced verbatim.
func respondCoreError(c echo.Context, err error) error {
	kind := core.KindOf(err)
	if kind == "" {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
	}
	status := http.StatusBadRequest
	switch kind {
	case core.KindUnauthorized:
		status = http.StatusForbidden
	case core.KindNotFound:
		status = http.StatusNotFound
	case core.KindAlreadyResolved:
		status = http.StatusConflict
	case core.KindPrerequisiteNotMet, core.KindRoutingIncomplete:
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, map[string]any{"error": string(kind), "message": err.Error()})
}
