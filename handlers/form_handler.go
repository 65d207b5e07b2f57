package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/models"
)

type FormHandler struct {
	svc *core.ApprovalService
}

func NewFormHandler(svc *core.ApprovalService) *FormHandler { return &FormHandler{svc: svc} }

type submitReq struct {
	RequesterID string   `json:"requester_id" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Reason      string   `json:"reason" validate:"required"`
	FormType    string   `json:"form_type" validate:"required,oneof=ON_DUTY LEAVE"`
	Dates       []string `json:"dates" validate:"required,min=1,dive,required"` // YYYY-MM-DD
}

// POST /student/forms
func (h *FormHandler) Submit(c echo.Context) error {
	var req submitReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.RequesterID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "UNAUTHORIZED", "message": "caller must be the requester"})
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, d := range req.Dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE", "message": d})
		}
		dates = append(dates, t)
	}

	form, err := h.svc.Submit(c.Request().Context(), core.SubmitInput{
		RequesterID: req.RequesterID,
		Category:    req.Category,
		Reason:      req.Reason,
		FormType:    models.FormType(req.FormType),
		Dates:       dates,
	})
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusCreated, form)
}

// GET /student/forms
func (h *FormHandler) StudentForms(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = currentUserID(c)
	}
	forms, err := h.svc.ListStudentForms(c.Request().Context(), currentUserID(c), userID)
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusOK, forms)
}

// GET /teacher/forms
func (h *FormHandler) TeacherForms(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = currentUserID(c)
	}
	forms, err := h.svc.ListTeacherForms(c.Request().Context(), currentUserID(c), userID)
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusOK, forms)
}

type decideReq struct {
	RequestID          string  `json:"request_id" validate:"required"`
	RequestedID        string  `json:"requested_id" validate:"required"`
	Status             string  `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
	ReasonForRejection *string `json:"reason_for_rejection"`
}

// POST /teacher/forms/decide
func (h *FormHandler) Decide(c echo.Context) error {
	var req decideReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.RequestedID != currentUserID(c) {
		return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "UNAUTHORIZED", "message": "caller must be the addressed approver"})
	}

	form, err := h.svc.Decide(c.Request().Context(), core.DecideInput{
		RequestID:          req.RequestID,
		RequestedID:        req.RequestedID,
		Status:             models.RequestStatus(req.Status),
		ReasonForRejection: req.ReasonForRejection,
	})
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

// GET /forms/:id
func (h *FormHandler) Get(c echo.Context) error {
	form, err := h.svc.GetForm(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}
