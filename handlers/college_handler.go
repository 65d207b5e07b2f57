package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/models"
)

type CollegeHandler struct {
	db *gorm.DB
}

func NewCollegeHandler(db *gorm.DB) *CollegeHandler { return &CollegeHandler{db: db} }

type collegePayload struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Aishe       string `json:"aishe"`
	District    string `json:"district"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	CoverImage  string `json:"cover_image"`
}

// GET /admin/college
func (h *CollegeHandler) Get(c echo.Context) error {
	var col models.College
	if err := h.db.First(&col).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, col)
}

// PUT /admin/college creates the profile on first call, updates it after.
func (h *CollegeHandler) Upsert(c echo.Context) error {
	var p collegePayload
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}

	var col models.College
	err := h.db.First(&col).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	if created {
		col.ID = uuid.NewString()
	}

	col.Name = p.Name
	col.Code = p.Code
	col.Aishe = p.Aishe
	col.District = p.District
	col.State = p.State
	col.Pincode = p.Pincode
	col.Address = p.Address
	col.Phone = p.Phone
	col.Email = p.Email
	col.Description = p.Description
	col.Logo = p.Logo
	col.CoverImage = p.CoverImage

	if err := h.db.Save(&col).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	if created {
		return c.JSON(http.StatusCreated, col)
	}
	return c.JSON(http.StatusOK, col)
}
