package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/models"
)

type DepartmentHandler struct {
	db *gorm.DB
}

func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler { return &DepartmentHandler{db: db} }

type departmentPayload struct {
	Code      string `json:"code" validate:"required,uppercase"`
	Name      string `json:"name" validate:"required"`
	CollegeID string `json:"college_id"`
}

// GET /departments
func (h *DepartmentHandler) List(c echo.Context) error {
	var rows []models.Department
	if err := h.db.Order("code ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/departments
func (h *DepartmentHandler) Create(c echo.Context) error {
	var p departmentPayload
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	code := strings.ToUpper(strings.TrimSpace(p.Code))

	var dup models.Department
	if err := h.db.First(&dup, "code = ?", code).Error; err == nil {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": "DEPARTMENT_EXISTS"})
	}

	dep := models.Department{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      p.Name,
		CollegeID: p.CollegeID,
	}
	if err := h.db.Create(&dep).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, dep)
}

// PUT /admin/departments/:id
func (h *DepartmentHandler) Update(c echo.Context) error {
	var dep models.Department
	if err := h.db.First(&dep, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var p departmentPayload
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	dep.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	dep.Name = p.Name
	if p.CollegeID != "" {
		dep.CollegeID = p.CollegeID
	}
	if err := h.db.Save(&dep).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dep)
}
