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

type SubjectHandler struct {
	db *gorm.DB
}

func NewSubjectHandler(db *gorm.DB) *SubjectHandler { return &SubjectHandler{db: db} }

type subjectPayload struct {
	Name        string `json:"name" validate:"required"`
	SubjectCode string `json:"subject_code" validate:"required"`
	Semester    string `json:"semester" validate:"required,min=1,max=10"`
}

// GET /admin/subjects
func (h *SubjectHandler) List(c echo.Context) error {
	var rows []models.Subject
	if err := h.db.Order("subject_code ASC").Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/subjects/:id
func (h *SubjectHandler) Get(c echo.Context) error {
	var s models.Subject
	if err := h.db.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /admin/subjects upserts by subject code: an existing code is
// updated in place, anything else is created.
func (h *SubjectHandler) Create(c echo.Context) error {
	var p subjectPayload
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	code := strings.ToUpper(strings.TrimSpace(p.SubjectCode))

	var s models.Subject
	err := h.db.First(&s, "subject_code = ?", code).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s = models.Subject{
			ID:          uuid.NewString(),
			Name:        p.Name,
			SubjectCode: code,
			Semester:    p.Semester,
		}
		if err := h.db.Create(&s).Error; err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, s)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	s.Name = p.Name
	s.Semester = p.Semester
	if err := h.db.Save(&s).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /admin/subjects/:id
func (h *SubjectHandler) Delete(c echo.Context) error {
	res := h.db.Delete(&models.Subject{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_DELETE_FAILED"})
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
