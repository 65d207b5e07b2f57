package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/models"
)

type TeacherHandler struct {
	db     *gorm.DB
	assign *core.AssignmentService
}

func NewTeacherHandler(db *gorm.DB, assign *core.AssignmentService) *TeacherHandler {
	return &TeacherHandler{db: db, assign: assign}
}

// GET /admin/teachers
func (h *TeacherHandler) List(c echo.Context) error {
	rows, err := h.assign.ListTeacherOverviews(c.Request().Context())
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/teachers/:id
func (h *TeacherHandler) Get(c echo.Context) error {
	var t models.Teacher
	if err := h.db.First(&t, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, t)
}

type teacherCreateReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// POST /admin/teachers upserts the user by email and guarantees a
// teacher record exists for it.
func (h *TeacherHandler) Create(c echo.Context) error {
	var req teacherCreateReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.upsertTeacher(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, u)
}

// POST /admin/teachers/bulk
func (h *TeacherHandler) CreateMany(c echo.Context) error {
	var reqs []teacherCreateReq
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	out := make([]*models.User, 0, len(reqs))
	for _, req := range reqs {
		if err := validate.Struct(req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": err.Error()})
		}
		u, err := h.upsertTeacher(req)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		out = append(out, u)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TeacherHandler) upsertTeacher(in teacherCreateReq) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var u models.User
	err := h.db.First(&u, "email = ?", email).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = models.User{
			ID:       uuid.NewString(),
			Username: email,
			Email:    email,
			Name:     in.Name,
			Role:     models.RoleTeacher,
		}
		if err := h.db.Create(&u).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		u.Name = in.Name
		if err := h.db.Save(&u).Error; err != nil {
			return nil, err
		}
	}

	var t models.Teacher
	if err := h.db.First(&t, "user_id = ?", u.ID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		t = models.Teacher{ID: uuid.NewString(), UserID: u.ID}
		if err := h.db.Create(&t).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return &u, nil
}

type assignRoleReq struct {
	Role         string `json:"role" validate:"required"`
	TeacherID    string `json:"teacher_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	Batch        string `json:"batch"`
	Year         int    `json:"year"`
	Semester     int    `json:"semester"`
	Section      string `json:"section"`
	StartRollNo  int    `json:"start_roll_no"`
	EndRollNo    int    `json:"end_roll_no"`
}

// POST /admin/teachers/assign-role
func (h *TeacherHandler) AssignRole(c echo.Context) error {
	var req assignRoleReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role := core.TierFromString(req.Role)
	if role == core.TierNone {
		return respondCoreError(c, core.Errorf(core.KindInvalidRoleTransition, "unknown role %q", req.Role))
	}
	t, err := h.assign.AssignRole(c.Request().Context(), core.RoleDescriptor{
		Role:         role,
		TeacherID:    req.TeacherID,
		DepartmentID: req.DepartmentID,
		Batch:        req.Batch,
		Year:         req.Year,
		Semester:     req.Semester,
		Section:      req.Section,
		StartRollNo:  req.StartRollNo,
		EndRollNo:    req.EndRollNo,
	})
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
