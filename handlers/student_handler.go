package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/models"
)

type StudentHandler struct {
	db *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler { return &StudentHandler{db: db} }

type studentPayload struct {
	RegNo        string `json:"reg_no" validate:"required"`
	RollNo       int    `json:"roll_no" validate:"required,min=1"`
	Name         string `json:"name" validate:"required"`
	Year         int    `json:"year" validate:"required,min=1,max=6"`
	Semester     int    `json:"semester" validate:"required,min=1,max=8"`
	Section      string `json:"section" validate:"required"`
	Batch        string `json:"batch" validate:"required"`
	Vertical     string `json:"vertical"`
	Email        string `json:"email" validate:"omitempty,email"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// GET /admin/students?departmentId=&year=&q=&page=&size=
func (h *StudentHandler) List(c echo.Context) error {
	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	tx := h.db.Model(&models.Student{})
	if dep := strings.TrimSpace(c.QueryParam("departmentId")); dep != "" {
		tx = tx.Where("department_id = ?", dep)
	}
	if year := atoiOr(c.QueryParam("year"), 0); year > 0 {
		tx = tx.Where("year = ?", year)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("name ILIKE ? OR reg_no ILIKE ?", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_COUNT_FAILED"})
	}
	var rows []models.Student
	if err := tx.Order("reg_no ASC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": rows, "page": page, "size": size, "total": total})
}

// GET /admin/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var st models.Student
	if err := h.db.First(&st, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, st)
}

// POST /admin/students creates the user account and the enrollment
// record together.
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	st, err := h.createStudent(p)
	if err != nil {
		return respondCoreError(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

// POST /admin/students/bulk
func (h *StudentHandler) CreateMany(c echo.Context) error {
	var ps []studentPayload
	if err := c.Bind(&ps); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	out := make([]*models.Student, 0, len(ps))
	for _, p := range ps {
		if err := validate.Struct(p); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "message": err.Error()})
		}
		st, err := h.createStudent(p)
		if err != nil {
			return respondCoreError(c, err)
		}
		out = append(out, st)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *StudentHandler) createStudent(p studentPayload) (*models.Student, error) {
	if err := core.CheckYearSemester(p.Year, p.Semester); err != nil {
		return nil, err
	}
	regNo := strings.TrimSpace(p.RegNo)

	var dup models.Student
	if err := h.db.First(&dup, "reg_no = ?", regNo).Error; err == nil {
		return nil, core.Errorf(core.KindValidation, "a student with register number %s already exists", regNo)
	}

	st := &models.Student{}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		u := models.User{
			ID:       uuid.NewString(),
			Username: regNo,
			Email:    strings.ToLower(strings.TrimSpace(p.Email)),
			Name:     p.Name,
			Role:     models.RoleStudent,
		}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		*st = models.Student{
			ID:           uuid.NewString(),
			UserID:       u.ID,
			RegNo:        regNo,
			RollNo:       p.RollNo,
			Name:         p.Name,
			Year:         p.Year,
			Semester:     p.Semester,
			Section:      strings.ToUpper(strings.TrimSpace(p.Section)),
			Batch:        p.Batch,
			Vertical:     p.Vertical,
			Email:        u.Email,
			DepartmentID: p.DepartmentID,
		}
		return tx.Create(st).Error
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// PUT /admin/students/:id updates enrollment fields only; tier assignments move
// through the assignment manager.
func (h *StudentHandler) Update(c echo.Context) error {
	var cur models.Student
	if err := h.db.First(&cur, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}

	var p studentPayload
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	if err := core.CheckYearSemester(p.Year, p.Semester); err != nil {
		return respondCoreError(c, err)
	}

	cur.RegNo = strings.TrimSpace(p.RegNo)
	cur.RollNo = p.RollNo
	cur.Name = p.Name
	cur.Year = p.Year
	cur.Semester = p.Semester
	cur.Section = strings.ToUpper(strings.TrimSpace(p.Section))
	cur.Batch = p.Batch
	cur.Vertical = p.Vertical
	cur.Email = strings.ToLower(strings.TrimSpace(p.Email))
	cur.DepartmentID = p.DepartmentID

	if err := h.db.Save(&cur).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cur)
}

// DELETE /admin/students/:id removes the enrollment and its user account.
func (h *StudentHandler) Delete(c echo.Context) error {
	var st models.Student
	if err := h.db.First(&st, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Student{}, "id = ?", st.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", st.UserID).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
