package database

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/models"
)

// RosterStore backs core.RosterStore with gorm.
type RosterStore struct {
	db *gorm.DB
}

var _ core.RosterStore = (*RosterStore)(nil)

func NewRosterStore(db *gorm.DB) *RosterStore { return &RosterStore{db: db} }

func (s *RosterStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &u, nil
}

func (s *RosterStore) GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error) {
	var st models.Student
	if err := s.db.WithContext(ctx).First(&st, "user_id = ?", userID).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &st, nil
}

func (s *RosterStore) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var t models.Teacher
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &t, nil
}

func (s *RosterStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	var ts []models.Teacher
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *RosterStore) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &d, nil
}

func (s *RosterStore) GetDepartmentHead(ctx context.Context, departmentID string) (*models.Teacher, error) {
	var t models.Teacher
	if err := s.db.WithContext(ctx).First(&t, "department_id = ?", departmentID).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &t, nil
}

func (s *RosterStore) ListStudentsByTutor(ctx context.Context, teacherID string) ([]models.Student, error) {
	var sts []models.Student
	if err := s.db.WithContext(ctx).Where("tutor_id = ?", teacherID).Order("roll_no ASC").Find(&sts).Error; err != nil {
		return nil, err
	}
	return sts, nil
}

func (s *RosterStore) ListStudentsByYearInCharge(ctx context.Context, teacherID string) ([]models.Student, error) {
	var sts []models.Student
	if err := s.db.WithContext(ctx).Where("year_in_charge_id = ?", teacherID).Order("roll_no ASC").Find(&sts).Error; err != nil {
		return nil, err
	}
	return sts, nil
}

func (s *RosterStore) FindStudents(ctx context.Context, cell core.StudentCell) ([]models.Student, error) {
	tx := s.db.WithContext(ctx).
		Where("department_id = ? AND batch = ? AND year = ? AND semester = ?",
			cell.DepartmentID, cell.Batch, cell.Year, cell.Semester)
	if cell.Section != "" {
		tx = tx.Where("section = ?", cell.Section)
	}
	if cell.EndRollNo > 0 {
		tx = tx.Where("roll_no BETWEEN ? AND ?", cell.StartRollNo, cell.EndRollNo)
	}
	var sts []models.Student
	if err := tx.Order("roll_no ASC").Find(&sts).Error; err != nil {
		return nil, err
	}
	return sts, nil
}

func (s *RosterStore) CountStudentsByDepartment(ctx context.Context, departmentID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Student{}).
		Where("department_id = ?", departmentID).Count(&n).Error
	return n, err
}

func (s *RosterStore) SetTutor(ctx context.Context, studentIDs []string, teacherID *string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Student{}).
		Where("id IN ?", studentIDs).Update("tutor_id", teacherID).Error
}

func (s *RosterStore) SetYearInCharge(ctx context.Context, studentIDs []string, teacherID *string) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Student{}).
		Where("id IN ?", studentIDs).Update("year_in_charge_id", teacherID).Error
}

func (s *RosterStore) SetHeadship(ctx context.Context, teacherID string, departmentID *string) error {
	return s.db.WithContext(ctx).Model(&models.Teacher{}).
		Where("id = ?", teacherID).Update("department_id", departmentID).Error
}

func (s *RosterStore) InTransaction(ctx context.Context, fn func(core.RosterStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RosterStore{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func ignoreNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
