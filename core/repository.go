package core

import (
	"context"

	"github.com/Anish-Karthik/OD-automation/models"
)

// StudentCell identifies the group of students an assignment covers.
// Section and the roll range are zero for year-in-charge cells.
type StudentCell struct {
	DepartmentID string
	Batch        string
	Year         int
	Semester     int
	Section      string
	StartRollNo  int
	EndRollNo    int
}

// RosterStore is the roster-side persistence the core consumes. Lookups
// return (nil, nil) when the record is absent.
type RosterStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetStudentByUserID(ctx context.Context, userID string) (*models.Student, error)
	GetTeacher(ctx context.Context, id string) (*models.Teacher, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	GetDepartmentHead(ctx context.Context, departmentID string) (*models.Teacher, error)
	ListStudentsByTutor(ctx context.Context, teacherID string) ([]models.Student, error)
	ListStudentsByYearInCharge(ctx context.Context, teacherID string) ([]models.Student, error)
	FindStudents(ctx context.Context, cell StudentCell) ([]models.Student, error)
	CountStudentsByDepartment(ctx context.Context, departmentID string) (int64, error)
	SetTutor(ctx context.Context, studentIDs []string, teacherID *string) error
	SetYearInCharge(ctx context.Context, studentIDs []string, teacherID *string) error
	SetHeadship(ctx context.Context, teacherID string, departmentID *string) error
	// InTransaction runs fn against a store bound to a single serializable
	// transaction, so assignment read-modify-writes cannot interleave.
	InTransaction(ctx context.Context, fn func(RosterStore) error) error
}

// FormStore is the form-side persistence the core consumes.
type FormStore interface {
	// CreateFormWithRequest persists a form and its first request atomically.
	CreateFormWithRequest(ctx context.Context, form *models.Form, req *models.Request) error
	CreateRequest(ctx context.Context, req *models.Request) error
	// GetForm returns the form with its requests attached in Seq order.
	GetForm(ctx context.Context, id string) (*models.Form, error)
	GetRequest(ctx context.Context, id string) (*models.Request, error)
	// ResolveRequest moves a PENDING request to status in one conditional
	// update; resolved reports false when the request was no longer pending
	// (a concurrent decision won the race).
	ResolveRequest(ctx context.Context, id string, status models.RequestStatus, reason *string) (resolved bool, err error)
	ListFormsByRequester(ctx context.Context, userID string) ([]models.Form, error)
	ListFormsByApprover(ctx context.Context, userID string) ([]models.Form, error)
}
