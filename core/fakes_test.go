package core

import (
	"context"
	"sort"
	"sync"

	"github.com/Anish-Karthik/OD-automation/models"
)

// fakeRoster is an in-memory RosterStore for service tests. Methods are
// mutex-guarded because notifications read the store from a goroutine.
type fakeRoster struct {
	mu          sync.Mutex
	users       map[string]*models.User
	students    map[string]*models.Student
	teachers    map[string]*models.Teacher
	departments map[string]*models.Department
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{
		users:       map[string]*models.User{},
		students:    map[string]*models.Student{},
		teachers:    map[string]*models.Teacher{},
		departments: map[string]*models.Department{},
	}
}

func (f *fakeRoster) GetUser(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRoster) GetStudentByUserID(_ context.Context, userID string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.students {
		if st.UserID == userID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRoster) GetTeacher(_ context.Context, id string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRoster) ListTeachers(_ context.Context) ([]models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Teacher, 0, len(f.teachers))
	for _, t := range f.teachers {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRoster) GetDepartment(_ context.Context, id string) (*models.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.departments[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRoster) GetDepartmentHead(_ context.Context, departmentID string) (*models.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teachers {
		if t.DepartmentID != nil && *t.DepartmentID == departmentID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRoster) ListStudentsByTutor(_ context.Context, teacherID string) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(st *models.Student) bool {
		return st.TutorID != nil && *st.TutorID == teacherID
	}), nil
}

func (f *fakeRoster) ListStudentsByYearInCharge(_ context.Context, teacherID string) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(st *models.Student) bool {
		return st.YearInChargeID != nil && *st.YearInChargeID == teacherID
	}), nil
}

func (f *fakeRoster) FindStudents(_ context.Context, cell StudentCell) ([]models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(st *models.Student) bool {
		if st.DepartmentID != cell.DepartmentID || st.Batch != cell.Batch ||
			st.Year != cell.Year || st.Semester != cell.Semester {
			return false
		}
		if cell.Section != "" && st.Section != cell.Section {
			return false
		}
		if cell.EndRollNo > 0 && (st.RollNo < cell.StartRollNo || st.RollNo > cell.EndRollNo) {
			return false
		}
		return true
	}), nil
}

func (f *fakeRoster) CountStudentsByDepartment(_ context.Context, departmentID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filter(func(st *models.Student) bool {
		return st.DepartmentID == departmentID
	}))), nil
}

func (f *fakeRoster) SetTutor(_ context.Context, studentIDs []string, teacherID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range studentIDs {
		if st, ok := f.students[id]; ok {
			st.TutorID = copyID(teacherID)
		}
	}
	return nil
}

func (f *fakeRoster) SetYearInCharge(_ context.Context, studentIDs []string, teacherID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range studentIDs {
		if st, ok := f.students[id]; ok {
			st.YearInChargeID = copyID(teacherID)
		}
	}
	return nil
}

func (f *fakeRoster) SetHeadship(_ context.Context, teacherID string, departmentID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.teachers[teacherID]; ok {
		t.DepartmentID = copyID(departmentID)
	}
	return nil
}

func (f *fakeRoster) InTransaction(_ context.Context, fn func(RosterStore) error) error {
	return fn(f)
}

func (f *fakeRoster) filter(keep func(*models.Student) bool) []models.Student {
	var out []models.Student
	for _, st := range f.students {
		if keep(st) {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

// fakeForms is an in-memory FormStore.
type fakeForms struct {
	mu       sync.Mutex
	forms    map[string]*models.Form
	requests map[string]*models.Request
}

func newFakeForms() *fakeForms {
	return &fakeForms{
		forms:    map[string]*models.Form{},
		requests: map[string]*models.Request{},
	}
}

func (f *fakeForms) CreateFormWithRequest(_ context.Context, form *models.Form, req *models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cf := *form
	cf.Requests = nil
	f.forms[form.ID] = &cf
	cr := *req
	f.requests[req.ID] = &cr
	return nil
}

func (f *fakeForms) CreateRequest(_ context.Context, req *models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cr := *req
	f.requests[req.ID] = &cr
	return nil
}

func (f *fakeForms) GetForm(_ context.Context, id string) (*models.Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.forms[id]
	if !ok {
		return nil, nil
	}
	cp := *form
	cp.Requests = f.requestsOf(id)
	return &cp, nil
}

func (f *fakeForms) GetRequest(_ context.Context, id string) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeForms) ResolveRequest(_ context.Context, id string, status models.RequestStatus, reason *string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok || r.Status != models.StatusPending {
		return false, nil
	}
	r.Status = status
	r.ReasonForRejection = reason
	return true, nil
}

func (f *fakeForms) ListFormsByRequester(_ context.Context, userID string) ([]models.Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Form
	for id, form := range f.forms {
		if form.RequesterID == userID {
			cp := *form
			cp.Requests = f.requestsOf(id)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeForms) ListFormsByApprover(_ context.Context, userID string) ([]models.Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Form
	for id, form := range f.forms {
		for _, r := range f.requestsOf(id) {
			if r.RequestedID == userID {
				cp := *form
				cp.Requests = f.requestsOf(id)
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeForms) requestsOf(formID string) []models.Request {
	var out []models.Request
	for _, r := range f.requests {
		if r.FormID == formID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// nopMailer swallows notifications.
type nopMailer struct{}

func (nopMailer) Send(Message) error { return nil }
