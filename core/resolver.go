package core

import (
	"context"

	"github.com/Anish-Karthik/OD-automation/models"
)

// RoleResolver answers which approval tier a staff member occupies relative
// to a given student, and reconstructs a teacher's current assignment
// descriptor. It never mutates state.
type RoleResolver struct {
	roster RosterStore
}

func NewRoleResolver(roster RosterStore) *RoleResolver {
	return &RoleResolver{roster: roster}
}

// ResolveRole checks, in chain order, whether the user is the student's
// tutor, year-in-charge, or the HOD of the student's department. The first
// match wins; TierNone means the user holds no tier for this student.
func (r *RoleResolver) ResolveRole(ctx context.Context, approverUserID string, st *models.Student) (Tier, error) {
	if st.TutorID != nil {
		t, err := r.roster.GetTeacher(ctx, *st.TutorID)
		if err != nil {
			return TierNone, err
		}
		if t != nil && t.UserID == approverUserID {
			return TierTutor, nil
		}
	}
	if st.YearInChargeID != nil {
		t, err := r.roster.GetTeacher(ctx, *st.YearInChargeID)
		if err != nil {
			return TierNone, err
		}
		if t != nil && t.UserID == approverUserID {
			return TierYearInCharge, nil
		}
	}
	if st.DepartmentID != "" {
		head, err := r.roster.GetDepartmentHead(ctx, st.DepartmentID)
		if err != nil {
			return TierNone, err
		}
		if head != nil && head.UserID == approverUserID {
			return TierHOD, nil
		}
	}
	return TierNone, nil
}

// AddresseeFor returns the user id a request of the given tier must be
// addressed to for this student, failing with RoutingIncomplete when the
// tier has no occupant.
func (r *RoleResolver) AddresseeFor(ctx context.Context, tier Tier, st *models.Student) (string, error) {
	switch tier {
	case TierTutor:
		if st.TutorID == nil {
			return "", Errorf(KindRoutingIncomplete, "student %s has no tutor assigned", st.RegNo)
		}
		return r.teacherUserID(ctx, *st.TutorID)
	case TierYearInCharge:
		if st.YearInChargeID == nil {
			return "", Errorf(KindRoutingIncomplete, "student %s has no year in charge assigned", st.RegNo)
		}
		return r.teacherUserID(ctx, *st.YearInChargeID)
	case TierHOD:
		head, err := r.roster.GetDepartmentHead(ctx, st.DepartmentID)
		if err != nil {
			return "", err
		}
		if head == nil {
			return "", Errorf(KindRoutingIncomplete, "department of student %s has no head assigned", st.RegNo)
		}
		return head.UserID, nil
	}
	return "", Errorf(KindRoutingIncomplete, "no approver tier after %s", tier)
}

func (r *RoleResolver) teacherUserID(ctx context.Context, teacherID string) (string, error) {
	t, err := r.roster.GetTeacher(ctx, teacherID)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", Errorf(KindRoutingIncomplete, "assigned teacher %s no longer exists", teacherID)
	}
	return t.UserID, nil
}

// ResolveAssignment reconstructs the teacher's current assignment
// descriptor, or nil when unassigned. A tutor's roll range is taken as the
// min and max roll numbers over the owned students, which form one
// contiguous range by the assignment invariant.
func (r *RoleResolver) ResolveAssignment(ctx context.Context, teacherID string) (*RoleDescriptor, error) {
	t, err := r.roster.GetTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, Errorf(KindNotFound, "teacher %s not found", teacherID)
	}

	tutees, err := r.roster.ListStudentsByTutor(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(tutees) > 0 {
		first := tutees[0]
		lo, hi := rollRange(tutees)
		return &RoleDescriptor{
			Role:         TierTutor,
			TeacherID:    teacherID,
			DepartmentID: first.DepartmentID,
			Batch:        first.Batch,
			Year:         first.Year,
			Semester:     first.Semester,
			Section:      first.Section,
			StartRollNo:  lo,
			EndRollNo:    hi,
		}, nil
	}

	cohort, err := r.roster.ListStudentsByYearInCharge(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(cohort) > 0 {
		first := cohort[0]
		return &RoleDescriptor{
			Role:         TierYearInCharge,
			TeacherID:    teacherID,
			DepartmentID: first.DepartmentID,
			Batch:        first.Batch,
			Year:         first.Year,
			Semester:     first.Semester,
		}, nil
	}

	if t.DepartmentID != nil {
		return &RoleDescriptor{
			Role:         TierHOD,
			TeacherID:    teacherID,
			DepartmentID: *t.DepartmentID,
		}, nil
	}
	return nil, nil
}

func rollRange(students []models.Student) (lo, hi int) {
	lo, hi = students[0].RollNo, students[0].RollNo
	for _, st := range students[1:] {
		if st.RollNo < lo {
			lo = st.RollNo
		}
		if st.RollNo > hi {
			hi = st.RollNo
		}
	}
	return lo, hi
}
