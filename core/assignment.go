package core

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Anish-Karthik/OD-automation/models"
)

// AssignmentService manages which teacher occupies which approval tier.
// Every cell holds at most one occupant: assigning always vacates both the
// teacher's current assignment and the requested cell's occupant first.
type AssignmentService struct {
	roster RosterStore
	logger *zap.Logger
}

func NewAssignmentService(roster RosterStore, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{roster: roster, logger: logger}
}

// AssignRole gives the described assignment to the teacher. The whole
// read-modify-write runs in one serializable transaction so concurrent
// assignments over overlapping cells cannot interleave.
func (s *AssignmentService) AssignRole(ctx context.Context, d RoleDescriptor) (*models.Teacher, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var out *models.Teacher
	err := s.roster.InTransaction(ctx, func(tx RosterStore) error {
		resolver := NewRoleResolver(tx)

		t, err := tx.GetTeacher(ctx, d.TeacherID)
		if err != nil {
			return err
		}
		if t == nil {
			return Errorf(KindNotFound, "teacher %s not found", d.TeacherID)
		}

		// Fetch the target cell first: an empty cell fails before anything
		// is vacated.
		var students []models.Student
		if d.Role != TierHOD {
			students, err = tx.FindStudents(ctx, d.cell())
			if err != nil {
				return err
			}
			if len(students) == 0 {
				return Errorf(KindNoMatchingStudents, "no students match the given criteria")
			}
		} else {
			dep, err := tx.GetDepartment(ctx, d.DepartmentID)
			if err != nil {
				return err
			}
			if dep == nil {
				return Errorf(KindNotFound, "department %s not found", d.DepartmentID)
			}
		}

		if cur, err := resolver.ResolveAssignment(ctx, d.TeacherID); err != nil {
			return err
		} else if cur != nil {
			if err := s.unassign(ctx, tx, *cur); err != nil {
				return err
			}
		}

		occupantID, err := s.occupantOf(ctx, tx, d, students)
		if err != nil {
			return err
		}
		if occupantID != "" {
			if cur, err := resolver.ResolveAssignment(ctx, occupantID); err != nil {
				return err
			} else if cur != nil {
				if err := s.unassign(ctx, tx, *cur); err != nil {
					return err
				}
			}
		}

		switch d.Role {
		case TierHOD:
			if err := tx.SetHeadship(ctx, d.TeacherID, &d.DepartmentID); err != nil {
				return err
			}
		case TierTutor:
			if err := tx.SetTutor(ctx, studentIDs(students), &d.TeacherID); err != nil {
				return err
			}
		case TierYearInCharge:
			if err := tx.SetYearInCharge(ctx, studentIDs(students), &d.TeacherID); err != nil {
				return err
			}
		}

		out, err = tx.GetTeacher(ctx, d.TeacherID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role assigned",
		zap.String("teacher_id", d.TeacherID),
		zap.String("role", d.Role.String()),
		zap.String("department_id", d.DepartmentID),
	)
	return out, nil
}

// occupantOf finds another teacher currently holding the requested cell.
func (s *AssignmentService) occupantOf(ctx context.Context, tx RosterStore, d RoleDescriptor, students []models.Student) (string, error) {
	if d.Role == TierHOD {
		head, err := tx.GetDepartmentHead(ctx, d.DepartmentID)
		if err != nil {
			return "", err
		}
		if head != nil && head.ID != d.TeacherID {
			return head.ID, nil
		}
		return "", nil
	}
	for _, st := range students {
		cur := st.TutorID
		if d.Role == TierYearInCharge {
			cur = st.YearInChargeID
		}
		if cur != nil && *cur != d.TeacherID {
			return *cur, nil
		}
	}
	return "", nil
}

// unassign vacates a teacher's entire current assignment. Exclusivity
// guarantees the teacher holds at most one, so this removes exactly the
// cell the descriptor names.
func (s *AssignmentService) unassign(ctx context.Context, tx RosterStore, d RoleDescriptor) error {
	switch d.Role {
	case TierHOD:
		return tx.SetHeadship(ctx, d.TeacherID, nil)
	case TierTutor:
		students, err := tx.ListStudentsByTutor(ctx, d.TeacherID)
		if err != nil {
			return err
		}
		return tx.SetTutor(ctx, studentIDs(students), nil)
	case TierYearInCharge:
		students, err := tx.ListStudentsByYearInCharge(ctx, d.TeacherID)
		if err != nil {
			return err
		}
		return tx.SetYearInCharge(ctx, studentIDs(students), nil)
	}
	return Errorf(KindInvalidRoleTransition, "unknown role %q", d.Role.String())
}

func studentIDs(students []models.Student) []string {
	ids := make([]string, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids
}

// TeacherOverview is a roster listing row for the admin dashboard: who the
// teacher is, the tier they hold, and the cell it covers.
type TeacherOverview struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role,omitempty"` // empty for unassigned teachers
	AssignedTo string `json:"assigned_to,omitempty"`
	Students   int64  `json:"count_of_students"`
}

// ListTeacherOverviews returns every teacher with their reconstructed
// assignment, HODs first, then year-in-charges, then tutors.
func (s *AssignmentService) ListTeacherOverviews(ctx context.Context) ([]TeacherOverview, error) {
	teachers, err := s.roster.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	resolver := NewRoleResolver(s.roster)

	out := make([]TeacherOverview, 0, len(teachers))
	for _, t := range teachers {
		u, err := s.roster.GetUser(ctx, t.UserID)
		if err != nil {
			return nil, err
		}
		row := TeacherOverview{ID: t.ID, UserID: t.UserID}
		if u != nil {
			row.Name = u.Name
			row.Email = u.Email
		}

		d, err := resolver.ResolveAssignment(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if d != nil {
			row.Role = d.Role.String()
			row.AssignedTo, row.Students, err = s.describeAssignment(ctx, *d)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return tierRank(out[i].Role) < tierRank(out[j].Role)
	})
	return out, nil
}

func (s *AssignmentService) describeAssignment(ctx context.Context, d RoleDescriptor) (string, int64, error) {
	code := d.DepartmentID
	if dep, err := s.roster.GetDepartment(ctx, d.DepartmentID); err != nil {
		return "", 0, err
	} else if dep != nil {
		code = dep.Code
	}

	switch d.Role {
	case TierHOD:
		n, err := s.roster.CountStudentsByDepartment(ctx, d.DepartmentID)
		return code, n, err
	case TierYearInCharge:
		cohort, err := s.roster.ListStudentsByYearInCharge(ctx, d.TeacherID)
		return fmt.Sprintf("%s-%s-%d-%d", code, d.Batch, d.Year, d.Semester), int64(len(cohort)), err
	default:
		tutees, err := s.roster.ListStudentsByTutor(ctx, d.TeacherID)
		return fmt.Sprintf("%s-%s-%d-%d-%s-%d-%d", code, d.Batch, d.Year, d.Semester, d.Section, d.StartRollNo, d.EndRollNo),
			int64(len(tutees)), err
	}
}

func tierRank(role string) int {
	switch role {
	case "HOD":
		return 0
	case "YEAR_IN_CHARGE":
		return 1
	case "TUTOR":
		return 2
	}
	return 3
}
