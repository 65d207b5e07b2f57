package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Anish-Karthik/OD-automation/models"
)

// rosterFixture builds a department with four students split across two
// sections and three unassigned teachers.
func rosterFixture(t *testing.T) (*fakeRoster, *AssignmentService) {
	t.Helper()
	roster := newFakeRoster()
	roster.departments[deptID] = &models.Department{ID: deptID, Name: "Computer Science", Code: "CSE"}

	for _, id := range []string{"t-1", "t-2", "t-3"} {
		user := "u-" + id
		roster.users[user] = &models.User{ID: user, Username: user, Email: user + "@psnacet.edu.in", Name: user, Role: models.RoleTeacher}
		roster.teachers[id] = &models.Teacher{ID: id, UserID: user}
	}

	add := func(id string, roll int, section string) {
		roster.students[id] = &models.Student{
			ID: id, UserID: "u-" + id, RegNo: "9213211040" + id, RollNo: roll,
			Name: id, Year: 2, Semester: 3, Section: section, Batch: "2023",
			DepartmentID: deptID,
		}
	}
	add("s-1", 1, "A")
	add("s-2", 2, "A")
	add("s-3", 1, "B")
	add("s-4", 2, "B")

	return roster, NewAssignmentService(roster, zap.NewNop())
}

func tutorDescriptor(teacherID, section string, lo, hi int) RoleDescriptor {
	return RoleDescriptor{
		Role: TierTutor, TeacherID: teacherID, DepartmentID: deptID,
		Batch: "2023", Year: 2, Semester: 3, Section: section,
		StartRollNo: lo, EndRollNo: hi,
	}
}

func TestAssignTutor(t *testing.T) {
	roster, svc := rosterFixture(t)
	ctx := context.Background()

	got, err := svc.AssignRole(ctx, tutorDescriptor("t-1", "A", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)

	for _, id := range []string{"s-1", "s-2"} {
		require.NotNil(t, roster.students[id].TutorID, "student %s", id)
		assert.Equal(t, "t-1", *roster.students[id].TutorID)
	}
	for _, id := range []string{"s-3", "s-4"} {
		assert.Nil(t, roster.students[id].TutorID, "section B must stay untouched")
	}
}

func TestAssignTutorEmptyCellFailsBeforeVacating(t *testing.T) {
	roster, svc := rosterFixture(t)
	ctx := context.Background()

	_, err := svc.AssignRole(ctx, tutorDescriptor("t-1", "A", 1, 2))
	require.NoError(t, err)

	_, err = svc.AssignRole(ctx, tutorDescriptor("t-1", "Z", 1, 2))
	require.Error(t, err)
	assert.Equal(t, KindNoMatchingStudents, KindOf(err))

	require.NotNil(t, roster.students["s-1"].TutorID, "the failed assignment must not vacate the current one")
	assert.Equal(t, "t-1", *roster.students["s-1"].TutorID)
}

func TestReassignCellVacatesOccupant(t *testing.T) {
	roster, svc := rosterFixture(t)
	ctx := context.Background()

	_, err := svc.AssignRole(ctx, tutorDescriptor("t-1", "A", 1, 2))
	require.NoError(t, err)
	_, err = svc.AssignRole(ctx, tutorDescriptor("t-2", "A", 1, 2))
	require.NoError(t, err)

	for _, id := range []string{"s-1", "s-2"} {
		require.NotNil(t, roster.students[id].TutorID)
		assert.Equal(t, "t-2", *roster.students[id].TutorID)
	}

	d, err := NewRoleResolver(roster).ResolveAssignment(ctx, "t-1")
	require.NoError(t, err)
	assert.Nil(t, d, "the displaced teacher holds nothing")
}

func TestTeacherMovesBetweenTiers(t *testing.T) {
	roster, svc := rosterFixture(t)
	ctx := context.Background()

	_, err := svc.AssignRole(ctx, tutorDescriptor("t-1", "A", 1, 2))
	require.NoError(t, err)

	got, err := svc.AssignRole(ctx, RoleDescriptor{Role: TierHOD, TeacherID: "t-1", DepartmentID: deptID})
	require.NoError(t, err)
	require.NotNil(t, got.DepartmentID)
	assert.Equal(t, deptID, *got.DepartmentID)

	assert.Nil(t, roster.students["s-1"].TutorID, "moving tiers releases the old cell")

	d, err := NewRoleResolver(roster).ResolveAssignment(ctx, "t-1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, TierHOD, d.Role)
}

func TestAssignHODReplacesHead(t *testing.T) {
	roster, svc := rosterFixture(t)
	ctx := context.Background()

	_, err := svc.AssignRole(ctx, RoleDescriptor{Role: TierHOD, TeacherID: "t-1", DepartmentID: deptID})
	require.NoError(t, err)
	_, err = svc.AssignRole(ctx, RoleDescriptor{Role: TierHOD, TeacherID: "t-2", DepartmentID: deptID})
	require.NoError(t, err)

	assert.Nil(t, roster.teachers["t-1"].DepartmentID)
	require.NotNil(t, roster.teachers["t-2"].DepartmentID)
	assert.Equal(t, deptID, *roster.teachers["t-2"].DepartmentID)
}

func TestAssignHODUnknownDepartment(t *testing.T) {
	_, svc := rosterFixture(t)
	_, err := svc.AssignRole(context.Background(), RoleDescriptor{Role: TierHOD, TeacherID: "t-1", DepartmentID: "missing"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAssignYearInChargeCoversWholeYear(t *testing.T) {
	roster, svc := rosterFixture(t)

	_, err := svc.AssignRole(context.Background(), RoleDescriptor{
		Role: TierYearInCharge, TeacherID: "t-1", DepartmentID: deptID,
		Batch: "2023", Year: 2, Semester: 3,
	})
	require.NoError(t, err)

	for _, id := range []string{"s-1", "s-2", "s-3", "s-4"} {
		require.NotNil(t, roster.students[id].YearInChargeID, "student %s", id)
		assert.Equal(t, "t-1", *roster.students[id].YearInChargeID)
	}
}

func TestAssignRoleValidation(t *testing.T) {
	_, svc := rosterFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		d    RoleDescriptor
		kind Kind
	}{
		{"unknown role", RoleDescriptor{Role: TierNone, TeacherID: "t-1", DepartmentID: deptID}, KindInvalidRoleTransition},
		{"missing teacher", RoleDescriptor{Role: TierHOD, DepartmentID: deptID}, KindValidation},
		{"missing department", RoleDescriptor{Role: TierHOD, TeacherID: "t-1"}, KindValidation},
		{"year semester mismatch", RoleDescriptor{
			Role: TierYearInCharge, TeacherID: "t-1", DepartmentID: deptID,
			Batch: "2023", Year: 2, Semester: 7,
		}, KindValidation},
		{"tutor without section", RoleDescriptor{
			Role: TierTutor, TeacherID: "t-1", DepartmentID: deptID,
			Batch: "2023", Year: 2, Semester: 3, StartRollNo: 1, EndRollNo: 2,
		}, KindValidation},
		{"inverted roll range", tutorDescriptor("t-1", "A", 5, 2), KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AssignRole(ctx, tc.d)
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))
		})
	}
}

func TestListTeacherOverviews(t *testing.T) {
	_, svc := rosterFixture(t)
	ctx := context.Background()

	_, err := svc.AssignRole(ctx, tutorDescriptor("t-1", "A", 1, 2))
	require.NoError(t, err)
	_, err = svc.AssignRole(ctx, RoleDescriptor{Role: TierHOD, TeacherID: "t-2", DepartmentID: deptID})
	require.NoError(t, err)

	rows, err := svc.ListTeacherOverviews(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "t-2", rows[0].ID, "heads sort first")
	assert.Equal(t, "HOD", rows[0].Role)
	assert.Equal(t, "CSE", rows[0].AssignedTo)
	assert.EqualValues(t, 4, rows[0].Students)

	assert.Equal(t, "t-1", rows[1].ID)
	assert.Equal(t, "TUTOR", rows[1].Role)
	assert.Equal(t, "CSE-2023-2-3-A-1-2", rows[1].AssignedTo)
	assert.EqualValues(t, 2, rows[1].Students)

	assert.Equal(t, "t-3", rows[2].ID, "unassigned teachers sort last")
	assert.Empty(t, rows[2].Role)
	assert.Empty(t, rows[2].AssignedTo)
}
