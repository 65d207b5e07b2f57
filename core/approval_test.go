package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Anish-Karthik/OD-automation/models"
)

type chainFixture struct {
	roster *fakeRoster
	forms  *fakeForms
	svc    *ApprovalService

	student *models.Student
}

const (
	deptID = "dep-1"

	studentUser = "u-student"
	tutorUser   = "u-tutor"
	yicUser     = "u-yic"
	hodUser     = "u-hod"
	otherUser   = "u-other"

	tutorID = "t-tutor"
	yicID   = "t-yic"
	hodID   = "t-hod"
	otherID = "t-other"
)

func newChainFixture(t *testing.T) *chainFixture {
	t.Helper()
	roster := newFakeRoster()

	roster.departments[deptID] = &models.Department{ID: deptID, Name: "Computer Science", Code: "CSE"}

	for _, u := range []struct {
		id   string
		role models.UserRole
	}{
		{studentUser, models.RoleStudent},
		{tutorUser, models.RoleTeacher},
		{yicUser, models.RoleTeacher},
		{hodUser, models.RoleTeacher},
		{otherUser, models.RoleTeacher},
	} {
		roster.users[u.id] = &models.User{ID: u.id, Username: u.id, Email: u.id + "@psnacet.edu.in", Name: u.id, Role: u.role}
	}

	dep := deptID
	roster.teachers[tutorID] = &models.Teacher{ID: tutorID, UserID: tutorUser}
	roster.teachers[yicID] = &models.Teacher{ID: yicID, UserID: yicUser}
	roster.teachers[hodID] = &models.Teacher{ID: hodID, UserID: hodUser, DepartmentID: &dep}
	roster.teachers[otherID] = &models.Teacher{ID: otherID, UserID: otherUser}

	tID, yID := tutorID, yicID
	roster.students["s-1"] = &models.Student{
		ID: "s-1", UserID: studentUser, RegNo: "921321104001", RollNo: 1,
		Name: "Anitha", Year: 2, Semester: 3, Section: "A", Batch: "2023",
		DepartmentID: deptID, TutorID: &tID, YearInChargeID: &yID,
	}

	forms := newFakeForms()
	return &chainFixture{
		roster:  roster,
		forms:   forms,
		svc:     NewApprovalService(roster, forms, nopMailer{}, zap.NewNop()),
		student: roster.students["s-1"],
	}
}

func (f *chainFixture) submit(t *testing.T) *models.Form {
	t.Helper()
	form, err := f.svc.Submit(context.Background(), SubmitInput{
		RequesterID: studentUser,
		Category:    "symposium",
		Reason:      "attending a paper presentation",
		FormType:    models.FormOnDuty,
		Dates:       []time.Time{time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	return form
}

func (f *chainFixture) decide(t *testing.T, requestID, approverUser string, status models.RequestStatus, reason *string) (*models.Form, error) {
	t.Helper()
	return f.svc.Decide(context.Background(), DecideInput{
		RequestID:          requestID,
		RequestedID:        approverUser,
		Status:             status,
		ReasonForRejection: reason,
	})
}

func TestSubmitAddressesTutor(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	require.Len(t, form.Requests, 1)
	assert.Equal(t, tutorUser, form.Requests[0].RequestedID)
	assert.Equal(t, 1, form.Requests[0].Seq)
	assert.Equal(t, models.StatusPending, form.Requests[0].Status)
	assert.Equal(t, models.StatusPending, form.Status)
}

func TestSubmitWithoutTutorFails(t *testing.T) {
	f := newChainFixture(t)
	f.roster.students["s-1"].TutorID = nil

	_, err := f.svc.Submit(context.Background(), SubmitInput{
		RequesterID: studentUser,
		Category:    "medical",
		Reason:      "fever",
		FormType:    models.FormLeave,
	})
	require.Error(t, err)
	assert.Equal(t, KindPrerequisiteNotMet, KindOf(err))
	assert.Empty(t, f.forms.forms)
}

func TestSubmitByNonStudentFails(t *testing.T) {
	f := newChainFixture(t)
	_, err := f.svc.Submit(context.Background(), SubmitInput{RequesterID: tutorUser, FormType: models.FormLeave})
	require.Error(t, err)
	assert.Equal(t, KindPrerequisiteNotMet, KindOf(err))
}

func TestTutorAcceptAdvancesToYearInCharge(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	got, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.NoError(t, err)

	require.Len(t, got.Requests, 2)
	assert.Equal(t, models.StatusAccepted, got.Requests[0].Status)
	assert.Equal(t, yicUser, got.Requests[1].RequestedID)
	assert.Equal(t, 2, got.Requests[1].Seq)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestRejectionTerminatesChain(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	after, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.NoError(t, err)

	reason := "insufficient notice"
	got, err := f.decide(t, after.Requests[1].ID, yicUser, models.StatusRejected, &reason)
	require.NoError(t, err)

	require.Len(t, got.Requests, 2, "no request may follow a rejection")
	assert.Equal(t, models.StatusRejected, got.Status)
	require.NotNil(t, got.Requests[1].ReasonForRejection)
	assert.Equal(t, reason, *got.Requests[1].ReasonForRejection)
}

func TestFullChainAccept(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	after, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, after.Status)

	after, err = f.decide(t, after.Requests[1].ID, yicUser, models.StatusAccepted, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, after.Status)
	require.Len(t, after.Requests, 3)
	assert.Equal(t, hodUser, after.Requests[2].RequestedID)

	got, err := f.decide(t, after.Requests[2].ID, hodUser, models.StatusAccepted, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
	assert.Len(t, got.Requests, 3, "acceptance by the final tier appends nothing")
}

func TestDecideTwiceIsAlreadyResolved(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	_, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.NoError(t, err)

	_, err = f.decide(t, form.Requests[0].ID, tutorUser, models.StatusRejected, nil)
	require.Error(t, err)
	assert.Equal(t, KindAlreadyResolved, KindOf(err))

	got, err := f.forms.GetForm(context.Background(), form.ID)
	require.NoError(t, err)
	assert.Len(t, got.Requests, 2, "the losing decision must not extend the chain")
}

func TestDecideByWrongApproverIsUnauthorized(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	_, err := f.decide(t, form.Requests[0].ID, yicUser, models.StatusAccepted, nil)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestDecideByDemotedApproverIsUnauthorized(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	// The tutor loses the assignment between submission and decision.
	other := otherID
	f.roster.students["s-1"].TutorID = &other

	_, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestAcceptWithVacantNextTierFailsWhole(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	f.roster.students["s-1"].YearInChargeID = nil

	_, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.Error(t, err)
	assert.Equal(t, KindRoutingIncomplete, KindOf(err))

	req, err := f.forms.GetRequest(context.Background(), form.Requests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status, "a failed route must leave the request untouched")
}

func TestDecideRoutesByFormOwner(t *testing.T) {
	f := newChainFixture(t)

	// A second student shares the tutor but has a different year-in-charge;
	// advancing the first student's form must route to the first student's.
	tID, oID := tutorID, otherID
	f.roster.students["s-2"] = &models.Student{
		ID: "s-2", UserID: "u-student-2", RegNo: "921321104002", RollNo: 2,
		Name: "Bharath", Year: 2, Semester: 3, Section: "A", Batch: "2023",
		DepartmentID: deptID, TutorID: &tID, YearInChargeID: &oID,
	}
	form := f.submit(t)

	got, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusAccepted, nil)
	require.NoError(t, err)
	require.Len(t, got.Requests, 2)
	assert.Equal(t, yicUser, got.Requests[1].RequestedID)
}

func TestDecideUnknownStatusRejected(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)

	_, err := f.decide(t, form.Requests[0].ID, tutorUser, models.StatusPending, nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestGetFormVisibility(t *testing.T) {
	f := newChainFixture(t)
	form := f.submit(t)
	ctx := context.Background()

	_, err := f.svc.GetForm(ctx, studentUser, form.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetForm(ctx, tutorUser, form.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetForm(ctx, otherUser, form.ID)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = f.svc.GetForm(ctx, studentUser, "missing")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListFormsScoping(t *testing.T) {
	f := newChainFixture(t)
	f.submit(t)
	ctx := context.Background()

	own, err := f.svc.ListStudentForms(ctx, studentUser, studentUser)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, models.StatusPending, own[0].Status)

	_, err = f.svc.ListStudentForms(ctx, otherUser, studentUser)
	require.Error(t, err)
	assert.Equal(t, KindUnauthorized, KindOf(err))

	inbox, err := f.svc.ListTeacherForms(ctx, tutorUser, tutorUser)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	empty, err := f.svc.ListTeacherForms(ctx, yicUser, yicUser)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
