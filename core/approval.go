package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Anish-Karthik/OD-automation/models"
)

type SubmitInput struct {
	RequesterID string
	Category    string
	Reason      string
	FormType    models.FormType
	Dates       []time.Time
}

type DecideInput struct {
	RequestID          string
	RequestedID        string // the deciding approver's user id
	Status             models.RequestStatus
	ReasonForRejection *string
}

// ApprovalService owns the form lifecycle: building the request chain at
// submission and advancing it on each approver decision.
type ApprovalService struct {
	roster   RosterStore
	forms    FormStore
	resolver *RoleResolver
	mailer   Mailer
	logger   *zap.Logger
}

func NewApprovalService(roster RosterStore, forms FormStore, mailer Mailer, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		roster:   roster,
		forms:    forms,
		resolver: NewRoleResolver(roster),
		mailer:   mailer,
		logger:   logger,
	}
}

// Outcome derives a form's overall status from its request chain: rejected
// if any step was rejected, accepted only once every step was accepted and
// the chain ran its full tier length, pending otherwise.
func Outcome(requests []models.Request) models.RequestStatus {
	accepted := 0
	for _, r := range requests {
		switch r.Status {
		case models.StatusRejected:
			return models.StatusRejected
		case models.StatusAccepted:
			accepted++
		}
	}
	if len(requests) == tierCount && accepted == tierCount {
		return models.StatusAccepted
	}
	return models.StatusPending
}

// Submit persists a new form together with its first request, addressed to
// the requester's tutor.
func (s *ApprovalService) Submit(ctx context.Context, in SubmitInput) (*models.Form, error) {
	st, err := s.roster.GetStudentByUserID(ctx, in.RequesterID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, Errorf(KindPrerequisiteNotMet, "no student record for user %s", in.RequesterID)
	}
	if st.TutorID == nil {
		return nil, Errorf(KindPrerequisiteNotMet, "student %s has no tutor assigned", st.RegNo)
	}
	addressee, err := s.resolver.AddresseeFor(ctx, TierTutor, st)
	if err != nil {
		return nil, err
	}

	form := &models.Form{
		ID:          uuid.NewString(),
		RequesterID: in.RequesterID,
		Category:    in.Category,
		Reason:      in.Reason,
		FormType:    in.FormType,
		Dates:       in.Dates,
	}
	req := &models.Request{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		RequestedID: addressee,
		Seq:         1,
		Status:      models.StatusPending,
	}
	if err := s.forms.CreateFormWithRequest(ctx, form, req); err != nil {
		return nil, err
	}
	form.Requests = []models.Request{*req}
	form.Status = models.StatusPending

	s.logger.Info("form submitted",
		zap.String("form_id", form.ID),
		zap.String("requester_id", in.RequesterID),
		zap.String("form_type", string(in.FormType)),
	)
	s.notify(addressee,
		fmt.Sprintf("New %s request from %s", in.FormType, st.Name),
		fmt.Sprintf("%s (%s) submitted a %s request awaiting your review: %s", st.Name, st.RegNo, in.FormType, in.Reason),
	)
	return form, nil
}

// Decide resolves one pending request and, on acceptance, appends the next
// tier's request or completes the chain when the HOD accepted.
func (s *ApprovalService) Decide(ctx context.Context, in DecideInput) (*models.Form, error) {
	if in.Status != models.StatusAccepted && in.Status != models.StatusRejected {
		return nil, Errorf(KindValidation, "decision must be ACCEPTED or REJECTED, got %q", in.Status)
	}

	req, err := s.forms.GetRequest(ctx, in.RequestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, Errorf(KindNotFound, "request %s not found", in.RequestID)
	}
	if req.RequestedID != in.RequestedID {
		return nil, Errorf(KindUnauthorized, "request %s is not addressed to this approver", in.RequestID)
	}
	if req.Status != models.StatusPending {
		return nil, Errorf(KindAlreadyResolved, "request %s is already %s", in.RequestID, req.Status)
	}

	// The owner comes from the request's form, never from the caller, so
	// tier resolution always runs against the right student.
	form, err := s.forms.GetForm(ctx, req.FormID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, Errorf(KindNotFound, "form %s not found", req.FormID)
	}
	st, err := s.roster.GetStudentByUserID(ctx, form.RequesterID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, Errorf(KindNotFound, "no student record for user %s", form.RequesterID)
	}

	// On acceptance, establish the tier and next addressee before flipping
	// any state, so a route with a vacant next tier fails whole.
	var nextAddressee string
	var nextTier Tier
	if in.Status == models.StatusAccepted {
		tier, err := s.resolver.ResolveRole(ctx, in.RequestedID, st)
		if err != nil {
			return nil, err
		}
		if tier == TierNone {
			return nil, Errorf(KindUnauthorized, "approver holds no tier for student %s", st.RegNo)
		}
		if next, ok := tier.Next(); ok {
			nextTier = next
			nextAddressee, err = s.resolver.AddresseeFor(ctx, next, st)
			if err != nil {
				return nil, err
			}
		}
	}

	resolved, err := s.forms.ResolveRequest(ctx, req.ID, in.Status, in.ReasonForRejection)
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, Errorf(KindAlreadyResolved, "request %s is already resolved", in.RequestID)
	}

	s.logger.Info("request decided",
		zap.String("request_id", req.ID),
		zap.String("form_id", req.FormID),
		zap.String("decision", string(in.Status)),
	)

	if nextAddressee != "" {
		nextReq := &models.Request{
			ID:          uuid.NewString(),
			FormID:      req.FormID,
			RequestedID: nextAddressee,
			Seq:         req.Seq + 1,
			Status:      models.StatusPending,
		}
		if err := s.forms.CreateRequest(ctx, nextReq); err != nil {
			return nil, err
		}
		s.notify(nextAddressee,
			fmt.Sprintf("%s request from %s awaits your approval", nextTier, st.Name),
			fmt.Sprintf("A request from %s (%s) was accepted at the previous tier and now awaits your decision.", st.Name, st.RegNo),
		)
	}

	return s.loadForm(ctx, req.FormID)
}

// GetForm returns a form with its chain; only the requester or one of the
// chain's addressees may read it.
func (s *ApprovalService) GetForm(ctx context.Context, callerID, formID string) (*models.Form, error) {
	form, err := s.loadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.RequesterID == callerID {
		return form, nil
	}
	for _, r := range form.Requests {
		if r.RequestedID == callerID {
			return form, nil
		}
	}
	return nil, Errorf(KindUnauthorized, "form %s does not involve this user", formID)
}

// ListStudentForms returns the student's own submissions, newest first.
func (s *ApprovalService) ListStudentForms(ctx context.Context, callerID, studentUserID string) ([]models.Form, error) {
	if callerID != studentUserID {
		return nil, Errorf(KindUnauthorized, "cannot list another student's forms")
	}
	forms, err := s.forms.ListFormsByRequester(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	deriveStatuses(forms)
	return forms, nil
}

// ListTeacherForms returns every form with a request addressed to the
// teacher, newest first.
func (s *ApprovalService) ListTeacherForms(ctx context.Context, callerID, teacherUserID string) ([]models.Form, error) {
	if callerID != teacherUserID {
		return nil, Errorf(KindUnauthorized, "cannot list another teacher's forms")
	}
	forms, err := s.forms.ListFormsByApprover(ctx, teacherUserID)
	if err != nil {
		return nil, err
	}
	deriveStatuses(forms)
	return forms, nil
}

func (s *ApprovalService) loadForm(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.forms.GetForm(ctx, id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, Errorf(KindNotFound, "form %s not found", id)
	}
	form.Status = Outcome(form.Requests)
	return form, nil
}

func deriveStatuses(forms []models.Form) {
	for i := range forms {
		forms[i].Status = Outcome(forms[i].Requests)
	}
}

// notify emails an approver off the request path. Failures are logged and
// never surface to the caller.
func (s *ApprovalService) notify(userID, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		u, err := s.roster.GetUser(ctx, userID)
		if err != nil || u == nil || u.Email == "" {
			s.logger.Warn("notification skipped", zap.String("user_id", userID), zap.Error(err))
			return
		}
		if err := s.mailer.Send(Message{To: u.Email, Subject: subject, Body: body}); err != nil {
			s.logger.Warn("notification send failed", zap.String("to", u.Email), zap.Error(err))
		}
	}()
}
