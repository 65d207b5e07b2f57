package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/models"
)

// FormStore backs core.FormStore with gorm.
type FormStore struct {
	db *gorm.DB
}

var _ core.FormStore = (*FormStore)(nil)

func NewFormStore(db *gorm.DB) *FormStore { return &FormStore{db: db} }

func (s *FormStore) CreateFormWithRequest(ctx context.Context, form *models.Form, req *models.Request) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(form).Error; err != nil {
			return err
		}
		return tx.Create(req).Error
	})
}

func (s *FormStore) CreateRequest(ctx context.Context, req *models.Request) error {
	return s.db.WithContext(ctx).Create(req).Error
}

func (s *FormStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	if err := s.db.WithContext(ctx).First(&form, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	requests, err := s.listRequests(ctx, form.ID)
	if err != nil {
		return nil, err
	}
	form.Requests = requests
	return &form, nil
}

func (s *FormStore) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	var req models.Request
	if err := s.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, ignoreNotFound(err)
	}
	return &req, nil
}

// ResolveRequest flips a pending request in one conditional update; the
// status check in the WHERE clause is what serializes concurrent decisions.
func (s *FormStore) ResolveRequest(ctx context.Context, id string, status models.RequestStatus, reason *string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Request{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]any{
			"status":               status,
			"reason_for_rejection": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *FormStore) ListFormsByRequester(ctx context.Context, userID string) ([]models.Form, error) {
	var forms []models.Form
	if err := s.db.WithContext(ctx).
		Where("requester_id = ?", userID).
		Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return s.attachRequests(ctx, forms)
}

func (s *FormStore) ListFormsByApprover(ctx context.Context, userID string) ([]models.Form, error) {
	sub := s.db.Model(&models.Request{}).Select("form_id").Where("requested_id = ?", userID)
	var forms []models.Form
	if err := s.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}
	return s.attachRequests(ctx, forms)
}

func (s *FormStore) listRequests(ctx context.Context, formID string) ([]models.Request, error) {
	var requests []models.Request
	err := s.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("seq ASC").Find(&requests).Error
	return requests, err
}

func (s *FormStore) attachRequests(ctx context.Context, forms []models.Form) ([]models.Form, error) {
	if len(forms) == 0 {
		return forms, nil
	}
	ids := make([]string, 0, len(forms))
	for _, f := range forms {
		ids = append(ids, f.ID)
	}
	var requests []models.Request
	if err := s.db.WithContext(ctx).
		Where("form_id IN ?", ids).
		Order("seq ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	byForm := make(map[string][]models.Request, len(forms))
	for _, r := range requests {
		byForm[r.FormID] = append(byForm[r.FormID], r)
	}
	for i := range forms {
		forms[i].Requests = byForm[forms[i].ID]
	}
	return forms, nil
}
