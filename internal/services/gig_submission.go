package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"

	"github.com/google/uuid"
)

type ReferenceResolver interface {
	Resolve(ctx context.Context, kind models.ReferenceKind, refs []models.SelectedRef) ([]int64, error)
}

type GigRepository interface {
	CreateProject(ctx context.Context, record *models.ProjectRecord) error
	AddProjectAttachments(ctx context.Context, projectID uuid.UUID, attachments []models.ProjectAttachment) error
}

type gigDraft struct {
	models.GigDetails
	models.GigBudget
	models.GigAttachments
	models.GigQuestions
}

// GigSubmission creates an open project from a gig creation draft.
type GigSubmission struct {
	userID   uuid.UUID
	repo     GigRepository
	resolver ReferenceResolver
	now      func() time.Time

	input       gigDraft
	skillIDs    []int64
	industryIDs []int64
	record      *models.ProjectRecord
}

func NewGigSubmission(userID uuid.UUID, repo GigRepository, resolver ReferenceResolver) *GigSubmission {
	return &GigSubmission{
		userID:   userID,
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
	}
}

func (s *GigSubmission) Validate(draft *drafts.Draft) error {
	if err := decodeDraft(draft, &s.input); err != nil {
		return err
	}
	// Back saves fields without validating them, so every required field of
	// the details and budget steps is checked again here.
	required := []struct {
		field string
		value string
	}{
		{"gigName", s.input.GigName},
		{"gigDescription", s.input.GigDescription},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingFieldError{Field: r.field}
		}
	}
	if len(s.input.SelectedSkills) == 0 {
		return &MissingFieldError{Field: "selectedSkills"}
	}
	if !s.input.BudgetToBeConfirmed && s.input.Budget.IsEmpty() {
		return &MissingFieldError{Field: "budget"}
	}
	if strings.TrimSpace(s.input.Duration) == "" {
		return &MissingFieldError{Field: "duration"}
	}
	return nil
}

func (s *GigSubmission) Resolve(ctx context.Context) error {
	var err error
	if s.industryIDs, err = s.resolver.Resolve(ctx, models.ReferenceIndustry, s.input.SelectedIndustries); err != nil {
		return err
	}
	if s.skillIDs, err = s.resolver.Resolve(ctx, models.ReferenceSkill, s.input.SelectedSkills); err != nil {
		return err
	}
	return nil
}

func (s *GigSubmission) Derive() error {
	budget, err := DeriveBudget(s.input.Budget, s.input.BudgetToBeConfirmed)
	if err != nil {
		return err
	}
	delivery := DeriveDeliveryTime(s.input.Duration)

	skills, err := encodeIDs(s.skillIDs)
	if err != nil {
		return err
	}
	questions, err := encodeQuestions(s.input.ScreeningQuestions)
	if err != nil {
		return err
	}

	industries := s.industryIDs
	if industries == nil {
		industries = []int64{}
	}

	now := s.now().UTC()
	s.record = &models.ProjectRecord{
		ID:                 uuid.New(),
		CreatorID:          s.userID,
		Type:               models.ProjectTypeClient,
		Title:              strings.TrimSpace(s.input.GigName),
		Description:        strings.TrimSpace(s.input.GigDescription),
		SkillsRequired:     skills,
		Industries:         industries,
		Currency:           models.DefaultCurrency,
		BudgetMin:          budget.Min,
		BudgetMax:          budget.Max,
		DesiredAmountMin:   budget.DesiredAmountMin,
		DesiredAmountMax:   budget.DesiredAmountMax,
		DeliveryTimeMin:    delivery.Min,
		DeliveryTimeMax:    delivery.Max,
		Status:             models.ProjectOpen,
		RoleType:           optionalString(s.input.RoleType),
		GigLocation:        optionalString(s.input.GigLocation),
		ScreeningQuestions: questions,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return nil
}

func (s *GigSubmission) Persist(ctx context.Context) (string, error) {
	if err := s.repo.CreateProject(ctx, s.record); err != nil {
		return "", &PersistenceError{Op: "create project", Err: err}
	}
	return s.record.ID.String(), nil
}

// Record is the project row built by Derive.
func (s *GigSubmission) Record() *models.ProjectRecord {
	return s.record
}

// FollowUps links uploaded attachments. Attachments whose upload never
// produced a URL are skipped.
func (s *GigSubmission) FollowUps() []FollowUp {
	var uploaded []models.ProjectAttachment
	for _, a := range s.input.Attachments {
		if strings.TrimSpace(a.URL) == "" {
			continue
		}
		uploaded = append(uploaded, models.ProjectAttachment{
			ProjectID: s.record.ID,
			Name:      a.Name,
			Size:      a.Size,
			URL:       a.URL,
		})
	}
	if len(uploaded) == 0 {
		return nil
	}
	return []FollowUp{{
		Name: "link project attachments",
		Run: func(ctx context.Context) error {
			return s.repo.AddProjectAttachments(ctx, s.record.ID, uploaded)
		},
	}}
}

// decodeDraft decodes the whole draft into a wizard's combined form. A field
// of the wrong type is reported by name.
func decodeDraft(draft *drafts.Draft, v any) error {
	if err := draft.DecodeInto(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &InvalidFieldError{Field: typeErr.Field, Reason: "expected " + typeErr.Type.String()}
		}
		return &InvalidFieldError{Field: "draft", Reason: err.Error()}
	}
	return nil
}
