package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gigexecs-backend/internal/models"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	ListProjects(ctx context.Context, creatorID uuid.UUID) ([]models.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, update *models.ProjectUpdate) error
	UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, from, to models.ProjectStatus) error
	ListBids(ctx context.Context, projectID uuid.UUID) ([]models.Bid, error)
	GetBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error)
	AwardBid(ctx context.Context, award models.Award) (uuid.UUID, error)
}

type ReferenceLookup interface {
	Lookup(ctx context.Context, kind models.ReferenceKind, id int64) (models.EntityReference, bool, error)
}

// ProjectView is a project as shown to its owner. Stored JSON columns are
// decoded leniently: a corrupt value shows as an empty list.
type ProjectView struct {
	ID                  string                   `json:"id"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	Skills              []models.EntityReference `json:"skills"`
	Industries          []models.EntityReference `json:"industries"`
	Currency            string                   `json:"currency"`
	BudgetMin           *float64                 `json:"budget_min"`
	BudgetMax           *float64                 `json:"budget_max"`
	BudgetToBeConfirmed bool                     `json:"budget_to_be_confirmed"`
	DeliveryTimeMin     int                      `json:"delivery_time_min"`
	DeliveryTimeMax     int                      `json:"delivery_time_max"`
	Duration            string                   `json:"duration,omitempty"`
	Status              models.ProjectStatus     `json:"status"`
	RoleType            string                   `json:"role_type,omitempty"`
	GigLocation         string                   `json:"gig_location,omitempty"`
	ScreeningQuestions  []string                 `json:"screening_questions"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// UpdateProjectInput is the standalone edit form. It uses the same field
// names as the creation wizard.
type UpdateProjectInput struct {
	Title               string                     `json:"gigName"`
	Description         string                     `json:"gigDescription"`
	SelectedSkills      []models.SelectedRef       `json:"selectedSkills"`
	SelectedIndustries  []models.SelectedRef       `json:"selectedIndustries"`
	Budget              models.NumberString        `json:"budget"`
	BudgetToBeConfirmed bool                       `json:"budgetToBeConfirmed"`
	Duration            string                     `json:"duration"`
	RoleType            string                     `json:"roleType"`
	GigLocation         string                     `json:"gigLocation"`
	ScreeningQuestions  []models.ScreeningQuestion `json:"screeningQuestions"`
}

var roleTypes = map[string]bool{"in_person": true, "hybrid": true, "remote": true}

type ProjectService struct {
	repo     ProjectRepository
	resolver ReferenceResolver
	lookup   ReferenceLookup
	logger   *log.Logger
	now      func() time.Time
}

func NewProjectService(repo ProjectRepository, resolver ReferenceResolver, lookup ReferenceLookup, logger *log.Logger) *ProjectService {
	if logger == nil {
		logger = log.Default()
	}
	return &ProjectService{repo: repo, resolver: resolver, lookup: lookup, logger: logger, now: time.Now}
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]ProjectView, error) {
	projects, err := s.repo.ListProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, s.view(ctx, &projects[i]))
	}
	return views, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectView, error) {
	project, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	view := s.view(ctx, project)
	return &view, nil
}

// Update applies the edit form. Derivation follows the creation wizard;
// role type and location are required here.
func (s *ProjectService) Update(ctx context.Context, userID, projectID uuid.UUID, in UpdateProjectInput) (*ProjectView, error) {
	project, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status.Terminal() {
		return nil, &TransitionError{From: string(project.Status), To: "edited"}
	}

	switch {
	case strings.TrimSpace(in.Title) == "":
		return nil, &MissingFieldError{Field: "gigName"}
	case strings.TrimSpace(in.Description) == "":
		return nil, &MissingFieldError{Field: "gigDescription"}
	case len(in.SelectedSkills) == 0:
		return nil, &MissingFieldError{Field: "selectedSkills"}
	case strings.TrimSpace(in.RoleType) == "":
		return nil, &MissingFieldError{Field: "roleType"}
	case strings.TrimSpace(in.GigLocation) == "":
		return nil, &MissingFieldError{Field: "gigLocation"}
	}
	if !roleTypes[in.RoleType] {
		return nil, &InvalidFieldError{Field: "roleType", Reason: "should be one of in_person, hybrid, remote"}
	}

	industryIDs, err := s.resolver.Resolve(ctx, models.ReferenceIndustry, in.SelectedIndustries)
	if err != nil {
		return nil, err
	}
	skillIDs, err := s.resolver.Resolve(ctx, models.ReferenceSkill, in.SelectedSkills)
	if err != nil {
		return nil, err
	}

	budget, err := DeriveBudget(in.Budget, in.BudgetToBeConfirmed)
	if err != nil {
		return nil, err
	}
	delivery := DeriveDeliveryTime(in.Duration)
	skills, err := encodeIDs(skillIDs)
	if err != nil {
		return nil, err
	}
	questions, err := encodeQuestions(in.ScreeningQuestions)
	if err != nil {
		return nil, err
	}
	if industryIDs == nil {
		industryIDs = []int64{}
	}

	update := &models.ProjectUpdate{
		Title:              strings.TrimSpace(in.Title),
		Description:        strings.TrimSpace(in.Description),
		SkillsRequired:     skills,
		Industries:         industryIDs,
		BudgetMin:          budget.Min,
		BudgetMax:          budget.Max,
		DesiredAmountMin:   budget.DesiredAmountMin,
		DesiredAmountMax:   budget.DesiredAmountMax,
		DeliveryTimeMin:    delivery.Min,
		DeliveryTimeMax:    delivery.Max,
		RoleType:           optionalString(in.RoleType),
		GigLocation:        optionalString(in.GigLocation),
		ScreeningQuestions: questions,
		UpdatedAt:          s.now().UTC(),
	}
	if err := s.repo.UpdateProject(ctx, projectID, update); err != nil {
		return nil, &PersistenceError{Op: "update project", Err: err}
	}
	return s.Get(ctx, userID, projectID)
}

func (s *ProjectService) ListBids(ctx context.Context, userID, projectID uuid.UUID) ([]models.Bid, error) {
	if _, err := s.owned(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListBids(ctx, projectID)
}

// AwardBid accepts a pending bid: a contract is created, the project moves to
// in_progress and the bid to accepted, all in one transaction.
func (s *ProjectService) AwardBid(ctx context.Context, userID, projectID, bidID uuid.UUID) (uuid.UUID, error) {
	project, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return uuid.Nil, err
	}
	if !project.Status.CanTransitionTo(models.ProjectInProgress) {
		return uuid.Nil, &TransitionError{From: string(project.Status), To: string(models.ProjectInProgress)}
	}

	bid, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrBidNotFound
		}
		return uuid.Nil, err
	}
	if bid.ProjectID != projectID {
		return uuid.Nil, ErrBidNotFound
	}
	if bid.Status != models.BidPending {
		return uuid.Nil, ErrBidNotPending
	}

	contractID, err := s.repo.AwardBid(ctx, models.Award{
		ProjectID:    projectID,
		BidID:        bidID,
		ClientID:     userID,
		ConsultantID: bid.ConsultantID,
		StartDate:    s.now().UTC(),
	})
	if err != nil {
		return uuid.Nil, &PersistenceError{Op: "award bid", Err: err}
	}
	return contractID, nil
}

func (s *ProjectService) Complete(ctx context.Context, userID, projectID uuid.UUID) error {
	return s.transition(ctx, userID, projectID, models.ProjectCompleted)
}

func (s *ProjectService) Cancel(ctx context.Context, userID, projectID uuid.UUID) error {
	return s.transition(ctx, userID, projectID, models.ProjectCancelled)
}

func (s *ProjectService) transition(ctx context.Context, userID, projectID uuid.UUID, to models.ProjectStatus) error {
	project, err := s.owned(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !project.Status.CanTransitionTo(to) {
		return &TransitionError{From: string(project.Status), To: string(to)}
	}
	if err := s.repo.UpdateProjectStatus(ctx, projectID, project.Status, to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Someone else moved the project first.
			return &TransitionError{From: string(project.Status), To: string(to)}
		}
		return &PersistenceError{Op: "update project status", Err: err}
	}
	return nil
}

func (s *ProjectService) owned(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project.CreatorID != userID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

func (s *ProjectService) view(ctx context.Context, p *models.Project) ProjectView {
	v := ProjectView{
		ID:              p.ID.String(),
		Title:           p.Title,
		Description:     p.Description,
		Currency:        p.Currency,
		DeliveryTimeMin: p.DeliveryTimeMin,
		DeliveryTimeMax: p.DeliveryTimeMax,
		Duration:        DurationLabel(p.DeliveryTimeMin, p.DeliveryTimeMax),
		Status:          p.Status,
		RoleType:        p.RoleType.String,
		GigLocation:     p.GigLocation.String,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.BudgetMin.Valid {
		v.BudgetMin = &p.BudgetMin.Float64
	}
	if p.BudgetMax.Valid {
		v.BudgetMax = &p.BudgetMax.Float64
	}
	v.BudgetToBeConfirmed = !p.BudgetMin.Valid && !p.BudgetMax.Valid

	skillIDs, ok := DecodeSkillIDs(p.SkillsRequired.String)
	if !ok {
		s.logger.Printf("project %s: unreadable skills_required, showing no skills", p.ID)
	}
	questions, ok := DecodeQuestions(p.ScreeningQuestions.String)
	if !ok {
		s.logger.Printf("project %s: unreadable screening_questions, showing none", p.ID)
	}
	v.ScreeningQuestions = questions
	v.Skills = s.names(ctx, models.ReferenceSkill, skillIDs)
	v.Industries = s.names(ctx, models.ReferenceIndustry, p.Industries)
	return v
}

// names attaches display names to ids. Ids the catalog no longer knows keep
// an empty name; lookup failures are logged, not returned.
func (s *ProjectService) names(ctx context.Context, kind models.ReferenceKind, ids []int64) []models.EntityReference {
	out := make([]models.EntityReference, 0, len(ids))
	for _, id := range ids {
		ref := models.EntityReference{ID: id}
		if s.lookup != nil {
			found, ok, err := s.lookup.Lookup(ctx, kind, id)
			if err != nil {
				s.logger.Printf("reference lookup %s %d failed: %v", kind, id, err)
			} else if ok {
				ref = found
			}
		}
		out = append(out, ref)
	}
	return out
}
