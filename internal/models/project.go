package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "draft"
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectDraft:      {ProjectOpen, ProjectInProgress, ProjectCancelled},
	ProjectOpen:       {ProjectInProgress, ProjectCancelled},
	ProjectInProgress: {ProjectCompleted, ProjectCancelled},
}

func (s ProjectStatus) Terminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	ProjectTypeClient = "client"
	DefaultCurrency   = "USD"
)

// ProjectRecord is the row written when a gig is created.
type ProjectRecord struct {
	ID                 uuid.UUID
	CreatorID          uuid.UUID
	Type               string
	Title              string
	Description        string
	SkillsRequired     string
	Industries         []int64
	Currency           string
	BudgetMin          *float64
	BudgetMax          *float64
	DesiredAmountMin   *float64
	DesiredAmountMax   *float64
	DeliveryTimeMin    int
	DeliveryTimeMax    int
	Status             ProjectStatus
	RoleType           *string
	GigLocation        *string
	ScreeningQuestions *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Project is a row read back from the projects table.
type Project struct {
	ID                 uuid.UUID
	CreatorID          uuid.UUID
	Type               string
	Title              string
	Description        string
	SkillsRequired     sql.NullString
	Industries         []int64
	Currency           string
	BudgetMin          sql.NullFloat64
	BudgetMax          sql.NullFloat64
	DeliveryTimeMin    int
	DeliveryTimeMax    int
	Status             ProjectStatus
	RoleType           sql.NullString
	GigLocation        sql.NullString
	ScreeningQuestions sql.NullString
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProjectUpdate is the patch applied by the standalone edit flow.
type ProjectUpdate struct {
	Title              string
	Description        string
	SkillsRequired     string
	Industries         []int64
	BudgetMin          *float64
	BudgetMax          *float64
	DesiredAmountMin   *float64
	DesiredAmountMax   *float64
	DeliveryTimeMin    int
	DeliveryTimeMax    int
	RoleType           *string
	GigLocation        *string
	ScreeningQuestions *string
	UpdatedAt          time.Time
}

type ProjectAttachment struct {
	ProjectID uuid.UUID
	Name      string
	Size      int64
	URL       string
}

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
	BidRejected BidStatus = "rejected"
)

type Bid struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	ConsultantID uuid.UUID `json:"consultant_id"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Status       BidStatus `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

const ContractActive = "active"

// Award is the set of writes performed atomically when a client accepts a bid.
type Award struct {
	ProjectID    uuid.UUID
	BidID        uuid.UUID
	ClientID     uuid.UUID
	ConsultantID uuid.UUID
	StartDate    time.Time
}

type Contract struct {
	ID           uuid.UUID
	ClientID     uuid.UUID
	ConsultantID uuid.UUID
	ProjectID    uuid.UUID
	BidID        uuid.UUID
	Status       string
	StartDate    time.Time
	EndDate      sql.NullTime
}
