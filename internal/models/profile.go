package models

import (
	"time"

	"github.com/google/uuid"
)

type LanguageProficiency struct {
	LanguageID  int64
	Proficiency string
}

// ConsultantProfileRecord is everything the professional onboarding wizard
// writes in one transaction.
type ConsultantProfileRecord struct {
	UserID         uuid.UUID
	FirstName      string
	LastName       string
	Headline       string
	JobTitle       string
	Bio            string
	OnboardingPath string
	HourlyRateMin  float64
	HourlyRateMax  float64
	Currency       string
	WorkExperience []WorkExperienceEntry
	SkillIDs       []int64
	IndustryIDs    []int64
	Languages      []LanguageProficiency
	UpdatedAt      time.Time
}

// ClientProfileRecord is everything the client onboarding wizard writes in
// one transaction.
type ClientProfileRecord struct {
	UserID           uuid.UUID
	FirstName        string
	LastName         string
	JobTitle         string
	CompanyName      string
	OrganisationType string
	IndustryID       int64
	City             string
	CountryID        int64
	Website          *string
	DunsNumber       *string
	LogoURL          *string
	UpdatedAt        time.Time
}
