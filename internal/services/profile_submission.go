package services

import (
	"context"
	"strings"
	"time"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	SaveConsultantProfile(ctx context.Context, record *models.ConsultantProfileRecord) error
	SetProfilePhoto(ctx context.Context, userID uuid.UUID, url string) error
}

type professionalDraft struct {
	models.OnboardingMethod
	models.ProfessionalBasicInfo
	models.WorkExperience
	models.SkillsIndustries
	models.Languages
	models.HourlyRate
}

// ProfileSubmission completes the professional onboarding wizard.
type ProfileSubmission struct {
	userID   uuid.UUID
	repo     ProfileRepository
	resolver ReferenceResolver
	now      func() time.Time

	input       professionalDraft
	skillIDs    []int64
	industryIDs []int64
	languages   []models.LanguageProficiency
	record      *models.ConsultantProfileRecord
}

func NewProfileSubmission(userID uuid.UUID, repo ProfileRepository, resolver ReferenceResolver) *ProfileSubmission {
	return &ProfileSubmission{userID: userID, repo: repo, resolver: resolver, now: time.Now}
}

func (s *ProfileSubmission) Validate(draft *drafts.Draft) error {
	if err := decodeDraft(draft, &s.input); err != nil {
		return err
	}
	required := []struct {
		field string
		value string
	}{
		{"method", s.input.Method},
		{"firstName", s.input.FirstName},
		{"lastName", s.input.LastName},
		{"headline", s.input.Headline},
		{"hourlyRateMin", s.input.HourlyRateMin.String()},
		{"hourlyRateMax", s.input.HourlyRateMax.String()},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingFieldError{Field: r.field}
		}
	}
	if len(s.input.SelectedSkills) == 0 {
		return &MissingFieldError{Field: "selectedSkills"}
	}
	for _, e := range s.input.WorkExperience.WorkExperience {
		if strings.TrimSpace(e.Company) == "" {
			return &MissingFieldError{Field: "workExperience.company"}
		}
		if strings.TrimSpace(e.JobTitle) == "" {
			return &MissingFieldError{Field: "workExperience.jobTitle"}
		}
	}
	return nil
}

func (s *ProfileSubmission) Resolve(ctx context.Context) error {
	var err error
	if s.skillIDs, err = s.resolver.Resolve(ctx, models.ReferenceSkill, s.input.SelectedSkills); err != nil {
		return err
	}
	if s.industryIDs, err = s.resolver.Resolve(ctx, models.ReferenceIndustry, s.input.SelectedIndustries); err != nil {
		return err
	}

	s.languages = make([]models.LanguageProficiency, 0, len(s.input.Languages.Languages))
	for _, l := range s.input.Languages.Languages {
		ids, err := s.resolver.Resolve(ctx, models.ReferenceLanguage, []models.SelectedRef{{ID: l.LanguageID, Name: l.Name}})
		if err != nil {
			return err
		}
		s.languages = append(s.languages, models.LanguageProficiency{LanguageID: ids[0], Proficiency: l.Proficiency})
	}
	return nil
}

func (s *ProfileSubmission) Derive() error {
	lo, ok := s.input.HourlyRateMin.PositiveAmount()
	if !ok {
		return &InvalidNumberError{Field: "hourlyRateMin", Value: s.input.HourlyRateMin.String()}
	}
	hi, ok := s.input.HourlyRateMax.PositiveAmount()
	if !ok || hi <= lo {
		return &InvalidNumberError{Field: "hourlyRateMax", Value: s.input.HourlyRateMax.String()}
	}

	currency := strings.ToUpper(strings.TrimSpace(s.input.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	s.record = &models.ConsultantProfileRecord{
		UserID:         s.userID,
		FirstName:      strings.TrimSpace(s.input.FirstName),
		LastName:       strings.TrimSpace(s.input.LastName),
		Headline:       strings.TrimSpace(s.input.Headline),
		JobTitle:       strings.TrimSpace(s.input.JobTitle),
		Bio:            strings.TrimSpace(s.input.Bio),
		OnboardingPath: s.input.Method,
		HourlyRateMin:  lo,
		HourlyRateMax:  hi,
		Currency:       currency,
		WorkExperience: s.input.WorkExperience.WorkExperience,
		SkillIDs:       s.skillIDs,
		IndustryIDs:    s.industryIDs,
		Languages:      s.languages,
		UpdatedAt:      s.now().UTC(),
	}
	return nil
}

func (s *ProfileSubmission) Persist(ctx context.Context) (string, error) {
	if err := s.repo.SaveConsultantProfile(ctx, s.record); err != nil {
		return "", &PersistenceError{Op: "save profile", Err: err}
	}
	return s.userID.String(), nil
}

func (s *ProfileSubmission) FollowUps() []FollowUp {
	url := strings.TrimSpace(s.input.ProfilePhotoURL)
	if url == "" {
		return nil
	}
	return []FollowUp{{
		Name: "link profile photo",
		Run: func(ctx context.Context) error {
			return s.repo.SetProfilePhoto(ctx, s.userID, url)
		},
	}}
}
