package services

import (
	"context"
	"strings"
	"time"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"

	"github.com/google/uuid"
)

type ClientProfileRepository interface {
	// SaveClientProfile writes the profile and returns the logo URL it replaced, if any.
	SaveClientProfile(ctx context.Context, record *models.ClientProfileRecord) (string, error)
	SetProfilePhoto(ctx context.Context, userID uuid.UUID, url string) error
}

type FileRemover interface {
	DeleteByURL(ctx context.Context, url string) error
}

// IDResolver resolves a single reference id.
type IDResolver interface {
	ResolveID(ctx context.Context, kind models.ReferenceKind, raw models.NumberString, display string) (int64, error)
}

type clientDraft struct {
	models.ClientBasicInfo
	models.ClientCompany
}

// ClientProfileSubmission completes the client onboarding wizard.
type ClientProfileSubmission struct {
	userID   uuid.UUID
	repo     ClientProfileRepository
	resolver IDResolver
	files    FileRemover
	now      func() time.Time

	input        clientDraft
	industryID   int64
	countryID    int64
	record       *models.ClientProfileRecord
	previousLogo string
}

func NewClientProfileSubmission(userID uuid.UUID, repo ClientProfileRepository, resolver IDResolver, files FileRemover) *ClientProfileSubmission {
	return &ClientProfileSubmission{userID: userID, repo: repo, resolver: resolver, files: files, now: time.Now}
}

func (s *ClientProfileSubmission) Validate(draft *drafts.Draft) error {
	if err := decodeDraft(draft, &s.input); err != nil {
		return err
	}
	required := []struct {
		field string
		value string
	}{
		{"firstName", s.input.FirstName},
		{"lastName", s.input.LastName},
		{"jobTitle", s.input.JobTitle},
		{"companyName", s.input.CompanyName},
		{"organisationType", s.input.OrganisationType},
		{"industryId", s.input.IndustryID.String()},
		{"city", s.input.City},
		{"countryId", s.input.CountryID.String()},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingFieldError{Field: r.field}
		}
	}
	return nil
}

func (s *ClientProfileSubmission) Resolve(ctx context.Context) error {
	var err error
	if s.industryID, err = s.resolver.ResolveID(ctx, models.ReferenceIndustry, s.input.IndustryID, ""); err != nil {
		return err
	}
	if s.countryID, err = s.resolver.ResolveID(ctx, models.ReferenceCountry, s.input.CountryID, ""); err != nil {
		return err
	}
	return nil
}

func (s *ClientProfileSubmission) Derive() error {
	duns := strings.TrimSpace(s.input.DunsNumber)
	if duns != "" {
		for _, r := range duns {
			if r < '0' || r > '9' {
				return &InvalidNumberError{Field: "dunsNumber", Value: duns}
			}
		}
	}

	s.record = &models.ClientProfileRecord{
		UserID:           s.userID,
		FirstName:        strings.TrimSpace(s.input.FirstName),
		LastName:         strings.TrimSpace(s.input.LastName),
		JobTitle:         strings.TrimSpace(s.input.JobTitle),
		CompanyName:      strings.TrimSpace(s.input.CompanyName),
		OrganisationType: strings.TrimSpace(s.input.OrganisationType),
		IndustryID:       s.industryID,
		City:             strings.TrimSpace(s.input.City),
		CountryID:        s.countryID,
		Website:          optionalString(s.input.Website),
		DunsNumber:       optionalString(duns),
		LogoURL:          optionalString(s.input.LogoURL),
		UpdatedAt:        s.now().UTC(),
	}
	return nil
}

func (s *ClientProfileSubmission) Persist(ctx context.Context) (string, error) {
	previous, err := s.repo.SaveClientProfile(ctx, s.record)
	if err != nil {
		return "", &PersistenceError{Op: "save client profile", Err: err}
	}
	s.previousLogo = previous
	return s.userID.String(), nil
}

func (s *ClientProfileSubmission) FollowUps() []FollowUp {
	var out []FollowUp
	if photo := strings.TrimSpace(s.input.ProfilePhotoURL); photo != "" {
		out = append(out, FollowUp{
			Name: "link profile photo",
			Run: func(ctx context.Context) error {
				return s.repo.SetProfilePhoto(ctx, s.userID, photo)
			},
		})
	}
	if s.files != nil && s.previousLogo != "" && (s.record.LogoURL == nil || *s.record.LogoURL != s.previousLogo) {
		old := s.previousLogo
		out = append(out, FollowUp{
			Name: "delete replaced logo",
			Run: func(ctx context.Context) error {
				return s.files.DeleteByURL(ctx, old)
			},
		})
	}
	return out
}
