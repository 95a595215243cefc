package services_test

import (
	"context"
	"testing"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/services"
	"gigexecs-backend/internal/wizard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileRepo struct {
	consultant *models.ConsultantProfileRecord
	client     *models.ClientProfileRecord
	previous   string
	photos     []string
	photoErr   error
}

func (r *profileRepo) SaveConsultantProfile(_ context.Context, record *models.ConsultantProfileRecord) error {
	r.consultant = record
	return nil
}

func (r *profileRepo) SaveClientProfile(_ context.Context, record *models.ClientProfileRecord) (string, error) {
	r.client = record
	return r.previous, nil
}

func (r *profileRepo) SetProfilePhoto(_ context.Context, _ uuid.UUID, url string) error {
	if r.photoErr != nil {
		return r.photoErr
	}
	r.photos = append(r.photos, url)
	return nil
}

type fileRemover struct {
	deleted []string
}

func (f *fileRemover) DeleteByURL(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func professionalFields() map[string]any {
	return map[string]any{
		"method":          "manual",
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"headline":        "Fractional CFO",
		"profilePhotoUrl": "https://files.example.com/ada.png",
		"workExperience": []map[string]any{
			{"company": "Acme", "jobTitle": "CFO", "startYear": 2015, "endYear": 2020},
		},
		"selectedSkills":     []map[string]any{{"id": "5", "name": "Audit"}, {"id": 9, "name": "Tax"}},
		"selectedIndustries": []map[string]any{{"id": 4, "name": "Retail"}},
		"languages":          []map[string]any{{"languageId": 2, "name": "French", "proficiency": "fluent"}},
		"hourlyRateMin":      "100",
		"hourlyRateMax":      150,
		"currency":           "gbp",
	}
}

func TestProfileSubmission_SavesProfile(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{}
	reporter := &recordingReporter{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, reporter, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, userID.String(), "")
	saveDraft(t, store, key, professionalFields())

	result, err := coord.Submit(context.Background(), key, services.NewProfileSubmission(userID, repo, newResolver()), "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, userID.String(), result.RecordID)

	rec := repo.consultant
	require.NotNil(t, rec)
	assert.Equal(t, "Ada", rec.FirstName)
	assert.Equal(t, "manual", rec.OnboardingPath)
	assert.Equal(t, []int64{5, 9}, rec.SkillIDs)
	assert.Equal(t, []int64{4}, rec.IndustryIDs)
	assert.Equal(t, []models.LanguageProficiency{{LanguageID: 2, Proficiency: "fluent"}}, rec.Languages)
	assert.Equal(t, 100.0, rec.HourlyRateMin)
	assert.Equal(t, 150.0, rec.HourlyRateMax)
	assert.Equal(t, "GBP", rec.Currency)
	require.Len(t, rec.WorkExperience, 1)
	assert.Equal(t, "Acme", rec.WorkExperience[0].Company)

	assert.Equal(t, []string{"https://files.example.com/ada.png"}, repo.photos)
	assert.Empty(t, reporter.failures)
}

func TestProfileSubmission_PhotoFailureStillSucceeds(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{photoErr: errBoom}
	reporter := &recordingReporter{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, reporter, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, userID.String(), "")
	saveDraft(t, store, key, professionalFields())

	_, err := coord.Submit(context.Background(), key, services.NewProfileSubmission(userID, repo, newResolver()), "/dashboard")
	require.NoError(t, err)
	require.NotNil(t, repo.consultant)
	require.Len(t, reporter.failures, 1)
	assert.Equal(t, "link profile photo", reporter.failures[0].Write)
}

func TestProfileSubmission_RateRangeMustIncrease(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, nil, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, userID.String(), "")
	fields := professionalFields()
	fields["hourlyRateMax"] = "80"
	saveDraft(t, store, key, fields)

	_, err := coord.Submit(context.Background(), key, services.NewProfileSubmission(userID, repo, newResolver()), "/dashboard")

	var invalid *services.InvalidNumberError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "hourlyRateMax", invalid.Field)
	assert.Nil(t, repo.consultant)
}

func TestProfileSubmission_UnknownLanguage(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, nil, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, userID.String(), "")
	fields := professionalFields()
	fields["languages"] = []map[string]any{{"languageId": 77, "name": "Klingon", "proficiency": "basic"}}
	saveDraft(t, store, key, fields)

	_, err := coord.Submit(context.Background(), key, services.NewProfileSubmission(userID, repo, newResolver()), "/dashboard")

	var unresolvable *services.UnresolvableReferenceError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, models.ReferenceLanguage, unresolvable.Kind)
	assert.Nil(t, repo.consultant)
}

func clientFields() map[string]any {
	return map[string]any{
		"firstName":        "Grace",
		"lastName":         "Hopper",
		"jobTitle":         "COO",
		"companyName":      "Hopper Ltd",
		"organisationType": "company",
		"industryId":       "3",
		"city":             "London",
		"countryId":        44,
		"dunsNumber":       "123456789",
		"logoUrl":          "https://files.example.com/new-logo.png",
	}
}

func TestClientProfileSubmission_ReplacesLogo(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{previous: "https://files.example.com/old-logo.png"}
	files := &fileRemover{}
	reporter := &recordingReporter{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, reporter, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ClientOnboarding, userID.String(), "")
	saveDraft(t, store, key, clientFields())

	sub := services.NewClientProfileSubmission(userID, repo, newResolver(), files)
	_, err := coord.Submit(context.Background(), key, sub, "/dashboard")
	require.NoError(t, err)

	rec := repo.client
	require.NotNil(t, rec)
	assert.Equal(t, int64(3), rec.IndustryID)
	assert.Equal(t, int64(44), rec.CountryID)
	require.NotNil(t, rec.DunsNumber)
	assert.Equal(t, "123456789", *rec.DunsNumber)
	assert.Nil(t, rec.Website)

	assert.Equal(t, []string{"https://files.example.com/old-logo.png"}, files.deleted)
	assert.Empty(t, reporter.failures)
}

func TestClientProfileSubmission_SameLogoIsKept(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{previous: "https://files.example.com/new-logo.png"}
	files := &fileRemover{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, nil, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ClientOnboarding, userID.String(), "")
	saveDraft(t, store, key, clientFields())

	_, err := coord.Submit(context.Background(), key, services.NewClientProfileSubmission(userID, repo, newResolver(), files), "/dashboard")
	require.NoError(t, err)
	assert.Empty(t, files.deleted)
}

func TestClientProfileSubmission_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(map[string]any)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "missing company",
			modify: func(f map[string]any) { delete(f, "companyName") },
			check: func(t *testing.T, err error) {
				var missing *services.MissingFieldError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "companyName", missing.Field)
			},
		},
		{
			name:   "unknown country",
			modify: func(f map[string]any) { f["countryId"] = "999" },
			check: func(t *testing.T, err error) {
				var unresolvable *services.UnresolvableReferenceError
				require.ErrorAs(t, err, &unresolvable)
				assert.Equal(t, models.ReferenceCountry, unresolvable.Kind)
			},
		},
		{
			name:   "non numeric duns",
			modify: func(f map[string]any) { f["dunsNumber"] = "12-345" },
			check: func(t *testing.T, err error) {
				var invalid *services.InvalidNumberError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "dunsNumber", invalid.Field)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := drafts.NewMemoryStore()
			repo := &profileRepo{}
			logger, _ := quietLogger()
			coord := services.NewCoordinator(store, nil, logger)

			userID := uuid.New()
			key := drafts.NewKey(wizard.ClientOnboarding, userID.String(), "")
			fields := clientFields()
			tt.modify(fields)
			saveDraft(t, store, key, fields)

			_, err := coord.Submit(context.Background(), key, services.NewClientProfileSubmission(userID, repo, newResolver(), nil), "/dashboard")
			tt.check(t, err)
			assert.Nil(t, repo.client)

			_, err = store.Load(context.Background(), key)
			assert.NoError(t, err)
		})
	}
}

func TestProfileSubmission_MissingMethodKeepsDraft(t *testing.T) {
	store := drafts.NewMemoryStore()
	repo := &profileRepo{}
	logger, _ := quietLogger()
	coord := services.NewCoordinator(store, nil, logger)

	userID := uuid.New()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, userID.String(), "")
	fields := professionalFields()
	delete(fields, "method")
	saveDraft(t, store, key, fields)

	_, err := coord.Submit(context.Background(), key, services.NewProfileSubmission(userID, repo, newResolver()), "/dashboard")

	var missing *services.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "method", missing.Field)
	assert.Nil(t, repo.consultant)

	_, err = store.Load(context.Background(), key)
	assert.NoError(t, err)
}
