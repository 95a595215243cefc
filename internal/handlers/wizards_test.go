package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/services"
	"gigexecs-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepBody(fields map[string]any) map[string]any {
	return map[string]any{"fields": fields}
}

func TestWizards_List(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/wizards", nil)

	require.Equal(t, http.StatusOK, w.Code)
	defs := decode[[]wizard.Definition](t, w)
	assert.Len(t, defs, 3)
}

func TestWizards_EnterLaterStepWithoutDraft(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/wizards/gig_creation/steps/budget", nil)

	require.Equal(t, http.StatusConflict, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "details", resp.RestartStep)
}

func TestWizards_UnknownWizard(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/wizards/nope/steps/details", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizards_ContinueValidatesAndAdvances(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/wizards/gig_creation/steps/details", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/steps/details/continue", stepBody(map[string]any{
		"gigName":        "  ",
		"gigDescription": "Year-end audit.",
	}))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode[models.ErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "gigName")
	assert.Contains(t, resp.Fields, "selectedSkills")

	w = srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/steps/details/continue", stepBody(map[string]any{
		"gigName":        "Audit",
		"gigDescription": "Year-end audit.",
		"selectedSkills": []map[string]any{{"id": "5", "name": "Audit"}},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	next := decode[wizard.Transition](t, w)
	assert.Equal(t, "budget", next.Step)

	draft, err := srv.store.Load(context.Background(), srv.key(wizard.GigCreation))
	require.NoError(t, err)
	assert.JSONEq(t, `"Audit"`, string(draft.Fields["gigName"]))
}

func TestWizards_BackFromFirstStepExits(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/v1/wizards/gig_creation/steps/details", nil)

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/steps/details/back", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/dashboard", decode[wizard.Transition](t, w).Redirect)
}

func TestWizards_SkipRequiredStep(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/v1/wizards/gig_creation/steps/details", nil)

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/steps/details/skip", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWizards_Discard(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/v1/wizards/gig_creation/steps/details", nil)

	w := srv.do(t, http.MethodDelete, "/api/v1/wizards/gig_creation/draft", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err := srv.store.Load(context.Background(), srv.key(wizard.GigCreation))
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestWizards_SubmitSuccessClearsDraft(t *testing.T) {
	srv := newTestServer(t)
	key := srv.key(wizard.GigCreation)
	require.NoError(t, srv.store.Save(context.Background(), key, map[string]json.RawMessage{"gigName": json.RawMessage(`"Audit"`)}))

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/submit", nil)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[services.SubmissionResult](t, w)
	assert.Equal(t, "record-1", result.RecordID)
	assert.Equal(t, "/projects", result.Redirect)
	assert.Equal(t, 1, srv.submission.persisted)

	_, err := srv.store.Load(context.Background(), key)
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}

func TestWizards_SubmitFailuresKeepDraft(t *testing.T) {
	tests := []struct {
		name        string
		validateErr error
		persistErr  error
		wantStatus  int
		wantError   string
	}{
		{
			name:        "missing field",
			validateErr: &services.MissingFieldError{Field: "gigName"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantError:   "invalid submission",
		},
		{
			name:        "unknown skill",
			validateErr: &services.UnresolvableReferenceError{Kind: models.ReferenceSkill, Value: "999"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantError:   "invalid submission",
		},
		{
			name:       "database down",
			persistErr: errors.New("connection refused"),
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to create project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			srv.submission.validateErr = tt.validateErr
			srv.submission.persistErr = tt.persistErr
			key := srv.key(wizard.GigCreation)
			require.NoError(t, srv.store.Save(context.Background(), key, map[string]json.RawMessage{"gigName": json.RawMessage(`"Audit"`)}))

			w := srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/submit", nil)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantError, decode[models.ErrorResponse](t, w).Error)
			_, err := srv.store.Load(context.Background(), key)
			assert.NoError(t, err)
		})
	}
}

func TestWizards_SubmitWithoutDraft(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/gig_creation/submit", nil)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "details", decode[models.ErrorResponse](t, w).RestartStep)
	assert.Zero(t, srv.submission.persisted)
}

func TestWizards_SubmitUnavailable(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.store.Save(context.Background(), srv.key(wizard.ClientOnboarding), map[string]json.RawMessage{}))

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/client_onboarding/submit", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWizards_DraftQueryScopesKey(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/wizards/gig_creation/steps/details?draft=tab-2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := srv.store.Load(context.Background(), drafts.NewKey(wizard.GigCreation, srv.userID.String(), "tab-2"))
	assert.NoError(t, err)
	_, err = srv.store.Load(context.Background(), srv.key(wizard.GigCreation))
	assert.ErrorIs(t, err, drafts.ErrNotFound)
}
