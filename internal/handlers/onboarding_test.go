package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"gigexecs-backend/internal/functions"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCV_HydratesDraft(t *testing.T) {
	srv := newTestServer(t)
	cv := &functions.ParsedCV{Summary: "Finance leader"}
	cv.BasicInfo.FirstName = "Ada"
	cv.BasicInfo.LastName = "Lovelace"
	cv.WorkExperience = []functions.ParsedExperience{
		{Company: "Acme", JobTitle: "CFO", StartDateMonth: "Mar", StartDateYear: 2015, CurrentlyWorking: true},
	}
	srv.parser.cv = cv

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/professional_onboarding/cv-import", map[string]string{"sourceFileId": "file-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "basic_info", decode[wizard.Transition](t, w).Step)

	draft, err := srv.store.Load(context.Background(), srv.key(wizard.ProfessionalOnboarding))
	require.NoError(t, err)
	assert.JSONEq(t, `"cv"`, string(draft.Fields["method"]))
	assert.JSONEq(t, `"Ada"`, string(draft.Fields["firstName"]))
	assert.JSONEq(t, `"Finance leader"`, string(draft.Fields["bio"]))
	assert.NotContains(t, draft.Fields, "headline")

	var entries []models.WorkExperienceEntry
	found, err := draft.Decode("workExperience", &entries)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].StartMonth)
	assert.True(t, entries[0].CurrentlyWorking)
}

func TestImportCV_ParserFailure(t *testing.T) {
	srv := newTestServer(t)
	srv.parser.err = &functions.Error{Function: functions.ParseCV, Status: http.StatusBadRequest, Message: "unsupported file"}

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/professional_onboarding/cv-import", map[string]string{"sourceFileId": "file-1"})

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "unsupported file", decode[models.ErrorResponse](t, w).Message)
	_, err := srv.store.Load(context.Background(), srv.key(wizard.ProfessionalOnboarding))
	assert.Error(t, err)
}

func TestImportCV_RequiresSourceFile(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/wizards/professional_onboarding/cv-import", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackClick(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/external-gigs/42/click", map[string]string{"click_source": "detail"})
	require.Equal(t, http.StatusAccepted, w.Code)

	select {
	case source := <-srv.tracker.clicks:
		assert.Equal(t, "detail", source)
	case <-time.After(time.Second):
		t.Fatal("click was not tracked")
	}
}

func TestTrackClick_Rejections(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/external-gigs/abc/click", map[string]string{"click_source": "detail"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/external-gigs/42/click", map[string]string{"click_source": "email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReferences(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/reference/skill?q=AU", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ReferenceListResponse](t, w)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Audit", resp.Items[0].Name)

	w = srv.do(t, http.MethodGet, "/api/v1/reference/language", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"kind":"language","items":[]}`, w.Body.String())

	w = srv.do(t, http.MethodGet, "/api/v1/reference/planet", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
