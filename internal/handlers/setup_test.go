package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/functions"
	"gigexecs-backend/internal/handlers"
	"gigexecs-backend/internal/middleware"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/reference"
	"gigexecs-backend/internal/services"
	"gigexecs-backend/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubSubmission struct {
	validateErr error
	persistErr  error
	persisted   int
}

func (s *stubSubmission) Validate(*drafts.Draft) error { return s.validateErr }

func (s *stubSubmission) Resolve(context.Context) error { return nil }

func (s *stubSubmission) Derive() error { return nil }

func (s *stubSubmission) FollowUps() []services.FollowUp { return nil }

func (s *stubSubmission) Persist(context.Context) (string, error) {
	if s.persistErr != nil {
		return "", s.persistErr
	}
	s.persisted++
	return "record-1", nil
}

type stubParser struct {
	cv  *functions.ParsedCV
	err error
}

func (p *stubParser) ParseCV(context.Context, string, string) (*functions.ParsedCV, error) {
	return p.cv, p.err
}

type stubTracker struct {
	clicks chan string
}

func (t *stubTracker) TrackExternalGigClick(_ context.Context, _ string, _ int64, source string) error {
	t.clicks <- source
	return nil
}

type staticSource map[models.ReferenceKind][]models.EntityReference

func (s staticSource) FetchReferences(_ context.Context, kind models.ReferenceKind) ([]models.EntityReference, error) {
	return s[kind], nil
}

type testServer struct {
	router     *gin.Engine
	store      *drafts.MemoryStore
	submission *stubSubmission
	parser     *stubParser
	tracker    *stubTracker
	userID     uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := wizard.DefaultRegistry()
	require.NoError(t, err)
	logger := log.New(io.Discard, "", 0)

	srv := &testServer{
		store:      drafts.NewMemoryStore(),
		submission: &stubSubmission{},
		parser:     &stubParser{cv: &functions.ParsedCV{}},
		tracker:    &stubTracker{clicks: make(chan string, 1)},
		userID:     uuid.New(),
	}
	controller := wizard.NewController(registry, srv.store)
	coordinator := services.NewCoordinator(srv.store, nil, logger)
	catalog := reference.NewCatalog(staticSource{
		models.ReferenceSkill: {{ID: 5, Name: "Audit"}, {ID: 9, Name: "Tax"}},
	}, 0)

	wizards := handlers.NewWizardsHandler(controller, coordinator, map[string]handlers.SubmissionFactory{
		wizard.GigCreation: func(uuid.UUID) services.Submission { return srv.submission },
	})
	onboarding := handlers.NewOnboardingHandler(controller, srv.parser)
	externalGigs := handlers.NewExternalGigsHandler(srv.tracker, logger)
	referenceHandler := handlers.NewReferenceHandler(catalog)

	router := gin.New()
	router.GET("/health", handlers.NewHealthHandler("memory", srv.store, nil).Health)
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, srv.userID.String())
		c.Set(middleware.AccessTokenKey, "user-token")
		c.Next()
	})
	api.GET("/reference/:kind", referenceHandler.ListReferences)
	api.GET("/wizards", wizards.ListWizards)
	api.GET("/wizards/:wizard/steps/:step", wizards.EnterStep)
	api.POST("/wizards/:wizard/steps/:step/continue", wizards.ContinueStep)
	api.POST("/wizards/:wizard/steps/:step/back", wizards.BackStep)
	api.POST("/wizards/:wizard/steps/:step/skip", wizards.SkipStep)
	api.DELETE("/wizards/:wizard/draft", wizards.DiscardDraft)
	api.POST("/wizards/:wizard/submit", wizards.Submit)
	api.POST("/wizards/professional_onboarding/cv-import", onboarding.ImportCV)
	api.POST("/external-gigs/:id/click", externalGigs.TrackClick)
	srv.router = router
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) key(wizardID string) drafts.Key {
	return drafts.NewKey(wizardID, s.userID.String(), "")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
