package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/reference"
	"gigexecs-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type staticSource map[models.ReferenceKind][]models.EntityReference

func (s staticSource) FetchReferences(_ context.Context, kind models.ReferenceKind) ([]models.EntityReference, error) {
	return s[kind], nil
}

func newCatalog() *reference.Catalog {
	source := staticSource{
		models.ReferenceSkill: {
			{ID: 5, Name: "Audit"},
			{ID: 9, Name: "Tax"},
		},
		models.ReferenceIndustry: {
			{ID: 3, Name: "Manufacturing"},
			{ID: 4, Name: "Retail"},
		},
		models.ReferenceCountry: {
			{ID: 44, Name: "United Kingdom"},
		},
		models.ReferenceLanguage: {
			{ID: 1, Name: "English"},
			{ID: 2, Name: "French"},
		},
	}
	return reference.NewCatalog(source, time.Hour)
}

func newResolver() *reference.Resolver {
	return reference.NewResolver(newCatalog())
}

type gigRepo struct {
	mu          sync.Mutex
	created     []*models.ProjectRecord
	attachments []models.ProjectAttachment
	createErr   error
	linkErr     error
	ctxErr      error
	entered     chan struct{}
	release     chan struct{}
}

func (r *gigRepo) CreateProject(ctx context.Context, record *models.ProjectRecord) error {
	if r.entered != nil {
		close(r.entered)
		r.entered = nil
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctxErr = ctx.Err()
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, record)
	return nil
}

func (r *gigRepo) AddProjectAttachments(_ context.Context, _ uuid.UUID, attachments []models.ProjectAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.linkErr != nil {
		return r.linkErr
	}
	r.attachments = append(r.attachments, attachments...)
	return nil
}

func (r *gigRepo) createdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

type recordingReporter struct {
	mu       sync.Mutex
	failures []services.DependentWriteFailure
}

func (r *recordingReporter) ReportDependentFailure(_ context.Context, f services.DependentWriteFailure) {
	r.mu.Lock()
	r.failures = append(r.failures, f)
	r.mu.Unlock()
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func saveDraft(t *testing.T, store drafts.Store, key drafts.Key, values map[string]any) {
	t.Helper()
	fields := map[string]json.RawMessage{}
	for k, v := range values {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		fields[k] = b
	}
	require.NoError(t, store.Save(context.Background(), key, fields))
}

var errBoom = errors.New("boom")
