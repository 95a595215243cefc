package reference_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gigexecs-backend/internal/models"
	"gigexecs-backend/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	data  map[models.ReferenceKind][]models.EntityReference
	err   error
}

func (f *fakeSource) FetchReferences(_ context.Context, kind models.ReferenceKind) ([]models.EntityReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data[kind], nil
}

func newSource() *fakeSource {
	return &fakeSource{data: map[models.ReferenceKind][]models.EntityReference{
		models.ReferenceSkill: {
			{ID: 5, Name: "Audit"},
			{ID: 7, Name: "Financial Modelling"},
		},
		models.ReferenceIndustry: {
			{ID: 3, Name: "Manufacturing"},
		},
	}}
}

func TestCatalog_CachesWithinTTL(t *testing.T) {
	source := newSource()
	catalog := reference.NewCatalog(source, time.Hour)
	ctx := context.Background()

	items, err := catalog.List(ctx, models.ReferenceSkill)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = catalog.List(ctx, models.ReferenceSkill)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	catalog.Invalidate()
	_, err = catalog.List(ctx, models.ReferenceSkill)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCatalog_Search(t *testing.T) {
	catalog := reference.NewCatalog(newSource(), time.Hour)

	items, err := catalog.Search(context.Background(), models.ReferenceSkill, "  financial ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ID)
}

func TestCatalog_UnknownKind(t *testing.T) {
	catalog := reference.NewCatalog(newSource(), time.Hour)
	_, err := catalog.List(context.Background(), models.ReferenceKind("planet"))
	assert.Error(t, err)
}

func TestCatalog_SourceError(t *testing.T) {
	source := newSource()
	source.err = errors.New("postgrest unavailable")
	catalog := reference.NewCatalog(source, time.Hour)

	_, err := catalog.List(context.Background(), models.ReferenceSkill)
	assert.ErrorContains(t, err, "postgrest unavailable")
}

func TestResolver_Resolve(t *testing.T) {
	resolver := reference.NewResolver(reference.NewCatalog(newSource(), time.Hour))
	ctx := context.Background()

	ids, err := resolver.Resolve(ctx, models.ReferenceSkill, []models.SelectedRef{
		{ID: "5", Name: "Audit"},
		{ID: "7.0", Name: "Financial Modelling"},
		{ID: "5", Name: "Audit"},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 7}, ids)
}

func TestResolver_UnparseableID(t *testing.T) {
	resolver := reference.NewResolver(reference.NewCatalog(newSource(), time.Hour))

	_, err := resolver.Resolve(context.Background(), models.ReferenceIndustry, []models.SelectedRef{
		{ID: "manufacturing", Name: "Manufacturing"},
	})

	var unresolvable *reference.UnresolvableError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, models.ReferenceIndustry, unresolvable.Kind)
	assert.Equal(t, "manufacturing", unresolvable.Value)
}

func TestResolver_UnknownID(t *testing.T) {
	resolver := reference.NewResolver(reference.NewCatalog(newSource(), time.Hour))

	_, err := resolver.Resolve(context.Background(), models.ReferenceSkill, []models.SelectedRef{
		{ID: "5", Name: "Audit"},
		{ID: "404", Name: "Ghost"},
	})

	var unresolvable *reference.UnresolvableError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "404", unresolvable.Value)
}

func TestResolver_EmptyIDUsesName(t *testing.T) {
	resolver := reference.NewResolver(reference.NewCatalog(newSource(), time.Hour))

	_, err := resolver.Resolve(context.Background(), models.ReferenceSkill, []models.SelectedRef{
		{Name: "Audit"},
	})

	var unresolvable *reference.UnresolvableError
	require.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "Audit", unresolvable.Value)
}
