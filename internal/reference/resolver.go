package reference

import (
	"context"
	"fmt"

	"gigexecs-backend/internal/models"
)

// UnresolvableError means a selected reference could not be turned into a
// known id. The whole operation must stop; selections are never dropped.
type UnresolvableError struct {
	Kind  models.ReferenceKind
	Value string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("unresolvable %s reference %q", e.Kind, e.Value)
}

type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve maps every selection to its integer id, in order. An id that does
// not parse, or that the catalog does not know, fails the whole call.
func (r *Resolver) Resolve(ctx context.Context, kind models.ReferenceKind, refs []models.SelectedRef) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	seen := make(map[int64]bool, len(refs))
	for _, ref := range refs {
		id, err := r.ResolveID(ctx, kind, ref.ID, ref.Name)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// ResolveID resolves a single raw id. display is used in the error when the
// id itself is empty.
func (r *Resolver) ResolveID(ctx context.Context, kind models.ReferenceKind, raw models.NumberString, display string) (int64, error) {
	value := raw.String()
	if value == "" {
		value = display
	}

	id, err := raw.Int64()
	if err != nil {
		return 0, &UnresolvableError{Kind: kind, Value: value}
	}
	_, ok, err := r.catalog.Lookup(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &UnresolvableError{Kind: kind, Value: value}
	}
	return id, nil
}
