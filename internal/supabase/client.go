package supabase

import (
	"context"
	"fmt"

	"gigexecs-backend/internal/config"
	"gigexecs-backend/internal/models"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

var referenceTables = map[models.ReferenceKind]string{
	models.ReferenceSkill:    "skills",
	models.ReferenceIndustry: "industries",
	models.ReferenceCountry:  "countries",
	models.ReferenceLanguage: "languages",
}

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

type referenceRow struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// FetchReferences reads a whole reference table through PostgREST.
func (c *Client) FetchReferences(_ context.Context, kind models.ReferenceKind) ([]models.EntityReference, error) {
	table, ok := referenceTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	columns := "id, name"
	if kind == models.ReferenceSkill {
		columns = "id, name, category"
	}

	var rows []referenceRow
	_, err := c.Supabase.From(table).
		Select(columns, "", false).
		Order("name", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", table, err)
	}

	refs := make([]models.EntityReference, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, models.EntityReference{ID: r.ID, Name: r.Name, Category: r.Category})
	}
	return refs, nil
}
