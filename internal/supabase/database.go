package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gigexecs-backend/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var projectColumns = []string{
	"id", "creator_id", "type", "title", "description", "skills_required", "industries",
	"currency", "budget_min", "budget_max", "delivery_time_min", "delivery_time_max",
	"status", "role_type", "gig_location", "screening_questions", "created_at", "updated_at",
}

var bidColumns = []string{"id", "project_id", "consultant_id", "amount", "currency", "status", "created_at"}

// DatabaseClient talks to the Supabase Postgres database directly for the
// writes that must happen in one transaction.
type DatabaseClient struct {
	db      *sql.DB
	builder squirrel.StatementBuilderType
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (d *DatabaseClient) exec(ctx context.Context, conn execer, q squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return conn.ExecContext(ctx, query, args...)
}

func (d *DatabaseClient) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ensureUser creates the local users row for an authenticated account the
// first time it writes anything.
func (d *DatabaseClient) ensureUser(ctx context.Context, conn execer, userID uuid.UUID) error {
	_, err := d.exec(ctx, conn, d.builder.
		Insert("users").
		Columns("id").
		Values(userID).
		Suffix("ON CONFLICT (id) DO NOTHING"))
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

func (d *DatabaseClient) CreateProject(ctx context.Context, record *models.ProjectRecord) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := d.ensureUser(ctx, tx, record.CreatorID); err != nil {
			return err
		}
		_, err := d.exec(ctx, tx, d.builder.
			Insert("projects").
			Columns(
				"id", "creator_id", "type", "title", "description", "skills_required", "industries",
				"currency", "budget_min", "budget_max", "desired_amount_min", "desired_amount_max",
				"delivery_time_min", "delivery_time_max", "status", "role_type", "gig_location",
				"screening_questions", "created_at", "updated_at",
			).
			Values(
				record.ID, record.CreatorID, record.Type, record.Title, record.Description,
				record.SkillsRequired, pq.Array(record.Industries), record.Currency,
				record.BudgetMin, record.BudgetMax, record.DesiredAmountMin, record.DesiredAmountMax,
				record.DeliveryTimeMin, record.DeliveryTimeMax, string(record.Status),
				record.RoleType, record.GigLocation, record.ScreeningQuestions,
				record.CreatedAt, record.UpdatedAt,
			))
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		return nil
	})
}

func (d *DatabaseClient) AddProjectAttachments(ctx context.Context, projectID uuid.UUID, attachments []models.ProjectAttachment) error {
	if len(attachments) == 0 {
		return nil
	}
	insert := d.builder.Insert("project_attachments").Columns("project_id", "name", "size", "url")
	for _, a := range attachments {
		insert = insert.Values(projectID, a.Name, a.Size, a.URL)
	}
	if _, err := d.exec(ctx, d.db, insert); err != nil {
		return fmt.Errorf("failed to add project attachments: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	var status string
	err := row.Scan(
		&p.ID, &p.CreatorID, &p.Type, &p.Title, &p.Description, &p.SkillsRequired,
		pq.Array(&p.Industries), &p.Currency, &p.BudgetMin, &p.BudgetMax,
		&p.DeliveryTimeMin, &p.DeliveryTimeMax, &status, &p.RoleType, &p.GigLocation,
		&p.ScreeningQuestions, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.ProjectStatus(status)
	return &p, nil
}

func (d *DatabaseClient) ListProjects(ctx context.Context, creatorID uuid.UUID) ([]models.Project, error) {
	query, args, err := d.builder.
		Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"creator_id": creatorID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// GetProject returns sql.ErrNoRows when the project does not exist.
func (d *DatabaseClient) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	query, args, err := d.builder.
		Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return scanProject(d.db.QueryRowContext(ctx, query, args...))
}

func (d *DatabaseClient) UpdateProject(ctx context.Context, projectID uuid.UUID, update *models.ProjectUpdate) error {
	res, err := d.exec(ctx, d.db, d.builder.
		Update("projects").
		SetMap(map[string]any{
			"title":               update.Title,
			"description":         update.Description,
			"skills_required":     update.SkillsRequired,
			"industries":          pq.Array(update.Industries),
			"budget_min":          update.BudgetMin,
			"budget_max":          update.BudgetMax,
			"desired_amount_min":  update.DesiredAmountMin,
			"desired_amount_max":  update.DesiredAmountMax,
			"delivery_time_min":   update.DeliveryTimeMin,
			"delivery_time_max":   update.DeliveryTimeMax,
			"role_type":           update.RoleType,
			"gig_location":        update.GigLocation,
			"screening_questions": update.ScreeningQuestions,
			"updated_at":          update.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": projectID}))
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireRow(res)
}

// UpdateProjectStatus moves a project only if it is still in the from state;
// otherwise it returns sql.ErrNoRows.
func (d *DatabaseClient) UpdateProjectStatus(ctx context.Context, projectID uuid.UUID, from, to models.ProjectStatus) error {
	res, err := d.exec(ctx, d.db, d.builder.
		Update("projects").
		Set("status", string(to)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": projectID, "status": string(from)}))
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	return requireRow(res)
}

func scanBid(row rowScanner) (*models.Bid, error) {
	var b models.Bid
	var status string
	if err := row.Scan(&b.ID, &b.ProjectID, &b.ConsultantID, &b.Amount, &b.Currency, &status, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Status = models.BidStatus(status)
	return &b, nil
}

func (d *DatabaseClient) ListBids(ctx context.Context, projectID uuid.UUID) ([]models.Bid, error) {
	query, args, err := d.builder.
		Select(bidColumns...).
		From("bids").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	bids := []models.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, *b)
	}
	return bids, rows.Err()
}

func (d *DatabaseClient) GetBid(ctx context.Context, bidID uuid.UUID) (*models.Bid, error) {
	query, args, err := d.builder.
		Select(bidColumns...).
		From("bids").
		Where(squirrel.Eq{"id": bidID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return scanBid(d.db.QueryRowContext(ctx, query, args...))
}

// AwardBid creates the contract and moves the project and bid on in one
// transaction. A project or bid that changed underneath returns sql.ErrNoRows.
func (d *DatabaseClient) AwardBid(ctx context.Context, award models.Award) (uuid.UUID, error) {
	contractID := uuid.New()
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := d.exec(ctx, tx, d.builder.
			Insert("contracts").
			Columns("id", "client_id", "consultant_id", "project_id", "bid_id", "status", "start_date").
			Values(contractID, award.ClientID, award.ConsultantID, award.ProjectID, award.BidID, models.ContractActive, award.StartDate))
		if err != nil {
			return fmt.Errorf("failed to create contract: %w", err)
		}

		res, err := d.exec(ctx, tx, d.builder.
			Update("projects").
			Set("status", string(models.ProjectInProgress)).
			Set("updated_at", award.StartDate).
			Where(squirrel.Eq{
				"id":     award.ProjectID,
				"status": []string{string(models.ProjectDraft), string(models.ProjectOpen)},
			}))
		if err != nil {
			return fmt.Errorf("failed to start project: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}

		res, err = d.exec(ctx, tx, d.builder.
			Update("bids").
			Set("status", string(models.BidAccepted)).
			Where(squirrel.Eq{"id": award.BidID, "status": string(models.BidPending)}))
		if err != nil {
			return fmt.Errorf("failed to accept bid: %w", err)
		}
		return requireRow(res)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return contractID, nil
}

// SaveConsultantProfile writes the profile and replaces the user's work
// history, skills, industries and languages.
func (d *DatabaseClient) SaveConsultantProfile(ctx context.Context, record *models.ConsultantProfileRecord) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := d.exec(ctx, tx, d.builder.
			Insert("users").
			Columns("id", "first_name", "last_name", "job_title", "user_type", "onboarding_completed", "updated_at").
			Values(record.UserID, record.FirstName, record.LastName, record.JobTitle, "consultant", true, record.UpdatedAt).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				job_title = EXCLUDED.job_title,
				user_type = EXCLUDED.user_type,
				onboarding_completed = TRUE,
				updated_at = EXCLUDED.updated_at`))
		if err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		_, err = d.exec(ctx, tx, d.builder.
			Insert("consultant_profiles").
			Columns("user_id", "headline", "bio", "onboarding_path", "hourly_rate_min", "hourly_rate_max", "currency", "updated_at").
			Values(record.UserID, record.Headline, record.Bio, record.OnboardingPath, record.HourlyRateMin, record.HourlyRateMax, record.Currency, record.UpdatedAt).
			Suffix(`ON CONFLICT (user_id) DO UPDATE SET
				headline = EXCLUDED.headline,
				bio = EXCLUDED.bio,
				onboarding_path = EXCLUDED.onboarding_path,
				hourly_rate_min = EXCLUDED.hourly_rate_min,
				hourly_rate_max = EXCLUDED.hourly_rate_max,
				currency = EXCLUDED.currency,
				updated_at = EXCLUDED.updated_at`))
		if err != nil {
			return fmt.Errorf("failed to save consultant profile: %w", err)
		}

		for _, table := range []string{"work_experience", "user_skills", "user_industries", "user_languages"} {
			if _, err := d.exec(ctx, tx, d.builder.Delete(table).Where(squirrel.Eq{"user_id": record.UserID})); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if len(record.WorkExperience) > 0 {
			insert := d.builder.Insert("work_experience").Columns(
				"user_id", "company", "job_title", "description", "city", "country_id",
				"start_month", "start_year", "end_month", "end_year", "currently_working",
			)
			for _, e := range record.WorkExperience {
				insert = insert.Values(
					record.UserID, e.Company, e.JobTitle, e.Description, e.City, nullInt64(e.CountryID),
					nullInt(e.StartMonth), e.StartYear, nullInt(e.EndMonth), nullInt(e.EndYear), e.CurrentlyWorking,
				)
			}
			if _, err := d.exec(ctx, tx, insert); err != nil {
				return fmt.Errorf("failed to save work experience: %w", err)
			}
		}

		if err := d.insertLinks(ctx, tx, "user_skills", "skill_id", record.UserID, record.SkillIDs); err != nil {
			return err
		}
		if err := d.insertLinks(ctx, tx, "user_industries", "industry_id", record.UserID, record.IndustryIDs); err != nil {
			return err
		}

		if len(record.Languages) > 0 {
			insert := d.builder.Insert("user_languages").Columns("user_id", "language_id", "proficiency")
			for _, l := range record.Languages {
				insert = insert.Values(record.UserID, l.LanguageID, l.Proficiency)
			}
			if _, err := d.exec(ctx, tx, insert.Suffix("ON CONFLICT (user_id, language_id) DO UPDATE SET proficiency = EXCLUDED.proficiency")); err != nil {
				return fmt.Errorf("failed to save languages: %w", err)
			}
		}
		return nil
	})
}

func (d *DatabaseClient) insertLinks(ctx context.Context, tx *sql.Tx, table, column string, userID uuid.UUID, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	insert := d.builder.Insert(table).Columns("user_id", column)
	for _, id := range ids {
		insert = insert.Values(userID, id)
	}
	if _, err := d.exec(ctx, tx, insert.Suffix("ON CONFLICT DO NOTHING")); err != nil {
		return fmt.Errorf("failed to save %s: %w", table, err)
	}
	return nil
}

// SaveClientProfile writes the client profile and returns the logo URL it
// replaced, or "" when there was none.
func (d *DatabaseClient) SaveClientProfile(ctx context.Context, record *models.ClientProfileRecord) (string, error) {
	var previous sql.NullString
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		query, args, err := d.builder.
			Select("logo_url").
			From("client_profiles").
			Where(squirrel.Eq{"user_id": record.UserID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&previous); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read client profile: %w", err)
		}

		_, err = d.exec(ctx, tx, d.builder.
			Insert("users").
			Columns("id", "first_name", "last_name", "job_title", "user_type", "onboarding_completed", "updated_at").
			Values(record.UserID, record.FirstName, record.LastName, record.JobTitle, "client", true, record.UpdatedAt).
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				job_title = EXCLUDED.job_title,
				user_type = EXCLUDED.user_type,
				onboarding_completed = TRUE,
				updated_at = EXCLUDED.updated_at`))
		if err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		_, err = d.exec(ctx, tx, d.builder.
			Insert("client_profiles").
			Columns("user_id", "company_name", "organisation_type", "industry_id", "city", "country_id", "website", "duns_number", "logo_url", "updated_at").
			Values(record.UserID, record.CompanyName, record.OrganisationType, record.IndustryID, record.City, record.CountryID, record.Website, record.DunsNumber, record.LogoURL, record.UpdatedAt).
			Suffix(`ON CONFLICT (user_id) DO UPDATE SET
				company_name = EXCLUDED.company_name,
				organisation_type = EXCLUDED.organisation_type,
				industry_id = EXCLUDED.industry_id,
				city = EXCLUDED.city,
				country_id = EXCLUDED.country_id,
				website = EXCLUDED.website,
				duns_number = EXCLUDED.duns_number,
				logo_url = EXCLUDED.logo_url,
				updated_at = EXCLUDED.updated_at`))
		if err != nil {
			return fmt.Errorf("failed to save client profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return previous.String, nil
}

func (d *DatabaseClient) SetProfilePhoto(ctx context.Context, userID uuid.UUID, url string) error {
	res, err := d.exec(ctx, d.db, d.builder.
		Update("users").
		Set("profile_photo_url", url).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID}))
	if err != nil {
		return fmt.Errorf("failed to set profile photo: %w", err)
	}
	return requireRow(res)
}

func (d *DatabaseClient) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
