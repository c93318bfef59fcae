package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// ProfileRepo persists startup profiles in PostgreSQL.
type ProfileRepo struct{ Pool PgxPool }

// NewProfileRepo constructs a ProfileRepo with the given pool.
func NewProfileRepo(p PgxPool) *ProfileRepo { return &ProfileRepo{Pool: p} }

const profileColumns = `id, company_name, tagline, description, industry, stage, location,
	team_size, revenue_model, target_market, competitive_advantage,
	monthly_revenue, monthly_burn_rate, runway_months,
	seeking_funding, funding_amount_target, funding_use_case,
	website, pitch_deck_url, created_at, updated_at`

// Create inserts a new profile and returns its id (generates one if empty).
func (r *ProfileRepo) Create(ctx domain.Context, p domain.StartupProfile) (string, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Create")
	defer span.End()
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO startup_profiles (` + profileColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`
	now := time.Now().UTC()
	_, err := r.Pool.Exec(ctx, q,
		id, p.CompanyName, p.Tagline, p.Description, p.Industry, p.Stage, p.Location,
		p.TeamSize, p.RevenueModel, p.TargetMarket, p.CompetitiveAdvantage,
		p.MonthlyRevenue, p.MonthlyBurnRate, p.RunwayMonths,
		p.SeekingFunding, p.FundingAmountTarget, p.FundingUseCase,
		p.Website, p.PitchDeckURL, now, now)
	if err != nil {
		return "", fmt.Errorf("op=profile.create: %w", err)
	}
	return id, nil
}

// Get loads a profile by id.
func (r *ProfileRepo) Get(ctx domain.Context, id string) (domain.StartupProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Get")
	defer span.End()
	q := `SELECT ` + profileColumns + ` FROM startup_profiles WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var p domain.StartupProfile
	err := row.Scan(&p.ID, &p.CompanyName, &p.Tagline, &p.Description, &p.Industry, &p.Stage, &p.Location,
		&p.TeamSize, &p.RevenueModel, &p.TargetMarket, &p.CompetitiveAdvantage,
		&p.MonthlyRevenue, &p.MonthlyBurnRate, &p.RunwayMonths,
		&p.SeekingFunding, &p.FundingAmountTarget, &p.FundingUseCase,
		&p.Website, &p.PitchDeckURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StartupProfile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
		}
		return domain.StartupProfile{}, fmt.Errorf("op=profile.get: %w", err)
	}
	return p, nil
}

// Update applies a partial update and returns the stored profile. Nil fields
// keep their current values via COALESCE.
func (r *ProfileRepo) Update(ctx domain.Context, id string, u domain.ProfileUpdate) (domain.StartupProfile, error) {
	tracer := otel.Tracer("repo.profiles")
	ctx, span := tracer.Start(ctx, "profiles.Update")
	defer span.End()
	q := `UPDATE startup_profiles SET
		tagline = COALESCE($2, tagline),
		description = COALESCE($3, description),
		stage = COALESCE($4, stage),
		team_size = COALESCE($5, team_size),
		monthly_revenue = COALESCE($6, monthly_revenue),
		seeking_funding = COALESCE($7, seeking_funding),
		funding_amount_target = COALESCE($8, funding_amount_target),
		funding_use_case = COALESCE($9, funding_use_case),
		website = COALESCE($10, website),
		pitch_deck_url = COALESCE($11, pitch_deck_url),
		updated_at = $12
	WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id,
		u.Tagline, u.Description, u.Stage, u.TeamSize,
		u.MonthlyRevenue, u.SeekingFunding, u.FundingAmountTarget, u.FundingUseCase,
		u.Website, u.PitchDeckURL, time.Now().UTC())
	if err != nil {
		return domain.StartupProfile{}, fmt.Errorf("op=profile.update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.StartupProfile{}, fmt.Errorf("op=profile.update: %w", domain.ErrNotFound)
	}
	return r.Get(ctx, id)
}
