package usecase

import (
	"fmt"
	"time"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// ProfileService manages startup profiles and their enrollment output.
type ProfileService struct {
	Repo    domain.ProfileRepository
	Matcher MatchService
	Now     func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo domain.ProfileRepository, matcher MatchService) ProfileService {
	return ProfileService{Repo: repo, Matcher: matcher, Now: time.Now}
}

// EnrollmentResult is returned on profile creation.
type EnrollmentResult struct {
	ProfileID       string          `json:"profile_id"`
	Recommendations Recommendations `json:"recommendations"`
	NextSteps       []string        `json:"next_steps"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Create validates and persists a new profile, generating recommendations
// and next steps for the founder.
func (s ProfileService) Create(ctx domain.Context, p domain.StartupProfile) (EnrollmentResult, error) {
	if p.CompanyName == "" {
		return EnrollmentResult{}, fmt.Errorf("%w: company_name required", domain.ErrInvalidArgument)
	}
	if _, ok := domain.StageIndex(p.Stage); !ok {
		return EnrollmentResult{}, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidArgument, p.Stage)
	}
	now := s.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	id, err := s.Repo.Create(ctx, p)
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("op=profile.Create: %w", err)
	}
	return EnrollmentResult{
		ProfileID:       id,
		Recommendations: s.Matcher.Recommend(ctx, p),
		NextSteps:       s.NextSteps(p),
		Timestamp:       now,
	}, nil
}

// Get fetches one stored profile.
func (s ProfileService) Get(ctx domain.Context, id string) (domain.StartupProfile, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.StartupProfile{}, fmt.Errorf("op=profile.Get: %w", err)
	}
	return p, nil
}

// Update applies a partial update and returns the stored profile.
func (s ProfileService) Update(ctx domain.Context, id string, u domain.ProfileUpdate) (domain.StartupProfile, error) {
	if u.Stage != nil {
		if _, ok := domain.StageIndex(*u.Stage); !ok {
			return domain.StartupProfile{}, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidArgument, *u.Stage)
		}
	}
	p, err := s.Repo.Update(ctx, id, u)
	if err != nil {
		return domain.StartupProfile{}, fmt.Errorf("op=profile.Update: %w", err)
	}
	return p, nil
}

// NextSteps returns stage-keyed onboarding actions for a new profile.
func (s ProfileService) NextSteps(p domain.StartupProfile) []string {
	switch p.Stage {
	case domain.StageIdea:
		return []string{
			"Validate your idea with potential customers",
			"Build a minimum viable product (MVP)",
			"Join a local accelerator like iHub or MEST",
		}
	case domain.StageMVP:
		return []string{
			"Get your first paying customers",
			"Apply to pre-seed investors like Nairobi Angel Network",
			"Register your business with eCitizen platform",
		}
	case domain.StageSeed:
		return []string{
			"Scale your customer acquisition",
			"Approach VCs like TLcom Capital or Novastar",
			"Build strategic partnerships",
		}
	default:
		return []string{"Continue building and scaling your business"}
	}
}
