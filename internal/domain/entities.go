// Package domain holds the core entities, enumerations and ports of the
// startup navigator. It has no dependencies on adapters or frameworks.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrInternal          = errors.New("internal error")
)

// Industry enumerates the sectors tracked in Kenya's startup ecosystem.
type Industry string

const (
	IndustryFintech    Industry = "fintech"
	IndustryAgritech   Industry = "agritech"
	IndustryHealthtech Industry = "healthtech"
	IndustryEdtech     Industry = "edtech"
	IndustryEcommerce  Industry = "ecommerce"
	IndustryLogistics  Industry = "logistics"
	IndustryCleantech  Industry = "cleantech"
	IndustryProptech   Industry = "proptech"
	IndustryBlockchain Industry = "blockchain"
	IndustryAIML       Industry = "ai_ml"
	IndustryMedia      Industry = "media"
	IndustryRetail     Industry = "retail"
	IndustryOther      Industry = "other"
)

// InvestorType enumerates investor categories.
type InvestorType string

const (
	InvestorAngel              InvestorType = "angel"
	InvestorVC                 InvestorType = "vc"
	InvestorCorporateVC        InvestorType = "corporate_vc"
	InvestorGovernment         InvestorType = "government"
	InvestorDevelopmentFinance InvestorType = "development_finance"
	InvestorCrowdfunding       InvestorType = "crowdfunding"
	InvestorGrant              InvestorType = "grant"
)

// Location enumerates the cities tracked in the ecosystem. LocationOther acts
// as the pan-regional catch-all tag used by investors without a city focus.
type Location string

const (
	LocationNairobi Location = "nairobi"
	LocationMombasa Location = "mombasa"
	LocationKisumu  Location = "kisumu"
	LocationEldoret Location = "eldoret"
	LocationNakuru  Location = "nakuru"
	LocationMeru    Location = "meru"
	LocationNyeri   Location = "nyeri"
	LocationOther   Location = "other"
)

// ContactInfo carries the public contact channels of an ecosystem entity.
type ContactInfo struct {
	Email    string `json:"email,omitempty" yaml:"email"`
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	Website  string `json:"website,omitempty" yaml:"website"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin"`
	Twitter  string `json:"twitter,omitempty" yaml:"twitter"`
}

// StartupProfile describes one startup for matching and advice generation.
// Profiles are immutable while being scored; scorers never mutate them.
type StartupProfile struct {
	ID          string `json:"id,omitempty"`
	CompanyName string `json:"company_name"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description"`

	Industry Industry `json:"industry"`
	Stage    Stage    `json:"stage"`
	Location Location `json:"location"`

	TeamSize int `json:"team_size"`

	RevenueModel         string `json:"revenue_model"`
	TargetMarket         string `json:"target_market"`
	CompetitiveAdvantage string `json:"competitive_advantage"`

	MonthlyRevenue  *float64 `json:"monthly_revenue,omitempty"`
	MonthlyBurnRate *float64 `json:"monthly_burn_rate,omitempty"`
	RunwayMonths    *int     `json:"runway_months,omitempty"`

	SeekingFunding      bool     `json:"seeking_funding"`
	FundingAmountTarget *float64 `json:"funding_amount_target,omitempty"`
	FundingUseCase      string   `json:"funding_use_case,omitempty"`

	Website      string `json:"website,omitempty"`
	PitchDeckURL string `json:"pitch_deck_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Investor is one investing entity from the reference dataset.
// Static for the process lifetime; refreshed only as a whole snapshot.
type Investor struct {
	Name            string       `json:"name" yaml:"name"`
	Type            InvestorType `json:"type" yaml:"type"`
	FocusIndustries []Industry   `json:"focus_industries" yaml:"focus_industries"`
	FocusStages     []Stage      `json:"focus_stages" yaml:"focus_stages"`
	TicketSizeMin   int64        `json:"ticket_size_min" yaml:"ticket_size_min"`
	TicketSizeMax   int64        `json:"ticket_size_max" yaml:"ticket_size_max"`
	GeographicFocus []Location   `json:"geographic_focus" yaml:"geographic_focus"`
	Description     string       `json:"description" yaml:"description"`
	Portfolio       []string     `json:"portfolio_companies" yaml:"portfolio_companies"`
	Partners        []string     `json:"partners" yaml:"partners"`
	Contact         ContactInfo  `json:"contact_info" yaml:"contact_info"`
	TotalInvest     int          `json:"total_investments,omitempty" yaml:"total_investments"`
	Exits           int          `json:"successful_exits,omitempty" yaml:"successful_exits"`
	FoundedYear     int          `json:"founded_year,omitempty" yaml:"founded_year"`
}

// EcosystemEntity generalizes accelerators, incubators and co-working spaces.
type EcosystemEntity struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Description string   `json:"description" yaml:"description"`
	Location    Location `json:"location" yaml:"location"`
	Address     string   `json:"address,omitempty" yaml:"address"`

	FocusIndustries []Industry `json:"focus_industries" yaml:"focus_industries"`
	FocusStages     []Stage    `json:"focus_stages" yaml:"focus_stages"`

	Services  []string `json:"services,omitempty" yaml:"services"`
	Amenities []string `json:"amenities,omitempty" yaml:"amenities"`

	ProgramDurationWeeks int     `json:"program_duration_weeks,omitempty" yaml:"program_duration_weeks"`
	EquityTaken          float64 `json:"equity_taken,omitempty" yaml:"equity_taken"`
	InvestmentAmount     int64   `json:"investment_amount,omitempty" yaml:"investment_amount"`

	ApplicationDeadline *time.Time `json:"application_deadline,omitempty" yaml:"application_deadline"`
	ApplicationURL      string     `json:"application_url,omitempty" yaml:"application_url"`

	Contact     ContactInfo `json:"contact_info" yaml:"contact_info"`
	Portfolio   []string    `json:"portfolio_companies,omitempty" yaml:"portfolio_companies"`
	FoundedYear int         `json:"founded_year,omitempty" yaml:"founded_year"`
}

// Event is an upcoming ecosystem event.
type Event struct {
	Name        string `json:"name" yaml:"name"`
	Date        string `json:"date" yaml:"date"`
	Location    string `json:"location" yaml:"location"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Website     string `json:"website" yaml:"website"`
}

// MatchScore carries the five investor sub-scores plus the weighted overall.
// Invariant: every field is in [0,1].
type MatchScore struct {
	Overall              float64 `json:"overall_score"`
	IndustryAlignment    float64 `json:"industry_alignment"`
	StageFit             float64 `json:"stage_fit"`
	TicketSizeMatch      float64 `json:"ticket_size_match"`
	GeographicPreference float64 `json:"geographic_preference"`
	PortfolioSynergy     float64 `json:"portfolio_synergy"`
}

// InvestorMatch is one ranked investor recommendation.
type InvestorMatch struct {
	Investor            Investor   `json:"investor"`
	Score               MatchScore `json:"match_score"`
	Reasoning           string     `json:"reasoning"`
	RecommendedApproach string     `json:"recommended_approach"`
	WarmIntroAvailable  bool       `json:"warm_intro_available"`
}

// AcceleratorMatch is one ranked accelerator recommendation.
type AcceleratorMatch struct {
	Entity                 EcosystemEntity `json:"accelerator"`
	Score                  float64         `json:"match_score"`
	Reasoning              string          `json:"reasoning"`
	ApplicationStatus      string          `json:"application_status"`
	RecommendedPreparation []string        `json:"recommended_preparation"`
}

// Resource is a compact ecosystem pointer attached to query responses.
type Resource struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Descr      string  `json:"description"`
	MatchScore float64 `json:"match_score"`
	Contact    string  `json:"contact"`
}

// Answer is the processed output of one AI query.
type Answer struct {
	Content            string   `json:"content"`
	Confidence         float64  `json:"confidence"`
	Sources            []string `json:"sources"`
	SuggestedQuestions []string `json:"suggested_questions"`
}

// InvestorFilter narrows investor listings. Zero values mean "no filter".
type InvestorFilter struct {
	Industry      Industry
	Stage         Stage
	TicketSizeMin int64
	TicketSizeMax int64
	Location      Location
}

// EntityFilter narrows accelerator and co-working listings.
type EntityFilter struct {
	Industry Industry
	Stage    Stage
	Location Location
}

// EcosystemStore provides read access to the reference dataset. Reads return
// snapshots safe to iterate without locking; Refresh swaps the snapshot under
// a single-writer discipline.
type EcosystemStore interface {
	Investors(ctx Context, f InvestorFilter) []Investor
	Accelerators(ctx Context, f EntityFilter) []EcosystemEntity
	CoworkingSpaces(ctx Context, f EntityFilter) []EcosystemEntity
	Events(ctx Context) []Event
	Counts() (investors, accelerators int)
	Refresh(ctx Context) error
}

// ProfileUpdate is a partial update for a stored startup profile. Nil fields
// are left unchanged.
type ProfileUpdate struct {
	Tagline             *string
	Description         *string
	Stage               *Stage
	TeamSize            *int
	MonthlyRevenue      *float64
	SeekingFunding      *bool
	FundingAmountTarget *float64
	FundingUseCase      *string
	Website             *string
	PitchDeckURL        *string
}

// ProfileRepository persists startup profiles.
type ProfileRepository interface {
	Create(ctx Context, p StartupProfile) (string, error)
	Get(ctx Context, id string) (StartupProfile, error)
	Update(ctx Context, id string, u ProfileUpdate) (StartupProfile, error)
}

// QueryLogEntry is one analytics record per processed query.
type QueryLogEntry struct {
	Question       string
	Category       string
	HasProfile     bool
	ProcessingSecs float64
	Confidence     float64
	CreatedAt      time.Time
}

// PopularQuery aggregates repeated questions for analytics.
type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// QueryStats summarizes the query log.
type QueryStats struct {
	TotalQueries      int64
	AvgProcessingSecs float64
	AvgConfidence     float64
	CategoryCounts    map[string]int64
}

// QueryLogRepository records and aggregates query analytics.
type QueryLogRepository interface {
	Record(ctx Context, e QueryLogEntry) error
	Popular(ctx Context, limit int) ([]PopularQuery, error)
	Stats(ctx Context) (QueryStats, error)
}

// AIClient calls the chat-completions provider.
type AIClient interface {
	// ChatCompletion returns the full assistant message for the prompt pair.
	ChatCompletion(ctx Context, systemPrompt, userPrompt string) (string, error)
	// ChatStream invokes fn for every content chunk as it arrives.
	ChatStream(ctx Context, systemPrompt, userPrompt string, fn func(chunk string) error) error
}

// AnswerCache is the keyed response cache; last-write-wins, no transactions.
type AnswerCache interface {
	Get(ctx Context, key string) (Answer, bool, error)
	Set(ctx Context, key string, a Answer, ttl time.Duration) error
}

// Context aliases context.Context so domain signatures stay framework-free.
type Context = context.Context
