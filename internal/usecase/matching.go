// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// MatchWeights holds the investor factor weights. The defaults sum to 1.0 so
// the weighted overall score stays in [0,1].
type MatchWeights struct {
	IndustryAlignment    float64
	StageFit             float64
	TicketSizeMatch      float64
	GeographicPreference float64
	PortfolioSynergy     float64
}

// MatchTunables collects the scoring constants. The ticket penalties and the
// inclusion threshold are tunable, not derived; treat them as product knobs.
type MatchTunables struct {
	Weights MatchWeights

	StageDistancePenalty float64
	UnknownStageScore    float64

	BelowRangePenalty float64
	AboveRangePenalty float64
	NoTargetScore     float64

	GeneralistIndustryScore float64
	PanRegionalGeoScore     float64
	OffFocusGeoScore        float64

	WithPortfolioScore float64
	NoPortfolioScore   float64

	ScoreThreshold  float64
	MaxInvestors    int
	MaxAccelerators int
}

// DefaultMatchTunables returns the production scoring constants.
func DefaultMatchTunables() MatchTunables {
	return MatchTunables{
		Weights: MatchWeights{
			IndustryAlignment:    0.30,
			StageFit:             0.25,
			TicketSizeMatch:      0.20,
			GeographicPreference: 0.15,
			PortfolioSynergy:     0.10,
		},
		StageDistancePenalty:    0.3,
		UnknownStageScore:       0.2,
		BelowRangePenalty:       0.7,
		AboveRangePenalty:       0.8,
		NoTargetScore:           0.6,
		GeneralistIndustryScore: 0.6,
		PanRegionalGeoScore:     0.8,
		OffFocusGeoScore:        0.3,
		WithPortfolioScore:      0.6,
		NoPortfolioScore:        0.4,
		ScoreThreshold:          0.3,
		MaxInvestors:            10,
		MaxAccelerators:         5,
	}
}

// MatchService ranks investors and accelerators against startup profiles.
// Scoring is pure and lock-free; the service only reads dataset snapshots.
type MatchService struct {
	Store    domain.EcosystemStore
	Tunables MatchTunables
	// Hub is the ecosystem's primary city; warm intros and accelerator
	// centrality key off it.
	Hub domain.Location
	// Now is injectable for deadline-window tests.
	Now func() time.Time
}

// NewMatchService constructs a MatchService with production tunables.
func NewMatchService(store domain.EcosystemStore, hub domain.Location) MatchService {
	return MatchService{Store: store, Tunables: DefaultMatchTunables(), Hub: hub, Now: time.Now}
}

// communityEmbedded names entities accessible enough locally that a warm
// introduction is plausible regardless of the founder's city.
var communityEmbedded = map[string]bool{
	"Nairobi Angel Network": true,
	"iHub":                  true,
}

// acceleratorPrep maps entity names to application preparation advice.
// Unrecognized entities fall back to the generic list.
var acceleratorPrep = map[string][]string{
	"MEST Africa": {
		"Prepare for rigorous technical assessment",
		"Demonstrate strong commitment to 12-month program",
		"Show potential for significant scale",
	},
	"Antler Kenya": {
		"Be open to co-founder matching process",
		"Prepare for intensive 10-week program",
		"Focus on global scalability potential",
	},
	"iHub": {
		"Demonstrate connection to Kenyan market",
		"Show early traction or strong validation",
		"Prepare for community-focused approach",
	},
}

var genericPrep = []string{
	"Prepare compelling pitch deck",
	"Demonstrate market validation",
	"Show team commitment and execution ability",
}

// ScoreInvestor computes the five-factor weighted match score between one
// startup profile and one investor. Pure; never mutates its inputs.
func (m MatchService) ScoreInvestor(p domain.StartupProfile, inv domain.Investor) domain.MatchScore {
	t := m.Tunables

	industry := 0.0
	switch {
	case containsIndustry(inv.FocusIndustries, p.Industry):
		industry = 1.0
	case len(inv.FocusIndustries) == 0:
		industry = t.GeneralistIndustryScore
	}

	stage := m.stageFit(p.Stage, inv.FocusStages)

	ticket := t.NoTargetScore
	if p.FundingAmountTarget != nil {
		ticket = m.ticketFit(*p.FundingAmountTarget, inv.TicketSizeMin, inv.TicketSizeMax)
	}

	geo := t.OffFocusGeoScore
	switch {
	case containsLocation(inv.GeographicFocus, p.Location):
		geo = 1.0
	case containsLocation(inv.GeographicFocus, domain.LocationOther):
		geo = t.PanRegionalGeoScore
	}

	synergy := t.NoPortfolioScore
	if len(inv.Portfolio) > 0 {
		synergy = t.WithPortfolioScore
	}

	overall := industry*t.Weights.IndustryAlignment +
		stage*t.Weights.StageFit +
		ticket*t.Weights.TicketSizeMatch +
		geo*t.Weights.GeographicPreference +
		synergy*t.Weights.PortfolioSynergy

	return domain.MatchScore{
		Overall:              overall,
		IndustryAlignment:    industry,
		StageFit:             stage,
		TicketSizeMatch:      ticket,
		GeographicPreference: geo,
		PortfolioSynergy:     synergy,
	}
}

// stageFit scores how close the profile's stage is to the investor's focus
// set. Exact membership wins; otherwise proximity on the ordered scale decays
// by StageDistancePenalty per step. Off-scale stages get the fixed fallback.
func (m MatchService) stageFit(s domain.Stage, focus []domain.Stage) float64 {
	for _, fs := range focus {
		if fs == s {
			return 1.0
		}
	}
	min := -1
	for _, fs := range focus {
		d, ok := domain.StageDistance(s, fs)
		if !ok {
			continue
		}
		if min < 0 || d < min {
			min = d
		}
	}
	if min < 0 {
		return m.Tunables.UnknownStageScore
	}
	score := 1.0 - float64(min)*m.Tunables.StageDistancePenalty
	if score < 0 {
		return 0
	}
	return score
}

// ticketFit scores a funding target against an investor's ticket range.
// Below-range targets are penalized harder than above-range ones.
func (m MatchService) ticketFit(target float64, min, max int64) float64 {
	lo, hi := float64(min), float64(max)
	switch {
	case target >= lo && target <= hi:
		return 1.0
	case target < lo:
		if lo <= 0 {
			return 0
		}
		s := (target / lo) * m.Tunables.BelowRangePenalty
		if s < 0 {
			return 0
		}
		return s
	default:
		if target <= 0 {
			return 0
		}
		s := (hi / target) * m.Tunables.AboveRangePenalty
		if s < 0 {
			return 0
		}
		return s
	}
}

// MatchInvestors scores every investor in the dataset, keeps those above the
// inclusion threshold, and returns the top matches sorted by overall score.
// Ties keep dataset order. An empty dataset yields an empty list.
func (m MatchService) MatchInvestors(ctx domain.Context, p domain.StartupProfile) []domain.InvestorMatch {
	investors := m.Store.Investors(ctx, domain.InvestorFilter{})

	matches := make([]domain.InvestorMatch, 0, len(investors))
	for _, inv := range investors {
		score := m.ScoreInvestor(p, inv)
		if score.Overall <= m.Tunables.ScoreThreshold {
			continue
		}
		matches = append(matches, domain.InvestorMatch{
			Investor:            inv,
			Score:               score,
			Reasoning:           m.investorReasoning(p, inv, score),
			RecommendedApproach: m.investorApproach(p, inv, score),
			WarmIntroAvailable:  m.warmIntroPlausible(p, inv),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score.Overall > matches[j].Score.Overall
	})
	if len(matches) > m.Tunables.MaxInvestors {
		matches = matches[:m.Tunables.MaxInvestors]
	}
	return matches
}

func (m MatchService) investorReasoning(p domain.StartupProfile, inv domain.Investor, s domain.MatchScore) string {
	var reasons []string

	if s.IndustryAlignment >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Strong industry fit - %s actively invests in %s", inv.Name, p.Industry))
	} else if s.IndustryAlignment >= 0.5 {
		reasons = append(reasons, fmt.Sprintf("Good industry alignment with %s's investment thesis", inv.Name))
	}

	if s.StageFit >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Perfect stage match - focuses on %s companies", p.Stage))
	} else if s.StageFit >= 0.5 {
		reasons = append(reasons, fmt.Sprintf("Good stage alignment for %s startups", p.Stage))
	}

	if s.TicketSizeMatch >= 0.8 {
		if p.FundingAmountTarget != nil {
			reasons = append(reasons, fmt.Sprintf("Ticket size $%.0f fits their investment range", *p.FundingAmountTarget))
		} else {
			reasons = append(reasons, "Investment range aligns with typical funding needs for your stage")
		}
	}

	if s.GeographicPreference >= 0.8 {
		reasons = append(reasons, fmt.Sprintf("Strong geographic focus on %s", p.Location))
	}

	if s.PortfolioSynergy >= 0.6 && len(inv.Portfolio) > 0 {
		n := 2
		if len(inv.Portfolio) < n {
			n = len(inv.Portfolio)
		}
		reasons = append(reasons, fmt.Sprintf("Portfolio synergies with companies like %s", strings.Join(inv.Portfolio[:n], ", ")))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Potential fit based on overall investment profile")
	}
	return strings.Join(reasons, ". ") + "."
}

func (m MatchService) investorApproach(p domain.StartupProfile, inv domain.Investor, s domain.MatchScore) string {
	switch {
	case s.Overall >= 0.8:
		return fmt.Sprintf("High-priority target. Research recent investments and reach out through warm introduction if possible. Highlight your %s traction and %s market opportunity.", p.Industry, p.Location)
	case s.Overall >= 0.6:
		return fmt.Sprintf("Strong potential match. Prepare a compelling pitch deck focusing on market opportunity and business model. Consider attending events where %s partners speak.", inv.Name)
	case s.Overall >= 0.4:
		return "Worth exploring. Research their portfolio companies to understand investment patterns. Cold outreach with exceptional traction data may work."
	default:
		return "Lower priority match. Focus on building traction before approaching. Consider as backup option."
	}
}

// warmIntroPlausible is a coarse network heuristic: hub-based founders sit in
// a dense local network, and community-embedded entities are reachable anyway.
func (m MatchService) warmIntroPlausible(p domain.StartupProfile, inv domain.Investor) bool {
	if p.Location == m.Hub {
		return true
	}
	return communityEmbedded[inv.Name]
}

// ScoreAccelerator computes the additive four-factor accelerator score,
// capped at 1.0.
func (m MatchService) ScoreAccelerator(p domain.StartupProfile, acc domain.EcosystemEntity) float64 {
	score := 0.0

	switch {
	case containsIndustry(acc.FocusIndustries, p.Industry):
		score += 0.35
	case len(acc.FocusIndustries) == 0:
		score += 0.25
	}

	if containsStage(acc.FocusStages, p.Stage) {
		score += 0.30
	} else if containsStage(acc.FocusStages, domain.StageIdea) && (p.Stage == domain.StageIdea || p.Stage == domain.StageMVP) {
		// bridge very-early founders to idea-stage programs
		score += 0.25
	}

	if p.Location == acc.Location {
		score += 0.15
	} else if acc.Location == m.Hub {
		score += 0.10
	}

	if acc.ApplicationDeadline != nil {
		days := m.daysUntil(*acc.ApplicationDeadline)
		if days >= 30 && days <= 180 {
			score += 0.20
		} else if days > 0 {
			score += 0.10
		}
	} else {
		score += 0.15 // rolling admissions
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// MatchAccelerators ranks accelerators for a profile, keeping matches above
// the threshold and truncating to the configured maximum.
func (m MatchService) MatchAccelerators(ctx domain.Context, p domain.StartupProfile) []domain.AcceleratorMatch {
	accelerators := m.Store.Accelerators(ctx, domain.EntityFilter{})

	matches := make([]domain.AcceleratorMatch, 0, len(accelerators))
	for _, acc := range accelerators {
		score := m.ScoreAccelerator(p, acc)
		if score <= m.Tunables.ScoreThreshold {
			continue
		}
		matches = append(matches, domain.AcceleratorMatch{
			Entity:                 acc,
			Score:                  score,
			Reasoning:              m.acceleratorReasoning(p, acc),
			ApplicationStatus:      m.applicationStatus(acc),
			RecommendedPreparation: prepAdvice(acc.Name),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > m.Tunables.MaxAccelerators {
		matches = matches[:m.Tunables.MaxAccelerators]
	}
	return matches
}

func (m MatchService) acceleratorReasoning(p domain.StartupProfile, acc domain.EcosystemEntity) string {
	var reasons []string

	if containsIndustry(acc.FocusIndustries, p.Industry) {
		reasons = append(reasons, fmt.Sprintf("Strong focus on %s startups", p.Industry))
	}
	if containsStage(acc.FocusStages, p.Stage) {
		reasons = append(reasons, fmt.Sprintf("Perfect fit for %s stage companies", p.Stage))
	}
	if p.Location == acc.Location {
		reasons = append(reasons, fmt.Sprintf("Located in %s for easy access", p.Location))
	}
	if acc.InvestmentAmount > 0 {
		reasons = append(reasons, fmt.Sprintf("Provides $%d investment", acc.InvestmentAmount))
	}
	if acc.ProgramDurationWeeks > 0 {
		reasons = append(reasons, fmt.Sprintf("%d-week structured program", acc.ProgramDurationWeeks))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "General startup support and networking opportunities")
	}
	return strings.Join(reasons, ". ") + "."
}

// applicationStatus renders a human-readable deadline status string.
func (m MatchService) applicationStatus(acc domain.EcosystemEntity) string {
	if acc.ApplicationDeadline == nil {
		return "Rolling applications - apply anytime"
	}
	days := m.daysUntil(*acc.ApplicationDeadline)
	switch {
	case days < 0:
		return "Applications closed - next cycle TBD"
	case days <= 30:
		return fmt.Sprintf("Applications close in %d days - apply soon!", days)
	case days <= 90:
		return fmt.Sprintf("Applications open - %d days remaining", days)
	default:
		return fmt.Sprintf("Early applications open - %d days until deadline", days)
	}
}

// daysUntil floors, so a deadline earlier today already counts as passed.
func (m MatchService) daysUntil(t time.Time) int {
	return int(math.Floor(t.Sub(m.Now()).Hours() / 24))
}

func prepAdvice(name string) []string {
	if advice, ok := acceleratorPrep[name]; ok {
		out := make([]string, len(advice))
		copy(out, advice)
		return out
	}
	out := make([]string, len(genericPrep))
	copy(out, genericPrep)
	return out
}

// RelevantResources composes the top investor and accelerator matches into a
// compact resource list for query responses. A nil profile (or one the caller
// could not parse) degrades to the fixed generic list rather than erroring.
func (m MatchService) RelevantResources(ctx domain.Context, p *domain.StartupProfile) []domain.Resource {
	if p == nil {
		return GenericResources()
	}

	var resources []domain.Resource

	investorMatches := m.MatchInvestors(ctx, *p)
	for i, match := range investorMatches {
		if i >= 3 {
			break
		}
		resources = append(resources, domain.Resource{
			Type:       "investor",
			Name:       match.Investor.Name,
			Descr:      fmt.Sprintf("VC investing $%d-$%d", match.Investor.TicketSizeMin, match.Investor.TicketSizeMax),
			MatchScore: match.Score.Overall,
			Contact:    match.Investor.Contact.Website,
		})
	}

	acceleratorMatches := m.MatchAccelerators(ctx, *p)
	for i, match := range acceleratorMatches {
		if i >= 2 {
			break
		}
		resources = append(resources, domain.Resource{
			Type:       "accelerator",
			Name:       match.Entity.Name,
			Descr:      truncate(match.Entity.Description, 100),
			MatchScore: match.Score,
			Contact:    match.Entity.Contact.Website,
		})
	}
	return resources
}

// GenericResources is the fixed fallback list used when no usable profile is
// available.
func GenericResources() []domain.Resource {
	return []domain.Resource{
		{
			Type:       "accelerator",
			Name:       "iHub",
			Descr:      "Kenya's premier technology hub and startup incubator",
			MatchScore: 0.8,
			Contact:    "https://ihub.co.ke",
		},
		{
			Type:       "investor",
			Name:       "Nairobi Angel Network",
			Descr:      "Premier angel investor network in Kenya",
			MatchScore: 0.7,
			Contact:    "https://nairobiangels.ke",
		},
	}
}

// RecommendationSummary names one matched entity with its score and reasoning.
type RecommendationSummary struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Recommendations bundles matches with stage and industry guidance.
type Recommendations struct {
	TopInvestors            []RecommendationSummary `json:"top_investors"`
	RecommendedAccelerators []RecommendationSummary `json:"recommended_accelerators"`
	StageSpecificAdvice     []string                `json:"stage_specific_advice"`
	IndustryInsights        []string                `json:"industry_insights"`
	ImmediateNextSteps      []string                `json:"immediate_next_steps"`
	LongTermStrategy        []string                `json:"long_term_strategy"`
}

// Recommend generates the full recommendation set for a startup profile.
func (m MatchService) Recommend(ctx domain.Context, p domain.StartupProfile) Recommendations {
	investorMatches := m.MatchInvestors(ctx, p)
	acceleratorMatches := m.MatchAccelerators(ctx, p)

	r := Recommendations{
		StageSpecificAdvice: stageAdvice(p.Stage),
		IndustryInsights:    industryAdvice(p.Industry),
		ImmediateNextSteps:  m.NextSteps(p),
		LongTermStrategy:    longTermStrategy(),
	}
	for i, match := range investorMatches {
		if i >= 3 {
			break
		}
		r.TopInvestors = append(r.TopInvestors, RecommendationSummary{
			Name: match.Investor.Name, Score: match.Score.Overall, Reasoning: match.Reasoning,
		})
	}
	for i, match := range acceleratorMatches {
		if i >= 3 {
			break
		}
		r.RecommendedAccelerators = append(r.RecommendedAccelerators, RecommendationSummary{
			Name: match.Entity.Name, Score: match.Score, Reasoning: match.Reasoning,
		})
	}
	return r
}

func stageAdvice(s domain.Stage) []string {
	advice := map[domain.Stage][]string{
		domain.StageIdea: {
			"Focus on customer discovery and market validation",
			"Build a simple MVP to test core assumptions",
			"Join startup communities like iHub or NaiLab",
		},
		domain.StageMVP: {
			"Get your first paying customers",
			"Iterate based on user feedback",
			"Consider pre-seed funding from angel investors",
		},
		domain.StagePreSeed: {
			"Scale customer acquisition and retention",
			"Build operational systems and processes",
			"Prepare for seed funding rounds",
		},
		domain.StageSeed: {
			"Focus on product-market fit and growth metrics",
			"Build strategic partnerships",
			"Prepare for Series A fundraising",
		},
		domain.StageSeriesA: {
			"Scale operations across East Africa",
			"Build strong unit economics",
			"Consider expansion strategies",
		},
	}
	if a, ok := advice[s]; ok {
		return a
	}
	return []string{"Continue building and scaling your business"}
}

func industryAdvice(i domain.Industry) []string {
	advice := map[domain.Industry][]string{
		domain.IndustryFintech: {
			"Understand CBK regulatory requirements and sandbox opportunities",
			"Build strong partnerships with traditional financial institutions",
			"Focus on mobile-first solutions for Kenya's high mobile penetration",
		},
		domain.IndustryAgritech: {
			"Connect with smallholder farmers through county governments",
			"Consider climate-smart agriculture solutions",
			"Explore partnerships with agricultural cooperatives",
		},
		domain.IndustryHealthtech: {
			"Navigate healthcare regulations and certification requirements",
			"Partner with existing healthcare providers",
			"Consider telemedicine opportunities in rural areas",
		},
		domain.IndustryEdtech: {
			"Work with Ministry of Education on curriculum alignment",
			"Focus on mobile and offline-capable solutions",
			"Consider partnerships with schools and universities",
		},
	}
	if a, ok := advice[i]; ok {
		return a
	}
	return []string{"Research industry best practices and regulations"}
}

// NextSteps derives up to five immediate actions from gaps in the profile.
func (m MatchService) NextSteps(p domain.StartupProfile) []string {
	var steps []string

	if p.Website == "" {
		steps = append(steps, "Create a professional website showcasing your product")
	}
	if p.SeekingFunding && p.FundingAmountTarget == nil {
		steps = append(steps, "Define specific funding amount and use of funds")
	}
	if p.TeamSize < 3 && (p.Stage == domain.StageIdea || p.Stage == domain.StageMVP) {
		steps = append(steps, "Consider finding co-founders or key early employees")
	}
	if p.MonthlyRevenue == nil && p.Stage != domain.StageIdea {
		steps = append(steps, "Focus on generating first revenue or improving sales")
	}
	steps = append(steps,
		"Register your business through eCitizen platform if not done",
		"Join relevant startup communities and networking events",
	)
	if len(steps) > 5 {
		steps = steps[:5]
	}
	return steps
}

func longTermStrategy() []string {
	return []string{
		"Build for regional expansion across East Africa",
		"Develop strong intellectual property protection",
		"Create sustainable competitive advantages",
		"Build strategic partnerships with established players",
		"Plan for multiple exit strategies (acquisition, IPO, etc.)",
	}
}

// CriteriaExplanation describes each investor matching factor for clients.
func (m MatchService) CriteriaExplanation() map[string]string {
	return map[string]string{
		"industry_alignment":    "How well the investor's focus industries match your startup's sector",
		"stage_fit":             "Whether the investor typically invests in companies at your current stage",
		"ticket_size_match":     "How well your funding needs align with their typical investment amounts",
		"geographic_preference": "Their focus on Kenya and East African markets",
		"portfolio_synergy":     "Potential synergies with their existing portfolio companies",
	}
}

// Deadline is one upcoming accelerator application deadline.
type Deadline struct {
	Name           string `json:"name"`
	Deadline       string `json:"deadline"`
	DaysRemaining  int    `json:"days_remaining"`
	ApplicationURL string `json:"application_url"`
}

// UpcomingDeadlines lists accelerator deadlines still in the future, soonest
// first.
func (m MatchService) UpcomingDeadlines(ctx domain.Context) []Deadline {
	accelerators := m.Store.Accelerators(ctx, domain.EntityFilter{})

	var deadlines []Deadline
	for _, acc := range accelerators {
		if acc.ApplicationDeadline == nil {
			continue
		}
		days := m.daysUntil(*acc.ApplicationDeadline)
		if days <= 0 {
			continue
		}
		deadlines = append(deadlines, Deadline{
			Name:           acc.Name,
			Deadline:       acc.ApplicationDeadline.Format("2006-01-02"),
			DaysRemaining:  days,
			ApplicationURL: acc.ApplicationURL,
		})
	}
	sort.SliceStable(deadlines, func(i, j int) bool {
		return deadlines[i].DaysRemaining < deadlines[j].DaysRemaining
	})
	return deadlines
}

func containsIndustry(hay []domain.Industry, needle domain.Industry) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

func containsStage(hay []domain.Stage, needle domain.Stage) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

func containsLocation(hay []domain.Location, needle domain.Location) bool {
	for _, h := range hay {
		if h == needle {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
