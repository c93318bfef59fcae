package usecase

import (
	"strings"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/pkg/textx"
)

// kenyaTerms is the domain vocabulary used by the confidence heuristic.
var kenyaTerms = []string{
	"kenya", "kenyan", "nairobi", "mombasa", "kra", "cbk", "ihub",
	"tlcom", "novastar", "mest", "antler", "shilling", "east africa",
	"kiico", "ecitizen", "kipi",
}

// structureMarkers are the markdown-ish indicators counted for structure.
var structureMarkers = []string{"##", "**", "###", "- ", "1.", "2.", "3."}

// actionWords signal actionable advice in a response.
var actionWords = []string{"next steps", "action", "recommend", "should", "can", "contact", "apply"}

// ecosystemSources is the fixed entity list scanned by ExtractSources.
var ecosystemSources = []string{
	"TLcom Capital", "Novastar Ventures", "GreenTec Capital", "4DX Ventures",
	"iHub", "MEST Africa", "Antler Kenya", "Founder Institute",
	"Central Bank of Kenya", "Kenya Revenue Authority", "Communications Authority",
	"Kenya Climate Innovation Center", "KIICO", "Youth Enterprise Fund",
	"Nairobi Angel Network", "Strathmore iLabAfrica",
}

// ScoreResponseConfidence maps generated answer text to a bounded [0,1]
// quality score. It is a deterministic heuristic over surface features, not a
// semantic evaluator; empty text scores 0.0.
func ScoreResponseConfidence(content, question string) float64 {
	_ = question // reserved; the heuristic currently keys off content only
	if content == "" {
		return 0.0
	}

	score := 0.0
	lower := strings.ToLower(content)

	// Length signal.
	lengthScore := float64(len(content)) / 1200
	if lengthScore > 1.0 {
		lengthScore = 1.0
	}
	score += lengthScore * 0.25

	// Domain-term density.
	mentions := 0
	for _, term := range kenyaTerms {
		if strings.Contains(lower, term) {
			mentions++
		}
	}
	kenyaScore := float64(mentions) / 6
	if kenyaScore > 1.0 {
		kenyaScore = 1.0
	}
	score += kenyaScore * 0.3

	// Structural formatting.
	structures := 0
	for _, marker := range structureMarkers {
		if strings.Contains(content, marker) {
			structures++
		}
	}
	structureScore := float64(structures) / 8
	if structureScore > 1.0 {
		structureScore = 1.0
	}
	score += structureScore * 0.2

	// Actionability.
	actions := 0
	for _, word := range actionWords {
		if strings.Contains(lower, word) {
			actions++
		}
	}
	actionScore := float64(actions) / 5
	if actionScore > 1.0 {
		actionScore = 1.0
	}
	score += actionScore * 0.15

	// Specificity bonuses: figures and contacts/links.
	if strings.ContainsAny(content, "0123456789") {
		score += 0.05
	}
	if strings.Contains(content, "@") || strings.Contains(lower, "http") {
		score += 0.05
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// ExtractSources scans the answer for known ecosystem entity names, up to
// five, falling back to a generic source tag.
func ExtractSources(content string) []string {
	var sources []string
	for _, src := range ecosystemSources {
		if textx.ContainsAny(content, src) {
			sources = append(sources, src)
			if len(sources) == 5 {
				return sources
			}
		}
	}
	if len(sources) == 0 {
		sources = append(sources, "Kenya Startup Ecosystem Database")
	}
	return sources
}

// queryCategories maps category names to their trigger keywords. Iteration
// happens over categoryOrder so ties resolve deterministically.
var queryCategories = map[string][]string{
	"funding":        {"fund", "invest", "money", "capital", "raise", "seed", "series", "angel", "vc"},
	"legal":          {"legal", "law", "compliance", "regulation", "incorporate", "license", "permit"},
	"market":         {"market", "customer", "competitor", "size", "opportunity", "validation"},
	"team":           {"team", "hire", "talent", "co-founder", "employee", "staff"},
	"product":        {"product", "development", "mvp", "feature", "user", "design"},
	"business_model": {"revenue", "pricing", "monetization", "business model", "strategy"},
	"networking":     {"network", "mentor", "advisor", "connect", "introduction"},
	"ecosystem":      {"accelerator", "incubator", "co-working", "hub", "community"},
	"scaling":        {"scale", "growth", "expand", "international", "regional"},
	"technology":     {"tech", "development", "platform", "api", "software"},
}

var categoryOrder = []string{
	"funding", "legal", "market", "team", "product",
	"business_model", "networking", "ecosystem", "scaling", "technology",
}

// CategorizeQuery classifies a question by keyword density; "general" when no
// category keyword appears.
func CategorizeQuery(question string) string {
	lower := strings.ToLower(question)

	best, bestScore := "general", 0
	for _, cat := range categoryOrder {
		n := 0
		for _, kw := range queryCategories[cat] {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		if n > bestScore {
			best, bestScore = cat, n
		}
	}
	return best
}

// followUps maps query categories to suggested follow-up questions.
var followUps = map[string][]string{
	"funding": {
		"What documents should I prepare for investor meetings?",
		"How long does the fundraising process typically take in Kenya?",
		"What valuation should I expect at my current stage?",
		"Which legal firms in Kenya specialize in startup fundraising?",
	},
	"legal": {
		"What are the ongoing compliance requirements after incorporation?",
		"How much should I budget for legal and regulatory costs?",
		"Which law firms in Kenya have experience with startups?",
		"What are the tax implications I should consider with KRA?",
	},
	"market": {
		"How do I conduct effective market research in Kenya?",
		"What are the key customer acquisition channels here?",
		"How should I price my product for the Kenyan market?",
		"What are the major market risks specific to Kenya?",
	},
	"ecosystem": {
		"How do I get connected to mentors in Kenya's startup ecosystem?",
		"What networking events should I prioritize attending?",
		"Which startup communities are most active in Nairobi?",
		"How do I build strategic partnerships within the ecosystem?",
	},
}

var genericFollowUps = []string{
	"What should be my highest priority next step?",
	"How do I measure success in this area?",
	"What common mistakes should I avoid in Kenya?",
	"Who else in the ecosystem should I connect with?",
}

// FollowUpQuestions suggests up to three follow-ups keyed off the question's
// category.
func FollowUpQuestions(question string) []string {
	qs, ok := followUps[CategorizeQuery(question)]
	if !ok {
		qs = genericFollowUps
	}
	out := make([]string, 0, 3)
	out = append(out, qs[:3]...)
	return out
}

// FallbackQuestions are suggested when answering fails entirely.
func FallbackQuestions() []string {
	return []string{
		"How do I get started in Kenya's startup ecosystem?",
		"What funding options are available for early-stage startups in Kenya?",
		"Which accelerators should I consider applying to in Nairobi?",
		"How do I connect with other entrepreneurs in Kenya?",
	}
}
