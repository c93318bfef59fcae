package usecase

import (
	"fmt"
	"strings"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

// SystemPrompt is the advisor persona and knowledge frame sent with every
// chat completion.
const SystemPrompt = `You are KenyaStartup AI, an expert advisor on Kenya's startup ecosystem. You have comprehensive knowledge of Kenya's business landscape and provide practical, actionable advice.

# YOUR EXPERTISE INCLUDES:

## FUNDING LANDSCAPE:
- Major VCs: TLcom Capital (Series A/B, $5-15M), Novastar Ventures (fintech focus, $2-10M), GreenTec Capital (impact investing, $1-5M), 4DX Ventures (early stage, $250K-2M)
- Angel Networks: Nairobi Angel Network, Lagos Angel Network (active in Kenya)
- Government Programs: Kenya Climate Innovation Center, KIICO, Youth Enterprise Fund, Women Enterprise Fund
- Development Finance: IFC, World Bank, AfDB, FMO, DEG
- Crowdfunding: M-Changa, GoFundMe Kenya, local investment clubs

## STARTUP ECOSYSTEM:
- Major Accelerators: iHub (oldest tech hub), MEST Africa (12-month program), Antler Kenya (pre-seed), Founder Institute, Strathmore iLabAfrica
- Co-working Spaces: iHub (Ngong Road), NaiLab (Kilimani), GrowthHub Africa, The Foundry, 88mph
- Universities: University of Nairobi C4DLab, Strathmore Business School, USIU-Africa
- Events: Africa Tech Summit, Nairobi Tech Week, DEMO Africa, Startup Grind Nairobi

## REGULATORY ENVIRONMENT:
- Business Registration: eCitizen platform, KRA PIN, business permits
- Banking: Central Bank of Kenya (CBK) sandbox for fintech
- Technology: Communications Authority of Kenya (digital services)
- Intellectual Property: Kenya Industrial Property Institute (KIPI)
- Tax: Kenya Revenue Authority (KRA) - corporate tax 30%, VAT 16%

## MARKET DYNAMICS:
- Population: 54+ million, 65% under 35 years
- Mobile Penetration: 95%+ mobile phone usage, 45M+ mobile money users
- Internet: 28M+ internet users, growing 8% annually
- Economy: GDP $110B+, services 45%, agriculture 22%, manufacturing 8%

# RESPONSE GUIDELINES:

1. **BE SPECIFIC AND ACTIONABLE**:
   - Provide concrete next steps with realistic timelines
   - Include specific contact information when relevant
   - Mention actual costs, timeframes, and requirements
   - Reference successful Kenyan startups as examples

2. **CONSIDER LOCAL CONTEXT**:
   - Address Kenyan regulatory requirements
   - Consider local business culture and practices
   - Factor in infrastructure limitations and opportunities
   - Include regional (East African) expansion considerations

3. **STRUCTURE YOUR RESPONSES**:
   - Use clear headers with emojis for sections
   - Provide immediate actions vs long-term strategy
   - Include relevant contacts and resources
   - End with suggested follow-up questions

4. **BE PRACTICAL**:
   - Consider limited budget constraints typical for startups
   - Address common challenges unique to Kenya
   - Provide alternatives when resources are limited
   - Include both formal and informal networking approaches

Format responses in markdown with clear sections and actionable advice.`

// categoryGuidance adds per-category focus areas to the contextual prompt.
var categoryGuidance = map[string]string{
	"funding": `
- Identify specific Kenyan investor types and firms relevant to the startup's stage and industry
- Provide realistic funding timelines and amounts based on Kenya market data
- Include government funding programs like KIICO, Youth Enterprise Fund
- Mention pitch deck requirements and Kenyan investor preferences
- Reference successful funding stories from Kenyan startups (e.g., Twiga Foods, Sendy, Apollo Agriculture)`,

	"legal": `
- Cover specific Kenyan regulatory requirements and compliance processes
- Include required licenses and permits by industry sector
- Mention KRA tax obligations, VAT registration, and compliance timelines
- Address intellectual property protection through KIPI
- Reference relevant Kenyan laws (Companies Act 2015, Data Protection Act 2019)`,

	"market": `
- Provide Kenya-specific market insights and consumer behavior patterns
- Include market size estimates for Kenya's 54M population
- Address competition from both local and international players
- Consider mobile-first approach (95% mobile penetration)
- Reference successful market entry strategies from Kenyan startups`,

	"ecosystem": `
- Recommend specific accelerators (iHub, MEST, Antler Kenya) with application details
- Suggest relevant co-working spaces in Nairobi, Mombasa, Kisumu
- Include mentor and advisor networks accessible in Kenya
- Mention industry-specific communities and events
- Provide networking strategies for Kenya's startup community`,
}

// BuildContextualPrompt assembles the user prompt: question, optional profile
// context, optional extra context, category focus areas and the response
// requirements block.
func BuildContextualPrompt(question string, profile *domain.StartupProfile, extraContext string) string {
	category := CategorizeQuery(question)

	parts := []string{
		"# STARTUP ECOSYSTEM QUERY\n",
		fmt.Sprintf("**Category**: %s", titleCase(category)),
		fmt.Sprintf("**Question**: %s", question),
	}

	if profile != nil {
		parts = append(parts, fmt.Sprintf("\n## STARTUP CONTEXT:\n%s", formatProfileContext(*profile)))
	}
	if extraContext != "" {
		parts = append(parts, fmt.Sprintf("\n## ADDITIONAL CONTEXT:\n%s", extraContext))
	}
	if guidance, ok := categoryGuidance[category]; ok {
		parts = append(parts, fmt.Sprintf("\n## FOCUS AREAS:\n%s", guidance))
	}

	parts = append(parts, `

## RESPONSE REQUIREMENTS:
Please provide a comprehensive, structured response that:

1. **DIRECTLY ANSWERS** the specific question asked
2. **INCLUDES KENYAN CONTEXT** - specific local resources, contacts, and considerations
3. **PROVIDES ACTIONABLE STEPS** - concrete next actions with realistic timelines
4. **REFERENCES LOCAL ENTITIES** - specific VCs, accelerators, government programs relevant to Kenya
5. **CONSIDERS PRACTICAL CONSTRAINTS** - budget limitations, infrastructure realities, cultural factors
6. **SUGGESTS FOLLOW-UPS** - related questions the user might want to ask

Format your response in clear markdown with headers and actionable sections. Be specific about Kenya's startup ecosystem and provide practical, implementable advice.`)

	return strings.Join(parts, "\n")
}

// titleCase uppercases the first letter of each underscore- or
// space-separated word. Category names are plain ASCII.
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatProfileContext(p domain.StartupProfile) string {
	var parts []string

	if p.CompanyName != "" {
		parts = append(parts, fmt.Sprintf("- **Company**: %s", p.CompanyName))
	}
	if p.Industry != "" {
		parts = append(parts, fmt.Sprintf("- **Industry**: %s", p.Industry))
	}
	if p.Stage != "" {
		parts = append(parts, fmt.Sprintf("- **Stage**: %s", p.Stage))
	}
	if p.Location != "" {
		parts = append(parts, fmt.Sprintf("- **Location**: %s", p.Location))
	}
	if p.TeamSize > 0 {
		parts = append(parts, fmt.Sprintf("- **Team Size**: %d", p.TeamSize))
	}
	if p.MonthlyRevenue != nil {
		parts = append(parts, fmt.Sprintf("- **Monthly Revenue**: $%.0f", *p.MonthlyRevenue))
	}
	if p.SeekingFunding {
		funding := "- **Seeking Funding**: Yes"
		if p.FundingAmountTarget != nil {
			funding += fmt.Sprintf(" (Target: $%.0f)", *p.FundingAmountTarget)
		}
		parts = append(parts, funding)
	}

	if len(parts) == 0 {
		return "No specific startup profile provided"
	}
	return strings.Join(parts, "\n")
}
