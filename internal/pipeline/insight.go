package pipeline

import (
	"fmt"
	"hash/fnv"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
)

// Fallbacks for items outside the curated topic set.
const (
	genericWhy    = "General industry signal. May contain relevant insights for DSP operators."
	genericAction = "Skim for relevant takeaways. Flag if it touches your product area."
	topicFallback = "This signal is relevant to your ad tech strategy."
	defaultAction = "Review and assess relevance to your roadmap."
)

// whyTemplates holds per-topic rationale variants. The variant is picked by
// hashing the item id, so the same item always gets the same text while a
// page of items shows varied phrasing.
var whyTemplates = map[string][]string{
	"bidding": {
		"Auction mechanics directly impact your DSP's win rates and CPI. Changes here affect your core revenue engine.",
		"Bid optimization is the #1 lever for DSP profitability. This signal could shift your bidding strategy.",
	},
	"skan_att": {
		"SKAN/ATT defines what your DSP can measure on iOS. Every change here impacts your conversion models.",
		"iOS privacy changes reshape the entire mobile UA funnel. This directly affects campaign optimization.",
	},
	"privacy_sandbox": {
		"Privacy Sandbox will reshape targeting on Android — your DSP's second-largest platform.",
		"Chrome/Android privacy changes determine the future of cross-platform attribution and targeting.",
	},
	"ua_growth": {
		"User acquisition economics are shifting. This affects how advertisers allocate budgets across DSPs.",
		"Mobile growth strategies directly impact demand for your DSP. Budget shifts here are leading indicators.",
	},
	"ml_ai": {
		"ML capability is the primary differentiator between winning and losing DSPs in 2025.",
		"AI-driven ad optimization is redefining performance — staying current here is existential for DSP builders.",
	},
	"measurement": {
		"Attribution methodology determines which DSP gets credit — and budget. This is core to your value prop.",
		"Measurement shifts change how advertisers evaluate DSP performance. Your reporting strategy may need updating.",
	},
	"mediation": {
		"Mediation controls supply access and data flow. Changes here affect your DSP's bid landscape.",
		"The mediation layer sits between your DSP and supply. Shifts here impact fill rates and data access.",
	},
	"ctv": {
		"CTV is the next scale opportunity for performance DSPs. Early positioning matters.",
		"Connected TV supply is opening to programmatic — a potential new channel for your exchange.",
	},
	"creative": {
		"Creative performance is increasingly ML-driven. This intersects with your DSP's optimization layer.",
		"Ad format innovation affects fill rates and eCPMs across your exchange.",
	},
	"fraud": {
		"Supply quality directly affects advertiser trust in your exchange. Fraud signals require immediate attention.",
		"Invalid traffic erodes advertiser confidence. This impacts your DSP's reputation and retention.",
	},
	"regulatory": {
		"Regulatory actions can restructure the competitive landscape overnight. Must-monitor for strategic planning.",
		"Policy and regulation reshape which data you can use and how your DSP operates. High business impact.",
	},
	"retail_media": {
		"Retail media is pulling budget from open programmatic. Monitor for demand-side impact on your DSP.",
		"Commerce media growth may redirect UA budgets. Watch for impact on your demand pipeline.",
	},
	"identity": {
		"Identity infrastructure determines targeting capability post-cookie. Your DSP's reach depends on this.",
		"Addressability is eroding. How your DSP handles identity will determine win rates in the new paradigm.",
	},
	"earnings": {
		"Financial results reveal competitors' strategic bets and resource allocation. Essential competitive intel.",
		"Earnings data exposes margin structure and investment priorities of key players in your market.",
	},
	"macro": {
		"Macro ad spend trends determine the size of the pie your DSP competes for. Shifts here impact pipeline.",
		"Economic indicators are leading signals for ad budget decisions. Budget contractions hit performance channels first.",
	},
	"ma_funding": {
		"M&A activity reshapes competitive dynamics. Consolidation reduces competition; funding signals new entrants.",
		"Funding and acquisitions reveal where capital sees value in ad tech. This affects your competitive positioning.",
	},
	"hiring": {
		"Hiring signals reveal where competitors are investing. ML/privacy hires indicate strategic direction.",
		"Talent movement between ad tech companies often precedes product pivots. Track carefully.",
	},
	"mobile_gaming": {
		"Mobile gaming drives the largest share of in-app ad inventory. Monetization shifts here directly affect your exchange supply.",
		"Gaming monetization trends determine ad format demand and eCPM benchmarks across your supply stack.",
	},
}

var actionTemplates = map[string]string{
	"bidding":         "Review your bidding algorithms and auction participation strategy. Assess impact on win rates.",
	"skan_att":        "Check your SKAN integration. Update conversion value schemas if Apple changed the spec.",
	"privacy_sandbox": "Brief your engineering team. Evaluate timeline impact on your targeting and measurement stack.",
	"ua_growth":       "Share with your demand team. Adjust positioning to capture shifting advertiser budgets.",
	"ml_ai":           "Evaluate against your ML roadmap. Identify capability gaps vs. competitors.",
	"measurement":     "Review your attribution reporting. Ensure your methodology stays competitive.",
	"mediation":       "Assess impact on your supply partnerships and bid request volume.",
	"ctv":             "Evaluate CTV supply integration opportunity. Size the addressable market for your DSP.",
	"creative":        "Share with creative ops. Assess whether your ad serving supports emerging formats.",
	"fraud":           "Audit your supply quality filters. Proactively communicate quality standards to advertisers.",
	"regulatory":      "Brief leadership and legal. Model scenario impact on your product roadmap.",
	"retail_media":    "Monitor demand reallocation. Adjust growth forecasts if budgets shift away from open programmatic.",
	"identity":        "Assess your identity strategy. Ensure your DSP can operate in reduced-signal environments.",
	"earnings":        "Update your competitive analysis. Extract implications for your pricing and go-to-market.",
	"macro":           "Factor into quarterly planning. Adjust growth forecasts and budget assumptions.",
	"ma_funding":      "Brief leadership. Assess whether the deal changes your competitive landscape or partnership strategy.",
	"hiring":          "Track the hiring pattern. Map which companies are building which capabilities ahead of your roadmap.",
	"mobile_gaming":   "Share with supply and publishing teams. Assess impact on ad inventory quality and format adoption.",
}

// entityWhy holds hand-written rationales for watchlist companies. A
// watchlist match outranks any topic template.
var entityWhy = map[string]string{
	"AppLovin": "AppLovin is your primary competitor. Every move they make reshapes the performance DSP landscape.",
	"Unity":    "Unity controls a major mediation stack (LevelPlay) and game engine. Their strategy directly impacts supply dynamics.",
	"Moloco":   "Moloco is the fastest-growing independent DSP. Their ML-first approach is the benchmark you're measured against.",
	"Google":   "Google controls Android, AdMob, and the largest share of ad budgets. Platform policy changes here are existential.",
	"Meta":     "Meta is the #1 destination for mobile UA spend. Advantage+ automation is reducing the need for external DSPs.",
	"Apple":    "Apple controls iOS privacy policy. ATT/SKAN updates directly determine what your DSP can optimize for.",
}

// ApplyInsights fills why_it_matters and recommended_action on every item.
// Precedence: curated watchlist entity, then highest-weight topic, then the
// generic fallback. Deterministic for a fixed input.
func ApplyInsights(items []models.Item) {
	for i := range items {
		annotate(&items[i])
	}
}

func annotate(it *models.Item) {
	for _, ent := range it.Entities {
		why, curated := entityWhy[ent.Name]
		if curated && ent.Watchlist {
			it.WhyItMatters = why
			it.RecommendedAction = fmt.Sprintf("Track %s closely. Update your competitive positioning and roadmap.", ent.Name)
			return
		}
	}

	primary := it.PrimaryTopic()
	if primary == nil {
		it.WhyItMatters = genericWhy
		it.RecommendedAction = genericAction
		return
	}

	templates, ok := whyTemplates[primary.Key]
	if !ok {
		templates = []string{topicFallback}
	}
	it.WhyItMatters = templates[templateIndex(it.ID, len(templates))]

	action, ok := actionTemplates[primary.Key]
	if !ok {
		action = defaultAction
	}
	it.RecommendedAction = action
}

// templateIndex picks a stable variant for an id. FNV-1a keeps the choice
// deterministic across processes.
func templateIndex(id string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(n))
}
