package model

// Urgency ranks how soon a prospect should be contacted.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyHigh      Urgency = "high"
	UrgencyMedium    Urgency = "medium"
	UrgencyLow       Urgency = "low"
)

// InsightStatus grades a single finding.
type InsightStatus string

const (
	StatusCritical InsightStatus = "critical"
	StatusWarning  InsightStatus = "warning"
	StatusOK       InsightStatus = "ok"
)

// AnalysisRecord is the enriched analysis of one domain as produced by the
// API's cruce pipeline. The front-end only displays it.
type AnalysisRecord struct {
	Domain             string          `json:"domain"`
	Industry           string          `json:"industry"`
	Score              int             `json:"score"`
	Posture            string          `json:"posture,omitempty"`
	Insights           []InsightRecord `json:"insights"`
	CommercialIntel    CommercialIntel `json:"commercial_intel"`
	ExecutiveSummary   string          `json:"executive_summary,omitempty"`
	TechnicalSummary   string          `json:"technical_summary,omitempty"`
	SalesTalkingPoints []string        `json:"sales_talking_points"`
	EstimatedDealSize  DealSize        `json:"estimated_deal_size"`
	UrgencyLevel       Urgency         `json:"urgency_level"`
	AnalyzedAt         string          `json:"analyzed_at"`
}

// InsightRecord is one finding with its commercial framing.
type InsightRecord struct {
	Category        string            `json:"category,omitempty"`
	Title           string            `json:"title"`
	Status          InsightStatus     `json:"status"`
	TechnicalDetail string            `json:"technical_detail"`
	BusinessImpact  string            `json:"business_impact"`
	CostEstimate    map[string]string `json:"cost_estimate,omitempty"`
	Recommendation  string            `json:"recommendation"`
	Urgency         Urgency           `json:"urgency,omitempty"`
}

// CommercialIntel groups the sales-facing signals of an analysis.
type CommercialIntel struct {
	BudgetSignals        []string `json:"budget_signals"`
	TechStack            []string `json:"tech_stack"`
	DecisionMakers       []string `json:"decision_makers"`
	PainPoints           []string `json:"pain_points"`
	EstimatedBudget      *Budget  `json:"estimated_budget,omitempty"`
	CompetitiveAdvantage []string `json:"competitive_advantage"`
}

// Budget is an annual spend range in USD.
type Budget struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DealSize carries preformatted price strings.
type DealSize struct {
	Setup      string `json:"setup"`
	Monthly    string `json:"monthly"`
	Annual     string `json:"annual"`
	Confidence string `json:"confidence"`
}

// Clone returns a deep copy. Cached records are handed out through it so
// callers cannot reach the cache's maps and slices.
func (r AnalysisRecord) Clone() AnalysisRecord {
	out := r
	if r.Insights != nil {
		out.Insights = make([]InsightRecord, len(r.Insights))
		for i, ins := range r.Insights {
			out.Insights[i] = ins
			if ins.CostEstimate != nil {
				costs := make(map[string]string, len(ins.CostEstimate))
				for k, v := range ins.CostEstimate {
					costs[k] = v
				}
				out.Insights[i].CostEstimate = costs
			}
		}
	}
	out.CommercialIntel = r.CommercialIntel.clone()
	out.SalesTalkingPoints = cloneStrings(r.SalesTalkingPoints)
	return out
}

func (ci CommercialIntel) clone() CommercialIntel {
	out := CommercialIntel{
		BudgetSignals:        cloneStrings(ci.BudgetSignals),
		TechStack:            cloneStrings(ci.TechStack),
		DecisionMakers:       cloneStrings(ci.DecisionMakers),
		PainPoints:           cloneStrings(ci.PainPoints),
		CompetitiveAdvantage: cloneStrings(ci.CompetitiveAdvantage),
	}
	if ci.EstimatedBudget != nil {
		b := *ci.EstimatedBudget
		out.EstimatedBudget = &b
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
