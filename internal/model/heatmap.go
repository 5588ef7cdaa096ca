package model

// HeatmapDomain is one cell of the heatmap: a scored domain with the
// posture levels that drive its colour.
type HeatmapDomain struct {
	Domain          string   `json:"domain"`
	Score           int      `json:"score"`
	IdentityLevel   string   `json:"identity_level"`
	ExposureLevel   string   `json:"exposure_level"`
	GeneralLevel    string   `json:"general_level"`
	Provider        string   `json:"provider"`
	SPFStatus       string   `json:"spf_status"`
	DMARCStatus     string   `json:"dmarc_status"`
	HTTPSStatus     string   `json:"https_status"`
	CDNWAF          *string  `json:"cdn_waf"`
	SecurityVendors []string `json:"security_vendors"`
	Recommendations []string `json:"recommendations"`
	AnalyzedAt      string   `json:"analyzed_at"`
}
