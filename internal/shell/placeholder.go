package shell

import "github.com/dharsanguruparan/prospectscan/internal/model"

func strPtr(s string) *string { return &s }

// PlaceholderDomains feeds the heatmap until it is wired to the cruce
// results.
func PlaceholderDomains() []model.HeatmapDomain {
	return []model.HeatmapDomain{
		{
			Domain: "liverpool.com.mx", Score: 84,
			IdentityLevel: "high", ExposureLevel: "low", GeneralLevel: "high",
			Provider: "Microsoft 365", SPFStatus: "ok", DMARCStatus: "reject", HTTPSStatus: "ok",
			CDNWAF:          strPtr("Akamai"),
			SecurityVendors: []string{"Proofpoint", "Akamai"},
			AnalyzedAt:      "2026-01-14T09:12:00",
		},
		{
			Domain: "soriana.com", Score: 63,
			IdentityLevel: "medium", ExposureLevel: "medium", GeneralLevel: "medium",
			Provider: "Google Workspace", SPFStatus: "ok", DMARCStatus: "none", HTTPSStatus: "ok",
			CDNWAF:          strPtr("Cloudflare"),
			SecurityVendors: []string{"Cloudflare"},
			Recommendations: []string{"Endurecer DMARC a quarantine"},
			AnalyzedAt:      "2026-01-14T09:14:00",
		},
		{
			Domain: "coppel.com", Score: 55,
			IdentityLevel: "medium", ExposureLevel: "medium", GeneralLevel: "medium",
			Provider: "Microsoft 365", SPFStatus: "softfail", DMARCStatus: "quarantine", HTTPSStatus: "ok",
			SecurityVendors: []string{"Mimecast"},
			Recommendations: []string{"Agregar WAF"},
			AnalyzedAt:      "2026-01-14T09:15:00",
		},
		{
			Domain: "chedraui.com.mx", Score: 38,
			IdentityLevel: "low", ExposureLevel: "high", GeneralLevel: "low",
			Provider: "Microsoft 365", SPFStatus: "ok", DMARCStatus: "missing", HTTPSStatus: "not_enforced",
			SecurityVendors: []string{"Proofpoint"},
			Recommendations: []string{"Forzar HTTPS", "Publicar DMARC"},
			AnalyzedAt:      "2026-01-15T17:30:00",
		},
		{
			Domain: "elektra.com.mx", Score: 27,
			IdentityLevel: "low", ExposureLevel: "high", GeneralLevel: "low",
			Provider: "Otro", SPFStatus: "missing", DMARCStatus: "missing", HTTPSStatus: "ok",
			Recommendations: []string{"Publicar SPF", "Publicar DMARC", "Agregar WAF"},
			AnalyzedAt:      "2026-01-15T17:41:00",
		},
	}
}
