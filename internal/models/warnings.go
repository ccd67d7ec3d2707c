package models

// WarningCode categorizes warnings by subsystem.
// W5xxx = search/aggregation, W6xxx = dataset load, W7xxx = enrichment.
type WarningCode string

const (
	WarnSampledSecurityIndex WarningCode = "W5001" // security index built from a prefix sample, rare securities may be missing
	WarnDeclaredTotalDiffers WarningCode = "W5002" // computed holdings sum differs from the declared SUMMARYPAGE total
	WarnMalformedCells       WarningCode = "W6001" // numeric cells that were blank or unparseable and counted as zero
	WarnEnrichmentDegraded   WarningCode = "W7001" // an external lookup failed and a fallback was used
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
