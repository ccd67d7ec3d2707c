package models

import "strings"

// OptionType is the PUTCALL column of an information table row
type OptionType string

const (
	OptionNone OptionType = ""
	OptionPut  OptionType = "PUT"
	OptionCall OptionType = "CALL"
)

// ParseOptionType normalises a raw PUTCALL cell. Anything other than
// PUT or CALL (case-insensitive) is treated as no option.
func ParseOptionType(raw string) OptionType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PUT":
		return OptionPut
	case "CALL":
		return OptionCall
	}
	return OptionNone
}

// Position is one security line item of a filing (INFOTABLE row)
type Position struct {
	AccessionNumber string     `json:"accession_number"`
	NameOfIssuer    string     `json:"name_of_issuer"`
	TitleOfClass    string     `json:"title_of_class"`
	Value           int64      `json:"value"`
	Shares          int64      `json:"shares"` // SSHPRNAMT, shares or principal amount
	PutCall         OptionType `json:"put_call,omitempty"`
	CUSIP           string     `json:"cusip"`
}

// Coverpage is the filer cover page of one filing (COVERPAGE row).
// FilingManagerName may be blank; such rows are never indexed.
type Coverpage struct {
	AccessionNumber   string `json:"accession_number"`
	FilingManagerName string `json:"filing_manager_name"`
}

// Submission is the SUBMISSION row of a filing. Only the accession number
// is required, the rest is carried when the column exists.
type Submission struct {
	AccessionNumber string `json:"accession_number"`
	FilingDate      string `json:"filing_date,omitempty"`
	SubmissionType  string `json:"submission_type,omitempty"`
	CIK             string `json:"cik,omitempty"`
	PeriodOfReport  string `json:"period_of_report,omitempty"`
}

// Summary is the SUMMARYPAGE row of a filing. Declared totals are
// informational; computed sums over positions are authoritative.
type Summary struct {
	AccessionNumber  string `json:"accession_number"`
	TableValueTotal  int64  `json:"table_value_total"`
	TableEntryTotal  int64  `json:"table_entry_total"`
	HasDeclaredTotal bool   `json:"-"` // false when TABLEVALUETOTAL was blank
}
