package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/epeers/holdings/internal/dataset"
	"github.com/epeers/holdings/internal/index"
	"github.com/epeers/holdings/internal/models"
)

const (
	// DefaultSearchLimit caps search results when the caller passes limit <= 0
	DefaultSearchLimit = 20
	// DefaultTopN caps aggregate tables when the caller passes topN <= 0
	DefaultTopN = 50

	fundMatchLimit     = 5
	securityMatchLimit = 10
)

// SearchEngine answers fund and security queries over one loaded dataset.
// Everything it holds is built in NewSearchEngine and never mutated, so a
// single engine can serve concurrent requests.
type SearchEngine struct {
	tables     *dataset.Tables
	funds      *index.FundIndex
	securities *index.SecurityIndex

	byAccession map[string][]int // position row indexes per accession
	byIssuer    map[string][]int // position row indexes per issuer name
	filerName   map[string]string
	summaries   map[string]models.Summary
}

// NewSearchEngine builds both lookup indexes and the derived row maps
func NewSearchEngine(tables *dataset.Tables, sampleLimit int) *SearchEngine {
	defer TrackTime("NewSearchEngine", time.Now())

	e := &SearchEngine{
		tables:      tables,
		funds:       index.BuildFundIndex(tables.Coverpages),
		securities:  index.BuildSecurityIndex(tables.Positions, sampleLimit),
		byAccession: make(map[string][]int),
		byIssuer:    make(map[string][]int),
		filerName:   make(map[string]string, len(tables.Coverpages)),
		summaries:   make(map[string]models.Summary, len(tables.Summaries)),
	}
	for i, p := range tables.Positions {
		e.byAccession[p.AccessionNumber] = append(e.byAccession[p.AccessionNumber], i)
		e.byIssuer[p.NameOfIssuer] = append(e.byIssuer[p.NameOfIssuer], i)
	}
	for _, c := range tables.Coverpages {
		name := strings.TrimSpace(c.FilingManagerName)
		if name == "" {
			continue
		}
		if _, ok := e.filerName[c.AccessionNumber]; !ok {
			e.filerName[c.AccessionNumber] = name
		}
	}
	for _, s := range tables.Summaries {
		if _, ok := e.summaries[s.AccessionNumber]; !ok {
			e.summaries[s.AccessionNumber] = s
		}
	}
	return e
}

// Tables returns the dataset the engine was built over
func (e *SearchEngine) Tables() *dataset.Tables {
	return e.tables
}

// SecurityCoverage reports how much of the position table is searchable
func (e *SearchEngine) SecurityCoverage() models.IndexCoverage {
	return e.securities.Coverage()
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// SearchFunds returns up to limit filers whose index keys match query:
// exact key hits first, then keys containing the query. Results are
// deduplicated by display name.
func (e *SearchEngine) SearchFunds(ctx context.Context, query string, limit int) []models.FundMatch {
	defer TrackTime("SearchFunds", time.Now())

	q := normalizeQuery(query)
	if q == "" {
		return []models.FundMatch{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results := make([]models.FundMatch, 0, limit)
	seen := make(map[string]struct{})
	collect := func(refs []index.FundRef) bool {
		for _, r := range refs {
			if _, dup := seen[r.Name]; dup {
				continue
			}
			seen[r.Name] = struct{}{}
			results = append(results, models.FundMatch{Name: r.Name, Accession: r.Accession})
			if len(results) >= limit {
				return false
			}
		}
		return true
	}

	if collect(e.funds.Lookup(q)) {
		e.funds.Scan(q, func(_ string, refs []index.FundRef) bool {
			return collect(refs)
		})
	}
	return results
}

// SearchSecurities returns up to limit securities whose index keys match
// query, with the same tiering and dedup rule as SearchFunds. When the
// security index was built from a truncated sample a W5001 warning is
// attached to ctx.
func (e *SearchEngine) SearchSecurities(ctx context.Context, query string, limit int) []models.SecurityMatch {
	defer TrackTime("SearchSecurities", time.Now())

	q := normalizeQuery(query)
	if q == "" {
		return []models.SecurityMatch{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if cov := e.securities.Coverage(); cov.Truncated {
		AddWarning(ctx, models.Warning{
			Code: models.WarnSampledSecurityIndex,
			Message: fmt.Sprintf("security index covers the first %d of %d positions; securities only present later are not searchable",
				cov.SampledRows, cov.TotalRows),
		})
	}

	results := make([]models.SecurityMatch, 0, limit)
	seen := make(map[string]struct{})
	collect := func(refs []index.SecurityRef) bool {
		for _, r := range refs {
			if _, dup := seen[r.Name]; dup {
				continue
			}
			seen[r.Name] = struct{}{}
			results = append(results, models.SecurityMatch{Name: r.Name, CUSIP: r.CUSIP, TitleOfClass: r.TitleOfClass})
			if len(results) >= limit {
				return false
			}
		}
		return true
	}

	if collect(e.securities.Lookup(q)) {
		e.securities.Scan(q, func(_ string, refs []index.SecurityRef) bool {
			return collect(refs)
		})
	}
	return results
}

type holdingKey struct {
	issuer string
	class  string
}

// GetFundHoldings aggregates the positions of up to five matched filings
// by (issuer, class), sorted by value descending. PortfolioPct is each
// group's share of the summed group total. topN <= 0 returns every group.
func (e *SearchEngine) GetFundHoldings(ctx context.Context, fundQuery string, topN int) []models.Holding {
	defer TrackTime("GetFundHoldings", time.Now())

	holdings, _ := e.fundHoldings(ctx, fundQuery)
	if topN > 0 && len(holdings) > topN {
		holdings = holdings[:topN]
	}
	return holdings
}

// fundHoldings returns every aggregated group for the query plus the
// accessions it was drawn from
func (e *SearchEngine) fundHoldings(ctx context.Context, fundQuery string) ([]models.Holding, []string) {
	matches := e.SearchFunds(ctx, fundQuery, fundMatchLimit)
	if len(matches) == 0 {
		return []models.Holding{}, nil
	}

	accessions := make([]string, 0, len(matches))
	seenAcc := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := seenAcc[m.Accession]; dup {
			continue
		}
		seenAcc[m.Accession] = struct{}{}
		accessions = append(accessions, m.Accession)
	}

	// walk rows in table order so the first non-blank CUSIP and PUTCALL follow the file
	var rows []int
	for _, acc := range accessions {
		rows = append(rows, e.byAccession[acc]...)
	}
	sort.Ints(rows)

	groups := make(map[holdingKey]int)
	holdings := make([]models.Holding, 0)
	var total int64
	for _, i := range rows {
		p := e.tables.Positions[i]
		key := holdingKey{issuer: p.NameOfIssuer, class: p.TitleOfClass}
		gi, ok := groups[key]
		if !ok {
			gi = len(holdings)
			groups[key] = gi
			holdings = append(holdings, models.Holding{
				NameOfIssuer: p.NameOfIssuer,
				TitleOfClass: p.TitleOfClass,
				CUSIP:        p.CUSIP,
				PutCall:      p.PutCall,
			})
		}
		// first non-blank value wins
		if holdings[gi].CUSIP == "" {
			holdings[gi].CUSIP = p.CUSIP
		}
		if holdings[gi].PutCall == models.OptionNone {
			holdings[gi].PutCall = p.PutCall
		}
		holdings[gi].Value += p.Value
		holdings[gi].Shares += p.Shares
		total += p.Value
	}

	for i := range holdings {
		if total > 0 {
			holdings[i].PortfolioPct = float64(holdings[i].Value) / float64(total) * 100
		}
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Value > holdings[j].Value
	})
	return holdings, accessions
}

// GetSecurityHolders aggregates, per filer name, every position whose
// issuer matches one of up to ten security matches. Rows of the same filer
// across several accessions are summed.
func (e *SearchEngine) GetSecurityHolders(ctx context.Context, securityQuery string, topN int) []models.Holder {
	defer TrackTime("GetSecurityHolders", time.Now())

	matches := e.SearchSecurities(ctx, securityQuery, securityMatchLimit)
	if len(matches) == 0 {
		return []models.Holder{}
	}

	var rows []int
	for _, m := range matches {
		rows = append(rows, e.byIssuer[m.Name]...)
	}
	sort.Ints(rows)

	groups := make(map[string]int)
	holders := make([]models.Holder, 0)
	for _, i := range rows {
		p := e.tables.Positions[i]
		name, ok := e.filerName[p.AccessionNumber]
		if !ok {
			// orphaned or unnamed filing: the inner join drops it
			continue
		}
		gi, ok := groups[name]
		if !ok {
			gi = len(holders)
			groups[name] = gi
			holders = append(holders, models.Holder{FilingManagerName: name})
		}
		holders[gi].Value += p.Value
		holders[gi].Shares += p.Shares
	}

	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].Value > holders[j].Value
	})
	if topN > 0 && len(holders) > topN {
		holders = holders[:topN]
	}
	return holders
}

// GetFundStatistics summarises every aggregated holding of the matched
// fund. It returns *models.FundNotFoundError when nothing matches.
func (e *SearchEngine) GetFundStatistics(ctx context.Context, fundQuery string) (*models.FundStats, error) {
	defer TrackTime("GetFundStatistics", time.Now())

	holdings, accessions := e.fundHoldings(ctx, fundQuery)
	if len(holdings) == 0 {
		return nil, &models.FundNotFoundError{Query: fundQuery}
	}

	stats := &models.FundStats{
		Query:           fundQuery,
		TotalPositions:  len(holdings),
		TopHolding:      holdings[0].NameOfIssuer,
		TopHoldingValue: holdings[0].Value,
		TopHoldingPct:   holdings[0].PortfolioPct,
	}

	issuers := make(map[string]struct{}, len(holdings))
	values := make([]int64, len(holdings))
	for i, h := range holdings {
		stats.TotalValue += h.Value
		issuers[h.NameOfIssuer] = struct{}{}
		values[i] = h.Value
	}
	stats.UniqueSecurities = len(issuers)
	stats.AvgPositionSize = float64(stats.TotalValue) / float64(len(holdings))
	stats.MedianPositionSize = median(values)

	var declared bool
	for _, acc := range accessions {
		if s, ok := e.summaries[acc]; ok && s.HasDeclaredTotal {
			stats.DeclaredTotalValue += s.TableValueTotal
			declared = true
		}
	}
	if declared && stats.DeclaredTotalValue != stats.TotalValue {
		stats.DeclaredMismatch = true
		AddWarning(ctx, models.Warning{
			Code: models.WarnDeclaredTotalDiffers,
			Message: fmt.Sprintf("computed holdings total %d differs from declared filing total %d; percentages use the computed total",
				stats.TotalValue, stats.DeclaredTotalValue),
		})
	}
	return stats, nil
}

func median(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}
