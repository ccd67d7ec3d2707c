package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/epeers/holdings/internal/models"
)

// MarketOverview returns dataset-wide headline numbers
func (e *SearchEngine) MarketOverview(ctx context.Context) models.MarketOverview {
	defer TrackTime("MarketOverview", time.Now())

	t := e.tables
	overview := models.MarketOverview{
		TotalFunds:       len(t.Coverpages),
		TotalHoldings:    len(t.Positions),
		UniqueSecurities: len(e.byIssuer),
	}
	if _, ok := e.byIssuer[""]; ok {
		overview.UniqueSecurities--
	}
	for _, p := range t.Positions {
		overview.TotalValue += p.Value
	}
	if t.MalformedCells > 0 {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnMalformedCells,
			Message: "some numeric cells were blank or unparseable and are counted as 0",
		})
	}
	return overview
}

// PopularSecurities groups every position by (issuer, class) and returns
// the topN by total value along with the number of distinct filings
// holding each pair
func (e *SearchEngine) PopularSecurities(ctx context.Context, topN int) []models.PopularSecurity {
	defer TrackTime("PopularSecurities", time.Now())

	groups := make(map[holdingKey]int)
	filings := make([]map[string]struct{}, 0)
	out := make([]models.PopularSecurity, 0)
	for _, p := range e.tables.Positions {
		key := holdingKey{issuer: p.NameOfIssuer, class: p.TitleOfClass}
		gi, ok := groups[key]
		if !ok {
			gi = len(out)
			groups[key] = gi
			out = append(out, models.PopularSecurity{NameOfIssuer: p.NameOfIssuer, TitleOfClass: p.TitleOfClass})
			filings = append(filings, make(map[string]struct{}))
		}
		out[gi].TotalValue += p.Value
		out[gi].TotalShares += p.Shares
		filings[gi][p.AccessionNumber] = struct{}{}
	}
	for i := range out {
		out[i].FundCount = len(filings[i])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalValue > out[j].TotalValue
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// TopFunds left-joins every coverpage with its declared SUMMARYPAGE totals
// and sorts by declared value descending, filings without a declared
// value last
func (e *SearchEngine) TopFunds(ctx context.Context, topN int) []models.FundSummary {
	defer TrackTime("TopFunds", time.Now())

	out := make([]models.FundSummary, 0, len(e.tables.Coverpages))
	for _, c := range e.tables.Coverpages {
		fs := models.FundSummary{
			FilingManagerName: strings.TrimSpace(c.FilingManagerName),
			AccessionNumber:   c.AccessionNumber,
		}
		if s, ok := e.summaries[c.AccessionNumber]; ok {
			if s.HasDeclaredTotal {
				v := s.TableValueTotal
				fs.TableValueTotal = &v
			}
			n := s.TableEntryTotal
			fs.TableEntryTotal = &n
		}
		out = append(out, fs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].TableValueTotal, out[j].TableValueTotal
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// ClassDistribution counts positions per TITLEOFCLASS, most common first
func (e *SearchEngine) ClassDistribution(ctx context.Context, topN int) []models.ClassCount {
	defer TrackTime("ClassDistribution", time.Now())

	counts := make(map[string]int)
	out := make([]models.ClassCount, 0)
	for _, p := range e.tables.Positions {
		if p.TitleOfClass == "" {
			continue
		}
		if _, ok := counts[p.TitleOfClass]; !ok {
			out = append(out, models.ClassCount{TitleOfClass: p.TitleOfClass})
		}
		counts[p.TitleOfClass]++
	}
	for i := range out {
		out[i].Count = counts[out[i].TitleOfClass]
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}
