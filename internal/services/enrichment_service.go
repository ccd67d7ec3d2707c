package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/epeers/holdings/internal/cache"
	"github.com/epeers/holdings/internal/models"
	"github.com/epeers/holdings/internal/quotes"
)

const (
	DefaultExternalTimeout = 5 * time.Second
	DefaultBatchPacing     = 100 * time.Millisecond
)

// QuoteService is the metadata and price lookup the enrichment chain uses
type QuoteService interface {
	Profile(ctx context.Context, ticker string) (*quotes.Profile, error)
	PriceChange(ctx context.Context, ticker, period string) (float64, error)
}

// TextGenerator answers a single constrained prompt
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int32) (string, error)
}

// well-known name fragments, checked in order
var knownTickers = []struct {
	fragment string
	ticker   string
}{
	{"APPLE", "AAPL"},
	{"MICROSOFT", "MSFT"},
	{"ALPHABET", "GOOGL"},
	{"AMAZON", "AMZN"},
	{"TESLA", "TSLA"},
	{"BERKSHIRE", "BRK.A"},
	{"JPMORGAN", "JPM"},
	{"BANK OF AMERICA", "BAC"},
	{"WELLS FARGO", "WFC"},
	{"UNITEDHEALTH", "UNH"},
	{"JOHNSON & JOHNSON", "JNJ"},
	{"PROCTER & GAMBLE", "PG"},
	{"VISA", "V"},
	{"MASTERCARD", "MA"},
	{"NVIDIA", "NVDA"},
	{"META", "META"},
	{"NETFLIX", "NFLX"},
	{"SALESFORCE", "CRM"},
	{"ORACLE", "ORCL"},
	{"CISCO", "CSCO"},
}

var fundKeywords = map[string]struct{}{
	"ETF":     {},
	"ETN":     {},
	"ISHARES": {},
	"SPDR":    {},
	"INDEX":   {},
	"FUND":    {},
}

const (
	sectorSystemPrompt = "You are a financial analyst. Provide only the sector name, no additional text."
	tickerSystemPrompt = "You are a financial analyst. Provide only the ticker symbol, no additional text."

	sectorPromptTemplate = `Given the company information below, provide the most likely sector/industry classification.
Return ONLY the sector name, nothing else.

Company: %s
Ticker: %s

Common sectors include: Technology, Healthcare, Financial Services, Consumer Cyclical,
Consumer Defensive, Industrials, Energy, Basic Materials, Real Estate, Communication Services,
Utilities, etc.

Sector:`

	tickerPromptTemplate = `Given the company name below, provide the most likely stock ticker symbol.
Return ONLY the ticker symbol, nothing else.

Company: %s

Common ticker examples:
- Apple Inc -> AAPL
- Microsoft Corporation -> MSFT
- Tesla Inc -> TSLA
- JPMorgan Chase & Co -> JPM
- Goldman Sachs Group Inc -> GS
- Hess Corporation -> HES
- Advanced Micro Devices Inc -> AMD
- Marvell Technology Inc -> MRVL
- Shell PLC -> SHEL
- United States Steel Corp -> X
- Allstate Corp -> ALL
- HCA Healthcare Inc -> HCA

Ticker:`

	sectorMaxTokens = 20
	tickerMaxTokens = 10
	maxSectorLength = 50
	maxTickerLength = 6
)

var refusalPrefixes = []string{"I'm sorry", "I’m sorry", "Sorry", "I cannot", "I can't", "I can’t"}

// EnrichmentService resolves issuer names to tickers and sectors through
// the cache, the fixed name table, the quote service and a language model,
// in that order. Both external steps are optional and failures never
// escape: they fall through to the next step or the Unknown sentinel.
type EnrichmentService struct {
	cache   *cache.TickerCache
	quotes  QuoteService
	llm     TextGenerator
	timeout time.Duration
	pacing  time.Duration
	group   singleflight.Group
}

// NewEnrichmentService creates an EnrichmentService. quoteSvc and llm may
// be nil to disable those steps.
func NewEnrichmentService(c *cache.TickerCache, quoteSvc QuoteService, llm TextGenerator, timeout, pacing time.Duration) *EnrichmentService {
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	if pacing < 0 {
		pacing = 0
	}
	return &EnrichmentService{
		cache:   c,
		quotes:  quoteSvc,
		llm:     llm,
		timeout: timeout,
		pacing:  pacing,
	}
}

// Cache exposes the underlying ticker cache
func (s *EnrichmentService) Cache() *cache.TickerCache {
	return s.cache
}

// ResolveTicker returns the ticker for companyName and whether one was found
func (s *EnrichmentService) ResolveTicker(ctx context.Context, companyName string) (string, bool) {
	defer TrackTime("ResolveTicker", time.Now())

	key := cache.NormalizeName(companyName)
	if key == "" {
		return "", false
	}
	if t := s.cache.Ticker(key); t != "" {
		return t, true
	}

	v, _, _ := s.group.Do("ticker:"+key, func() (any, error) {
		return s.resolveTickerUncached(ctx, companyName), nil
	})
	ticker := v.(string)
	return ticker, ticker != ""
}

func (s *EnrichmentService) resolveTickerUncached(ctx context.Context, companyName string) string {
	// a flight that just finished may have filled the cache
	if t := s.cache.Ticker(companyName); t != "" {
		return t
	}
	if t := lookupKnownTicker(companyName); t != "" {
		s.remember(ctx, companyName, t, models.SectorUnknown, models.SourceAuto)
		return t
	}

	t, err := s.tickerFromLLM(ctx, companyName)
	if err != nil {
		s.degraded(ctx, companyName, err)
		return ""
	}
	s.remember(ctx, companyName, t, models.SectorUnknown, models.SourceLLM)
	return t
}

// ResolveSector returns the sector for companyName, never empty: Unknown
// when every step fails. ticker may be empty.
func (s *EnrichmentService) ResolveSector(ctx context.Context, ticker, companyName string) string {
	defer TrackTime("ResolveSector", time.Now())

	key := cache.NormalizeName(companyName)
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if key == "" && ticker == "" {
		return models.SectorUnknown
	}
	if key != "" {
		if e, ok := s.cache.Get(key); ok && e.Sector != "" && e.Sector != models.SectorUnknown {
			return e.Sector
		}
	}

	v, _, _ := s.group.Do("sector:"+key+"|"+ticker, func() (any, error) {
		return s.resolveSectorUncached(ctx, ticker, companyName), nil
	})
	return v.(string)
}

func (s *EnrichmentService) resolveSectorUncached(ctx context.Context, ticker, companyName string) string {
	if e, ok := s.cache.Get(companyName); ok && e.Sector != "" && e.Sector != models.SectorUnknown {
		return e.Sector
	}
	if ticker == "" && companyName != "" {
		if t := s.cache.Ticker(companyName); t != "" {
			ticker = t
		} else {
			ticker = lookupKnownTicker(companyName)
		}
	}

	if IsFundName(companyName) {
		s.remember(ctx, companyName, ticker, models.SectorETF, models.SourceAuto)
		return models.SectorETF
	}

	if ticker != "" {
		sector, err := s.sectorFromQuote(ctx, ticker)
		if err == nil {
			s.remember(ctx, companyName, ticker, sector, models.SourceQuote)
			return sector
		}
		s.degraded(ctx, ticker, err)
	}

	if companyName != "" {
		sector, err := s.sectorFromLLM(ctx, ticker, companyName)
		if err == nil {
			s.remember(ctx, companyName, ticker, sector, models.SourceLLM)
			return sector
		}
		s.degraded(ctx, companyName, err)
	}
	return models.SectorUnknown
}

// GetStockInfoBatch returns price change and sector for each ticker, in
// input order. Tickers are processed one at a time with the configured
// pacing between them; a failing ticker degrades to a nil price change
// and Unknown sector without affecting the others.
func (s *EnrichmentService) GetStockInfoBatch(ctx context.Context, tickers []string, companyNames map[string]string, period string) []models.TickerInfo {
	defer TrackTime("GetStockInfoBatch", time.Now())

	out := make([]models.TickerInfo, len(tickers))
	for i, raw := range tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		out[i] = models.TickerInfo{Ticker: raw, Sector: models.SectorUnknown}
		if ticker == "" {
			continue
		}
		if i > 0 && s.pacing > 0 {
			if err := sleepContext(ctx, s.pacing); err != nil {
				log.Warnf("batch enrichment stopped after %d of %d tickers: %v", i, len(tickers), err)
				continue
			}
		}
		if ctx.Err() != nil {
			continue
		}

		if change, err := s.priceChange(ctx, ticker, period); err == nil {
			out[i].PriceChange = &change
		} else {
			s.degraded(ctx, ticker, err)
		}

		if name := companyNames[raw]; name != "" {
			out[i].Sector = s.ResolveSector(ctx, ticker, name)
		} else if sector, err := s.sectorFromQuote(ctx, ticker); err == nil {
			out[i].Sector = sector
		} else {
			s.degraded(ctx, ticker, err)
		}
	}
	return out
}

func (s *EnrichmentService) priceChange(ctx context.Context, ticker, period string) (float64, error) {
	if s.quotes == nil {
		return 0, &models.EnrichmentUnavailableError{Step: "quote", Err: errors.New("quote service not configured")}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	change, err := s.quotes.PriceChange(ctx, ticker, period)
	if err != nil {
		return 0, &models.EnrichmentUnavailableError{Step: "quote", Err: err}
	}
	return change, nil
}

func (s *EnrichmentService) sectorFromQuote(ctx context.Context, ticker string) (string, error) {
	if s.quotes == nil {
		return "", &models.EnrichmentUnavailableError{Step: "quote", Err: errors.New("quote service not configured")}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p, err := s.quotes.Profile(ctx, ticker)
	if err != nil {
		return "", &models.EnrichmentUnavailableError{Step: "quote", Err: err}
	}
	if p.IsFund() {
		return models.SectorETF, nil
	}
	if sector := p.BestSector(); sector != "" {
		return sector, nil
	}
	return "", &models.EnrichmentUnavailableError{Step: "quote", Err: fmt.Errorf("no sector for %s", ticker)}
}

func (s *EnrichmentService) sectorFromLLM(ctx context.Context, ticker, companyName string) (string, error) {
	if s.llm == nil {
		return "", &models.EnrichmentUnavailableError{Step: "llm", Err: errors.New("language model not configured")}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	shown := ticker
	if shown == "" {
		shown = "Not provided"
	}
	reply, err := s.llm.Generate(ctx, sectorSystemPrompt, fmt.Sprintf(sectorPromptTemplate, companyName, shown), sectorMaxTokens)
	if err != nil {
		return "", &models.EnrichmentUnavailableError{Step: "llm", Err: err}
	}
	sector, ok := ValidSector(reply)
	if !ok {
		return "", &models.EnrichmentUnavailableError{Step: "llm", Err: fmt.Errorf("implausible sector reply %q", reply)}
	}
	return sector, nil
}

func (s *EnrichmentService) tickerFromLLM(ctx context.Context, companyName string) (string, error) {
	if s.llm == nil {
		return "", &models.EnrichmentUnavailableError{Step: "llm", Err: errors.New("language model not configured")}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.llm.Generate(ctx, tickerSystemPrompt, fmt.Sprintf(tickerPromptTemplate, companyName), tickerMaxTokens)
	if err != nil {
		return "", &models.EnrichmentUnavailableError{Step: "llm", Err: err}
	}
	ticker, ok := ValidTicker(reply)
	if !ok {
		return "", &models.EnrichmentUnavailableError{Step: "llm", Err: fmt.Errorf("implausible ticker reply %q", reply)}
	}
	return ticker, nil
}

// remember writes a resolution back to the cache. Failures are logged.
func (s *EnrichmentService) remember(ctx context.Context, companyName, ticker, sector string, source models.MappingSource) {
	if strings.TrimSpace(companyName) == "" {
		return
	}
	if _, err := s.cache.Upsert(ctx, companyName, ticker, sector, source); err != nil {
		log.Errorf("warning: failed to cache mapping for %s: %v", companyName, err)
	}
}

func (s *EnrichmentService) degraded(ctx context.Context, subject string, err error) {
	var unavailable *models.EnrichmentUnavailableError
	if errors.As(err, &unavailable) {
		log.Debugf("enrichment %s step skipped for %s: %v", unavailable.Step, subject, unavailable.Err)
	} else {
		log.Debugf("enrichment failed for %s: %v", subject, err)
	}
	AddWarning(ctx, models.Warning{
		Code:    models.WarnEnrichmentDegraded,
		Message: fmt.Sprintf("lookup for %s fell back: %v", subject, err),
	})
}

// lookupKnownTicker matches companyName against the fixed fragment table
func lookupKnownTicker(companyName string) string {
	name := cache.NormalizeName(companyName)
	if name == "" {
		return ""
	}
	for _, k := range knownTickers {
		if strings.Contains(name, k.fragment) {
			return k.ticker
		}
	}
	return ""
}

// IsFundName reports whether an issuer name looks like a pooled vehicle:
// it contains a fund keyword as a word or ends in TR or TRUST
func IsFundName(companyName string) bool {
	words := strings.Fields(cache.NormalizeName(companyName))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if _, ok := fundKeywords[w]; ok {
			return true
		}
	}
	last := words[len(words)-1]
	return len(words) > 1 && (last == "TR" || last == "TRUST")
}

// ValidSector accepts a model reply as a sector label when it is short,
// non-empty and not a refusal
func ValidSector(reply string) (string, bool) {
	sector := strings.TrimSpace(reply)
	if sector == "" || len(sector) >= maxSectorLength {
		return "", false
	}
	for _, p := range refusalPrefixes {
		if strings.HasPrefix(sector, p) {
			return "", false
		}
	}
	return sector, true
}

// ValidTicker accepts a model reply as a ticker when it is at most six
// alphanumeric characters once uppercased
func ValidTicker(reply string) (string, bool) {
	ticker := strings.ToUpper(strings.TrimSpace(reply))
	if ticker == "" || len(ticker) > maxTickerLength {
		return "", false
	}
	for _, r := range ticker {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "", false
		}
	}
	return ticker, true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
