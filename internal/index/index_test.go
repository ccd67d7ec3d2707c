package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/holdings/internal/models"
)

func TestFundKeys(t *testing.T) {
	keys := FundKeys("Berkshire Hathaway, Inc.")
	assert.Equal(t, []string{
		"berkshire hathaway, inc.",
		"berkshire hathaway inc.",
		"berkshire hathaway, inc",
		"berkshirehathaway,inc.",
		"berkshire",
		"hathaway",
		"inc",
	}, keys)
}

func TestBuildFundIndex(t *testing.T) {
	idx := BuildFundIndex([]models.Coverpage{
		{AccessionNumber: "A1", FilingManagerName: "Fund X"},
		{AccessionNumber: "A2", FilingManagerName: "Fund Y"},
		{AccessionNumber: "A3", FilingManagerName: "   "},
		{AccessionNumber: "A4", FilingManagerName: ""},
	})

	refs := idx.Lookup("fund")
	require.Len(t, refs, 2)
	assert.Equal(t, FundRef{Name: "Fund X", Accession: "A1"}, refs[0])
	assert.Equal(t, FundRef{Name: "Fund Y", Accession: "A2"}, refs[1])

	assert.Equal(t, []FundRef{{Name: "Fund X", Accession: "A1"}}, idx.Lookup("fundx"))
	assert.Empty(t, idx.Lookup(""))
}

func TestFundIndex_ScanInsertionOrder(t *testing.T) {
	idx := BuildFundIndex([]models.Coverpage{
		{AccessionNumber: "A1", FilingManagerName: "Alpha Capital"},
		{AccessionNumber: "A2", FilingManagerName: "Beta Capitalists"},
	})

	var got []string
	idx.Scan("capital", func(key string, _ []FundRef) bool {
		got = append(got, key)
		return true
	})
	// exact key "capital" is excluded from the scan
	assert.Equal(t, []string{"alpha capital", "alphacapital", "beta capitalists", "betacapitalists", "capitalists"}, got)

	var first []string
	idx.Scan("capital", func(key string, _ []FundRef) bool {
		first = append(first, key)
		return false
	})
	assert.Equal(t, []string{"alpha capital"}, first)
}

func TestSecurityKeys(t *testing.T) {
	keys := SecurityKeys("APPLE INC")
	assert.Equal(t, []string{"apple inc", "apple", "inc"}, keys)

	keys = SecurityKeys("Vanguard S&P 500 ETF")
	assert.Equal(t, []string{"vanguard s&p 500 etf", "s", "p", "etf", "vanguard", "500"}, keys)
}

func TestKeys_NonASCIIWords(t *testing.T) {
	assert.Equal(t, []string{"société", "générale"}, words("société générale"))

	keys := SecurityKeys("SOCIÉTÉ GÉNÉRALE SA")
	assert.Equal(t, []string{"société générale sa", "sa", "société", "générale"}, keys,
		"accented capitals are not split into ticker fragments")

	keys = FundKeys("Nestlé Pensionskasse")
	assert.Contains(t, keys, "nestlé")
	assert.Contains(t, keys, "pensionskasse")

	idx := BuildFundIndex([]models.Coverpage{{AccessionNumber: "A1", FilingManagerName: "Crédit Agricole"}})
	assert.Equal(t, []FundRef{{Name: "Crédit Agricole", Accession: "A1"}}, idx.Lookup("crédit"))
}

func TestBuildSecurityIndex_FirstOccurrencePerIssuer(t *testing.T) {
	idx := BuildSecurityIndex([]models.Position{
		{AccessionNumber: "A1", NameOfIssuer: "APPLE INC", TitleOfClass: "COM", CUSIP: "037833100"},
		{AccessionNumber: "A2", NameOfIssuer: "APPLE INC", TitleOfClass: "COM", CUSIP: "037833100"},
		{AccessionNumber: "A2", NameOfIssuer: "APPLE HOSPITALITY REIT", TitleOfClass: "COM NEW", CUSIP: "03784Y200"},
		{AccessionNumber: "A3", NameOfIssuer: "", CUSIP: "000000000"},
	}, DefaultSecuritySampleLimit)

	refs := idx.Lookup("apple")
	require.Len(t, refs, 2)
	assert.Equal(t, "APPLE INC", refs[0].Name)
	assert.Equal(t, "037833100", refs[0].CUSIP)
	assert.Equal(t, "APPLE HOSPITALITY REIT", refs[1].Name)
	assert.Equal(t, "COM NEW", refs[1].TitleOfClass)

	cov := idx.Coverage()
	assert.False(t, cov.Truncated)
	assert.Equal(t, 4, cov.SampledRows)
	assert.Equal(t, 4, cov.TotalRows)
}

func TestBuildSecurityIndex_SampleLimit(t *testing.T) {
	positions := []models.Position{
		{NameOfIssuer: "APPLE INC"},
		{NameOfIssuer: "MICROSOFT CORP"},
		{NameOfIssuer: "ZEBRA TECHNOLOGIES"},
	}
	idx := BuildSecurityIndex(positions, 2)

	assert.NotEmpty(t, idx.Lookup("microsoft"))
	// rows past the sample are never indexed
	assert.Empty(t, idx.Lookup("zebra"))

	cov := idx.Coverage()
	assert.True(t, cov.Truncated)
	assert.Equal(t, 2, cov.SampleLimit)
	assert.Equal(t, 2, cov.SampledRows)
	assert.Equal(t, 3, cov.TotalRows)

	all := BuildSecurityIndex(positions, 0)
	assert.NotEmpty(t, all.Lookup("zebra"))
	assert.False(t, all.Coverage().Truncated)
}
