package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epeers/holdings/internal/models"
)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$1,250,000.00", FormatUSD(1250000))
	assert.Equal(t, "$0.00", FormatUSD(0))
}

func TestWritePositionsCSV_RawTable(t *testing.T) {
	var buf bytes.Buffer
	err := WritePositionsCSV(&buf, []models.Position{
		{AccessionNumber: "A1", NameOfIssuer: "APPLE INC", TitleOfClass: "COM", CUSIP: "037833100", Value: 100, Shares: 10},
		{AccessionNumber: "A1", NameOfIssuer: "MICROSOFT CORP", TitleOfClass: "PUT", CUSIP: "594918104", Value: 0, Shares: 1, PutCall: models.OptionPut},
	})
	require.NoError(t, err)

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ACCESSION_NUMBER", "NAMEOFISSUER", "TITLEOFCLASS", "CUSIP", "VALUE", "SSHPRNAMT", "PUTCALL"}, rows[0])
	assert.Equal(t, []string{"A1", "APPLE INC", "COM", "037833100", "100", "10", ""}, rows[1])
	assert.Equal(t, []string{"A1", "MICROSOFT CORP", "PUT", "594918104", "0", "1", "PUT"}, rows[2])
}

func TestWriteFilersCSV_RawTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFilersCSV(&buf, []models.Coverpage{
		{AccessionNumber: "A1", FilingManagerName: "Fund X"},
		{AccessionNumber: "A3", FilingManagerName: ""},
	}))
	rows := readCSV(t, buf.Bytes())
	assert.Equal(t, [][]string{{"ACCESSION_NUMBER", "FILINGMANAGER_NAME"}, {"A1", "Fund X"}, {"A3", ""}}, rows)
}

func TestWriteHoldingsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHoldingsCSV(&buf, []models.Holding{
		{NameOfIssuer: "APPLE INC", TitleOfClass: "COM", CUSIP: "037833100", Value: 150, Shares: 15, PortfolioPct: 60},
		{NameOfIssuer: "SPDR S&P 500, ETF", TitleOfClass: "PUT", PutCall: models.OptionPut, Value: 100, Shares: 1, PortfolioPct: 40},
	})
	require.NoError(t, err)

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, "portfolio_pct", rows[0][6])
	assert.Equal(t, []string{"APPLE INC", "COM", "037833100", "", "150", "15", "60.0000"}, rows[1])
	assert.Equal(t, "SPDR S&P 500, ETF", rows[2][0], "comma in issuer name survives quoting")
	assert.Equal(t, "PUT", rows[2][3])
}

func TestWriteTopFundsCSV_MissingTotals(t *testing.T) {
	total, entries := int64(400), int64(3)
	var buf bytes.Buffer
	err := WriteTopFundsCSV(&buf, []models.FundSummary{
		{FilingManagerName: "Fund X", AccessionNumber: "A1", TableValueTotal: &total, TableEntryTotal: &entries},
		{FilingManagerName: "Fund Y", AccessionNumber: "A2"},
	})
	require.NoError(t, err)

	rows := readCSV(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Fund X", "A1", "400", "3"}, rows[1])
	assert.Equal(t, []string{"Fund Y", "A2", "", ""}, rows[2])
}

func TestWriteHoldersAndPopularCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHoldersCSV(&buf, []models.Holder{{FilingManagerName: "Fund X", Value: 150, Shares: 15}}))
	rows := readCSV(t, buf.Bytes())
	assert.Equal(t, [][]string{{"filing_manager_name", "value", "shares"}, {"Fund X", "150", "15"}}, rows)

	buf.Reset()
	require.NoError(t, WritePopularSecuritiesCSV(&buf, []models.PopularSecurity{
		{NameOfIssuer: "APPLE INC", TitleOfClass: "COM", TotalValue: 180, TotalShares: 18, FundCount: 2},
	}))
	rows = readCSV(t, buf.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"APPLE INC", "COM", "180", "18", "2"}, rows[1])
}

func TestWriteSummaryJSON(t *testing.T) {
	generated := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s := NewSummary("00000000000000ab", generated,
		models.MarketOverview{TotalFunds: 2, TotalHoldings: 4, TotalValue: 2500, UniqueSecurities: 2},
		[]models.ClassCount{{TitleOfClass: "COM", Count: 3}},
		models.IndexCoverage{SampleLimit: 100000, SampledRows: 4, TotalRows: 4})

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, s))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "$2,500.00", decoded["total_value_display"])
	assert.Equal(t, "2024-03-15T12:00:00Z", decoded["generated_at"])
	assert.Equal(t, "00000000000000ab", decoded["fingerprint"])
}
