package dataset

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/epeers/holdings/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	InfotableFile  = "INFOTABLE.tsv"
	CoverpageFile  = "COVERPAGE.tsv"
	SubmissionFile = "SUBMISSION.tsv"
	SummaryFile    = "SUMMARYPAGE.tsv"
	MetadataFile   = "FORM13F_metadata.json"
)

var (
	positionColumns   = []string{"ACCESSION_NUMBER", "NAMEOFISSUER", "TITLEOFCLASS", "VALUE", "SSHPRNAMT", "PUTCALL", "CUSIP"}
	coverpageColumns  = []string{"ACCESSION_NUMBER", "FILINGMANAGER_NAME"}
	submissionColumns = []string{"ACCESSION_NUMBER"}
	summaryColumns    = []string{"ACCESSION_NUMBER", "TABLEVALUETOTAL", "TABLEENTRYTOTAL"}
)

// checkEvery is how many rows are parsed between context checks
const checkEvery = 10000

// Tables is one loaded quarterly snapshot. It is owned by the caller and
// treated as read-only once Load returns.
type Tables struct {
	Positions   []models.Position
	Coverpages  []models.Coverpage
	Submissions []models.Submission
	Summaries   []models.Summary

	// Metadata is the optional provenance sidecar, nil when absent
	Metadata map[string]any

	// Fingerprint is an xxhash64 over every table file read, hex encoded
	Fingerprint string

	// FromChunks is set when positions were reassembled from chunk files
	FromChunks bool

	// MalformedCells counts numeric cells that were blank or unparseable
	// and therefore counted as zero
	MalformedCells int
}

// Load reads the four tables from dir. When INFOTABLE.tsv is absent the
// positions are read from dir/chunks/INFOTABLE_chunk_<n>.tsv in numeric
// order, with exactly one header kept. Missing required files are reported
// together in a *models.MissingDataError before anything is parsed.
func Load(ctx context.Context, dir string) (*Tables, error) {
	infotable := filepath.Join(dir, InfotableFile)

	var missing []string
	var chunks []string
	if !exists(infotable) {
		var err error
		chunks, err = ChunkFiles(filepath.Join(dir, ChunksDir))
		if err != nil {
			return nil, err
		}
		if len(chunks) == 0 {
			missing = append(missing, InfotableFile+" (no "+ChunksDir+"/"+ChunkPattern+" either)")
		}
	}
	for _, name := range []string{CoverpageFile, SubmissionFile, SummaryFile} {
		if !exists(filepath.Join(dir, name)) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &models.MissingDataError{Dir: dir, Files: missing}
	}

	t := &Tables{FromChunks: len(chunks) > 0}
	var posMalformed, sumMalformed int
	var posHash, covHash, subHash, sumHash uint64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if t.FromChunks {
			log.Infof("%s not found, loading positions from %d chunks", InfotableFile, len(chunks))
			t.Positions, posHash, posMalformed, err = readPositionChunks(gctx, chunks)
		} else {
			t.Positions, posHash, posMalformed, err = readPositionsFile(gctx, infotable)
		}
		return err
	})
	g.Go(func() error {
		var err error
		t.Coverpages, covHash, err = readCoverpages(gctx, filepath.Join(dir, CoverpageFile))
		return err
	})
	g.Go(func() error {
		var err error
		t.Submissions, subHash, err = readSubmissions(gctx, filepath.Join(dir, SubmissionFile))
		return err
	})
	g.Go(func() error {
		var err error
		t.Summaries, sumHash, sumMalformed, err = readSummaries(gctx, filepath.Join(dir, SummaryFile))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	t.MalformedCells = posMalformed + sumMalformed
	t.Fingerprint = combineHashes(posHash, covHash, subHash, sumHash)
	t.Metadata = readMetadata(filepath.Join(dir, MetadataFile))

	log.Infof("Loaded %d holdings records", len(t.Positions))
	log.Infof("Loaded %d fund records", len(t.Coverpages))
	if t.MalformedCells > 0 {
		log.Warnf("%d numeric cells were blank or unparseable and counted as zero", t.MalformedCells)
	}
	return t, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// hashedFile opens path and returns a reader that feeds d as it is consumed
func hashedFile(path string, d *xxhash.Digest) (*os.File, io.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, io.TeeReader(f, d), nil
}

func readPositionsFile(ctx context.Context, path string) ([]models.Position, uint64, int, error) {
	d := xxhash.New()
	f, r, err := hashedFile(path, d)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	tr, err := newTableReader(r, filepath.Base(path), positionColumns)
	if err != nil {
		return nil, 0, 0, err
	}
	var positions []models.Position
	malformed, err := appendPositions(ctx, tr, &positions)
	if err != nil {
		return nil, 0, 0, err
	}
	return positions, d.Sum64(), malformed, nil
}

// readPositionChunks reads every chunk in order. Each chunk repeats the
// header; all headers must match the first one.
func readPositionChunks(ctx context.Context, chunks []string) ([]models.Position, uint64, int, error) {
	d := xxhash.New()
	var positions []models.Position
	var first *tableReader
	malformed := 0

	for _, path := range chunks {
		f, r, err := hashedFile(path, d)
		if err != nil {
			return nil, 0, 0, err
		}
		tr, err := newTableReader(r, filepath.Base(path), positionColumns)
		if err != nil {
			f.Close()
			return nil, 0, 0, err
		}
		if first == nil {
			first = tr
		} else if !first.sameHeader(tr) {
			f.Close()
			return nil, 0, 0, fmt.Errorf("%s: header differs from %s", tr.name, first.name)
		}

		n, err := appendPositions(ctx, tr, &positions)
		f.Close()
		if err != nil {
			return nil, 0, 0, err
		}
		malformed += n
	}
	return positions, d.Sum64(), malformed, nil
}

func appendPositions(ctx context.Context, tr *tableReader, out *[]models.Position) (int, error) {
	malformed := 0
	for row := 0; ; row++ {
		if row%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return malformed, err
			}
		}
		rec, err := tr.next()
		if err == io.EOF {
			return malformed, nil
		}
		if err != nil {
			return malformed, err
		}

		value, ok := parseHolding(tr.get(rec, "VALUE"))
		if !ok {
			malformed++
		}
		shares, ok := parseHolding(tr.get(rec, "SSHPRNAMT"))
		if !ok {
			malformed++
		}
		*out = append(*out, models.Position{
			AccessionNumber: tr.get(rec, "ACCESSION_NUMBER"),
			NameOfIssuer:    tr.get(rec, "NAMEOFISSUER"),
			TitleOfClass:    tr.get(rec, "TITLEOFCLASS"),
			Value:           value,
			Shares:          shares,
			PutCall:         models.ParseOptionType(tr.get(rec, "PUTCALL")),
			CUSIP:           tr.get(rec, "CUSIP"),
		})
	}
}

func readCoverpages(ctx context.Context, path string) ([]models.Coverpage, uint64, error) {
	d := xxhash.New()
	f, r, err := hashedFile(path, d)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	tr, err := newTableReader(r, filepath.Base(path), coverpageColumns)
	if err != nil {
		return nil, 0, err
	}

	var out []models.Coverpage
	for row := 0; ; row++ {
		if row%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		rec, err := tr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		out = append(out, models.Coverpage{
			AccessionNumber:   tr.get(rec, "ACCESSION_NUMBER"),
			FilingManagerName: tr.get(rec, "FILINGMANAGER_NAME"),
		})
	}
	return out, d.Sum64(), nil
}

func readSubmissions(ctx context.Context, path string) ([]models.Submission, uint64, error) {
	d := xxhash.New()
	f, r, err := hashedFile(path, d)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	tr, err := newTableReader(r, filepath.Base(path), submissionColumns)
	if err != nil {
		return nil, 0, err
	}

	var out []models.Submission
	for row := 0; ; row++ {
		if row%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		rec, err := tr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		out = append(out, models.Submission{
			AccessionNumber: tr.get(rec, "ACCESSION_NUMBER"),
			FilingDate:      tr.get(rec, "FILING_DATE"),
			SubmissionType:  tr.get(rec, "SUBMISSIONTYPE"),
			CIK:             tr.get(rec, "CIK"),
			PeriodOfReport:  tr.get(rec, "PERIODOFREPORT"),
		})
	}
	return out, d.Sum64(), nil
}

func readSummaries(ctx context.Context, path string) ([]models.Summary, uint64, int, error) {
	d := xxhash.New()
	f, r, err := hashedFile(path, d)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	tr, err := newTableReader(r, filepath.Base(path), summaryColumns)
	if err != nil {
		return nil, 0, 0, err
	}

	var out []models.Summary
	malformed := 0
	for row := 0; ; row++ {
		if row%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, 0, err
			}
		}
		rec, err := tr.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, err
		}
		value, hasValue := parseAmount(tr.get(rec, "TABLEVALUETOTAL"))
		entries, hasEntries := parseAmount(tr.get(rec, "TABLEENTRYTOTAL"))
		if !hasValue {
			malformed++
		}
		if !hasEntries {
			malformed++
		}
		out = append(out, models.Summary{
			AccessionNumber:  tr.get(rec, "ACCESSION_NUMBER"),
			TableValueTotal:  value,
			TableEntryTotal:  entries,
			HasDeclaredTotal: hasValue,
		})
	}
	return out, d.Sum64(), malformed, nil
}

// readMetadata decodes the optional provenance sidecar. It is informational
// only, so any problem is logged and ignored.
func readMetadata(path string) map[string]any {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		log.Warnf("failed to read %s: %v", filepath.Base(path), err)
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		log.Warnf("ignoring malformed %s: %v", filepath.Base(path), err)
		return nil
	}
	return meta
}

func combineHashes(sums ...uint64) string {
	d := xxhash.New()
	var buf [8]byte
	for _, s := range sums {
		binary.LittleEndian.PutUint64(buf[:], s)
		d.Write(buf[:])
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
