package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
)

const (
	ChunksDir    = "chunks"
	chunkPrefix  = "INFOTABLE_chunk_"
	chunkSuffix  = ".tsv"
	ChunkPattern = chunkPrefix + "*" + chunkSuffix
)

// ChunkFiles returns the positions chunk files under chunksDir ordered by
// their numeric suffix (chunk_2 before chunk_10). A missing directory is
// not an error; it simply has no chunks.
func ChunkFiles(chunksDir string) ([]string, error) {
	if _, err := os.Stat(chunksDir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(chunksDir), ChunkPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob chunks in %s: %w", chunksDir, err)
	}

	type numbered struct {
		n    int
		path string
	}
	var chunks []numbered
	for _, m := range matches {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(m, chunkPrefix), chunkSuffix))
		if err != nil {
			log.Warnf("ignoring chunk file with non-numeric suffix: %s", m)
			continue
		}
		chunks = append(chunks, numbered{n: n, path: filepath.Join(chunksDir, m)})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].n < chunks[j].n })

	paths := make([]string, len(chunks))
	for i, c := range chunks {
		paths[i] = c.path
	}
	return paths, nil
}

// Reassemble concatenates the chunk files under chunksDir into outputFile,
// keeping only the first chunk's header line. It returns the number of data
// lines written.
func Reassemble(chunksDir, outputFile string) (int, error) {
	chunks, err := ChunkFiles(chunksDir)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no chunk files found in %s", chunksDir)
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", outputFile, err)
	}
	w := bufio.NewWriter(out)

	total := 0
	for i, chunk := range chunks {
		n, err := copyChunk(w, chunk, i == 0)
		if err != nil {
			out.Close()
			return total, err
		}
		log.Infof("copied %d data lines from %s", n, filepath.Base(chunk))
		total += n
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return total, fmt.Errorf("failed to write %s: %w", outputFile, err)
	}
	if err := out.Close(); err != nil {
		return total, fmt.Errorf("failed to close %s: %w", outputFile, err)
	}
	return total, nil
}

func copyChunk(w io.Writer, path string, withHeader bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open chunk: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if withHeader {
		if _, err := io.WriteString(w, ensureNewline(header)); err != nil {
			return 0, err
		}
	}

	lines := 0
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if _, werr := io.WriteString(w, ensureNewline(line)); werr != nil {
				return lines, werr
			}
			lines++
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
}

// Split shards inputFile into numChunks files named INFOTABLE_chunk_<n>.tsv
// under outputDir, each starting with the input header. The last chunk takes
// the remainder.
func Split(inputFile, outputDir string, numChunks int) ([]string, error) {
	if numChunks < 1 {
		return nil, fmt.Errorf("number of chunks must be positive, got %d", numChunks)
	}

	dataLines, err := countDataLines(inputFile)
	if err != nil {
		return nil, err
	}
	perChunk := dataLines / numChunks

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outputDir, err)
	}

	in, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", inputFile, err)
	}
	defer in.Close()

	r := bufio.NewReader(in)
	header, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read header of %s: %w", inputFile, err)
	}
	header = ensureNewline(header)

	var paths []string
	for i := 0; i < numChunks; i++ {
		toWrite := perChunk
		if i == numChunks-1 {
			toWrite = dataLines - i*perChunk
		}

		path := filepath.Join(outputDir, fmt.Sprintf("%s%d%s", chunkPrefix, i+1, chunkSuffix))
		if err := writeChunk(path, header, r, toWrite); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChunk(path, header string, r *bufio.Reader, lines int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(out)
	if _, err := w.WriteString(header); err != nil {
		out.Close()
		return err
	}
	for i := 0; i < lines; i++ {
		line, err := r.ReadString('\n')
		if line != "" {
			if _, werr := w.WriteString(ensureNewline(line)); werr != nil {
				out.Close()
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func countDataLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	lines := 0
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			lines++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
