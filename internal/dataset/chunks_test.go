package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkFiles_NumericOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"INFOTABLE_chunk_10.tsv", "INFOTABLE_chunk_2.tsv", "INFOTABLE_chunk_1.tsv", "INFOTABLE_chunk_x.tsv", "OTHER.tsv"} {
		writeFile(t, filepath.Join(dir, name), infotableHeader)
	}

	chunks, err := ChunkFiles(dir)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "INFOTABLE_chunk_1.tsv", filepath.Base(chunks[0]))
	assert.Equal(t, "INFOTABLE_chunk_2.tsv", filepath.Base(chunks[1]))
	assert.Equal(t, "INFOTABLE_chunk_10.tsv", filepath.Base(chunks[2]))
}

func TestChunkFiles_MissingDir(t *testing.T) {
	chunks, err := ChunkFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestReassemble_SingleHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "INFOTABLE_chunk_1.tsv"), infotableHeader+"r1\nr2\nr3\n")
	writeFile(t, filepath.Join(dir, "INFOTABLE_chunk_2.tsv"), infotableHeader+"r4\nr5")

	out := filepath.Join(t.TempDir(), InfotableFile)
	n, err := Reassemble(dir, out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, strings.TrimSuffix(infotableHeader, "\n"), lines[0])
	assert.Equal(t, 1, strings.Count(string(data), "ACCESSION_NUMBER"))
	assert.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, lines[1:])
}

func TestReassemble_NoChunks(t *testing.T) {
	_, err := Reassemble(t.TempDir(), filepath.Join(t.TempDir(), InfotableFile))
	assert.Error(t, err)
}

func TestSplitThenReassemble(t *testing.T) {
	src := filepath.Join(t.TempDir(), InfotableFile)
	var b strings.Builder
	b.WriteString(infotableHeader)
	for i := 0; i < 7; i++ {
		b.WriteString("row" + string(rune('a'+i)) + "\n")
	}
	writeFile(t, src, b.String())

	chunksDir := t.TempDir()
	paths, err := Split(src, chunksDir, 3)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	// 7 data lines over 3 chunks: 2, 2, remainder 3
	for i, want := range []int{2, 2, 3} {
		data, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		assert.Equal(t, strings.TrimSuffix(infotableHeader, "\n"), lines[0])
		assert.Len(t, lines[1:], want)
	}

	out := filepath.Join(t.TempDir(), InfotableFile)
	n, err := Reassemble(chunksDir, out)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, b.String(), string(got))
}

func TestSplit_InvalidCount(t *testing.T) {
	_, err := Split("whatever", t.TempDir(), 0)
	assert.Error(t, err)
}
