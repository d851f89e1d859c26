package codec

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/booksynth/internal/core/domain"
)

const sampleText = `6 2 7
1 2 3 6 5 4
5 2 2
0 1 2 3 4
4 3 1
3 2 5 0
`

func sampleInstance() *domain.Instance {
	return &domain.Instance{
		NumBooks:     6,
		NumLibraries: 2,
		NumDays:      7,
		BookScores:   []int{1, 2, 3, 6, 5, 4},
		Libraries: []domain.Library{
			{ID: 0, BookIDs: []int{0, 1, 2, 3, 4}, SignupDays: 2, BooksPerDay: 2, TotalBooks: 5},
			{ID: 1, BookIDs: []int{3, 2, 5, 0}, SignupDays: 3, BooksPerDay: 1, TotalBooks: 4},
		},
	}
}

func TestCodec_Write_BitExact(t *testing.T) {
	var buf bytes.Buffer

	err := New().Write(&buf, sampleInstance())

	require.NoError(t, err)
	assert.Equal(t, sampleText, buf.String())
}

func TestCodec_Read(t *testing.T) {
	inst, err := New().Read(strings.NewReader(sampleText))

	require.NoError(t, err)
	assert.Equal(t, sampleInstance(), inst)
}

func TestCodec_Read_SkipsBlankLines(t *testing.T) {
	text := "\n6 2 7\n\n1 2 3 6 5 4\n5 2 2\n\n0 1 2 3 4\n4 3 1\n3 2 5 0\n\n\n"

	inst, err := New().Read(strings.NewReader(text))

	require.NoError(t, err)
	assert.Equal(t, sampleInstance(), inst)
}

func TestCodec_RoundTrip_EmptyLibrary(t *testing.T) {
	inst := &domain.Instance{
		NumBooks:     2,
		NumLibraries: 3,
		NumDays:      1,
		BookScores:   []int{0, 1000},
		Libraries: []domain.Library{
			{ID: 0, BookIDs: []int{1, 0}, SignupDays: 1, BooksPerDay: 1, TotalBooks: 2},
			{ID: 1, BookIDs: []int{}, SignupDays: 1, BooksPerDay: 1, TotalBooks: 0},
			{ID: 2, BookIDs: []int{}, SignupDays: 1, BooksPerDay: 1, TotalBooks: 0},
		},
	}
	c := New()
	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf, inst))
	assert.Equal(t, "2 3 1\n0 1000\n2 1 1\n1 0\n0 1 1\n\n0 1 1\n\n", buf.String())

	got, err := c.Read(&buf)

	require.NoError(t, err)
	assert.Equal(t, inst, got)
}

func TestCodec_Read_EmptyLibraryWithoutIDLine(t *testing.T) {
	text := "2 2 1\n5 5\n0 1 1\n1 1 1\n1\n"

	inst, err := New().Read(strings.NewReader(text))

	require.NoError(t, err)
	require.Len(t, inst.Libraries, 2)
	assert.Empty(t, inst.Libraries[0].BookIDs)
	assert.Equal(t, []int{1}, inst.Libraries[1].BookIDs)
}

func TestCodec_Read_TruncatedLibraries(t *testing.T) {
	text := "3 2 1\n1 2 3\n2 1 1\n0 1\n"

	inst, err := New().Read(strings.NewReader(text))

	require.NoError(t, err)
	assert.Equal(t, 2, inst.NumLibraries)
	assert.Len(t, inst.Libraries, 1)
}

func TestCodec_Read_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"empty input", "", "empty input"},
		{"short header", "1 2\n", "line 1"},
		{"non-integer score", "2 1 1\n3 x\n", "line 2"},
		{"bad library header", "2 1 1\n3 4\n2 1\n0 1\n", "line 3"},
		{"non-integer book id", "2 1 1\n3 4\n2 1 1\n0 b\n", "line 4"},
		{"negative book count", "-1 0 1\n\n", "negative count"},
		{"negative library count", "\n2 -3 1\n1 1\n", "line 2: negative count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Read(strings.NewReader(tt.text))

			assert.ErrorIs(t, err, domain.ErrMalformedInstance)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestCodec_Read_OversizedLibraryCount(t *testing.T) {
	inst, err := New().Read(strings.NewReader("1 999999999999999 1\n5\n"))

	require.NoError(t, err)
	assert.Equal(t, 999999999999999, inst.NumLibraries)
	assert.Equal(t, []int{5}, inst.BookScores)
	assert.Empty(t, inst.Libraries)
}

func TestCodec_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "a.txt")
	c := New()

	require.NoError(t, c.WriteFile(path, sampleInstance()))
	got, err := c.ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, sampleInstance(), got)
}

func TestCodec_ReadFile_Missing(t *testing.T) {
	_, err := New().ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
