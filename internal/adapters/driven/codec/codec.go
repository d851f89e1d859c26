package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
)

// Ensure Codec implements the interfaces.
var (
	_ driven.InstanceReader = (*Codec)(nil)
	_ driven.InstanceWriter = (*Codec)(nil)
)

// maxLineBytes bounds a single line; a score line of 1e5 books fits easily.
const maxLineBytes = 64 << 20

// Codec reads and writes the book-scanning instance text format:
//
//	B L D
//	S_0 S_1 ... S_{B-1}
//	N_j T_j M_j        (per library, in id order)
//	id id ... id
type Codec struct{}

// New creates a codec.
func New() *Codec {
	return &Codec{}
}

// ReadFile parses the instance stored at path.
func (c *Codec) ReadFile(path string) (*domain.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.Read(f)
}

// Read parses one instance. Blank lines are skipped, except the id line of
// a library that declares zero books, which may be blank. A library section
// cut short at end of input ends parsing; the instance then holds fewer
// libraries than declared.
func (c *Codec) Read(r io.Reader) (*domain.Instance, error) {
	ls := newLineScanner(r)

	header, err := ls.nextInts(3)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, fmt.Errorf("%w: empty input", domain.ErrMalformedInstance)
	}
	if min(header[0], header[1], header[2]) < 0 {
		return nil, fmt.Errorf("%w: line %d: negative count in header %v",
			domain.ErrMalformedInstance, ls.line, header)
	}
	inst := &domain.Instance{
		NumBooks:     header[0],
		NumLibraries: header[1],
		NumDays:      header[2],
	}

	scores, err := ls.nextInts(-1)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = []int{}
	}
	inst.BookScores = scores

	// Out-of-range counts still parse so the validator can report them.
	inst.Libraries = make([]domain.Library, 0, min(inst.NumLibraries, domain.MaxDimension))
	for id := 0; id < inst.NumLibraries; id++ {
		libHeader, err := ls.nextInts(3)
		if err != nil {
			return nil, err
		}
		if libHeader == nil {
			break
		}

		var books []int
		if libHeader[0] == 0 {
			ls.skipBlank()
			books = []int{}
		} else {
			books, err = ls.nextInts(-1)
			if err != nil {
				return nil, err
			}
			if books == nil {
				break
			}
		}

		inst.Libraries = append(inst.Libraries, domain.Library{
			ID:          id,
			BookIDs:     books,
			SignupDays:  libHeader[1],
			BooksPerDay: libHeader[2],
			TotalBooks:  libHeader[0],
		})
	}

	if err := ls.err(); err != nil {
		return nil, err
	}
	return inst, nil
}

// WriteFile renders inst to path, creating parent directories.
func (c *Codec) WriteFile(path string, inst *domain.Instance) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Write(f, inst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write renders inst. Numbers are separated by single spaces and every line,
// including an empty id list, ends with a newline.
func (c *Codec) Write(w io.Writer, inst *domain.Instance) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)

	buf = appendInts(buf[:0], inst.NumBooks, inst.NumLibraries, inst.NumDays)
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	if err := writeIntLine(bw, inst.BookScores); err != nil {
		return err
	}

	for i := range inst.Libraries {
		lib := &inst.Libraries[i]
		buf = appendInts(buf[:0], lib.TotalBooks, lib.SignupDays, lib.BooksPerDay)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
		if err := writeIntLine(bw, lib.BookIDs); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendInts(buf []byte, values ...int) []byte {
	for i, v := range values {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	return append(buf, '\n')
}

func writeIntLine(bw *bufio.Writer, values []int) error {
	var num [20]byte
	for i, v := range values {
		if i > 0 {
			if err := bw.WriteByte(' '); err != nil {
				return err
			}
		}
		if _, err := bw.Write(strconv.AppendInt(num[:0], int64(v), 10)); err != nil {
			return err
		}
	}
	return bw.WriteByte('\n')
}

// lineScanner yields whitespace-separated integer lines with line numbers.
type lineScanner struct {
	sc      *bufio.Scanner
	line    int
	pending *string
}

func newLineScanner(r io.Reader) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineScanner{sc: sc}
}

func (l *lineScanner) rawNext() (string, bool) {
	if l.pending != nil {
		s := *l.pending
		l.pending = nil
		return s, true
	}
	if !l.sc.Scan() {
		return "", false
	}
	l.line++
	return l.sc.Text(), true
}

// skipBlank consumes the next line if it is blank.
func (l *lineScanner) skipBlank() {
	s, ok := l.rawNext()
	if ok && strings.TrimSpace(s) != "" {
		l.pending = &s
	}
}

// nextInts returns the next non-blank line as integers, or nil at end of
// input. want < 0 accepts any count.
func (l *lineScanner) nextInts(want int) ([]int, error) {
	for {
		s, ok := l.rawNext()
		if !ok {
			return nil, l.err()
		}
		fields := strings.Fields(s)
		if len(fields) == 0 {
			continue
		}
		if want >= 0 && len(fields) != want {
			return nil, fmt.Errorf("%w: line %d: expected %d values, got %d",
				domain.ErrMalformedInstance, l.line, want, len(fields))
		}
		out := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not an integer",
					domain.ErrMalformedInstance, l.line, f)
			}
			out[i] = v
		}
		return out, nil
	}
}

func (l *lineScanner) err() error {
	if err := l.sc.Err(); err != nil {
		return fmt.Errorf("reading instance: %w", err)
	}
	return nil
}
