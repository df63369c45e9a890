// Package filebuffer buffers parsed source text and indexes line offsets,
// so that a line/column position can be turned back into a byte offset (and
// the original line re-extracted) when rendering a ParseError.
package filebuffer

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/alecthomas/participle/v2/lexer"
)

// Sources is a concurrency-safe lookup of FileBuffers by filename.
type Sources struct {
	fbs map[string]*FileBuffer
	mu  sync.Mutex
}

func NewSources() *Sources {
	return &Sources{fbs: make(map[string]*FileBuffer)}
}

func (s *Sources) Get(filename string) *FileBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fbs[filename]
}

func (s *Sources) Set(filename string, fb *FileBuffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fbs[filename] = fb
}

func (s *Sources) All() []*FileBuffer {
	var names []string
	for name := range s.fbs {
		names = append(names, name)
	}
	sort.Strings(names)
	fbs := make([]*FileBuffer, 0, len(names))
	for _, name := range names {
		fbs = append(fbs, s.Get(name))
	}
	return fbs
}

// FileBuffer accumulates the bytes written to it (typically via io.TeeReader
// during parsing) and indexes the offset of every newline so line/column
// positions can be resolved without re-scanning the whole buffer.
type FileBuffer struct {
	filename string
	buf      bytes.Buffer
	offset   int
	offsets  []int
	mu       sync.Mutex
}

func New(filename string) *FileBuffer {
	return &FileBuffer{filename: filename}
}

func (fb *FileBuffer) Filename() string { return fb.filename }

func (fb *FileBuffer) Len() int { return len(fb.offsets) }

func (fb *FileBuffer) Bytes() []byte { return fb.buf.Bytes() }

func (fb *FileBuffer) Write(p []byte) (n int, err error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	n, err = fb.buf.Write(p)

	start := 0
	index := bytes.IndexByte(p[:n], byte('\n'))
	for index >= 0 {
		fb.offsets = append(fb.offsets, fb.offset+start+index)
		start += index + 1
		index = bytes.IndexByte(p[start:n], byte('\n'))
	}
	fb.offset += n

	return n, err
}

// Position turns a 1-based line/column pair into a full lexer.Position with
// a resolved byte Offset.
func (fb *FileBuffer) Position(line, column int) lexer.Position {
	var offset int
	if line-2 < 0 {
		offset = column - 1
	} else {
		offset = fb.offsets[line-2] + column - 1
	}
	return lexer.Position{
		Filename: fb.filename,
		Offset:   offset,
		Line:     line,
		Column:   column,
	}
}

// Line returns the raw bytes of the 0-based line ln, without its newline.
func (fb *FileBuffer) Line(ln int) ([]byte, error) {
	if ln < 0 || ln > len(fb.offsets) {
		return nil, fmt.Errorf("line %d outside of offsets", ln)
	}

	start := 0
	if ln > 0 {
		start = fb.offsets[ln-1] + 1
	}

	end := fb.buf.Len()
	if ln < len(fb.offsets) {
		end = fb.offsets[ln]
	}

	return fb.read(start, end)
}

func (fb *FileBuffer) read(start, end int) ([]byte, error) {
	r := bytes.NewReader(fb.buf.Bytes())

	if _, err := r.Seek(int64(start), io.SeekStart); err != nil {
		return nil, err
	}

	line := make([]byte, end-start)
	n, err := r.Read(line)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return line[:n], nil
}
