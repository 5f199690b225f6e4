package lexer

import (
	"bufio"
	"io"
	"os"

	"github.com/mpetrov/flatasm/internal/asmerr"
)

// byteSource is the buffered read-ahead layer over the input file. It
// tracks line/column and exposes a single-byte lookahead, matching the
// peek_byte/read_byte contract: reading advances location, with the
// column resetting on '\n'.
type byteSource struct {
	rs     io.ReadSeeker
	closer io.Closer
	buf    *bufio.Reader

	offset int
	line   int
	column int

	havePeek bool
	peeked   byte
	peekErr  error
}

const scratchBufferSize = 4096

// openFile opens path and wraps it in a byteSource. The file handle is
// owned by the returned source and released by Close.
func openFile(path string) (*byteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, asmerr.Newf(asmerr.ReaderError, "cannot open %s: %v", path, err)
	}
	return newByteSource(f, f), nil
}

// newByteSource wraps an already-open seekable reader. closer may be
// nil when the caller owns the underlying resource (e.g. in tests).
func newByteSource(rs io.ReadSeeker, closer io.Closer) *byteSource {
	return &byteSource{
		rs:     rs,
		closer: closer,
		buf:    bufio.NewReaderSize(rs, scratchBufferSize),
		line:   1,
		column: 1,
	}
}

func (s *byteSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// reinit seeks the underlying source to byte zero and clears all
// lookahead and location state, so the tokenizer can be re-run for a
// second pass with no residual state.
func (s *byteSource) reinit() error {
	if _, err := s.rs.Seek(0, io.SeekStart); err != nil {
		return asmerr.Newf(asmerr.ReaderError, "seek to start failed: %v", err)
	}
	s.buf.Reset(s.rs)
	s.offset = 0
	s.line = 1
	s.column = 1
	s.havePeek = false
	s.peeked = 0
	s.peekErr = nil
	return nil
}

func (s *byteSource) location() asmerr.Location {
	return asmerr.Location{Offset: s.offset, Line: s.line, Column: s.column}
}

// peekByte returns the next byte without consuming it. io.EOF is
// returned (via err) once the source is exhausted.
func (s *byteSource) peekByte() (byte, error) {
	if !s.havePeek {
		s.peeked, s.peekErr = s.buf.ReadByte()
		s.havePeek = true
	}
	return s.peeked, s.peekErr
}

// readByte consumes and returns the next byte, advancing location.
func (s *byteSource) readByte() (byte, error) {
	b, err := s.peekByte()
	s.havePeek = false
	if err != nil {
		return 0, err
	}
	s.offset++
	if b == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return b, nil
}
