// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"fmt"
	"io"
)

const (
	// streamBufSize is the size of the read buffer in reader mode.
	streamBufSize = 4096

	// streamMinLookahead is the number of bytes PeekAt must be able to
	// see past the cursor in any backing. Hex escapes need 2, the
	// \*\bin lookahead needs 4.
	streamMinLookahead = 8
)

// Position locates a byte in the source stream. Offset counts from the
// start of the stream; Line and Column are 1-based. A line feed resets
// Column to 1, a bare carriage return advances the line likewise, and
// \r\n counts as a single line advance.
type Position struct {
	Offset int64 `json:"offset"`
	Line   int   `json:"line"`
	Column int   `json:"column"`
}

// String stringifies the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d (offset %d)", p.Line, p.Column, p.Offset)
}

// ByteStream is a position-tracked byte source with bounded lookahead.
// It reads either from an in-memory slice (which covers the zero-copy
// and memory-mapped backings, a mapping being just a byte window) or
// from a pull reader through a compacting buffer.
type ByteStream struct {
	data []byte // memory backing, nil in reader mode

	r          io.Reader // reader backing
	buf        []byte
	bufStart   int // first unconsumed byte in buf
	bufEnd     int // one past the last valid byte in buf
	readerDone bool
	err        error

	off    int64
	line   int
	column int
	lastCR bool
}

// NewMemoryStream returns a stream over a borrowed byte slice. The
// slice must stay alive and unmodified for the lifetime of the stream.
func NewMemoryStream(data []byte) *ByteStream {
	return &ByteStream{
		data:   data,
		line:   1,
		column: 1,
	}
}

// NewReaderStream returns a stream pulling from r. End of stream is
// terminal; read errors are sticky and surface through Err.
func NewReaderStream(r io.Reader) *ByteStream {
	return &ByteStream{
		r:      r,
		buf:    make([]byte, streamBufSize),
		line:   1,
		column: 1,
	}
}

// fill makes at least n bytes available in the reader buffer, unless
// the stream ends or errors first. n must be <= len(buf).
func (s *ByteStream) fill(n int) {
	if s.bufEnd-s.bufStart >= n || s.readerDone {
		return
	}
	if s.bufStart > 0 {
		// Compact so the window always starts at 0.
		copy(s.buf, s.buf[s.bufStart:s.bufEnd])
		s.bufEnd -= s.bufStart
		s.bufStart = 0
	}
	for s.bufEnd-s.bufStart < n {
		m, err := s.r.Read(s.buf[s.bufEnd:])
		s.bufEnd += m
		if err != nil {
			s.readerDone = true
			if err != io.EOF {
				s.err = err
			}
			return
		}
		if m == 0 {
			s.readerDone = true
			return
		}
	}
}

// Peek returns the next byte without consuming it.
func (s *ByteStream) Peek() (byte, bool) {
	return s.PeekAt(0)
}

// PeekAt returns the byte n positions ahead of the cursor without
// consuming anything. n is capped by the internal buffer in reader
// mode; it is valid for at least streamMinLookahead-1.
func (s *ByteStream) PeekAt(n int) (byte, bool) {
	if s.data != nil {
		idx := int(s.off) + n
		if idx >= len(s.data) {
			return 0, false
		}
		return s.data[idx], true
	}
	s.fill(n + 1)
	if s.bufStart+n >= s.bufEnd {
		return 0, false
	}
	return s.buf[s.bufStart+n], true
}

// Consume returns the next byte and advances the cursor.
func (s *ByteStream) Consume() (byte, bool) {
	var b byte
	if s.data != nil {
		if int(s.off) >= len(s.data) {
			return 0, false
		}
		b = s.data[s.off]
	} else {
		s.fill(1)
		if s.bufStart >= s.bufEnd {
			return 0, false
		}
		b = s.buf[s.bufStart]
		s.bufStart++
	}
	s.off++
	s.advance(b)
	return b, true
}

// ConsumeIf advances only when the next byte equals b.
func (s *ByteStream) ConsumeIf(b byte) bool {
	next, ok := s.Peek()
	if !ok || next != b {
		return false
	}
	s.Consume()
	return true
}

// advance updates line/column accounting for the consumed byte.
func (s *ByteStream) advance(b byte) {
	switch b {
	case '\r':
		s.line++
		s.column = 1
		s.lastCR = true
	case '\n':
		if s.lastCR {
			// \r\n is a single line advance, already counted.
			s.lastCR = false
			return
		}
		s.line++
		s.column = 1
	default:
		s.column++
		s.lastCR = false
	}
}

// Position returns the position of the next unconsumed byte.
func (s *ByteStream) Position() Position {
	return Position{Offset: s.off, Line: s.line, Column: s.column}
}

// Err reports a sticky IO error from the reader backing, if any.
func (s *ByteStream) Err() error {
	return s.err
}
