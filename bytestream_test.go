// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"bytes"
	"testing"
	"testing/iotest"
)

func TestByteStreamPositionTracking(t *testing.T) {

	tests := []struct {
		in  string
		out []Position
	}{
		{
			"ab",
			[]Position{
				{Offset: 0, Line: 1, Column: 1},
				{Offset: 1, Line: 1, Column: 2},
				{Offset: 2, Line: 1, Column: 3},
			},
		},
		{
			"a\nb",
			[]Position{
				{Offset: 0, Line: 1, Column: 1},
				{Offset: 1, Line: 1, Column: 2},
				{Offset: 2, Line: 2, Column: 1},
				{Offset: 3, Line: 2, Column: 2},
			},
		},
		{
			// \r\n counts as a single line advance; a bare \r
			// advances the line too.
			"a\r\nb\rc",
			[]Position{
				{Offset: 0, Line: 1, Column: 1},
				{Offset: 1, Line: 1, Column: 2},
				{Offset: 2, Line: 2, Column: 1},
				{Offset: 3, Line: 2, Column: 1},
				{Offset: 4, Line: 2, Column: 2},
				{Offset: 5, Line: 3, Column: 1},
				{Offset: 6, Line: 3, Column: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s := NewMemoryStream([]byte(tt.in))
			for i, want := range tt.out {
				got := s.Position()
				if got != want {
					t.Errorf("position %d assertion failed, got %v, want %v",
						i, got, want)
				}
				s.Consume()
			}
		})
	}
}

func TestByteStreamPeekDoesNotAdvance(t *testing.T) {

	for _, mode := range []string{"memory", "reader"} {
		t.Run(mode, func(t *testing.T) {
			data := []byte("hello")
			var s *ByteStream
			if mode == "memory" {
				s = NewMemoryStream(data)
			} else {
				s = NewReaderStream(iotest.OneByteReader(bytes.NewReader(data)))
			}

			for i := 0; i < 4; i++ {
				b, ok := s.PeekAt(i)
				if !ok || b != data[i] {
					t.Fatalf("PeekAt(%d) = %q, %v, want %q", i, b, ok, data[i])
				}
			}
			if got := s.Position(); got.Offset != 0 || got.Column != 1 {
				t.Errorf("peek moved the cursor to %v", got)
			}

			if !s.ConsumeIf('h') {
				t.Error("ConsumeIf('h') failed on matching byte")
			}
			if s.ConsumeIf('x') {
				t.Error("ConsumeIf('x') advanced on non-matching byte")
			}
			b, ok := s.Consume()
			if !ok || b != 'e' {
				t.Errorf("Consume = %q, %v, want 'e'", b, ok)
			}
		})
	}
}

func TestByteStreamDrain(t *testing.T) {

	s := NewReaderStream(bytes.NewReader([]byte("xy")))
	s.Consume()
	s.Consume()
	if _, ok := s.Peek(); ok {
		t.Error("Peek succeeded past end of stream")
	}
	if _, ok := s.Consume(); ok {
		t.Error("Consume succeeded past end of stream")
	}
	if err := s.Err(); err != nil {
		t.Errorf("clean EOF reported error %v", err)
	}
}

func TestByteStreamReaderError(t *testing.T) {

	s := NewReaderStream(iotest.TimeoutReader(bytes.NewReader([]byte("abcdefgh"))))

	// TimeoutReader fails on the second read; drain the first chunk.
	for {
		if _, ok := s.Consume(); !ok {
			break
		}
	}
	if s.Err() == nil {
		t.Error("sticky reader error was not surfaced")
	}
}
