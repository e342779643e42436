// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package rtf

import (
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/saferwall/rtf/log"
)

// DefaultMmapThreshold is the file size above which New memory-maps
// the input instead of reading it into memory.
const DefaultMmapThreshold = 1 << 20

// Options for parsing.
type Options struct {

	// Recovery policy for malformed input, by default (tolerant).
	Recovery RecoveryMode

	// Maximum group nesting depth, by default (DefaultMaxDepth).
	MaxDepth int

	// File size threshold for memory mapping in New, by default
	// (DefaultMmapThreshold).
	MmapThreshold int64

	// Discard \bin payloads instead of keeping them, by default
	// (false).
	DisableBinaryCapture bool

	// A custom logger.
	Logger log.Logger
}

// normalized fills in the zero-value defaults.
func (o *Options) normalized() *Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.MaxDepth == 0 {
		out.MaxDepth = DefaultMaxDepth
	}
	if out.MmapThreshold == 0 {
		out.MmapThreshold = DefaultMmapThreshold
	}
	return &out
}

// helper wires the configured logger, defaulting to a stdout logger
// filtered to errors.
func (o *Options) helper() *log.Helper {
	if o != nil && o.Logger != nil {
		return log.NewHelper(o.Logger)
	}
	return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout),
		log.FilterLevel(log.LevelError)))
}

// A File represents an RTF parse session. It owns the input backing
// (borrowed bytes, reader, or memory-mapped file) until Close.
type File struct {
	data   mmap.MMap
	buf    []byte
	r      io.Reader
	f      *os.File
	doc    *Document
	opts   *Options
	logger *log.Helper
}

// New instantiates a parse session for a file path. Files larger than
// Options.MmapThreshold bytes are memory-mapped; the others are read
// into memory and the descriptor closed immediately.
func New(name string, opts *Options) (*File, error) {
	opts = opts.normalized()

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	file := File{opts: opts, logger: opts.helper()}
	if fi.Size() > opts.MmapThreshold {
		data, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			f.Close()
			return nil, err
		}
		file.data = data
		file.f = f
		return &file, nil
	}

	buf, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	file.buf = buf
	return &file, nil
}

// NewBytes instantiates a parse session over a borrowed byte slice.
// The slice must stay alive and unmodified until Parse returns.
func NewBytes(data []byte, opts *Options) (*File, error) {
	opts = opts.normalized()
	return &File{buf: data, opts: opts, logger: opts.helper()}, nil
}

// NewReader instantiates a streaming parse session over r.
func NewReader(r io.Reader, opts *Options) (*File, error) {
	opts = opts.normalized()
	return &File{r: r, opts: opts, logger: opts.helper()}, nil
}

// Close releases the input backing. Idempotent.
func (f *File) Close() error {
	if f.data != nil {
		_ = f.data.Unmap()
		f.data = nil
	}
	if f.f != nil {
		err := f.f.Close()
		f.f = nil
		return err
	}
	return nil
}

// Parse runs the parser over the input and builds the document. All
// payloads are interned into the document arena, so the input backing
// may be released right after Parse returns.
func (f *File) Parse() error {
	var bs *ByteStream
	switch {
	case f.r != nil:
		bs = NewReaderStream(f.r)
	case f.data != nil:
		if len(f.data) == 0 {
			return ErrEmptyInput
		}
		bs = NewMemoryStream(f.data)
	default:
		if len(f.buf) == 0 {
			return ErrEmptyInput
		}
		bs = NewMemoryStream(f.buf)
	}

	builder := NewDocumentBuilder()
	parser := NewParser(bs, builder.Handler(), f.opts)
	if err := parser.Run(); err != nil {
		return err
	}
	for _, perr := range parser.Errors() {
		f.logger.Debugf("recovered parse error: %v", perr)
	}
	f.doc = builder.Detach()
	return nil
}

// Document returns the parsed document. The File keeps no ownership;
// the document stays valid after Close.
func (f *File) Document() *Document {
	return f.doc
}

// ParseBytes parses an in-memory RTF document.
func ParseBytes(data []byte, opts *Options) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	f, err := NewBytes(data, opts)
	if err != nil {
		return nil, err
	}
	if err := f.Parse(); err != nil {
		return nil, err
	}
	return f.Document(), nil
}

// ParseReader parses an RTF document from a pull reader.
func ParseReader(r io.Reader, opts *Options) (*Document, error) {
	f, err := NewReader(r, opts)
	if err != nil {
		return nil, err
	}
	if err := f.Parse(); err != nil {
		return nil, err
	}
	return f.Document(), nil
}

// ParseFile parses an RTF file from disk.
func ParseFile(name string, opts *Options) (*Document, error) {
	f, err := New(name, opts)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := f.Parse(); err != nil {
		return nil, err
	}
	return f.Document(), nil
}
