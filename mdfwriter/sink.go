package mdfwriter

import (
	"bufio"
	"io"
	"os"

	"github.com/orcaman/writerseeker"

	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// Sink is the writer's output abstraction.
// A writer never assumes an in-memory or on-disk destination; both are Sinks.
type Sink interface {
	WriteAll(b []byte) error
	Seek(offset int64) (int64, error)
	Position() int64
	Flush() error
}

// MemorySink is the in-memory Sink, built on writerseeker.WriterSeeker rather
// than a bytes.Buffer, which has no Seek and so cannot back-patch.
type MemorySink struct {
	ws  writerseeker.WriterSeeker
	pos int64
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) WriteAll(b []byte) error {
	n, err := s.ws.Write(b)
	s.pos += int64(n)
	if err != nil {
		return errs.NewIO(err)
	}

	return nil
}

func (s *MemorySink) Seek(offset int64) (int64, error) {
	n, err := s.ws.Seek(offset, io.SeekStart)
	if err != nil {
		return 0, errs.NewIO(err)
	}
	s.pos = n

	return n, nil
}

func (s *MemorySink) Position() int64 { return s.pos }

func (s *MemorySink) Flush() error { return nil }

// Bytes returns the sink's accumulated contents.
func (s *MemorySink) Bytes() []byte {
	r := s.ws.BytesReader()
	out := make([]byte, r.Len())
	_, _ = r.ReadAt(out, 0)

	return out
}

// FileSink is the buffered on-disk Sink.
type FileSink struct {
	f   *os.File
	w   *bufio.Writer
	pos int64
}

// NewFileSink opens (creating/truncating) path as a buffered file sink.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.NewIO(err)
	}

	return &FileSink{f: f, w: bufio.NewWriterSize(f, DefaultBufferSize)}, nil
}

func (s *FileSink) WriteAll(b []byte) error {
	n, err := s.w.Write(b)
	s.pos += int64(n)
	if err != nil {
		return errs.NewIO(err)
	}

	return nil
}

func (s *FileSink) Seek(offset int64) (int64, error) {
	if err := s.w.Flush(); err != nil {
		return 0, errs.NewIO(err)
	}

	n, err := s.f.Seek(offset, io.SeekStart)
	if err != nil {
		return 0, errs.NewIO(err)
	}
	s.pos = n

	return n, nil
}

func (s *FileSink) Position() int64 { return s.pos }

func (s *FileSink) Flush() error {
	if err := s.w.Flush(); err != nil {
		return errs.NewIO(err)
	}

	return nil
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}

	return s.f.Close()
}

// Bytes reads the sink's entire file content back from disk, flushing any
// buffered writes first. Used by Writer.Finalize to feed Archive when an
// archive format is configured.
func (s *FileSink) Bytes() ([]byte, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(s.f.Name())
	if err != nil {
		return nil, errs.NewIO(err)
	}

	return out, nil
}
