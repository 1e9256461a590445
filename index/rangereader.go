// Package index implements the streaming index: a serializable
// catalog of a file's channel groups, channels, and data-block locations,
// built either from an already-parsed *parser.File or directly from a
// RangeReader without ever holding the whole file in memory.
package index

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// RangeReader is the injectable byte-range read abstraction the streaming
// build path and read_channel_values use.
type RangeReader interface {
	ReadRange(offset, length uint64) ([]byte, error)
	// Size reports the total addressable length, so callers never read past it.
	Size() (uint64, error)
}

// FileRangeReader reads directly from an *os.File with seek+read per call.
type FileRangeReader struct {
	f *os.File
}

// NewFileRangeReader wraps an already-open file.
func NewFileRangeReader(f *os.File) *FileRangeReader { return &FileRangeReader{f: f} }

func (r *FileRangeReader) ReadRange(offset, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := r.f.ReadAt(buf, int64(offset)); err != nil && err != io.EOF {
		return nil, errs.NewIO(err)
	}

	return buf, nil
}

func (r *FileRangeReader) Size() (uint64, error) {
	fi, err := r.f.Stat()
	if err != nil {
		return 0, errs.NewIO(err)
	}

	return uint64(fi.Size()), nil
}

// BufferedFileRangeReader adds a 64 KiB internal cache over a file, coalescing
// adjacent small reads.
type BufferedFileRangeReader struct {
	f          *os.File
	bufSize    int
	cacheOff   uint64
	cacheBuf   []byte
	cacheValid bool
}

// BufferedReaderBufSize is the default cache window.
const BufferedReaderBufSize = 64 * 1024

// NewBufferedFileRangeReader wraps f with a BufferedReaderBufSize cache.
func NewBufferedFileRangeReader(f *os.File) *BufferedFileRangeReader {
	return &BufferedFileRangeReader{f: f, bufSize: BufferedReaderBufSize}
}

func (r *BufferedFileRangeReader) ReadRange(offset, length uint64) ([]byte, error) {
	if length > uint64(r.bufSize) {
		buf := make([]byte, length)
		if _, err := r.f.ReadAt(buf, int64(offset)); err != nil && err != io.EOF {
			return nil, errs.NewIO(err)
		}

		return buf, nil
	}

	if !r.cacheValid || offset < r.cacheOff || offset+length > r.cacheOff+uint64(len(r.cacheBuf)) {
		r.cacheBuf = make([]byte, r.bufSize)
		n, err := r.f.ReadAt(r.cacheBuf, int64(offset))
		if err != nil && err != io.EOF {
			return nil, errs.NewIO(err)
		}
		r.cacheBuf = r.cacheBuf[:n]
		r.cacheOff = offset
		r.cacheValid = true
	}

	start := offset - r.cacheOff
	if start+length > uint64(len(r.cacheBuf)) {
		return nil, errs.NewTooShortBuffer(len(r.cacheBuf), int(start+length), "index.BufferedFileRangeReader.ReadRange")
	}

	out := make([]byte, length)
	copy(out, r.cacheBuf[start:start+length])

	return out, nil
}

func (r *BufferedFileRangeReader) Size() (uint64, error) {
	fi, err := r.f.Stat()
	if err != nil {
		return 0, errs.NewIO(err)
	}

	return uint64(fi.Size()), nil
}

// HTTPRangeReader issues HTTP Range: GET requests against a fixed URL, for
// consuming a remote MDF file without downloading it whole.
type HTTPRangeReader struct {
	client *http.Client
	url    string
	size   uint64
}

// NewHTTPRangeReader probes url with a HEAD request to learn its size.
func NewHTTPRangeReader(client *http.Client, url string) (*HTTPRangeReader, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Head(url)
	if err != nil {
		return nil, errs.NewIO(err)
	}
	defer resp.Body.Close()

	size, err := strconv.ParseUint(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return nil, errs.NewIO(err)
	}

	return &HTTPRangeReader{client: client, url: url, size: size}, nil
}

func (r *HTTPRangeReader) ReadRange(offset, length uint64) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, r.url, nil)
	if err != nil {
		return nil, errs.NewIO(err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errs.NewIO(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, errs.NewIO(fmt.Errorf("index.HTTPRangeReader: unexpected status %d", resp.StatusCode))
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewIO(err)
	}

	return buf, nil
}

func (r *HTTPRangeReader) Size() (uint64, error) { return r.size, nil }
