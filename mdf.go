// Package mdf provides a streaming reader and writer for ASAM MDF 4.1
// measurement data files: the binary container format used by automotive and
// industrial data loggers to store time-correlated sensor channels alongside
// their physical-unit conversions.
//
// # Core Features
//
//   - In-memory parsing of the full block graph (HD/DG/CG/CN) with
//     record-id demultiplexing for interleaved channel groups
//   - A record decoder handling every MDF numeric/string/byte-array data
//     type at arbitrary bit offsets, plus the 12-kind conversion engine
//   - A streaming writer that back-patches block links and lengths as it
//     appends, fragmenting large channel groups into DL-chained data blocks
//   - A streaming index (package index) that catalogs a file's groups and
//     channels without holding the whole file in memory, readable from a
//     local file, a byte slice, or an HTTP range endpoint
//
// # Basic Usage
//
// Parsing a file already in memory and reading one channel's values:
//
//	data, _ := os.ReadFile("log.mf4")
//	f, err := mdf.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	idx, err := mdf.BuildIndex(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	g, ch, ok := idx.FindChannelByNameGlobal("EngineSpeed")
//	if !ok {
//	    log.Fatal("channel not found")
//	}
//
//	file, _ := os.Open("log.mf4")
//	defer file.Close()
//	values, err := g.ReadChannelValues(*ch, index.NewFileRangeReader(file))
//
// Writing a file:
//
//	sink := mdfwriter.NewMemorySink()
//	w, _ := mdf.NewWriter(sink)
//	w.InitFile("myprogram")
//	dg, _ := w.AddDataGroup(0)
//	cg, _ := w.AddChannelGroup(dg, "ECU")
//	ch, _ := w.AddChannel(cg, "rpm", format.DataTypeUintLE, 16, nil)
//	w.StartDataBlockForCG(cg)
//	w.WriteRecord(cg, []conversion.Value{conversion.UintValue(1500)})
//	w.Finalize()
//
// # Package Structure
//
// This package is a thin convenience layer over parser, mdfwriter, index
// and mdfutil. For fine-grained control — custom writer options, direct
// RangeReader-based index building, or composing cut/merge pipelines by
// hand — use those packages directly.
package mdf

import (
	"os"

	"github.com/reneherrero/mdf4-rs-sub000/index"
	"github.com/reneherrero/mdf4-rs-sub000/mdfutil"
	"github.com/reneherrero/mdf4-rs-sub000/mdfwriter"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
)

// Parse parses an MDF 4.1 file already held in memory.
func Parse(data []byte) (*parser.File, error) {
	return parser.Parse(data)
}

// Open reads path whole and parses it.
//
// For a file too large to hold in memory, build an index directly from a
// RangeReader instead — see index.FromRangeReader.
func Open(path string) (*parser.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return parser.Parse(data)
}

// BuildIndex builds a streaming index by traversing an already-parsed
// file's in-memory graph.
func BuildIndex(f *parser.File) (*index.Index, error) {
	return index.FromParsed(f)
}

// NewWriter creates a streaming writer over sink with the given options.
func NewWriter(sink mdfwriter.Sink, opts ...mdfwriter.Option) (*mdfwriter.Writer, error) {
	return mdfwriter.New(sink, opts...)
}

// Cut writes a new file to sink containing only src's records whose master
// channel value falls in [startTime, endTime] inclusive. See mdfutil.Cut.
func Cut(src *parser.File, startTime, endTime float64, sink mdfwriter.Sink, programID string) error {
	return mdfutil.Cut(src, startTime, endTime, sink, programID)
}

// Merge appends every data group of every file in files, in order, into one
// new file written to sink. See mdfutil.Merge.
func Merge(files []*parser.File, sink mdfwriter.Sink, programID string) error {
	return mdfutil.Merge(files, sink, programID)
}
