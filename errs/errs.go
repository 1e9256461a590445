// Package errs defines the single tagged error taxonomy used across the
// block, conversion, record, parser, mdfwriter and index packages.
//
// Simple, parameter-free conditions are exposed as sentinel errors that callers
// compare with errors.Is. Conditions that need a diagnostic payload (an offending
// address, an actual-vs-expected pair, a source location) are constructed through
// the Kind-specific New* helpers and returned as *Error, which also unwraps to its
// Kind sentinel so errors.Is(err, errs.ErrTooShortBuffer) still works.
package errs

import (
	"errors"
	"fmt"
	"runtime"
)

// CallSite captures "file:line" of its caller's caller, for embedding in
// TooShortBuffer's source_location field.
func CallSite() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf("%s:%d", file, line)
}

// Kind identifies the category of a tagged Error.
type Kind uint8

const (
	KindTooShortBuffer Kind = iota + 1
	KindFileIdentifier
	KindFileVersioning
	KindBlockID
	KindIO
	KindInvalidVersionString
	KindBlockLink
	KindBlockSerialization
	KindConversionChainTooDeep
	KindConversionChainCycle
)

func (k Kind) String() string {
	switch k {
	case KindTooShortBuffer:
		return "TooShortBuffer"
	case KindFileIdentifier:
		return "FileIdentifierError"
	case KindFileVersioning:
		return "FileVersioningError"
	case KindBlockID:
		return "BlockIDError"
	case KindIO:
		return "IOError"
	case KindInvalidVersionString:
		return "InvalidVersionString"
	case KindBlockLink:
		return "BlockLinkError"
	case KindBlockSerialization:
		return "BlockSerializationError"
	case KindConversionChainTooDeep:
		return "ConversionChainTooDeep"
	case KindConversionChainCycle:
		return "ConversionChainCycle"
	default:
		return "Unknown"
	}
}

// sentinel errors, one per Kind, so errors.Is(err, errs.ErrTooShortBuffer) works
// whether err is a bare sentinel or a *Error wrapping the same Kind.
var (
	ErrTooShortBuffer          = errors.New(KindTooShortBuffer.String())
	ErrFileIdentifier          = errors.New(KindFileIdentifier.String())
	ErrFileVersioning          = errors.New(KindFileVersioning.String())
	ErrBlockID                 = errors.New(KindBlockID.String())
	ErrIO                      = errors.New(KindIO.String())
	ErrInvalidVersionString    = errors.New(KindInvalidVersionString.String())
	ErrBlockLink               = errors.New(KindBlockLink.String())
	ErrBlockSerialization      = errors.New(KindBlockSerialization.String())
	ErrConversionChainTooDeep  = errors.New(KindConversionChainTooDeep.String())
	ErrConversionChainCycle    = errors.New(KindConversionChainCycle.String())
)

func sentinelFor(k Kind) error {
	switch k {
	case KindTooShortBuffer:
		return ErrTooShortBuffer
	case KindFileIdentifier:
		return ErrFileIdentifier
	case KindFileVersioning:
		return ErrFileVersioning
	case KindBlockID:
		return ErrBlockID
	case KindIO:
		return ErrIO
	case KindInvalidVersionString:
		return ErrInvalidVersionString
	case KindBlockLink:
		return ErrBlockLink
	case KindBlockSerialization:
		return ErrBlockSerialization
	case KindConversionChainTooDeep:
		return ErrConversionChainTooDeep
	case KindConversionChainCycle:
		return ErrConversionChainCycle
	default:
		return errors.New(k.String())
	}
}

// Error is the single tagged error type carrying an optional diagnostic payload.
type Error struct {
	Kind Kind
	Msg  string

	// Actual/Expected are populated for TooShortBuffer and BlockIDError.
	Actual   any
	Expected any

	// Source is the file:line captured at the construction site of a
	// TooShortBuffer error.
	Source string

	// Address is populated for ConversionChainCycle. BlockLinkError carries
	// its unregistered block id in Actual instead.
	Address uint64

	// MaxDepth is populated for ConversionChainTooDeep.
	MaxDepth int
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}

	return e.Kind.String()
}

// Unwrap lets errors.Is(err, errs.ErrXxx) match against the Kind's sentinel.
func (e *Error) Unwrap() error {
	return sentinelFor(e.Kind)
}

// NewTooShortBuffer builds a TooShortBuffer error. source is typically produced
// by CallSite() at the call boundary where the short buffer was detected.
func NewTooShortBuffer(actual, expected int, source string) error {
	return &Error{
		Kind:     KindTooShortBuffer,
		Msg:      fmt.Sprintf("buffer too short: got %d bytes, need %d", actual, expected),
		Actual:   actual,
		Expected: expected,
		Source:   source,
	}
}

// NewFileIdentifier builds a FileIdentifierError for an unrecognized ID block tag.
func NewFileIdentifier(actual string) error {
	return &Error{Kind: KindFileIdentifier, Msg: fmt.Sprintf("unrecognized file identifier %q", actual), Actual: actual}
}

// NewFileVersioning builds a FileVersioningError for an unsupported format version.
func NewFileVersioning(found string) error {
	return &Error{Kind: KindFileVersioning, Msg: fmt.Sprintf("unsupported format version %q, need >= 4.10", found), Actual: found}
}

// NewBlockID builds a BlockIDError when a parsed header's id does not match the
// kind expected at that link position.
func NewBlockID(actual, expected string) error {
	return &Error{Kind: KindBlockID, Msg: fmt.Sprintf("expected block id %q, got %q", expected, actual), Actual: actual, Expected: expected}
}

// NewIO wraps an underlying I/O failure from a Sink or RangeReader.
func NewIO(cause error) error {
	return &Error{Kind: KindIO, Msg: cause.Error()}
}

// NewInvalidVersionString builds an InvalidVersionString error.
func NewInvalidVersionString(raw string) error {
	return &Error{Kind: KindInvalidVersionString, Msg: fmt.Sprintf("version string %q is not a parsable MM.mm pair", raw), Actual: raw}
}

// NewBlockLink builds a BlockLinkError for an unregistered back-patch target.
func NewBlockLink(id string) error {
	return &Error{Kind: KindBlockLink, Msg: fmt.Sprintf("block id %q was never registered for back-patching", id), Actual: id}
}

// NewBlockSerialization builds a BlockSerializationError for an internal
// invariant violation encountered while writing or decompressing.
func NewBlockSerialization(msg string) error {
	return &Error{Kind: KindBlockSerialization, Msg: msg}
}

// NewConversionChainTooDeep builds a ConversionChainTooDeep error.
func NewConversionChainTooDeep(maxDepth int) error {
	return &Error{Kind: KindConversionChainTooDeep, Msg: fmt.Sprintf("conversion chain exceeded max depth %d", maxDepth), MaxDepth: maxDepth}
}

// NewConversionChainCycle builds a ConversionChainCycle error for a revisited
// conversion block address.
func NewConversionChainCycle(address uint64) error {
	return &Error{Kind: KindConversionChainCycle, Msg: fmt.Sprintf("conversion chain revisits address 0x%x", address), Address: address}
}
