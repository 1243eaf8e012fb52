// Package fse implements Finite State Entropy (tANS) encoding and decoding
// for 16-bit symbol alphabets up to 4096 values, as used to compress the
// residual planes produced by the tile predictor.
package fse

import "errors"

var (
	// ErrMaxSymbolValueTooSmall is returned when a source value exceeds
	// the caller-declared maxSymbolValue.
	ErrMaxSymbolValueTooSmall = errors.New("fse: source contains a symbol above maxSymbolValue")
	// ErrMaxSymbolValueTooLarge is returned when maxSymbolValue exceeds
	// the codec's hard limit of 4095.
	ErrMaxSymbolValueTooLarge = errors.New("fse: maxSymbolValue exceeds 4095")
	// ErrTableLogTooLarge is returned when a requested or decoded
	// tableLog exceeds 15.
	ErrTableLogTooLarge = errors.New("fse: tableLog exceeds 15")
	// ErrTableLogTooSmall is returned when the table has fewer slots
	// than there are distinct nonzero symbols to place.
	ErrTableLogTooSmall = errors.New("fse: tableLog too small for the symbol alphabet")
	// ErrCorruptionDetected is returned when the bit reader runs past
	// the start of the stream or an NCount header is malformed. The
	// decoder does not check the final states or that every bit was
	// consumed.
	ErrCorruptionDetected = errors.New("fse: corruption detected")
	// ErrDstSizeTooSmall is returned when the caller-supplied
	// destination slice has two or fewer slots, too few for the
	// two-state decoder.
	ErrDstSizeTooSmall = errors.New("fse: destination too small")
	// ErrGenericError covers internal invariant violations that should
	// never occur given a correctly built table.
	ErrGenericError = errors.New("fse: internal error")
)
