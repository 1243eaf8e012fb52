package vidpak

import "errors"

// Sentinel errors a caller can match against with errors.Is. Pack and
// Unpack wrap them with fmt.Errorf to add detail; CreateContext returns
// them unwrapped.
var (
	// ErrInvalidArgument covers invalid context dimensions, an
	// unsupported bpp, a tile height not divisible by 4, a tile larger
	// than the frame, or a zero stride.
	ErrInvalidArgument = errors.New("vidpak: invalid argument")
	// ErrBufferTooSmall covers a destination or source buffer too
	// small to hold the tile-size table or a declared tile payload.
	ErrBufferTooSmall = errors.New("vidpak: buffer too small")
	// ErrCorruption covers a malformed tile payload detected while
	// unpacking: an FSE header that doesn't parse, a tile size that
	// doesn't match any of the three payload shapes, or a bitstream
	// that overflows its buffer.
	ErrCorruption = errors.New("vidpak: corrupt input")
)
