package vidpak

import (
	"encoding/binary"
	"fmt"

	"github.com/deepteams/vidpak/internal/predictor"
)

// Pack compresses a WxH frame read from src, addressed as
// src[Y*dy+X*dx] for frame coordinates (X, Y), into dst. dx and dy are
// element strides in u16 units, letting a caller pass a non-contiguous
// view (e.g. one channel of an interleaved image). dst must have at
// least ctx.MaxPackedSize() bytes. It returns the number of bytes
// actually written.
func (ctx *Context) Pack(src []uint16, dst []byte, dx, dy int) (int, error) {
	if dx == 0 || dy == 0 {
		return 0, fmt.Errorf("%w: zero stride", ErrInvalidArgument)
	}
	n := ctx.tilesX * ctx.tilesY
	tableLen := 4 * n
	if len(dst) < tableLen {
		return 0, fmt.Errorf("%w: tile-size table", ErrBufferTooSmall)
	}

	// Residuals are masked to BitsPerPixel bits before they ever reach the
	// entropy coder, so an out-of-range source pixel wraps silently
	// instead of surfacing there. It must be caught here, against the raw
	// pixels, or not at all.
	limit := uint16(1 << ctx.BitsPerPixel)
	for y := 0; y < ctx.Height; y++ {
		row := y * dy
		for x := 0; x < ctx.Width; x++ {
			if src[row+x*dx] >= limit {
				return 0, fmt.Errorf("%w: pixel value out of range", ErrInvalidArgument)
			}
		}
	}

	pos := tableLen
	idx := 0
	for ty := 0; ty < ctx.tilesY; ty++ {
		for tx := 0; tx < ctx.tilesX; tx++ {
			origin := ty*ctx.TileHeight*dy + tx*ctx.TileWidth*dx
			if pos+predictor.MaxPayloadLen(ctx.TileWidth, ctx.TileHeight) > len(dst) {
				return 0, fmt.Errorf("%w: tile %d payload", ErrBufferTooSmall, idx)
			}
			payload, err := predictor.EncodeTile(dst[pos:], src, origin, dx, dy, ctx.TileWidth, ctx.TileHeight, ctx.scratch)
			if err != nil {
				return 0, fmt.Errorf("vidpak: encoding tile %d: %w", idx, err)
			}
			binary.LittleEndian.PutUint32(dst[4*idx:], uint32(len(payload)))
			pos += len(payload)
			idx++
		}
	}
	return pos, nil
}

// Unpack reverses Pack: src must be exactly the byte slice Pack
// returned (its length is significant, not just its table contents).
// dst is addressed the same way src was when it was packed.
func (ctx *Context) Unpack(src []byte, dst []uint16, dx, dy int) error {
	if dx == 0 || dy == 0 {
		return fmt.Errorf("%w: zero stride", ErrInvalidArgument)
	}
	n := ctx.tilesX * ctx.tilesY
	tableLen := 4 * n
	if len(src) < tableLen {
		return fmt.Errorf("%w: tile-size table", ErrBufferTooSmall)
	}

	pos := tableLen
	idx := 0
	for ty := 0; ty < ctx.tilesY; ty++ {
		for tx := 0; tx < ctx.tilesX; tx++ {
			size := int(binary.LittleEndian.Uint32(src[4*idx:]))
			if size < 0 || pos+size > len(src) {
				return fmt.Errorf("%w: tile %d declared size", ErrBufferTooSmall, idx)
			}
			origin := ty*ctx.TileHeight*dy + tx*ctx.TileWidth*dx
			if err := predictor.DecodeTile(src[pos:pos+size], dst, origin, dx, dy, ctx.TileWidth, ctx.TileHeight, ctx.scratch); err != nil {
				return fmt.Errorf("vidpak: decoding tile %d: %w: %w", idx, ErrCorruption, err)
			}
			pos += size
			idx++
		}
	}
	return nil
}
