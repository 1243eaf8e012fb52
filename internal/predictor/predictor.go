// Package predictor implements the per-tile lossless predictive coder:
// four-slice lockstep neighbor prediction, residual computation, and the
// raw/RLE/FSE payload shape selection and reconstruction.
package predictor

import (
	"encoding/binary"

	"github.com/deepteams/vidpak/internal/fse"
)

const mask12 = 0xFFF

// ScratchLen returns the scratch buffer length EncodeTile/DecodeTile need
// for a tw x th tile.
func ScratchLen(tw, th int) int { return tw * th }

// MaxPayloadLen returns the largest payload EncodeTile can produce for a
// tw x th tile (the raw fallback shape).
func MaxPayloadLen(tw, th int) int { return 2 * tw * th }

// EncodeTile predicts and entropy-codes one tw x th tile read from src, a
// frame buffer addressed as src[origin + y*dy + x*dx] for tile-local
// coordinates (x, y). th must be a multiple of 4. scratch must have
// length tw*th and dst must have at least MaxPayloadLen(tw, th) bytes;
// EncodeTile returns the prefix of dst it actually wrote.
func EncodeTile(dst []byte, src []uint16, origin, dx, dy, tw, th int, scratch []uint16) ([]byte, error) {
	sh := th / 4
	var rowStart [4]int
	for k := 0; k < 4; k++ {
		rowStart[k] = origin + k*sh*dy
	}

	for k := 0; k < 4; k++ {
		scratch[k] = src[rowStart[k]]
	}

	o := 4
	for x := 1; x < tw; x++ {
		for k := 0; k < 4; k++ {
			p := rowStart[k] + x*dx
			scratch[o] = (src[p] - src[p-dx]) & mask12
			o++
		}
	}
	for y := 1; y < sh; y++ {
		for k := 0; k < 4; k++ {
			p := rowStart[k] + y*dy
			scratch[o] = (src[p] - src[p-dy]) & mask12
			o++
		}
		for x := 1; x < tw; x++ {
			for k := 0; k < 4; k++ {
				p := rowStart[k] + y*dy + x*dx
				pred := (uint32(src[p-dx]) + uint32(src[p-dy])) >> 1
				scratch[o] = uint16((uint32(src[p]) - pred) & mask12)
				o++
			}
		}
	}

	residuals := scratch[4 : tw*th]
	body, shape, err := fse.CompressU16(residuals, fse.MaxSymbolValue, 0)
	if err != nil {
		return nil, err
	}

	switch shape {
	case fse.ShapeRaw:
		out := dst[:2*tw*th]
		idx := 0
		for y := 0; y < th; y++ {
			for x := 0; x < tw; x++ {
				p := origin + y*dy + x*dx
				binary.LittleEndian.PutUint16(out[idx:], src[p])
				idx += 2
			}
		}
		return out, nil
	case fse.ShapeRLE:
		out := dst[:10]
		for k := 0; k < 4; k++ {
			binary.LittleEndian.PutUint16(out[2*k:], scratch[k])
		}
		var v uint16
		if len(residuals) > 0 {
			v = residuals[0]
		}
		binary.LittleEndian.PutUint16(out[8:], v)
		return out, nil
	default: // ShapeCompressed
		out := dst[:8+len(body)]
		for k := 0; k < 4; k++ {
			binary.LittleEndian.PutUint16(out[2*k:], scratch[k])
		}
		copy(out[8:], body)
		return out, nil
	}
}

// DecodeTile reverses EncodeTile, writing the reconstructed tile into dst
// at the same strided addressing EncodeTile read from. scratch must have
// length tw*th.
func DecodeTile(src []byte, dst []uint16, origin, dx, dy, tw, th int, scratch []uint16) error {
	switch {
	case len(src) == 2*tw*th:
		idx := 0
		for y := 0; y < th; y++ {
			for x := 0; x < tw; x++ {
				p := origin + y*dy + x*dx
				dst[p] = binary.LittleEndian.Uint16(src[idx:])
				idx += 2
			}
		}
		return nil
	case len(src) == 10:
		for k := 0; k < 4; k++ {
			scratch[k] = binary.LittleEndian.Uint16(src[2*k:])
		}
		v := binary.LittleEndian.Uint16(src[8:])
		for i := 4; i < tw*th; i++ {
			scratch[i] = v
		}
	default:
		if len(src) <= 8 {
			return fse.ErrCorruptionDetected
		}
		for k := 0; k < 4; k++ {
			scratch[k] = binary.LittleEndian.Uint16(src[2*k:])
		}
		residuals := scratch[4 : tw*th]
		if err := fse.DecompressU16(src[8:], residuals, fse.MaxSymbolValue); err != nil {
			return err
		}
	}

	sh := th / 4
	var rowStart [4]int
	var left [4]uint16
	for k := 0; k < 4; k++ {
		rowStart[k] = origin + k*sh*dy
		dst[rowStart[k]] = scratch[k]
		left[k] = scratch[k]
	}

	o := 4
	for x := 1; x < tw; x++ {
		for k := 0; k < 4; k++ {
			p := rowStart[k] + x*dx
			v := (left[k] + scratch[o]) & mask12
			dst[p] = v
			left[k] = v
			o++
		}
	}
	for y := 1; y < sh; y++ {
		for k := 0; k < 4; k++ {
			p := rowStart[k] + y*dy
			top := dst[p-dy]
			v := (top + scratch[o]) & mask12
			dst[p] = v
			left[k] = v
			o++
		}
		for x := 1; x < tw; x++ {
			for k := 0; k < 4; k++ {
				p := rowStart[k] + y*dy + x*dx
				top := uint32(dst[p-dy])
				pred := (uint32(left[k]) + top) >> 1
				v := uint16((pred + uint32(scratch[o])) & mask12)
				dst[p] = v
				left[k] = v
				o++
			}
		}
	}
	return nil
}
