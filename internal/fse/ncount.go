package fse

import (
	"math/bits"

	"github.com/deepteams/vidpak/internal/bitio"
)

// writeNCount serializes the normalized distribution: 4 bits (tableLog-5),
// 12 bits (maxSymbolValue), then per-symbol entries. Each entry starts
// with a zero-run flag bit; a set flag is followed by a 2-bit run length
// (1..3) of consecutive zero-count symbols. A clear flag is followed by a
// low-probability flag bit, then (if not low-probability) the count
// itself, written in exactly as many bits as the remaining table-slot
// budget requires. This is a self-contained format: nothing outside this
// package's own writer/reader pair ever needs to parse it.
func writeNCount(w *bitio.Writer, norm []int32, tableLog uint32, maxSymbolValue int) {
	w.WriteBits(tableLog-MinTableLog, 4)
	w.WriteBits(uint32(maxSymbolValue), 12)

	remaining := uint32(1) << tableLog
	s := 0
	for s <= maxSymbolValue {
		w.Flush()
		if norm[s] == 0 {
			run := 1
			for run < 3 && s+run <= maxSymbolValue && norm[s+run] == 0 {
				run++
			}
			w.WriteBits(1, 1)
			w.WriteBits(uint32(run-1), 2)
			s += run
			continue
		}
		w.WriteBits(0, 1)
		if norm[s] == -1 {
			w.WriteBits(1, 1)
			remaining--
		} else {
			w.WriteBits(0, 1)
			nbBits := uint32(bits.Len32(remaining))
			w.WriteBits(uint32(norm[s]), nbBits)
			remaining -= uint32(norm[s])
		}
		s++
	}
}

// readNCount is the exact inverse of writeNCount.
func readNCount(r *bitio.Reader, maxSymbolValueCap int) (norm []int32, tableLog uint32, maxSymbolValue int, err error) {
	tableLog = r.ReadBits(4) + MinTableLog
	if tableLog > MaxTableLog {
		return nil, 0, 0, ErrTableLogTooLarge
	}
	maxSymbolValue = int(r.ReadBits(12))
	if maxSymbolValue > maxSymbolValueCap {
		return nil, 0, 0, ErrCorruptionDetected
	}

	norm = make([]int32, maxSymbolValue+1)
	remaining := uint32(1) << tableLog
	s := 0
	for s <= maxSymbolValue {
		if r.ReadBits(1) == 1 {
			run := int(r.ReadBits(2)) + 1
			for i := 0; i < run && s <= maxSymbolValue; i++ {
				norm[s] = 0
				s++
			}
			continue
		}
		if r.ReadBits(1) == 1 {
			if remaining == 0 {
				return nil, 0, 0, ErrCorruptionDetected
			}
			norm[s] = -1
			remaining--
		} else {
			nbBits := uint32(bits.Len32(remaining))
			v := r.ReadBits(nbBits)
			if v > remaining {
				return nil, 0, 0, ErrCorruptionDetected
			}
			norm[s] = int32(v)
			remaining -= v
		}
		s++
	}
	if remaining != 0 {
		return nil, 0, 0, ErrCorruptionDetected
	}
	return norm, tableLog, maxSymbolValue, nil
}
