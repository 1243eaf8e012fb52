package fse

import "github.com/deepteams/vidpak/internal/bitio"

// Shape identifies which of the three payload forms CompressU16 chose.
// The predictor package maps these directly onto the tile payload shapes
// disambiguated by length.
type Shape int

const (
	// ShapeRaw means the input did not compress usefully; the caller
	// should store the original values verbatim.
	ShapeRaw Shape = iota
	// ShapeRLE means every value in src was identical; the caller
	// should store that single repeated value.
	ShapeRLE
	// ShapeCompressed means data holds a complete NCount header plus
	// FSE-compressed body.
	ShapeCompressed
)

// initCState seeds an encoder state from a symbol without emitting any
// bits: the symbol's identity is recovered later purely from which state
// value was chosen.
func initCState(ct *cTable, symbol uint16) uint32 {
	tt := ct.symbolTT[symbol]
	nbBitsOut := (tt.deltaNbBits + (1 << 15)) >> 16
	value := (nbBitsOut << 16) - tt.deltaNbBits
	return uint32(ct.stateTable[(value>>nbBitsOut)+tt.deltaFindState])
}

// encodeSymbol writes the bits needed to transition state under symbol,
// and returns the new state.
func encodeSymbol(ct *cTable, w *bitio.Writer, state uint32, symbol uint16) uint32 {
	tt := ct.symbolTT[symbol]
	nbBitsOut := (state + tt.deltaNbBits) >> 16
	w.WriteBits(state, nbBitsOut)
	return uint32(ct.stateTable[(state>>nbBitsOut)+tt.deltaFindState])
}

// errSrcTooShort signals that src is too short for the two-state codec;
// the caller should fall back to an uncompressed representation.
type errSrcTooShort struct{}

func (errSrcTooShort) Error() string { return "fse: source too short to compress" }

// compressSymbols runs the two-interleaved-state tANS encode loop. States
// are seeded from the last two symbols (src[n-1], src[n-2]) at zero bit
// cost; the remaining symbols are processed from the tail backward,
// alternating which state advances by index parity so both state chains
// interleave through the same bitstream. The final state values are
// dumped raw (tableLog bits each) so the decoder can seed its own replay.
func compressSymbols(ct *cTable, w *bitio.Writer, src []uint16) error {
	n := len(src)
	if n <= 2 {
		return errSrcTooShort{}
	}
	var state [2]uint32
	state[0] = initCState(ct, src[n-1])
	state[1] = initCState(ct, src[n-2])

	for idx := n - 3; idx >= 0; idx-- {
		which := idx % 2
		state[which] = encodeSymbol(ct, w, state[which], src[idx])
		w.Flush()
	}

	w.WriteBits(state[1], ct.tableLog)
	w.WriteBits(state[0], ct.tableLog)
	return nil
}

// decompressSymbols is the exact inverse of compressSymbols: it reads the
// two raw seed states, then replays the interior indices in increasing
// order (the reverse of the encoder's decreasing walk, which is exactly
// what the backward bit reader naturally yields), recovering the two
// seed symbols last from each state's terminal value with no further
// bit read.
func decompressSymbols(dt *dTable, r *bitio.Reader, dst []uint16) error {
	n := len(dst)
	if n <= 2 {
		return errSrcTooShort{}
	}
	var state [2]uint32
	state[0] = r.ReadBits(dt.tableLog)
	state[1] = r.ReadBits(dt.tableLog)

	for idx := 0; idx <= n-3; idx++ {
		which := idx % 2
		entry := dt.entries[state[which]]
		dst[idx] = entry.symbol
		state[which] = uint32(entry.newState) + r.ReadBits(uint32(entry.nbBits))
	}

	dst[n-1] = dt.entries[state[0]].symbol
	dst[n-2] = dt.entries[state[1]].symbol

	if r.Err() != nil {
		return ErrCorruptionDetected
	}
	return nil
}

// CompressU16 entropy-codes src (each value must be in [0, maxSymbolValue]
// and maxSymbolValue must be <= MaxSymbolValue). tableLogCap of 0 selects
// the default table size. The returned Shape tells the caller which of
// the three representations to store: ShapeRaw and ShapeRLE return no
// data, since the caller already holds (or can trivially derive) the
// bytes to store for those shapes.
func CompressU16(src []uint16, maxSymbolValue int, tableLogCap uint32) ([]byte, Shape, error) {
	if maxSymbolValue > MaxSymbolValue {
		return nil, ShapeRaw, ErrMaxSymbolValueTooLarge
	}
	n := len(src)
	if n <= 1 {
		return nil, ShapeRaw, nil
	}

	counts, actualMax, maxCount, err := histogram(src, maxSymbolValue)
	if err != nil {
		return nil, ShapeRaw, err
	}
	if int(maxCount) == n {
		return nil, ShapeRLE, nil
	}

	tableLog := optimalTableLog(tableLogCap, n, actualMax)
	norm, err := normalizeCount(counts, tableLog, int64(n), actualMax)
	if err != nil {
		return nil, ShapeRaw, nil
	}
	ct, err := buildCTable(norm, actualMax, tableLog)
	if err != nil {
		return nil, ShapeRaw, nil
	}

	w := bitio.NewWriter(n*2 + 16)
	writeNCount(w, norm, tableLog, actualMax)
	if err := compressSymbols(ct, w, src); err != nil {
		return nil, ShapeRaw, nil
	}
	out := w.Close()

	if len(out) >= (n-1)*2 {
		return nil, ShapeRaw, nil
	}
	return out, ShapeCompressed, nil
}

// DecompressU16 reverses CompressU16's ShapeCompressed output, filling
// dst with exactly len(dst) decoded symbols.
func DecompressU16(src []byte, dst []uint16, maxSymbolValueCap int) error {
	if len(dst) <= 2 {
		return ErrDstSizeTooSmall
	}
	r, err := bitio.NewReader(src)
	if err != nil {
		return err
	}
	norm, tableLog, actualMax, err := readNCount(r, maxSymbolValueCap)
	if err != nil {
		return err
	}
	dt, err := buildDTable(norm, actualMax, tableLog)
	if err != nil {
		return err
	}
	if err := decompressSymbols(dt, r, dst); err != nil {
		return err
	}
	if r.Err() != nil {
		return ErrCorruptionDetected
	}
	return nil
}
