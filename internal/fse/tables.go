package fse

import "math/bits"

// MaxTableLog and MinTableLog bound the FSE state-table size.
const (
	MaxTableLog     = 15
	MinTableLog     = 5
	DefaultTableLog = 13
	// MaxSymbolValue is the largest symbol this codec can represent,
	// matching the 12-bit residual alphabet (0..4095).
	MaxSymbolValue = 4095
)

// histogram counts occurrences of each value of src in [0, maxSymbolValue].
// It returns the per-symbol counts (trimmed so the returned slice's last
// entry is nonzero), the trimmed maxSymbolValue, and the largest count.
func histogram(src []uint16, maxSymbolValue int) (counts []int32, actualMax int, maxCount int32, err error) {
	counts = make([]int32, maxSymbolValue+1)
	for _, v := range src {
		if int(v) > maxSymbolValue {
			return nil, 0, 0, ErrMaxSymbolValueTooSmall
		}
		counts[v]++
	}
	actualMax = maxSymbolValue
	for actualMax > 0 && counts[actualMax] == 0 {
		actualMax--
	}
	counts = counts[:actualMax+1]
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	return counts, actualMax, maxCount, nil
}

// optimalTableLog picks a tableLog per spec: bounded by the caller's cap (or
// DefaultTableLog if unset), scaled to the source size, clamped to
// [MinTableLog, MaxTableLog].
func optimalTableLog(tableLogCap uint32, srcSize int, maxSymbolValue int) uint32 {
	if tableLogCap == 0 || tableLogCap > MaxTableLog {
		tableLogCap = DefaultTableLog
	}
	// 0.5*log2(srcSize) + 2, computed as (bitLen(srcSize)+4)/2 to avoid
	// floating point.
	srcLog := uint32(bits.Len(uint(srcSize)))
	scaled := (srcLog + 4) / 2
	tableLog := tableLogCap
	if scaled < tableLog {
		tableLog = scaled
	}
	if tableLog < MinTableLog {
		tableLog = MinTableLog
	}
	if tableLog > MaxTableLog {
		tableLog = MaxTableLog
	}
	minForAlphabet := uint32(bits.Len(uint(maxSymbolValue)))
	if minForAlphabet > tableLog {
		tableLog = minForAlphabet
	}
	if tableLog > MaxTableLog {
		tableLog = MaxTableLog
	}
	return tableLog
}

// normalizeCount scales counts so that they sum exactly to 1<<tableLog,
// marking low-probability symbols with -1 (consuming exactly one table
// slot) and distributing the rest proportionally with a running remainder
// to minimize rounding error. The largest remaining symbol absorbs any
// leftover delta so the normalization law holds exactly.
func normalizeCount(counts []int32, tableLog uint32, total int64, maxSymbolValue int) ([]int32, error) {
	tableSize := int64(1) << tableLog
	norm := make([]int32, maxSymbolValue+1)

	lowThreshold := total >> tableLog
	if lowThreshold < 1 {
		lowThreshold = 1
	}

	type distEntry struct {
		sym   int
		count int64
	}
	var toDistribute []distEntry
	var lowProbSlots int64
	distributableTotal := total

	for s, c := range counts {
		if c == 0 {
			continue
		}
		if int64(c) <= lowThreshold {
			norm[s] = -1
			lowProbSlots++
			distributableTotal -= int64(c)
			continue
		}
		toDistribute = append(toDistribute, distEntry{s, int64(c)})
	}

	remainingSlots := tableSize - lowProbSlots
	if remainingSlots < int64(len(toDistribute)) {
		return nil, ErrTableLogTooSmall
	}
	if distributableTotal == 0 {
		if remainingSlots != 0 {
			return nil, ErrGenericError
		}
		return norm, nil
	}

	var rest int64
	var assigned int64
	largestSym := -1
	var largestProba int64 = -1
	for _, e := range toDistribute {
		product := e.count*remainingSlots + rest
		proba := product / distributableTotal
		rest = product % distributableTotal
		if proba < 1 {
			proba = 1
		}
		norm[e.sym] = int32(proba)
		assigned += proba
		if proba > largestProba {
			largestProba = proba
			largestSym = e.sym
		}
	}

	delta := tableSize - lowProbSlots - assigned
	if largestSym < 0 {
		if delta != 0 {
			return nil, ErrGenericError
		}
		return norm, nil
	}
	norm[largestSym] += int32(delta)
	if norm[largestSym] < 1 {
		return nil, ErrTableLogTooSmall
	}
	return norm, nil
}

// symbolTransform holds the per-symbol constants used to drive an
// encoder state's renormalization. Arithmetic on these fields is done in
// uint32 and relies on its defined wraparound, mirroring the reference
// tANS renormalization identity.
type symbolTransform struct {
	deltaNbBits    uint32
	deltaFindState uint32
}

type cTable struct {
	tableLog   uint32
	stateTable []uint16
	symbolTT   []symbolTransform
}

type dEntry struct {
	symbol   uint16
	nbBits   uint8
	newState uint16
}

type dTable struct {
	tableLog uint32
	entries  []dEntry
}

// spreadSymbols assigns each table slot a symbol following the FSE
// stepping order: low-probability symbols (-1) occupy the top of the
// table; the rest are spread using step = (tableSize>>1)+(tableSize>>3)+3,
// skipping over the low-probability region.
func spreadSymbols(norm []int32, maxSymbolValue int, tableLog uint32) ([]uint16, error) {
	tableSize := uint32(1) << tableLog
	tableMask := tableSize - 1
	highThreshold := tableSize - 1

	tableSymbol := make([]uint16, tableSize)
	for s := 0; s <= maxSymbolValue; s++ {
		if norm[s] == -1 {
			tableSymbol[highThreshold] = uint16(s)
			highThreshold--
		}
	}

	step := (tableSize >> 1) + (tableSize >> 3) + 3
	pos := uint32(0)
	for s := 0; s <= maxSymbolValue; s++ {
		c := norm[s]
		if c <= 0 {
			continue
		}
		for i := int32(0); i < c; i++ {
			tableSymbol[pos] = uint16(s)
			pos = (pos + step) & tableMask
			for pos > highThreshold {
				pos = (pos + step) & tableMask
			}
		}
	}
	if pos != 0 {
		return nil, ErrCorruptionDetected
	}
	return tableSymbol, nil
}

func buildCTable(norm []int32, maxSymbolValue int, tableLog uint32) (*cTable, error) {
	tableSize := uint32(1) << tableLog
	tableSymbol, err := spreadSymbols(norm, maxSymbolValue, tableLog)
	if err != nil {
		return nil, err
	}

	cumul := make([]uint32, maxSymbolValue+2)
	for s := 0; s <= maxSymbolValue; s++ {
		c := norm[s]
		if c == -1 {
			c = 1
		}
		if c < 0 {
			c = 0
		}
		cumul[s+1] = cumul[s] + uint32(c)
	}

	stateTable := make([]uint16, tableSize)
	rank := make([]uint32, len(cumul))
	copy(rank, cumul)
	for u := uint32(0); u < tableSize; u++ {
		s := tableSymbol[u]
		stateTable[rank[s]] = uint16(tableSize + u)
		rank[s]++
	}

	symTT := make([]symbolTransform, maxSymbolValue+1)
	var total uint32
	for s := 0; s <= maxSymbolValue; s++ {
		c := norm[s]
		switch {
		case c == 0:
			// unused symbol; transform never referenced.
		case c == -1 || c == 1:
			symTT[s].deltaNbBits = (tableLog << 16) - tableSize
			symTT[s].deltaFindState = total - 1
			total++
		default:
			highBit := uint32(bits.Len32(uint32(c-1))) - 1
			maxBitsOut := tableLog - highBit
			minStatePlus := uint32(c) << maxBitsOut
			symTT[s].deltaNbBits = (maxBitsOut << 16) - minStatePlus
			symTT[s].deltaFindState = total - uint32(c)
			total += uint32(c)
		}
	}

	return &cTable{tableLog: tableLog, stateTable: stateTable, symbolTT: symTT}, nil
}

func buildDTable(norm []int32, maxSymbolValue int, tableLog uint32) (*dTable, error) {
	tableSize := uint32(1) << tableLog
	tableSymbol, err := spreadSymbols(norm, maxSymbolValue, tableLog)
	if err != nil {
		return nil, err
	}

	symbolNext := make([]uint16, maxSymbolValue+1)
	for s := 0; s <= maxSymbolValue; s++ {
		switch c := norm[s]; {
		case c == -1:
			symbolNext[s] = 1
		case c > 0:
			symbolNext[s] = uint16(c)
		}
	}

	entries := make([]dEntry, tableSize)
	for u := uint32(0); u < tableSize; u++ {
		s := tableSymbol[u]
		nextState := symbolNext[s]
		symbolNext[s]++
		highBit := uint32(bits.Len16(nextState)) - 1
		nbBits := tableLog - highBit
		newState := (uint32(nextState) << nbBits) - tableSize
		entries[u] = dEntry{symbol: s, nbBits: uint8(nbBits), newState: uint16(newState)}
	}

	return &dTable{tableLog: tableLog, entries: entries}, nil
}
