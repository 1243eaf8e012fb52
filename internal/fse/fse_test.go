package fse

import (
	"math/rand"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		src  []uint16
	}{
		{"ramp", makeRamp(64)},
		{"skewed", makeSkewed(500)},
		{"large random", makeRandom(5000, 4095)},
		{"small alphabet", makeRandom(2000, 3)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data, shape, err := CompressU16(c.src, MaxSymbolValue, 0)
			if err != nil {
				t.Fatalf("CompressU16: %v", err)
			}
			switch shape {
			case ShapeRaw:
				t.Skip("chose raw fallback, nothing to decompress")
			case ShapeRLE:
				t.Skip("chose RLE fallback, nothing to decompress")
			}
			dst := make([]uint16, len(c.src))
			if err := DecompressU16(data, dst, MaxSymbolValue); err != nil {
				t.Fatalf("DecompressU16: %v", err)
			}
			for i := range c.src {
				if dst[i] != c.src[i] {
					t.Fatalf("index %d: got %d want %d", i, dst[i], c.src[i])
				}
			}
		})
	}
}

func TestCompressAllEqualChoosesRLE(t *testing.T) {
	src := make([]uint16, 200)
	for i := range src {
		src[i] = 42
	}
	_, shape, err := CompressU16(src, MaxSymbolValue, 0)
	if err != nil {
		t.Fatalf("CompressU16: %v", err)
	}
	if shape != ShapeRLE {
		t.Fatalf("got shape %v want ShapeRLE", shape)
	}
}

func TestCompressTinyInputChoosesRaw(t *testing.T) {
	_, shape, err := CompressU16([]uint16{1}, MaxSymbolValue, 0)
	if err != nil {
		t.Fatalf("CompressU16: %v", err)
	}
	if shape != ShapeRaw {
		t.Fatalf("got shape %v want ShapeRaw", shape)
	}
}

func TestCompressRejectsOutOfRangeSymbol(t *testing.T) {
	_, _, err := CompressU16([]uint16{0, 1, 4096}, 4095, 0)
	if err != ErrMaxSymbolValueTooSmall {
		t.Fatalf("got %v want ErrMaxSymbolValueTooSmall", err)
	}
}

func TestNormalizationLaw(t *testing.T) {
	src := makeSkewed(1000)
	counts, actualMax, _, err := histogram(src, MaxSymbolValue)
	if err != nil {
		t.Fatalf("histogram: %v", err)
	}
	tableLog := optimalTableLog(0, len(src), actualMax)
	norm, err := normalizeCount(counts, tableLog, int64(len(src)), actualMax)
	if err != nil {
		t.Fatalf("normalizeCount: %v", err)
	}
	var sum int32
	for s, c := range counts {
		if c > 0 && norm[s] == 0 {
			t.Fatalf("symbol %d had nonzero count but normalized to 0", s)
		}
		if norm[s] == -1 {
			sum++
		} else if norm[s] > 0 {
			sum += norm[s]
		}
	}
	if want := int32(1) << tableLog; sum != want {
		t.Fatalf("normalized counts sum to %d, want %d", sum, want)
	}
}

func makeRamp(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(i % 4096)
	}
	return out
}

func makeSkewed(n int) []uint16 {
	r := rand.New(rand.NewSource(1))
	out := make([]uint16, n)
	for i := range out {
		if r.Intn(10) == 0 {
			out[i] = uint16(r.Intn(4096))
		} else {
			out[i] = 7
		}
	}
	return out
}

func makeRandom(n, maxV int) []uint16 {
	r := rand.New(rand.NewSource(2))
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(r.Intn(maxV + 1))
	}
	return out
}
