package predictor

import (
	"math/rand"
	"testing"
)

// buildFrame returns a contiguous tw x th frame (dx=1, dy=tw) filled by f.
func buildFrame(tw, th int, f func(x, y int) uint16) []uint16 {
	buf := make([]uint16, tw*th)
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			buf[y*tw+x] = f(x, y)
		}
	}
	return buf
}

func roundTrip(t *testing.T, tw, th int, src []uint16) {
	t.Helper()
	scratch := make([]uint16, ScratchLen(tw, th))
	dst := make([]byte, MaxPayloadLen(tw, th))
	payload, err := EncodeTile(dst, src, 0, 1, tw, tw, th, scratch)
	if err != nil {
		t.Fatalf("EncodeTile: %v", err)
	}

	out := make([]uint16, tw*th)
	scratch2 := make([]uint16, ScratchLen(tw, th))
	if err := DecodeTile(payload, out, 0, 1, tw, tw, th, scratch2); err != nil {
		t.Fatalf("DecodeTile: %v", err)
	}
	for i := range src {
		if out[i] != src[i] {
			t.Fatalf("pixel %d: got %d want %d (payload len %d)", i, out[i], src[i], len(payload))
		}
	}
}

func TestAllZerosIsRLE(t *testing.T) {
	src := buildFrame(4, 4, func(x, y int) uint16 { return 0 })
	scratch := make([]uint16, ScratchLen(4, 4))
	dst := make([]byte, MaxPayloadLen(4, 4))
	payload, err := EncodeTile(dst, src, 0, 1, 4, 4, 4, scratch)
	if err != nil {
		t.Fatalf("EncodeTile: %v", err)
	}
	if len(payload) != 10 {
		t.Fatalf("got payload length %d want 10", len(payload))
	}
	roundTrip(t, 4, 4, src)
}

func TestRampCompressesAndRoundTrips(t *testing.T) {
	src := buildFrame(8, 8, func(x, y int) uint16 { return uint16((x + y*8) % 16 * 16) })
	roundTrip(t, 8, 8, src)
}

func TestAscendingSequenceRoundTrips(t *testing.T) {
	src := buildFrame(4, 4, func(x, y int) uint16 { return uint16(y*4 + x) })
	scratch := make([]uint16, ScratchLen(4, 4))
	dst := make([]byte, MaxPayloadLen(4, 4))
	payload, err := EncodeTile(dst, src, 0, 1, 4, 4, 4, scratch)
	if err != nil {
		t.Fatalf("EncodeTile: %v", err)
	}
	if len(payload) <= 10 || len(payload) >= 32 {
		t.Fatalf("got payload length %d, want in (10, 32)", len(payload))
	}
	roundTrip(t, 4, 4, src)
}

func TestUniformRandomRoundTrips(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	src := buildFrame(8, 8, func(x, y int) uint16 { return uint16(r.Intn(4096)) })
	scratch := make([]uint16, ScratchLen(8, 8))
	dst := make([]byte, MaxPayloadLen(8, 8))
	payload, err := EncodeTile(dst, src, 0, 1, 8, 8, 8, scratch)
	if err != nil {
		t.Fatalf("EncodeTile: %v", err)
	}
	if len(payload) > 2*8*8 {
		t.Fatalf("payload length %d exceeds the raw fallback bound %d", len(payload), 2*8*8)
	}
	roundTrip(t, 8, 8, src)
}

func TestSmallestLegalTile(t *testing.T) {
	src := buildFrame(1, 4, func(x, y int) uint16 { return uint16(y) })
	roundTrip(t, 1, 4, src)
}

func TestStridedView(t *testing.T) {
	// Two interleaved 4x4 tiles packed column-major within a shared
	// buffer (dx=2) to exercise non-unit strides.
	tw, th := 4, 4
	buf := make([]uint16, tw*th*2)
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			buf[(y*tw+x)*2] = uint16((x + y*3) & 0xFFF)
			buf[(y*tw+x)*2+1] = 999 // untouched neighbor channel
		}
	}
	scratch := make([]uint16, ScratchLen(tw, th))
	dst := make([]byte, MaxPayloadLen(tw, th))
	payload, err := EncodeTile(dst, buf, 0, 2, tw*2, tw, th, scratch)
	if err != nil {
		t.Fatalf("EncodeTile: %v", err)
	}
	out := make([]uint16, len(buf))
	copy(out, buf)
	scratch2 := make([]uint16, ScratchLen(tw, th))
	if err := DecodeTile(payload, out, 0, 2, tw*2, tw, th, scratch2); err != nil {
		t.Fatalf("DecodeTile: %v", err)
	}
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			i := (y*tw + x) * 2
			if out[i] != buf[i] {
				t.Fatalf("pixel (%d,%d): got %d want %d", x, y, out[i], buf[i])
			}
			if out[i+1] != 999 {
				t.Fatalf("neighbor channel at (%d,%d) was overwritten", x, y)
			}
		}
	}
}
