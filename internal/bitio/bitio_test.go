package bitio

import "testing"

func TestWriteReadRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		values []uint32
		widths []uint32
	}{
		{"single small", []uint32{5}, []uint32{3}},
		{"several widths", []uint32{1, 0, 7, 15, 1023}, []uint32{1, 1, 3, 4, 10}},
		{"zero width noop", []uint32{0, 9}, []uint32{0, 4}},
		{"max width", []uint32{0x1FFFFFF}, []uint32{25}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWriter(16)
			for i, v := range c.values {
				w.WriteBits(v, c.widths[i])
				w.Flush()
			}
			buf := w.Close()

			r, err := NewReader(buf)
			if err != nil {
				t.Fatalf("NewReader: %v", err)
			}
			for i := len(c.values) - 1; i >= 0; i-- {
				if c.widths[i] == 0 {
					continue
				}
				got := r.ReadBits(c.widths[i])
				want := c.values[i] & uint32(mask64(c.widths[i]))
				if got != want {
					t.Fatalf("value %d: got %d want %d", i, got, want)
				}
			}
			if err := r.Err(); err != nil {
				t.Fatalf("unexpected reader error: %v", err)
			}
		})
	}
}

func TestLongStreamForcesReload(t *testing.T) {
	w := NewWriter(16)
	values := make([]uint32, 40)
	for i := range values {
		values[i] = uint32(i*7+1) & 0xF
		w.WriteBits(values[i], 4)
		w.Flush()
	}
	buf := w.Close()
	if len(buf) <= 8 {
		t.Fatalf("expected a buffer long enough to force a reload, got %d bytes", len(buf))
	}

	r, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	for i := len(values) - 1; i >= 0; i-- {
		got := r.ReadBits(4)
		if got != values[i] {
			t.Fatalf("value %d: got %d want %d", i, got, values[i])
		}
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected reader error: %v", err)
	}
}

func TestNewReaderRejectsCorruptTail(t *testing.T) {
	if _, err := NewReader(nil); err != ErrCorruption {
		t.Fatalf("empty buffer: got %v want ErrCorruption", err)
	}
	if _, err := NewReader([]byte{0x01, 0x00}); err != ErrCorruption {
		t.Fatalf("zero last byte: got %v want ErrCorruption", err)
	}
}

func TestShortBufferUnderEightBytes(t *testing.T) {
	w := NewWriter(4)
	w.WriteBits(3, 2)
	buf := w.Close()
	if len(buf) >= 8 {
		t.Fatalf("expected short buffer, got %d bytes", len(buf))
	}
	r, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if got := r.ReadBits(2); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
}
