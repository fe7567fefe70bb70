package wire_test

import (
	"testing"

	"github.com/m-lab/weechat-relay/codecerr"
	"github.com/m-lab/weechat-relay/wire"
)

func TestReaderScalarRoundTrip(t *testing.T) {
	w := wire.NewWriter(nil)
	w.Int8(-7)
	w.Int32(123456789)
	w.Pointer(0x1a2b3c)
	w.Time(1700000000)
	w.Long(-42)
	w.TypeTag("ptr")
	buf := make([]byte, w.Len())
	w2 := wire.NewWriter(buf)
	w2.Int8(-7)
	w2.Int32(123456789)
	w2.Pointer(0x1a2b3c)
	w2.Time(1700000000)
	w2.Long(-42)
	w2.TypeTag("ptr")

	r := wire.NewReader(buf)
	if v, err := r.Int8(); err != nil || v != -7 {
		t.Fatalf("Int8 = %v, %v, want -7, nil", v, err)
	}
	if v, err := r.Int32(); err != nil || v != 123456789 {
		t.Fatalf("Int32 = %v, %v, want 123456789, nil", v, err)
	}
	if v, err := r.Pointer(); err != nil || v != 0x1a2b3c {
		t.Fatalf("Pointer = %v, %v, want 0x1a2b3c, nil", v, err)
	}
	if v, err := r.Time(); err != nil || v != 1700000000 {
		t.Fatalf("Time = %v, %v, want 1700000000, nil", v, err)
	}
	if v, err := r.Long(); err != nil || v != -42 {
		t.Fatalf("Long = %v, %v, want -42, nil", v, err)
	}
	if v, err := r.TypeTag(); err != nil || v != "ptr" {
		t.Fatalf("TypeTag = %q, %v, want \"ptr\", nil", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestStringNullEmptyDistinction(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"null", nil, false},
		{"empty", []byte{}, true},
		{"nonempty", []byte("hello"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := wire.NewWriter(nil)
			w.String(c.data, c.ok)
			buf := make([]byte, w.Len())
			wire.NewWriter(buf).String(c.data, c.ok)

			r := wire.NewReader(buf)
			data, ok, err := r.String()
			if err != nil {
				t.Fatalf("String() error: %v", err)
			}
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && string(data) != string(c.data) {
				t.Fatalf("data = %q, want %q", data, c.data)
			}
		})
	}
}

func TestPointerZero(t *testing.T) {
	w := wire.NewWriter(nil)
	w.Pointer(0)
	buf := make([]byte, w.Len())
	wire.NewWriter(buf).Pointer(0)
	if string(buf) != "\x010" {
		t.Fatalf("encoded zero pointer = %q, want %q", buf, "\x010")
	}
	r := wire.NewReader(buf)
	v, err := r.Pointer()
	if err != nil || v != 0 {
		t.Fatalf("Pointer() = %v, %v, want 0, nil", v, err)
	}
}

func TestPointerZeroLengthIsMalformed(t *testing.T) {
	r := wire.NewReader([]byte{0})
	_, err := r.Pointer()
	ce, ok := err.(*codecerr.Error)
	if !ok || ce.Kind != codecerr.MalformedPointer {
		t.Fatalf("err = %v, want *codecerr.Error{Kind: MalformedPointer}", err)
	}
}

func TestTruncatedRead(t *testing.T) {
	r := wire.NewReader([]byte{0, 0, 0})
	_, err := r.Int32()
	ce, ok := err.(*codecerr.Error)
	if !ok || ce.Kind != codecerr.Truncated {
		t.Fatalf("err = %v, want *codecerr.Error{Kind: Truncated}", err)
	}
}

func TestWriterVirtualCursorNeverOverrunsAndReportsExactLength(t *testing.T) {
	const word = -0x21524111 // 0xdeadbeef as a two's-complement int32
	full := wire.NewWriter(nil)
	full.Int32(word)
	full.RawString("hello")
	want := full.Len()

	for cap := 0; cap <= want+2; cap++ {
		dst := make([]byte, cap)
		sentinel := byte(0xAB)
		for i := range dst {
			dst[i] = sentinel
		}
		w := wire.NewWriter(dst)
		w.Int32(word)
		w.RawString("hello")
		if w.Len() != want {
			t.Fatalf("cap=%d: Len() = %d, want %d", cap, w.Len(), want)
		}
		if w.Len() > cap && !w.Truncated() {
			t.Fatalf("cap=%d: Truncated() = false, want true", cap)
		}
	}
}
