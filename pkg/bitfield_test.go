package km3

import (
	"math"
	"testing"
)

func TestDecodeField(t *testing.T) {
	tests := []struct {
		name   string
		word   uint32
		offset int
		width  int
		want   uint32
	}{
		{"low bits", 0x0000_00ab, 0, 8, 0xab},
		{"middle bits", 0x0000_ab00, 8, 8, 0xab},
		{"single bit set", 0x0000_0010, 4, 1, 1},
		{"single bit clear", 0x0000_0010, 5, 1, 0},
		{"full word", 0xdead_beef, 0, 32, 0xdead_beef},
		{"udp packets", 0x0003_0123, 0, 15, 0x0123},
		{"udp max sequence", 0x0003_0123, 16, 16, 0x0003},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeField(tt.word, tt.offset, tt.width)
			if got != tt.want {
				t.Errorf("DecodeField(%#x, %d, %d) = %#x, want %#x",
					tt.word, tt.offset, tt.width, got, tt.want)
			}
		})
	}
}

func TestDecodeFieldSingleBitRange(t *testing.T) {
	words := []uint32{0, 1, 0xffff_ffff, 0x8000_0000, 12345}
	for _, word := range words {
		for offset := 0; offset < 32; offset++ {
			v := DecodeField(word, offset, 1)
			if v != 0 && v != 1 {
				t.Fatalf("single-bit field of %#x at %d is %d", word, offset, v)
			}
		}
	}
}

func TestDecodeSignedField(t *testing.T) {
	// A negative word must not smear its sign bit over the high fields.
	word := int32(-1) // 0xffffffff
	if got := DecodeSignedField(word, 16, 16); got != 0xffff {
		t.Errorf("high field of -1: got %#x, want 0xffff", got)
	}
	if got := DecodeSignedField(int32(-2147483648), 31, 1); got != 1 {
		t.Errorf("sign bit of MinInt32: got %d, want 1", got)
	}
	if got := DecodeSignedField(int32(-2147483648), 0, 31); got != 0 {
		t.Errorf("low bits of MinInt32: got %#x, want 0", got)
	}
}

func TestDecodeFieldRaggedKeepsShape(t *testing.T) {
	words := NewRagged([]uint32{0x10, 0x20, 0x30, 0x40}, []int64{1, 0, 3})
	decoded := DecodeFieldRagged(words, 4, 4)

	if decoded.NumLists() != words.NumLists() {
		t.Fatalf("list count changed: got %d, want %d", decoded.NumLists(), words.NumLists())
	}
	for i := range words.Offsets {
		if decoded.Offsets[i] != words.Offsets[i] {
			t.Errorf("offset %d: got %d, want %d", i, decoded.Offsets[i], words.Offsets[i])
		}
	}
	want := []uint32{1, 2, 3, 4}
	for i, v := range decoded.Values {
		if v != want[i] {
			t.Errorf("value %d: got %d, want %d", i, v, want[i])
		}
	}
}

func TestNewBitDecoderRejectsBadLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout BitLayout
	}{
		{"negative offset", BitLayout{"bad": {Offset: -1, Width: 1}}},
		{"zero width", BitLayout{"bad": {Offset: 0, Width: 0}}},
		{"negative width", BitLayout{"bad": {Offset: 3, Width: -2}}},
		{"past word end", BitLayout{"bad": {Offset: 20, Width: 16}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBitDecoder(tt.layout)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if _, ok := err.(*ErrBadBitLayout); !ok {
				t.Errorf("got %T, want *ErrBadBitLayout", err)
			}
		})
	}
}

func TestBitDecoderField(t *testing.T) {
	decoder, err := NewBitDecoder(DQStatusLayout)
	if err != nil {
		t.Fatalf("NewBitDecoder: %v", err)
	}

	word := uint32(0x0007_4123)
	packets, err := decoder.Field("UDP_PACKETS", word)
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if packets != 0x4123 {
		t.Errorf("UDP_PACKETS: got %#x, want 0x4123", packets)
	}
	seq, err := decoder.Field("UDP_MAX_SEQUENCE", word)
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if seq != 7 {
		t.Errorf("UDP_MAX_SEQUENCE: got %d, want 7", seq)
	}

	if _, err := decoder.Field("NO_SUCH_FIELD", word); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestBitDecoderFlag(t *testing.T) {
	decoder, err := NewBitDecoder(PMTStatusLayout)
	if err != nil {
		t.Fatalf("NewBitDecoder: %v", err)
	}

	word := uint32(0b100101)
	tests := []struct {
		field string
		want  bool
	}{
		{"PMT_DISABLE", true},
		{"HIGH_RATE_VETO_DISABLE", false},
		{"FIFO_FULL_DISABLE", true},
		{"UDP_COUNTER_DISABLE", false},
		{"UDP_TRAILER_DISABLE", false},
		{"OUT_OF_SYNC", true},
	}
	for _, tt := range tests {
		got, err := decoder.Flag(tt.field, word)
		if err != nil {
			t.Fatalf("Flag(%s): %v", tt.field, err)
		}
		if got != tt.want {
			t.Errorf("Flag(%s): got %t, want %t", tt.field, got, tt.want)
		}
	}
}

func TestRateHz(t *testing.T) {
	if RateHz(0) != 0 {
		t.Errorf("RateHz(0): got %f, want 0", RateHz(0))
	}
	if got := RateHz(255); math.Abs(got-MAXIMAL_RATE_HZ) > 1e-6 {
		t.Errorf("RateHz(255): got %f, want %f", got, MAXIMAL_RATE_HZ)
	}
	// Monotonic over the whole byte range.
	prev := RateHz(0)
	for v := 1; v < 256; v++ {
		rate := RateHz(uint8(v))
		if rate <= prev {
			t.Fatalf("RateHz not monotonic at %d: %f <= %f", v, rate, prev)
		}
		prev = rate
	}
}

func TestUDPHelpers(t *testing.T) {
	dq := uint32(0x0042_0019)
	if got := NumberOfUDPPackets(dq); got != 0x19 {
		t.Errorf("NumberOfUDPPackets: got %d, want %d", got, 0x19)
	}
	if got := UDPMaxSequenceNumber(dq); got != 0x42 {
		t.Errorf("UDPMaxSequenceNumber: got %d, want %d", got, 0x42)
	}

	if !HasUDPTrailer(1 << UDP_TRAILER_BIT) {
		t.Error("HasUDPTrailer: trailer bit set, got false")
	}
	if HasUDPTrailer(0x7fff_ffff) {
		t.Error("HasUDPTrailer: trailer bit clear, got true")
	}
}

func TestChannelFlags(t *testing.T) {
	word := uint32(1)<<0 | uint32(1)<<7 | uint32(1)<<30
	flags := ChannelFlags(word)
	for c := 0; c < N_CHANNELS; c++ {
		want := c == 0 || c == 7 || c == 30
		if flags[c] != want {
			t.Errorf("channel %d: got %t, want %t", c, flags[c], want)
		}
	}
}
