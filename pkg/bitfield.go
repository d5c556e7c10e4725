package km3

import "math"

// Parameters for PMT rate conversions. The rates in summary slices are
// stored as a single byte to save space; values 0-255 expand to Hz with
// RateHz.
const (
	MINIMAL_RATE_HZ = 2.0e3
	MAXIMAL_RATE_HZ = 2.0e6
)

var RATE_FACTOR = math.Log(MAXIMAL_RATE_HZ/MINIMAL_RATE_HZ) / 255

// BitField describes one packed field inside a status word.
type BitField struct {
	Offset int
	Width  int
}

// BitLayout maps field names to their position inside a status word.
// Adding a new flag is a table edit, not new code.
type BitLayout map[string]BitField

// BitDecoder decodes packed status words per a fixed bit layout.
type BitDecoder struct {
	layout BitLayout
}

// NewBitDecoder validates the layout and returns a decoder. Malformed
// entries fail here, not at decode time.
func NewBitDecoder(layout BitLayout) (*BitDecoder, error) {
	for name, field := range layout {
		if field.Offset < 0 || field.Width <= 0 || field.Offset+field.Width > 32 {
			return nil, &ErrBadBitLayout{Field: name, Offset: field.Offset, Width: field.Width}
		}
	}
	return &BitDecoder{layout: layout}, nil
}

// Field extracts the named field from a status word.
func (d *BitDecoder) Field(name string, word uint32) (uint32, error) {
	field, ok := d.layout[name]
	if !ok {
		return 0, &ErrUnknownField{Field: name}
	}
	return DecodeField(word, field.Offset, field.Width), nil
}

// Flag extracts the named field and reports whether it is non-zero.
func (d *BitDecoder) Flag(name string, word uint32) (bool, error) {
	value, err := d.Field(name, word)
	if err != nil {
		return false, err
	}
	return value != 0, nil
}

// FieldSlice extracts the named field from every word of a flat array.
func (d *BitDecoder) FieldSlice(name string, words []uint32) ([]uint32, error) {
	field, ok := d.layout[name]
	if !ok {
		return nil, &ErrUnknownField{Field: name}
	}
	return DecodeFieldSlice(words, field.Offset, field.Width), nil
}

// DecodeField extracts width bits starting at offset:
// (word >> offset) & ((1 << width) - 1). No validation of offset+width
// against the word size; callers supply documented offsets.
func DecodeField(word uint32, offset, width int) uint32 {
	return (word >> uint(offset)) & ((1 << uint(width)) - 1)
}

// DecodeFieldSlice applies DecodeField element-wise over a flat array.
func DecodeFieldSlice(words []uint32, offset, width int) []uint32 {
	out := make([]uint32, len(words))
	for i, w := range words {
		out[i] = DecodeField(w, offset, width)
	}
	return out
}

// DecodeFieldRagged applies DecodeField element-wise over a ragged array.
// The output shares the input's offsets, preserving its nesting.
func DecodeFieldRagged(words Ragged[uint32], offset, width int) Ragged[uint32] {
	return Ragged[uint32]{
		Values:  DecodeFieldSlice(words.Values, offset, width),
		Offsets: words.Offsets,
	}
}

// DecodeSignedField reinterprets a signed word as unsigned before shifting.
// An arithmetic right shift would smear the sign bit over the high fields.
func DecodeSignedField(word int32, offset, width int) uint32 {
	return DecodeField(uint32(word), offset, width)
}

// DecodeSignedFieldSlice applies DecodeSignedField element-wise.
func DecodeSignedFieldSlice(words []int32, offset, width int) []uint32 {
	out := make([]uint32, len(words))
	for i, w := range words {
		out[i] = DecodeField(uint32(w), offset, width)
	}
	return out
}

func CheckBit(word uint32, pos int) bool {
	return (word & (1 << uint(pos))) != 0
}

// RateHz returns the PMT rate in Hz from the single-byte summary value.
func RateHz(value uint8) float64 {
	if value == 0 {
		return 0
	}
	return MINIMAL_RATE_HZ * math.Exp(float64(value)*RATE_FACTOR)
}

// HasUDPTrailer returns the UDP trailer flag (bit 31 of the fifo word).
func HasUDPTrailer(fifo uint32) bool {
	return CheckBit(fifo, UDP_TRAILER_BIT)
}

// NumberOfUDPPackets returns the number of received UDP packets
// (low 15 bits of the dq_status word).
func NumberOfUDPPackets(dqStatus uint32) uint32 {
	return DecodeField(dqStatus, 0, 15)
}

// UDPMaxSequenceNumber returns the maximum sequence number of the received
// UDP packets (high 16 bits of the dq_status word).
func UDPMaxSequenceNumber(dqStatus uint32) uint32 {
	return DecodeField(dqStatus, 16, 16)
}

// ChannelFlags unpacks the 31 per-channel bits of an hrv or fifo word.
// Index c holds the flag for channel c.
func ChannelFlags(word uint32) [N_CHANNELS]bool {
	var flags [N_CHANNELS]bool
	for c := 0; c < N_CHANNELS; c++ {
		flags[c] = CheckBit(word, c)
	}
	return flags
}
