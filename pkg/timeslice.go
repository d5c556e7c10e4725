package km3

import (
	"bytes"
	"encoding/binary"
	"unsafe"
)

// FrameHeader is the packed header of one timeslice superframe,
// little endian on disk.
type FrameHeader struct {
	DetectorID   int32
	RunNumber    int32
	FrameIndex   int32
	UTCSeconds   uint32
	UTCTicks     uint32 // 16 ns ticks
	DOMID        int32
	DOMStatus    uint32
	NumberOfHits int32
}

// FrameHit is one packed raw hit inside a timeslice frame:
// PMT channel, TDC time and time over threshold, 6 bytes on disk.
type FrameHit struct {
	PMT uint8
	TDC uint32
	ToT uint8
}

const FRAME_HIT_SIZE = 6

// ReadTimesliceFrame decodes one frame buffer: a packed header followed by
// NumberOfHits packed hits.
func ReadTimesliceFrame(data []byte) (FrameHeader, []FrameHit, error) {
	var header FrameHeader
	headerSize := int(unsafe.Sizeof(header))
	if len(data) < headerSize {
		return header, nil, &ErrTruncatedFrame{Size: len(data), Need: headerSize}
	}

	headerReader := bytes.NewReader(data[:headerSize])
	if err := binary.Read(headerReader, binary.LittleEndian, &header); err != nil {
		return header, nil, err
	}

	hits, err := ReadFrameHits(data[headerSize:], int(header.NumberOfHits))
	if err != nil {
		return header, nil, err
	}
	return header, hits, nil
}

// ReadFrameHits decodes n packed 6-byte hits from a frame payload. A
// negative count comes from a corrupt header and is rejected before any
// allocation.
func ReadFrameHits(data []byte, n int) ([]FrameHit, error) {
	if n < 0 {
		return nil, &ErrBadHitCount{Count: n}
	}
	need := n * FRAME_HIT_SIZE
	if len(data) < need {
		return nil, &ErrTruncatedFrame{Size: len(data), Need: need}
	}

	hits := make([]FrameHit, n)
	position := 0
	for i := 0; i < n; i++ {
		hits[i].PMT = data[position]
		hits[i].TDC = binary.LittleEndian.Uint32(data[position+1 : position+5])
		hits[i].ToT = data[position+5]
		position += FRAME_HIT_SIZE
	}
	return hits, nil
}
