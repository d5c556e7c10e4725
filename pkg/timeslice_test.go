package km3

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func frameBytes(t *testing.T, header FrameHeader, hits []FrameHit) []byte {
	t.Helper()
	buffer := new(bytes.Buffer)
	if err := binary.Write(buffer, binary.LittleEndian, header); err != nil {
		t.Fatalf("packing header: %v", err)
	}
	for _, hit := range hits {
		buffer.WriteByte(hit.PMT)
		var tdc [4]byte
		binary.LittleEndian.PutUint32(tdc[:], hit.TDC)
		buffer.Write(tdc[:])
		buffer.WriteByte(hit.ToT)
	}
	return buffer.Bytes()
}

func TestReadTimesliceFrame(t *testing.T) {
	header := FrameHeader{
		DetectorID:   42,
		RunNumber:    9001,
		FrameIndex:   127,
		UTCSeconds:   1700000000,
		UTCTicks:     6250000,
		DOMID:        806451572,
		DOMStatus:    0x1,
		NumberOfHits: 2,
	}
	hits := []FrameHit{
		{PMT: 3, TDC: 12345, ToT: 26},
		{PMT: 30, TDC: 99999999, ToT: 255},
	}
	data := frameBytes(t, header, hits)

	gotHeader, gotHits, err := ReadTimesliceFrame(data)
	if err != nil {
		t.Fatalf("ReadTimesliceFrame: %v", err)
	}
	if gotHeader != header {
		t.Errorf("header: got %+v, want %+v", gotHeader, header)
	}
	if len(gotHits) != len(hits) {
		t.Fatalf("got %d hits, want %d", len(gotHits), len(hits))
	}
	for i := range hits {
		if gotHits[i] != hits[i] {
			t.Errorf("hit %d: got %+v, want %+v", i, gotHits[i], hits[i])
		}
	}
}

func TestReadTimesliceFrameNoHits(t *testing.T) {
	header := FrameHeader{DOMID: 1, NumberOfHits: 0}
	data := frameBytes(t, header, nil)

	_, hits, err := ReadTimesliceFrame(data)
	if err != nil {
		t.Fatalf("ReadTimesliceFrame: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestReadTimesliceFrameNegativeHitCount(t *testing.T) {
	header := FrameHeader{DOMID: 1, NumberOfHits: -1}
	data := frameBytes(t, header, nil)

	_, _, err := ReadTimesliceFrame(data)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	bad, ok := err.(*ErrBadHitCount)
	if !ok {
		t.Fatalf("got %T, want *ErrBadHitCount", err)
	}
	if bad.Count != -1 {
		t.Errorf("count: got %d, want -1", bad.Count)
	}
}

func TestReadTimesliceFrameTruncated(t *testing.T) {
	header := FrameHeader{DOMID: 1, NumberOfHits: 3}
	full := frameBytes(t, header, []FrameHit{
		{PMT: 1, TDC: 10, ToT: 20},
		{PMT: 2, TDC: 11, ToT: 21},
		{PMT: 3, TDC: 12, ToT: 22},
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty buffer", nil},
		{"partial header", full[:10]},
		{"missing hit payload", full[:len(full)-FRAME_HIT_SIZE]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadTimesliceFrame(tt.data)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if _, ok := err.(*ErrTruncatedFrame); !ok {
				t.Errorf("got %T, want *ErrTruncatedFrame", err)
			}
		})
	}
}
