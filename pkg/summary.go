package km3

// SummaryTable holds the summary frames of a slice range. Offsets has one
// entry per slice boundary; the columns are flat over all frames. The
// status words pack several independent signals at fixed bit offsets and
// are decoded on demand, never mutated.
type SummaryTable struct {
	Offsets  []int64
	DOMID    []int32
	DQStatus []uint32
	HRV      []uint32
	FIFO     []uint32
	Status3  []uint32
	Status4  []uint32
	// Rates holds N_CHANNELS single-byte rate values per frame.
	Rates []uint8
}

func (s *SummaryTable) NumSlices() int {
	if len(s.Offsets) == 0 {
		return 0
	}
	return len(s.Offsets) - 1
}

func (s *SummaryTable) NumFrames() int {
	return len(s.DOMID)
}

// SliceRange returns the half-open frame index range of slice i.
func (s *SummaryTable) SliceRange(i int) (int64, int64) {
	return s.Offsets[i], s.Offsets[i+1]
}

// FrameRates returns the raw single-byte rate values of one frame.
func (s *SummaryTable) FrameRates(frame int) []uint8 {
	return s.Rates[frame*N_CHANNELS : (frame+1)*N_CHANNELS]
}

// RateHz returns the decompressed rate of one channel in Hz.
func (s *SummaryTable) RateHz(frame, channel int) float64 {
	return RateHz(s.Rates[frame*N_CHANNELS+channel])
}

// HighRateVeto reports whether the high-rate veto is set for one channel.
func (s *SummaryTable) HighRateVeto(frame, channel int) bool {
	return CheckBit(s.HRV[frame], channel)
}

// FIFOFull reports whether the FIFO-almost-full flag is set for one channel.
func (s *SummaryTable) FIFOFull(frame, channel int) bool {
	return CheckBit(s.FIFO[frame], channel)
}

// HasUDPTrailer reports whether the frame's UDP trailer was received.
func (s *SummaryTable) HasUDPTrailer(frame int) bool {
	return HasUDPTrailer(s.FIFO[frame])
}

// UDPPackets returns the number of received UDP packets for one frame.
func (s *SummaryTable) UDPPackets(frame int) uint32 {
	return NumberOfUDPPackets(s.DQStatus[frame])
}

// UDPMaxSequenceNumber returns the maximum received UDP sequence number.
func (s *SummaryTable) UDPMaxSequenceNumber(frame int) uint32 {
	return UDPMaxSequenceNumber(s.DQStatus[frame])
}

// HRVFlags unpacks the per-channel high-rate-veto bits of one frame.
func (s *SummaryTable) HRVFlags(frame int) [N_CHANNELS]bool {
	return ChannelFlags(s.HRV[frame])
}

// HRVCount returns the number of channels with the high-rate veto set,
// per frame.
func (s *SummaryTable) HRVCount() []int {
	counts := make([]int, s.NumFrames())
	for i, word := range s.HRV {
		n := 0
		for c := 0; c < N_CHANNELS; c++ {
			if CheckBit(word, c) {
				n++
			}
		}
		counts[i] = n
	}
	return counts
}
