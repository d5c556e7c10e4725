package km3

// EventTable holds the per-event header columns of an event range.
// All columns have one entry per event, in file order. Tables are
// immutable after construction.
type EventTable struct {
	ID             []int32
	DetID          []int32
	RunID          []int32
	MCRunID        []int32
	FrameIndex     []int32
	TriggerMask    []int64
	TriggerCounter []int64
	Overlays       []int32
	TSec           []int64
	TNs            []int64
}

func (e *EventTable) NumEvents() int {
	return len(e.ID)
}

// HitTable holds the hits of an event range as a ragged per-event
// collection: Offsets has one entry per event boundary, the columns are
// flat over all hits. Hit order within an event is file order and carries
// no temporal guarantee.
type HitTable struct {
	Offsets   []int64
	ID        []int32
	DOMID     []int32
	ChannelID []int32
	TDC       []int32
	ToT       []int32
	Trig      []int32 // non-zero if the hit is a triggered hit
	A         []float64
	PosX      []float64
	PosY      []float64
	PosZ      []float64
	DirX      []float64
	DirY      []float64
	DirZ      []float64
}

func (h *HitTable) NumEvents() int {
	if len(h.Offsets) == 0 {
		return 0
	}
	return len(h.Offsets) - 1
}

func (h *HitTable) NumHits() int {
	return len(h.ID)
}

// EventRange returns the half-open hit index range of event i.
func (h *HitTable) EventRange(i int) (int64, int64) {
	return h.Offsets[i], h.Offsets[i+1]
}

// TrackTable holds the reconstructed fit candidates of an event range.
// Offsets has one entry per event boundary, the columns are flat over all
// tracks. Stages, FitInf and HitIDs are ragged per track, never deeper.
type TrackTable struct {
	Offsets []int64
	ID      []int32
	RecType []int32
	PosX    []float64
	PosY    []float64
	PosZ    []float64
	DirX    []float64
	DirY    []float64
	DirZ    []float64
	T       []float64
	E       []float64
	Len     []float64
	Lik     []float64
	Stages  Ragged[int32]
	FitInf  Ragged[float64]
	HitIDs  Ragged[int32]
}

func (t *TrackTable) NumEvents() int {
	if len(t.Offsets) == 0 {
		return 0
	}
	return len(t.Offsets) - 1
}

func (t *TrackTable) NumTracks() int {
	return len(t.ID)
}

// EventRange returns the half-open track index range of event i.
func (t *TrackTable) EventRange(i int) (int64, int64) {
	return t.Offsets[i], t.Offsets[i+1]
}

// StageCount returns the number of completed stages of one track.
func (t *TrackTable) StageCount(track int) int64 {
	return t.Stages.Count(track)
}
