package km3

// BranchSource is the boundary to the columnar file layer. It hands out the
// flat values of a named branch for an event range and the per-element
// sub-list counts of ragged branches. The on-disk container format stays
// behind this interface.
//
// Branch names follow the offline schema: event header branches are plain
// names ("id", "run_id"), nested branches are dotted ("hits.dom_id",
// "trks.rec_stages"). Counts("hits") returns hits per event;
// Counts("trks.rec_stages") returns stages per track.
type BranchSource interface {
	NumEvents() (int, error)
	NumSlices() (int, error)
	Floats(branch string, start, stop int) ([]float64, error)
	Ints(branch string, start, stop int) ([]int32, error)
	Longs(branch string, start, stop int) ([]int64, error)
	Counts(branch string, start, stop int) ([]int64, error)
	Close() error
}

// Reader is a session over a BranchSource. It materialises the typed
// tables for an event range and memoizes decoded branches per
// (branch, range), so repeated table construction does not touch the
// source twice. The cache lives and dies with the Reader.
type Reader struct {
	source BranchSource
	cache  map[cacheKey]interface{}
}

type cacheKey struct {
	branch string
	start  int
	stop   int
}

func NewReader(source BranchSource) *Reader {
	return &Reader{
		source: source,
		cache:  make(map[cacheKey]interface{}),
	}
}

func (r *Reader) NumEvents() (int, error) {
	return r.source.NumEvents()
}

// NumSlices returns the number of summary slices in the file.
func (r *Reader) NumSlices() (int, error) {
	return r.source.NumSlices()
}

// Close drops the cache and closes the underlying source.
func (r *Reader) Close() error {
	r.cache = nil
	return r.source.Close()
}

func (r *Reader) floats(branch string, start, stop int) ([]float64, error) {
	key := cacheKey{branch: branch, start: start, stop: stop}
	if cached, ok := r.cache[key]; ok {
		return cached.([]float64), nil
	}
	values, err := r.source.Floats(branch, start, stop)
	if err != nil {
		return nil, err
	}
	r.cache[key] = values
	return values, nil
}

func (r *Reader) ints(branch string, start, stop int) ([]int32, error) {
	key := cacheKey{branch: branch, start: start, stop: stop}
	if cached, ok := r.cache[key]; ok {
		return cached.([]int32), nil
	}
	values, err := r.source.Ints(branch, start, stop)
	if err != nil {
		return nil, err
	}
	r.cache[key] = values
	return values, nil
}

func (r *Reader) longs(branch string, start, stop int) ([]int64, error) {
	key := cacheKey{branch: branch, start: start, stop: stop}
	if cached, ok := r.cache[key]; ok {
		return cached.([]int64), nil
	}
	values, err := r.source.Longs(branch, start, stop)
	if err != nil {
		return nil, err
	}
	r.cache[key] = values
	return values, nil
}

func (r *Reader) counts(branch string, start, stop int) ([]int64, error) {
	key := cacheKey{branch: "n:" + branch, start: start, stop: stop}
	if cached, ok := r.cache[key]; ok {
		return cached.([]int64), nil
	}
	values, err := r.source.Counts(branch, start, stop)
	if err != nil {
		return nil, err
	}
	r.cache[key] = values
	return values, nil
}

// Events materialises the event header table for [start, stop).
func (r *Reader) Events(start, stop int) (*EventTable, error) {
	events := &EventTable{}
	var err error
	if events.ID, err = r.ints("id", start, stop); err != nil {
		return nil, err
	}
	if events.DetID, err = r.ints("det_id", start, stop); err != nil {
		return nil, err
	}
	if events.RunID, err = r.ints("run_id", start, stop); err != nil {
		return nil, err
	}
	if events.MCRunID, err = r.ints("mc_run_id", start, stop); err != nil {
		return nil, err
	}
	if events.FrameIndex, err = r.ints("frame_index", start, stop); err != nil {
		return nil, err
	}
	if events.TriggerMask, err = r.longs("trigger_mask", start, stop); err != nil {
		return nil, err
	}
	if events.TriggerCounter, err = r.longs("trigger_counter", start, stop); err != nil {
		return nil, err
	}
	if events.Overlays, err = r.ints("overlays", start, stop); err != nil {
		return nil, err
	}
	if events.TSec, err = r.longs("t_sec", start, stop); err != nil {
		return nil, err
	}
	if events.TNs, err = r.longs("t_ns", start, stop); err != nil {
		return nil, err
	}
	return events, nil
}

// Hits materialises the hit table for [start, stop).
func (r *Reader) Hits(start, stop int) (*HitTable, error) {
	counts, err := r.counts("hits", start, stop)
	if err != nil {
		return nil, err
	}
	hits := &HitTable{Offsets: OffsetsFromCounts(counts)}
	intCols := map[string]*[]int32{
		"hits.id":         &hits.ID,
		"hits.dom_id":     &hits.DOMID,
		"hits.channel_id": &hits.ChannelID,
		"hits.tdc":        &hits.TDC,
		"hits.tot":        &hits.ToT,
		"hits.trig":       &hits.Trig,
	}
	for branch, col := range intCols {
		if *col, err = r.ints(branch, start, stop); err != nil {
			return nil, err
		}
	}
	floatCols := map[string]*[]float64{
		"hits.a":     &hits.A,
		"hits.pos_x": &hits.PosX,
		"hits.pos_y": &hits.PosY,
		"hits.pos_z": &hits.PosZ,
		"hits.dir_x": &hits.DirX,
		"hits.dir_y": &hits.DirY,
		"hits.dir_z": &hits.DirZ,
	}
	for branch, col := range floatCols {
		if *col, err = r.floats(branch, start, stop); err != nil {
			return nil, err
		}
	}
	return hits, nil
}

// Tracks materialises the track table for [start, stop), including the
// nested per-track stage, fitinf and hit id lists.
func (r *Reader) Tracks(start, stop int) (*TrackTable, error) {
	counts, err := r.counts("trks", start, stop)
	if err != nil {
		return nil, err
	}
	tracks := &TrackTable{Offsets: OffsetsFromCounts(counts)}
	intCols := map[string]*[]int32{
		"trks.id":       &tracks.ID,
		"trks.rec_type": &tracks.RecType,
	}
	for branch, col := range intCols {
		if *col, err = r.ints(branch, start, stop); err != nil {
			return nil, err
		}
	}
	floatCols := map[string]*[]float64{
		"trks.pos_x": &tracks.PosX,
		"trks.pos_y": &tracks.PosY,
		"trks.pos_z": &tracks.PosZ,
		"trks.dir_x": &tracks.DirX,
		"trks.dir_y": &tracks.DirY,
		"trks.dir_z": &tracks.DirZ,
		"trks.t":     &tracks.T,
		"trks.E":     &tracks.E,
		"trks.len":   &tracks.Len,
		"trks.lik":   &tracks.Lik,
	}
	for branch, col := range floatCols {
		if *col, err = r.floats(branch, start, stop); err != nil {
			return nil, err
		}
	}

	stageCounts, err := r.counts("trks.rec_stages", start, stop)
	if err != nil {
		return nil, err
	}
	stageValues, err := r.ints("trks.rec_stages", start, stop)
	if err != nil {
		return nil, err
	}
	tracks.Stages = NewRagged(stageValues, stageCounts)

	fitCounts, err := r.counts("trks.fitinf", start, stop)
	if err != nil {
		return nil, err
	}
	fitValues, err := r.floats("trks.fitinf", start, stop)
	if err != nil {
		return nil, err
	}
	tracks.FitInf = NewRagged(fitValues, fitCounts)

	hitIDCounts, err := r.counts("trks.hit_ids", start, stop)
	if err != nil {
		return nil, err
	}
	hitIDValues, err := r.ints("trks.hit_ids", start, stop)
	if err != nil {
		return nil, err
	}
	tracks.HitIDs = NewRagged(hitIDValues, hitIDCounts)

	return tracks, nil
}

// SummarySlices materialises the summary frame table for the slice range
// [start, stop). The status words are stored signed in the file and
// reinterpreted as unsigned here, before any bit shifting.
func (r *Reader) SummarySlices(start, stop int) (*SummaryTable, error) {
	counts, err := r.counts("sum", start, stop)
	if err != nil {
		return nil, err
	}
	summary := &SummaryTable{Offsets: OffsetsFromCounts(counts)}
	if summary.DOMID, err = r.ints("sum.dom_id", start, stop); err != nil {
		return nil, err
	}

	words := map[string]*[]uint32{
		"sum.dq_status": &summary.DQStatus,
		"sum.hrv":       &summary.HRV,
		"sum.fifo":      &summary.FIFO,
		"sum.status3":   &summary.Status3,
		"sum.status4":   &summary.Status4,
	}
	for branch, col := range words {
		signed, err := r.ints(branch, start, stop)
		if err != nil {
			return nil, err
		}
		unsigned := make([]uint32, len(signed))
		for i, w := range signed {
			unsigned[i] = uint32(w)
		}
		*col = unsigned
	}

	rates, err := r.ints("sum.rates", start, stop)
	if err != nil {
		return nil, err
	}
	summary.Rates = make([]uint8, len(rates))
	for i, v := range rates {
		summary.Rates[i] = uint8(v)
	}
	return summary, nil
}
