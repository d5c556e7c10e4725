package km3

import "math"

// Fill values for events without a selected track. Silent zero-fill would
// be indistinguishable from a real measurement, so float columns carry NaN
// and integer columns carry -1 (the UNKNOWN code of the KM3NeT
// definitions).
var FillFloat = math.NaN()

const FillInt int32 = RECTYPE_UNKNOWN

// Column is one flat per-event projected column. Exactly one of Floats or
// Ints is populated, per Kind.
type Column struct {
	Kind   FieldKind
	Floats []float64
	Ints   []int32
}

// RaggedColumn is one ragged per-event projected column, used for
// cross-projected hit fields.
type RaggedColumn struct {
	Kind   FieldKind
	Floats Ragged[float64]
	Ints   Ragged[int32]
}

// Project extracts the requested fields of the selected track per event
// into flat columns, keyed by field name. Fit parameter names resolve into
// the per-track fitinf vector. Unknown names and empty requests fail fast.
func Project(tracks *TrackTable, sel Selection, fields []string) (map[string]Column, error) {
	if len(fields) == 0 {
		return nil, &ErrEmptyProjection{}
	}
	if sel.NumEvents() != tracks.NumEvents() {
		return nil, &ErrSelectionMismatch{Events: tracks.NumEvents(), Selected: sel.NumEvents()}
	}

	out := make(map[string]Column, len(fields))
	for _, name := range fields {
		if field, ok := trackFields[name]; ok {
			out[name] = projectTrackField(tracks, sel, field)
			continue
		}
		if slot, ok := FitParameters[name]; ok {
			out[name] = projectFitParameter(tracks, sel, slot)
			continue
		}
		return nil, &ErrUnknownField{Field: name}
	}
	return out, nil
}

func projectTrackField(tracks *TrackTable, sel Selection, field trackField) Column {
	n := sel.NumEvents()
	switch field.kind {
	case IntField:
		column := field.ints(tracks)
		values := make([]int32, n)
		for i, idx := range sel.Index {
			if idx == NoSelection {
				values[i] = FillInt
			} else {
				values[i] = column[idx]
			}
		}
		return Column{Kind: IntField, Ints: values}
	default:
		column := field.floats(tracks)
		values := make([]float64, n)
		for i, idx := range sel.Index {
			if idx == NoSelection {
				values[i] = FillFloat
			} else {
				values[i] = column[idx]
			}
		}
		return Column{Kind: FloatField, Floats: values}
	}
}

func projectFitParameter(tracks *TrackTable, sel Selection, slot int) Column {
	values := make([]float64, sel.NumEvents())
	for i, idx := range sel.Index {
		if idx == NoSelection {
			values[i] = FillFloat
		} else {
			values[i] = fitInfSlot(tracks, int(idx), slot)
		}
	}
	return Column{Kind: FloatField, Floats: values}
}

func fitInfSlot(tracks *TrackTable, track, slot int) float64 {
	fit := tracks.FitInf.Sublist(track)
	if slot >= len(fit) {
		return FillFloat
	}
	return fit[slot]
}

// FitInf returns the value of one fit parameter slot for every track, with
// NaN where the track's fitinf vector is too short.
func FitInf(tracks *TrackTable, slot int) []float64 {
	values := make([]float64, tracks.NumTracks())
	for trk := range values {
		values[trk] = fitInfSlot(tracks, trk, slot)
	}
	return values
}

// ProjectCross resolves the selected track's hit_ids into the hits of the
// same event and projects the requested hit fields through that
// indirection. The output is ragged per event: a track referencing five
// hits yields five entries, an event without a selection yields an empty
// sub-list.
func ProjectCross(tracks *TrackTable, hits *HitTable, sel Selection, fields []string) (map[string]RaggedColumn, error) {
	if len(fields) == 0 {
		return nil, &ErrEmptyProjection{}
	}
	if sel.NumEvents() != tracks.NumEvents() {
		return nil, &ErrSelectionMismatch{Events: tracks.NumEvents(), Selected: sel.NumEvents()}
	}
	if hits.NumEvents() != tracks.NumEvents() {
		return nil, &ErrSelectionMismatch{Events: tracks.NumEvents(), Selected: hits.NumEvents()}
	}
	for _, name := range fields {
		if _, ok := hitFields[name]; !ok {
			return nil, &ErrUnknownField{Field: name}
		}
	}

	indices, err := resolveHitIndices(tracks, hits, sel)
	if err != nil {
		return nil, err
	}

	out := make(map[string]RaggedColumn, len(fields))
	for _, name := range fields {
		field := hitFields[name]
		switch field.kind {
		case IntField:
			column := field.ints(hits)
			values := make([]int32, len(indices.Values))
			for i, hit := range indices.Values {
				values[i] = column[hit]
			}
			out[name] = RaggedColumn{
				Kind: IntField,
				Ints: Ragged[int32]{Values: values, Offsets: indices.Offsets},
			}
		default:
			column := field.floats(hits)
			values := make([]float64, len(indices.Values))
			for i, hit := range indices.Values {
				values[i] = column[hit]
			}
			out[name] = RaggedColumn{
				Kind:   FloatField,
				Floats: Ragged[float64]{Values: values, Offsets: indices.Offsets},
			}
		}
	}
	return out, nil
}

// resolveHitIndices maps each selected track's hit id list to flat hit
// indices, once, so every projected field reuses the same resolution.
func resolveHitIndices(tracks *TrackTable, hits *HitTable, sel Selection) (Ragged[int64], error) {
	counts := make([]int64, sel.NumEvents())
	for i, idx := range sel.Index {
		if idx != NoSelection {
			counts[i] = tracks.HitIDs.Count(int(idx))
		}
	}
	offsets := OffsetsFromCounts(counts)

	values := make([]int64, offsets[len(offsets)-1])
	position := 0
	for i, idx := range sel.Index {
		if idx == NoSelection {
			continue
		}
		hitStart, hitEnd := hits.EventRange(i)
		for _, hitID := range tracks.HitIDs.Sublist(int(idx)) {
			found := int64(-1)
			for h := hitStart; h < hitEnd; h++ {
				if hits.ID[h] == hitID {
					found = h
					break
				}
			}
			if found < 0 {
				return Ragged[int64]{}, &ErrUnknownHitID{Event: i, HitID: hitID}
			}
			values[position] = found
			position++
		}
	}
	return Ragged[int64]{Values: values, Offsets: offsets}, nil
}
