package km3

import "testing"

type testTrack struct {
	stages []int32
	lik    float64
	e      float64
	rec    int32
	fitinf []float64
	hitIDs []int32
}

// buildTracks assembles a TrackTable from per-event track fixtures.
func buildTracks(events [][]testTrack) *TrackTable {
	tracks := &TrackTable{Offsets: make([]int64, 1)}
	var stageValues []int32
	var stageCounts []int64
	var fitValues []float64
	var fitCounts []int64
	var hitIDValues []int32
	var hitIDCounts []int64

	id := int32(1)
	for _, event := range events {
		tracks.Offsets = append(tracks.Offsets,
			tracks.Offsets[len(tracks.Offsets)-1]+int64(len(event)))
		for _, trk := range event {
			tracks.ID = append(tracks.ID, id)
			id++
			tracks.RecType = append(tracks.RecType, trk.rec)
			tracks.PosX = append(tracks.PosX, 0)
			tracks.PosY = append(tracks.PosY, 0)
			tracks.PosZ = append(tracks.PosZ, 0)
			tracks.DirX = append(tracks.DirX, 0)
			tracks.DirY = append(tracks.DirY, 0)
			tracks.DirZ = append(tracks.DirZ, 1)
			tracks.T = append(tracks.T, 0)
			tracks.E = append(tracks.E, trk.e)
			tracks.Len = append(tracks.Len, 0)
			tracks.Lik = append(tracks.Lik, trk.lik)

			stageValues = append(stageValues, trk.stages...)
			stageCounts = append(stageCounts, int64(len(trk.stages)))
			fitValues = append(fitValues, trk.fitinf...)
			fitCounts = append(fitCounts, int64(len(trk.fitinf)))
			hitIDValues = append(hitIDValues, trk.hitIDs...)
			hitIDCounts = append(hitIDCounts, int64(len(trk.hitIDs)))
		}
	}
	tracks.Stages = NewRagged(stageValues, stageCounts)
	tracks.FitInf = NewRagged(fitValues, fitCounts)
	tracks.HitIDs = NewRagged(hitIDValues, hitIDCounts)
	return tracks
}

func checkSelection(t *testing.T, sel Selection, want []int64) {
	t.Helper()
	if sel.NumEvents() != len(want) {
		t.Fatalf("selection covers %d events, want %d", sel.NumEvents(), len(want))
	}
	for i, idx := range sel.Index {
		if idx != want[i] {
			t.Errorf("event %d: selected track %d, want %d", i, idx, want[i])
		}
	}
}

func TestSelectByStages(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{ // exact match in a different order
			{stages: []int32{4, 5, 3, 1}},
			{stages: []int32{1, 3, 5}},
		},
		{ // no match: proper subset
			{stages: []int32{1, 3, 5}},
		},
		{ // match with a duplicated stage
			{stages: []int32{1, 3, 5, 4, 1}},
		},
		{}, // no tracks at all
		{ // match in storage order
			{stages: []int32{2}},
			{stages: []int32{1, 3, 5, 4}},
		},
	})

	sel, err := SelectByStages(tracks, []int32{1, 3, 5, 4}, FailOnAmbiguity)
	if err != nil {
		t.Fatalf("SelectByStages: %v", err)
	}
	checkSelection(t, sel, []int64{0, NoSelection, 3, NoSelection, 5})
}

func TestSelectByStagesDuplicatedTarget(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{{stages: []int32{1, 3}}},
	})

	// Duplicates in the target collapse under set semantics.
	sel, err := SelectByStages(tracks, []int32{3, 1, 3}, FailOnAmbiguity)
	if err != nil {
		t.Fatalf("SelectByStages: %v", err)
	}
	checkSelection(t, sel, []int64{0})
}

func TestSelectByStagesNotFound(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{{stages: []int32{1, 3}}},
		{{stages: []int32{1, 3, 5}}},
	})

	_, err := SelectByStages(tracks, []int32{100, 101}, FailOnAmbiguity)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := err.(*ErrStagesNotFound); !ok {
		t.Errorf("got %T, want *ErrStagesNotFound", err)
	}
}

func TestSelectByStagesEmptyTarget(t *testing.T) {
	tracks := buildTracks([][]testTrack{{{stages: []int32{1}}}})

	_, err := SelectByStages(tracks, nil, FailOnAmbiguity)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := err.(*ErrEmptyStageTarget); !ok {
		t.Errorf("got %T, want *ErrEmptyStageTarget", err)
	}
}

func TestSelectByStagesAmbiguous(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{
			{stages: []int32{1, 3}},
			{stages: []int32{3, 1}},
		},
	})

	_, err := SelectByStages(tracks, []int32{1, 3}, FailOnAmbiguity)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	ambiguous, ok := err.(*ErrAmbiguousSelection)
	if !ok {
		t.Fatalf("got %T, want *ErrAmbiguousSelection", err)
	}
	if ambiguous.Event != 0 {
		t.Errorf("ambiguous event: got %d, want 0", ambiguous.Event)
	}

	// Same data, first-match policy: keeps the first in storage order.
	sel, err := SelectByStages(tracks, []int32{1, 3}, FirstInStorageOrder)
	if err != nil {
		t.Fatalf("SelectByStages with FirstInStorageOrder: %v", err)
	}
	checkSelection(t, sel, []int64{0})
}

func TestSelectBest(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{
			{stages: []int32{1, 3}},
			{stages: []int32{1, 3, 5, 4}},
			{stages: []int32{1}},
		},
		{}, // no tracks
		{ // tie on length: first in storage order wins
			{stages: []int32{1, 2, 3}},
			{stages: []int32{4, 5, 6}},
		},
	})

	sel := SelectBest(tracks)
	checkSelection(t, sel, []int64{1, NoSelection, 3})

	if sel.Selected() != 2 {
		t.Errorf("Selected: got %d, want 2", sel.Selected())
	}
}

func TestMultiplicity(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{
			{stages: []int32{1, 3}},
			{stages: []int32{3, 1}},
			{stages: []int32{1, 3, 5}},
		},
		{},
		{
			{stages: []int32{1, 3}},
		},
	})

	counts, err := Multiplicity(tracks, []int32{1, 3})
	if err != nil {
		t.Fatalf("Multiplicity: %v", err)
	}
	want := []int64{2, 0, 1}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("event %d: got %d, want %d", i, counts[i], want[i])
		}
	}
}

func TestSelectByStageRange(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{
			{stages: []int32{JMUONPREFIT, JMUONSIMPLEX, JMUONGANDALF}, lik: 50},
			{stages: []int32{JSHOWERPREFIT}, lik: 99},
			{stages: []int32{JMUONPREFIT, JMUONSIMPLEX}, lik: 80},
		},
		{ // equal length: higher likelihood wins
			{stages: []int32{JMUONPREFIT, JMUONSIMPLEX}, lik: 10},
			{stages: []int32{JMUONPREFIT, JMUONGANDALF}, lik: 20},
		},
		{ // equal length and likelihood: storage order wins
			{stages: []int32{JMUONPREFIT}, lik: 5},
			{stages: []int32{JMUONSIMPLEX}, lik: 5},
		},
		{ // no track inside the range
			{stages: []int32{JSHOWERPREFIT, JSHOWERPOSITIONFIT}, lik: 1},
		},
	})

	sel := SelectByStageRange(tracks, JMUONBEGIN, JMUONEND)
	checkSelection(t, sel, []int64{0, 4, 5, NoSelection})
}

func TestBestJMuonAndJShower(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{
			{stages: []int32{JMUONPREFIT, JMUONSIMPLEX, JMUONGANDALF}, lik: 50},
			{stages: []int32{JSHOWERPREFIT, JSHOWERPOSITIONFIT}, lik: 10},
		},
	})

	muon := BestJMuon(tracks)
	checkSelection(t, muon, []int64{0})

	shower := BestJShower(tracks)
	checkSelection(t, shower, []int64{1})

	aa := BestAAShower(tracks)
	checkSelection(t, aa, []int64{NoSelection})
}

func TestSelectByStartEnd(t *testing.T) {
	tracks := buildTracks([][]testTrack{
		{
			{stages: []int32{JMUONPREFIT, JMUONSIMPLEX, JMUONGANDALF}, lik: 10},
			{stages: []int32{JMUONPREFIT, JMUONGANDALF}, lik: 99},
			{stages: []int32{JMUONSIMPLEX, JMUONGANDALF}, lik: 5},
		},
	})

	sel := SelectByStartEnd(tracks, JMUONPREFIT, JMUONGANDALF)
	// Both admitted tracks start and end right; the longer one wins.
	checkSelection(t, sel, []int64{0})
}
