package km3

import "testing"

func TestOffsetsFromCounts(t *testing.T) {
	tests := []struct {
		name    string
		counts  []int64
		offsets []int64
	}{
		{"empty", []int64{}, []int64{0}},
		{"single", []int64{3}, []int64{0, 3}},
		{"mixed", []int64{2, 0, 3}, []int64{0, 2, 2, 5}},
		{"all empty lists", []int64{0, 0, 0}, []int64{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offsets := OffsetsFromCounts(tt.counts)
			if len(offsets) != len(tt.offsets) {
				t.Fatalf("got %d offsets, want %d", len(offsets), len(tt.offsets))
			}
			for i := range offsets {
				if offsets[i] != tt.offsets[i] {
					t.Errorf("offset %d: got %d, want %d", i, offsets[i], tt.offsets[i])
				}
			}
		})
	}
}

func TestRaggedSublist(t *testing.T) {
	ragged := NewRagged([]int32{10, 11, 12, 13, 14}, []int64{2, 0, 3})

	if ragged.NumLists() != 3 {
		t.Errorf("NumLists: got %d, want 3", ragged.NumLists())
	}
	if ragged.NumValues() != 5 {
		t.Errorf("NumValues: got %d, want 5", ragged.NumValues())
	}

	first := ragged.Sublist(0)
	if len(first) != 2 || first[0] != 10 || first[1] != 11 {
		t.Errorf("sublist 0: got %v, want [10 11]", first)
	}
	if len(ragged.Sublist(1)) != 0 {
		t.Errorf("sublist 1: got %v, want empty", ragged.Sublist(1))
	}
	third := ragged.Sublist(2)
	if len(third) != 3 || third[0] != 12 || third[2] != 14 {
		t.Errorf("sublist 2: got %v, want [12 13 14]", third)
	}
}

func TestRaggedCountsRoundTrip(t *testing.T) {
	counts := []int64{0, 4, 1, 0, 2}
	ragged := NewRagged(make([]float64, 7), counts)

	back := ragged.Counts()
	if len(back) != len(counts) {
		t.Fatalf("got %d counts, want %d", len(back), len(counts))
	}
	for i := range counts {
		if back[i] != counts[i] {
			t.Errorf("count %d: got %d, want %d", i, back[i], counts[i])
		}
		if ragged.Count(i) != counts[i] {
			t.Errorf("Count(%d): got %d, want %d", i, ragged.Count(i), counts[i])
		}
	}
}

func TestRaggedZeroValue(t *testing.T) {
	var ragged Ragged[int32]
	if ragged.NumLists() != 0 {
		t.Errorf("NumLists of zero value: got %d, want 0", ragged.NumLists())
	}
	if ragged.NumValues() != 0 {
		t.Errorf("NumValues of zero value: got %d, want 0", ragged.NumValues())
	}
}
