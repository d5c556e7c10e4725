package km3

// NoSelection marks an event without a selected track. Most events
// legitimately lack a given reconstruction, so absence is a value, not an
// error.
const NoSelection int64 = -1

// Selection holds, per event, the index of the selected track in the flat
// track columns, or NoSelection.
type Selection struct {
	Index []int64
}

func (s Selection) NumEvents() int {
	return len(s.Index)
}

// Selected returns the number of events with a selected track.
func (s Selection) Selected() int {
	n := 0
	for _, idx := range s.Index {
		if idx != NoSelection {
			n++
		}
	}
	return n
}

// TieBreak is the policy for events with more than one exact stage match.
type TieBreak int

const (
	// FailOnAmbiguity raises an error on multiple matches; the default,
	// since multiple identical reconstructions signal a data problem.
	FailOnAmbiguity TieBreak = iota
	// FirstInStorageOrder deterministically keeps the first match.
	FirstInStorageOrder
)

func newSelection(nEvents int) Selection {
	index := make([]int64, nEvents)
	for i := range index {
		index[i] = NoSelection
	}
	return Selection{Index: index}
}

// stageSet matches candidate stage lists against a target with set
// semantics: order is irrelevant and duplicates collapse.
type stageSet struct {
	stages  []int32
	matched []bool
}

func newStageSet(target []int32) stageSet {
	stages := make([]int32, 0, len(target))
	for _, s := range target {
		seen := false
		for _, t := range stages {
			if t == s {
				seen = true
				break
			}
		}
		if !seen {
			stages = append(stages, s)
		}
	}
	return stageSet{stages: stages, matched: make([]bool, len(stages))}
}

func (s *stageSet) match(candidate []int32) bool {
	for i := range s.matched {
		s.matched[i] = false
	}
	distinct := 0
	for _, stage := range candidate {
		found := -1
		for i, t := range s.stages {
			if t == stage {
				found = i
				break
			}
		}
		if found < 0 {
			return false
		}
		if !s.matched[found] {
			s.matched[found] = true
			distinct++
		}
	}
	return distinct == len(s.stages)
}

// SelectByStages selects, per event, the track whose rec_stages equals the
// target as a set. Events without a match get NoSelection. Multiple matches
// in one event raise ErrAmbiguousSelection unless FirstInStorageOrder is
// requested. A target matching nothing anywhere in the dataset raises
// ErrStagesNotFound, which usually means a typo'd stage vocabulary.
func SelectByStages(tracks *TrackTable, target []int32, policy TieBreak) (Selection, error) {
	if len(target) == 0 {
		return Selection{}, &ErrEmptyStageTarget{}
	}

	nEvents := tracks.NumEvents()
	sel := newSelection(nEvents)
	set := newStageSet(target)

	totalMatches := 0
	evt := 0
	matchesInEvent := 0
	for trk := 0; trk < tracks.NumTracks(); trk++ {
		for int64(trk) >= tracks.Offsets[evt+1] {
			evt++
			matchesInEvent = 0
		}
		if !set.match(tracks.Stages.Sublist(trk)) {
			continue
		}
		totalMatches++
		matchesInEvent++
		switch {
		case matchesInEvent == 1:
			sel.Index[evt] = int64(trk)
		case policy == FailOnAmbiguity:
			return Selection{}, &ErrAmbiguousSelection{Event: evt, Matches: matchesInEvent}
		}
	}

	if totalMatches == 0 {
		return Selection{}, &ErrStagesNotFound{Stages: target}
	}
	return sel, nil
}

// SelectBest selects, per event, the track with the most completed stages.
// Ties go to the first track in storage order. Events without tracks get
// NoSelection.
func SelectBest(tracks *TrackTable) Selection {
	sel := newSelection(tracks.NumEvents())

	evt := 0
	var best int64 = -1
	for trk := 0; trk < tracks.NumTracks(); trk++ {
		for int64(trk) >= tracks.Offsets[evt+1] {
			evt++
			best = -1
		}
		n := tracks.StageCount(trk)
		if n > best {
			best = n
			sel.Index[evt] = int64(trk)
		}
	}
	return sel
}

// Multiplicity counts, per event, the tracks whose rec_stages equals the
// target as a set.
func Multiplicity(tracks *TrackTable, target []int32) ([]int64, error) {
	if len(target) == 0 {
		return nil, &ErrEmptyStageTarget{}
	}

	counts := make([]int64, tracks.NumEvents())
	set := newStageSet(target)
	evt := 0
	for trk := 0; trk < tracks.NumTracks(); trk++ {
		for int64(trk) >= tracks.Offsets[evt+1] {
			evt++
		}
		if set.match(tracks.Stages.Sublist(trk)) {
			counts[evt]++
		}
	}
	return counts, nil
}

// SelectByStageRange selects, per event, the best track among those whose
// stages all lie within [min, max]: the longest stage list wins, equal
// lengths are broken by likelihood, remaining ties by storage order.
func SelectByStageRange(tracks *TrackTable, min, max int32) Selection {
	return selectRanked(tracks, func(trk int) bool {
		return stagesWithin(tracks.Stages.Sublist(trk), min, max)
	})
}

// SelectByStartEnd selects like SelectByStageRange but admits only tracks
// whose first stored stage is first and last stored stage is last.
func SelectByStartEnd(tracks *TrackTable, first, last int32) Selection {
	return selectRanked(tracks, func(trk int) bool {
		stages := tracks.Stages.Sublist(trk)
		return len(stages) > 0 && stages[0] == first && stages[len(stages)-1] == last
	})
}

func selectRanked(tracks *TrackTable, admit func(trk int) bool) Selection {
	sel := newSelection(tracks.NumEvents())

	evt := 0
	var bestLen int64 = -1
	bestLik := 0.0
	for trk := 0; trk < tracks.NumTracks(); trk++ {
		for int64(trk) >= tracks.Offsets[evt+1] {
			evt++
			bestLen = -1
		}
		if !admit(trk) {
			continue
		}
		n := tracks.StageCount(trk)
		if n == 0 {
			continue
		}
		if n > bestLen || (n == bestLen && tracks.Lik[trk] > bestLik) {
			bestLen = n
			bestLik = tracks.Lik[trk]
			sel.Index[evt] = int64(trk)
		}
	}
	return sel
}

func stagesWithin(stages []int32, min, max int32) bool {
	if len(stages) == 0 {
		return false
	}
	for _, s := range stages {
		if s < min || s > max {
			return false
		}
	}
	return true
}

// Convenience selectors for the standard fitting chains.

// BestJMuon selects the best JMUON track per event.
func BestJMuon(tracks *TrackTable) Selection {
	return SelectByStageRange(tracks, JMUONBEGIN, JMUONEND)
}

// BestJShower selects the best JSHOWER track per event.
func BestJShower(tracks *TrackTable) Selection {
	return SelectByStageRange(tracks, JSHOWERBEGIN, JSHOWEREND)
}

// BestAAShower selects the best AASHOWER track per event.
func BestAAShower(tracks *TrackTable) Selection {
	return SelectByStageRange(tracks, AASHOWERBEGIN, AASHOWEREND)
}

// BestDusjShower selects the best DUSJSHOWER track per event.
func BestDusjShower(tracks *TrackTable) Selection {
	return SelectByStageRange(tracks, DUSJSHOWERBEGIN, DUSJSHOWEREND)
}
