package km3

import "fmt"

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

// ErrBadBitLayout reports a malformed bit-layout entry. This is a programmer
// error and is raised at decoder construction, never at decode time.
type ErrBadBitLayout struct {
	Field  string
	Offset int
	Width  int
}

func (e *ErrBadBitLayout) Error() string {
	return fmt.Sprintf("bad bit layout for field %q: offset %d, width %d", e.Field, e.Offset, e.Width)
}

// ErrUnknownField reports a field name not present in the field registry.
type ErrUnknownField struct {
	Field string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// ErrUnknownBranch reports a branch name the source cannot resolve.
type ErrUnknownBranch struct {
	Branch string
}

func (e *ErrUnknownBranch) Error() string {
	return fmt.Sprintf("unknown branch %q", e.Branch)
}

// ErrEmptyProjection reports a projection request with no field names.
type ErrEmptyProjection struct{}

func (e *ErrEmptyProjection) Error() string {
	return "no fields requested for projection"
}

// ErrEmptyStageTarget reports a stage selection with an empty target list.
type ErrEmptyStageTarget struct{}

func (e *ErrEmptyStageTarget) Error() string {
	return "empty target stage list"
}

// ErrSelectionMismatch reports a selection whose length does not match the
// number of events in the table it is applied to.
type ErrSelectionMismatch struct {
	Events   int
	Selected int
}

func (e *ErrSelectionMismatch) Error() string {
	return fmt.Sprintf("selection covers %d events, table has %d", e.Selected, e.Events)
}

// ErrAmbiguousSelection reports more than one exact stage match within one
// event. It signals an upstream data problem, not absence.
type ErrAmbiguousSelection struct {
	Event   int
	Matches int
}

func (e *ErrAmbiguousSelection) Error() string {
	return fmt.Sprintf("ambiguous selection: %d matching tracks in event %d", e.Matches, e.Event)
}

// ErrStagesNotFound reports a target stage list that matches no track in the
// whole dataset, which usually means a typo in the stage vocabulary.
type ErrStagesNotFound struct {
	Stages []int32
}

func (e *ErrStagesNotFound) Error() string {
	return fmt.Sprintf("no track with stages %v anywhere in the dataset", e.Stages)
}

// ErrUnknownHitID reports a hit id referenced by a track that does not exist
// among the hits of the same event.
type ErrUnknownHitID struct {
	Event int
	HitID int32
}

func (e *ErrUnknownHitID) Error() string {
	return fmt.Sprintf("track in event %d references unknown hit id %d", e.Event, e.HitID)
}

// ErrBadHitCount reports a timeslice frame header carrying a negative hit
// count, which can only come from corrupt data.
type ErrBadHitCount struct {
	Count int
}

func (e *ErrBadHitCount) Error() string {
	return fmt.Sprintf("invalid hit count %d in timeslice frame header", e.Count)
}

// ErrTruncatedFrame reports a timeslice frame buffer whose size does not
// match its header.
type ErrTruncatedFrame struct {
	Size int
	Need int
}

func (e *ErrTruncatedFrame) Error() string {
	return fmt.Sprintf("truncated timeslice frame: have %d bytes, need %d", e.Size, e.Need)
}
