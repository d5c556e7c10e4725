package km3

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FieldKind tags a column's value type, which determines its fill value for
// events without a selection.
type FieldKind int

const (
	FloatField FieldKind = iota
	IntField
)

// The field registries are static tables mapping field names to column
// extractors, built once at load time. Lookups of unknown names fail fast
// instead of falling through to reflection.

type trackField struct {
	kind   FieldKind
	floats func(*TrackTable) []float64
	ints   func(*TrackTable) []int32
}

var trackFields = map[string]trackField{
	"id":       {kind: IntField, ints: func(t *TrackTable) []int32 { return t.ID }},
	"rec_type": {kind: IntField, ints: func(t *TrackTable) []int32 { return t.RecType }},
	"pos_x":    {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.PosX }},
	"pos_y":    {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.PosY }},
	"pos_z":    {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.PosZ }},
	"dir_x":    {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.DirX }},
	"dir_y":    {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.DirY }},
	"dir_z":    {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.DirZ }},
	"t":        {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.T }},
	"E":        {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.E }},
	"len":      {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.Len }},
	"lik":      {kind: FloatField, floats: func(t *TrackTable) []float64 { return t.Lik }},
}

type hitField struct {
	kind   FieldKind
	floats func(*HitTable) []float64
	ints   func(*HitTable) []int32
}

var hitFields = map[string]hitField{
	"id":         {kind: IntField, ints: func(h *HitTable) []int32 { return h.ID }},
	"dom_id":     {kind: IntField, ints: func(h *HitTable) []int32 { return h.DOMID }},
	"channel_id": {kind: IntField, ints: func(h *HitTable) []int32 { return h.ChannelID }},
	"tdc":        {kind: IntField, ints: func(h *HitTable) []int32 { return h.TDC }},
	"tot":        {kind: IntField, ints: func(h *HitTable) []int32 { return h.ToT }},
	"trig":       {kind: IntField, ints: func(h *HitTable) []int32 { return h.Trig }},
	"a":          {kind: FloatField, floats: func(h *HitTable) []float64 { return h.A }},
	"pos_x":      {kind: FloatField, floats: func(h *HitTable) []float64 { return h.PosX }},
	"pos_y":      {kind: FloatField, floats: func(h *HitTable) []float64 { return h.PosY }},
	"pos_z":      {kind: FloatField, floats: func(h *HitTable) []float64 { return h.PosZ }},
	"dir_x":      {kind: FloatField, floats: func(h *HitTable) []float64 { return h.DirX }},
	"dir_y":      {kind: FloatField, floats: func(h *HitTable) []float64 { return h.DirY }},
	"dir_z":      {kind: FloatField, floats: func(h *HitTable) []float64 { return h.DirZ }},
}

// TrackFieldNames returns the projectable track field names, sorted.
// Fit parameter names (see FitParameters) are accepted as well.
func TrackFieldNames() []string {
	names := maps.Keys(trackFields)
	slices.Sort(names)
	return names
}

// HitFieldNames returns the projectable hit field names, sorted.
func HitFieldNames() []string {
	names := maps.Keys(hitFields)
	slices.Sort(names)
	return names
}
