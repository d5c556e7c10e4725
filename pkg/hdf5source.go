package km3

import (
	"strings"

	hdf5 "github.com/next-exp/hdf5-go"
)

// HDF5Source is a BranchSource over HDF5 files. The expected layout mirrors
// the branch naming: one group per record type ("evt", "hits", "trks",
// "sum"), one 1D dataset per column, and count datasets for the ragged
// levels ("hits/n" per event, "trks/rec_stages_n" per track).
type HDF5Source struct {
	file     *hdf5.File
	filename string
	nEvents  int
	// offsets caches the cumulative offsets of each counts dataset, so
	// event ranges translate to element ranges without re-reading.
	offsets map[string][]int64
}

// Branches whose values nest per track rather than per event.
var trackNestedBranches = map[string]bool{
	"rec_stages": true,
	"fitinf":     true,
	"hit_ids":    true,
}

func OpenHDF5Source(filename string) (*HDF5Source, error) {
	file, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	return &HDF5Source{
		file:     file,
		filename: filename,
		nEvents:  -1,
		offsets:  make(map[string][]int64),
	}, nil
}

func (s *HDF5Source) NumEvents() (int, error) {
	if s.nEvents >= 0 {
		return s.nEvents, nil
	}
	dset, err := s.file.OpenDataset("evt/id")
	if err != nil {
		return 0, &ErrUnknownBranch{Branch: "id"}
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return 0, err
	}
	s.nEvents = int(dims[0])
	return s.nEvents, nil
}

func (s *HDF5Source) NumSlices() (int, error) {
	offsets, err := s.offsetsFor("sum/n")
	if err != nil {
		return 0, err
	}
	return len(offsets) - 1, nil
}

func (s *HDF5Source) Close() error {
	s.offsets = nil
	return s.file.Close()
}

func (s *HDF5Source) Floats(branch string, start, stop int) ([]float64, error) {
	path, lo, hi, err := s.elementRange(branch, start, stop)
	if err != nil {
		return nil, err
	}
	return readSubset[float64](s, path, lo, hi)
}

func (s *HDF5Source) Ints(branch string, start, stop int) ([]int32, error) {
	path, lo, hi, err := s.elementRange(branch, start, stop)
	if err != nil {
		return nil, err
	}
	return readSubset[int32](s, path, lo, hi)
}

func (s *HDF5Source) Longs(branch string, start, stop int) ([]int64, error) {
	path, lo, hi, err := s.elementRange(branch, start, stop)
	if err != nil {
		return nil, err
	}
	return readSubset[int64](s, path, lo, hi)
}

func (s *HDF5Source) Counts(branch string, start, stop int) ([]int64, error) {
	parent, child, nested := strings.Cut(branch, ".")
	if !nested {
		return readSubset[int64](s, parent+"/n", int64(start), int64(stop))
	}
	if parent != "trks" || !trackNestedBranches[child] {
		return nil, &ErrUnknownBranch{Branch: branch}
	}
	trackOffsets, err := s.offsetsFor("trks/n")
	if err != nil {
		return nil, err
	}
	return readSubset[int64](s, "trks/"+child+"_n", trackOffsets[start], trackOffsets[stop])
}

// elementRange translates an event (or slice) range into the element range
// of the branch's values dataset, walking the offset chain for nested
// branches.
func (s *HDF5Source) elementRange(branch string, start, stop int) (string, int64, int64, error) {
	parent, child, nested := strings.Cut(branch, ".")
	if !nested {
		return "evt/" + branch, int64(start), int64(stop), nil
	}

	parentOffsets, err := s.offsetsFor(parent + "/n")
	if err != nil {
		return "", 0, 0, err
	}
	path := parent + "/" + child

	if parent == "trks" && trackNestedBranches[child] {
		nestedOffsets, err := s.offsetsFor("trks/" + child + "_n")
		if err != nil {
			return "", 0, 0, err
		}
		trackStart, trackStop := parentOffsets[start], parentOffsets[stop]
		return path, nestedOffsets[trackStart], nestedOffsets[trackStop], nil
	}

	if parent == "sum" && child == "rates" {
		// N_CHANNELS rate bytes per frame, stored flat.
		return path, N_CHANNELS * parentOffsets[start], N_CHANNELS * parentOffsets[stop], nil
	}

	return path, parentOffsets[start], parentOffsets[stop], nil
}

func (s *HDF5Source) offsetsFor(countsPath string) ([]int64, error) {
	if offsets, ok := s.offsets[countsPath]; ok {
		return offsets, nil
	}
	dset, err := s.file.OpenDataset(countsPath)
	if err != nil {
		return nil, &ErrUnknownBranch{Branch: countsPath}
	}
	defer dset.Close()

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	counts := make([]int64, dims[0])
	if dims[0] > 0 {
		if err := dset.Read(&counts); err != nil {
			return nil, err
		}
	}
	offsets := OffsetsFromCounts(counts)
	s.offsets[countsPath] = offsets
	return offsets, nil
}

func readSubset[T any](s *HDF5Source, path string, lo, hi int64) ([]T, error) {
	dset, err := s.file.OpenDataset(path)
	if err != nil {
		return nil, &ErrUnknownBranch{Branch: path}
	}
	defer dset.Close()

	n := hi - lo
	data := make([]T, n)
	if n == 0 {
		return data, nil
	}

	filespace := dset.Space()
	defer filespace.Close()
	if err := filespace.SelectHyperslab([]uint{uint(lo)}, nil, []uint{uint(n)}, nil); err != nil {
		return nil, err
	}
	memspace, err := hdf5.CreateSimpleDataspace([]uint{uint(n)}, nil)
	if err != nil {
		return nil, err
	}
	defer memspace.Close()

	if err := dset.ReadSubset(&data, memspace, filespace); err != nil {
		return nil, err
	}
	return data, nil
}
