package km3

import (
	"errors"
	"fmt"

	hdf5 "github.com/next-exp/hdf5-go"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const STRLEN = 20

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

type EventSummaryHDF5 struct {
	evt_number   int32
	frame_index  int32
	trigger_mask int64
}

type RunInfoHDF5 struct {
	run_number int32
	det_id     int32
}

type SelectionParamHDF5 struct {
	paramStr [STRLEN]byte
	value    int32
}

// Writer writes reconstruction summaries (run info, event headers, the
// per-event selection and the projected columns) to an HDF5 file.
type Writer struct {
	File           *hdf5.File
	Filename       string
	RunGroup       *hdf5.Group
	RecoGroup      *hdf5.Group
	EventTable     *hdf5.Dataset
	RunInfoTable   *hdf5.Dataset
	SelParamsTable *hdf5.Dataset
	columns        []*hdf5.Dataset
}

func NewWriter(filename string) (*Writer, error) {
	// Set string size for HDF5
	hdf5.SetStringLength(STRLEN)

	if configuration.UseBlosc {
		bloscVersion, bloscDate, err := hdf5.RegisterBlosc()
		if err != nil {
			logger.Error(err.Error())
		} else if configuration.Verbosity > 0 {
			message := fmt.Sprintf("Blosc version: %s, date: %s", bloscVersion, bloscDate)
			logger.Info(message, "writer")
		}
	}

	writer := &Writer{Filename: filename}
	file, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	writer.File = file

	if writer.RunGroup, err = createGroup(file, "Run"); err != nil {
		return nil, err
	}
	if writer.RecoGroup, err = createGroup(file, "Reco"); err != nil {
		return nil, err
	}
	if writer.EventTable, err = createTable(writer.RunGroup, "events", EventSummaryHDF5{}); err != nil {
		return nil, err
	}
	if writer.RunInfoTable, err = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{}); err != nil {
		return nil, err
	}
	if writer.SelParamsTable, err = createTable(writer.RecoGroup, "configuration", SelectionParamHDF5{}); err != nil {
		return nil, err
	}
	return writer, nil
}

// WriteRunInfo writes the run and detector identifiers, once per file.
func (w *Writer) WriteRunInfo(runNumber, detID int32) error {
	info := []RunInfoHDF5{{run_number: runNumber, det_id: detID}}
	return writeArrayToTable(w.RunInfoTable, &info, 0)
}

// WriteEvents writes one header row per event.
func (w *Writer) WriteEvents(events *EventTable) error {
	rows := make([]EventSummaryHDF5, events.NumEvents())
	for i := range rows {
		rows[i] = EventSummaryHDF5{
			evt_number:   events.ID[i],
			frame_index:  events.FrameIndex[i],
			trigger_mask: events.TriggerMask[i],
		}
	}
	return writeArrayToTable(w.EventTable, &rows, 0)
}

// WriteSelectionParams records how the selection was configured: the
// tie-break policy and the target stage list, one row per parameter.
func (w *Writer) WriteSelectionParams(target []int32, policy TieBreak) error {
	params := make([]SelectionParamHDF5, 0, len(target)+1)
	params = append(params, SelectionParamHDF5{
		paramStr: convertToHdf5String("policy"),
		value:    int32(policy),
	})
	for i, stage := range target {
		params = append(params, SelectionParamHDF5{
			paramStr: convertToHdf5String(fmt.Sprintf("stage%d", i)),
			value:    stage,
		})
	}
	return writeArrayToTable(w.SelParamsTable, &params, 0)
}

// WriteSelection writes the per-event selected track index (NoSelection for
// absent events) and the projected columns, one 1D dataset per field.
func (w *Writer) WriteSelection(sel Selection, columns map[string]Column) error {
	dset, err := createValueArray[int64](w.RecoGroup, "selection", len(sel.Index))
	if err != nil {
		return err
	}
	w.columns = append(w.columns, dset)
	if len(sel.Index) > 0 {
		if err := dset.Write(&sel.Index); err != nil {
			return err
		}
	}

	// Deterministic dataset order regardless of map iteration.
	names := maps.Keys(columns)
	slices.Sort(names)
	for _, name := range names {
		column := columns[name]
		switch column.Kind {
		case IntField:
			dset, err := createValueArray[int32](w.RecoGroup, name, len(column.Ints))
			if err != nil {
				return err
			}
			w.columns = append(w.columns, dset)
			if len(column.Ints) > 0 {
				if err := dset.Write(&column.Ints); err != nil {
					return err
				}
			}
		default:
			dset, err := createValueArray[float64](w.RecoGroup, name, len(column.Floats))
			if err != nil {
				return err
			}
			w.columns = append(w.columns, dset)
			if len(column.Floats) > 0 {
				if err := dset.Write(&column.Floats); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *Writer) Close() error {
	var errs []error

	if err := w.EventTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing event table: %w", err))
	}
	if err := w.RunInfoTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
	}
	if err := w.SelParamsTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing selection params table: %w", err))
	}
	for _, dset := range w.columns {
		if err := dset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing column dataset: %w", err))
		}
	}
	if err := w.RunGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run group: %w", err))
	}
	if err := w.RecoGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing reco group: %w", err))
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	group, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return group, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	chunks := []uint{32768}
	plist.SetChunk(chunks)
	setCompression(plist)

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func createValueArray[T int32 | int64 | float64](group *hdf5.Group, name string, length int) (*hdf5.Dataset, error) {
	dims := []uint{uint(length)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, dims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	// Compression needs a chunked layout; an empty dataset gets neither.
	if length > 0 {
		chunk := uint(32768)
		if uint(length) < chunk {
			chunk = uint(length)
		}
		plist.SetChunk([]uint{chunk})
		setCompression(plist)
	}

	var value T
	dtype, err := hdf5.NewDatatypeFromValue(value)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

func setCompression(plist *hdf5.PropList) {
	if configuration.UseBlosc {
		hdf5.ConfigureBloscFilter(plist, configuration.BloscAlgorithm.Code,
			configuration.CompressionLevel, configuration.BloscShuffle.Code)
	} else {
		plist.SetDeflate(configuration.CompressionLevel)
	}
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, rowsInFile int) error {
	length := uint(len(*data))
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	// extend
	offset := uint(rowsInFile)
	newsize := []uint{offset + length}
	dataset.Resize(newsize)
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{offset}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	return dataset.WriteSubset(data, dataspace, filespace)
}
