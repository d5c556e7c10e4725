package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"

	km3 "github.com/jmbenlloch/km3go/pkg"
)

var dbConn *sqlx.DB
var configuration km3.Configuration

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	km3.SetConfiguration(configuration)
	km3.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	if !configuration.NoDB {
		dbConn, err = km3.ConnectToDatabase(configuration.User, configuration.Passwd,
			configuration.Host, configuration.DBName)
		if err != nil {
			message := fmt.Errorf("Error connecting to database: %w", err)
			logger.Error(message.Error())
			return
		}
		defer dbConn.Close()
	}

	source, err := km3.OpenHDF5Source(configuration.FileIn)
	if err != nil {
		logger.Error(err.Error())
		return
	}
	reader := km3.NewReader(source)
	defer reader.Close()

	evtCount, err := reader.NumEvents()
	if err != nil {
		message := fmt.Errorf("error counting events: %w", err)
		logger.Error(message.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Number of events: %d", evtCount)
		logger.Info(message, "main")
	}

	start, stop := eventRange(evtCount, configuration.Skip, configuration.MaxEvents)

	events, err := reader.Events(start, stop)
	if err != nil {
		message := fmt.Errorf("error reading event headers: %w", err)
		logger.Error(message.Error())
		return
	}

	if !configuration.NoDB && len(events.RunID) > 0 {
		err = km3.LoadDatabase(dbConn, int(events.RunID[0]), configuration.DetectorID)
		if err != nil {
			return
		}
		warnUnknownStages(configuration.TargetStages)
	}

	tracks, err := reader.Tracks(start, stop)
	if err != nil {
		message := fmt.Errorf("error reading tracks: %w", err)
		logger.Error(message.Error())
		return
	}

	startTime := time.Now()

	selection, err := selectTracks(tracks)
	if err != nil {
		message := fmt.Errorf("track selection failed: %w", err)
		logger.Error(message.Error())
		return
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Selected tracks in %d of %d events",
			selection.Selected(), selection.NumEvents())
		logger.Info(message, "main")
	}

	columns, err := km3.Project(tracks, selection, configuration.Fields)
	if err != nil {
		message := fmt.Errorf("projection failed: %w", err)
		logger.Error(message.Error())
		return
	}

	if configuration.ProjectHits {
		if err := projectHits(reader, tracks, selection, start, stop); err != nil {
			logger.Error(err.Error())
			return
		}
	}

	if configuration.ReadSummary {
		if err := summarizeSlices(reader); err != nil {
			logger.Error(err.Error())
			return
		}
	}

	if configuration.WriteData {
		if err := writeOutput(events, selection, columns); err != nil {
			logger.Error(err.Error())
			return
		}
	}

	duration := time.Since(startTime)
	message := fmt.Sprintf("Total time: %d ms", duration.Milliseconds())
	logger.Info(message, "main")
}

func eventRange(evtCount, skip, maxEvents int) (int, int) {
	start := skip
	if start > evtCount {
		start = evtCount
	}
	stop := start + maxEvents
	if stop > evtCount {
		stop = evtCount
	}
	return start, stop
}

func selectTracks(tracks *km3.TrackTable) (km3.Selection, error) {
	switch configuration.Selection {
	case "best":
		return km3.SelectBest(tracks), nil
	case "stages":
		policy := km3.FailOnAmbiguity
		if configuration.FirstMatch {
			policy = km3.FirstInStorageOrder
		}
		return km3.SelectByStages(tracks, configuration.TargetStages, policy)
	case "jmuon":
		return km3.BestJMuon(tracks), nil
	case "jshower":
		return km3.BestJShower(tracks), nil
	case "aashower":
		return km3.BestAAShower(tracks), nil
	case "dusjshower":
		return km3.BestDusjShower(tracks), nil
	default:
		return km3.Selection{}, fmt.Errorf("unknown selection mode %q", configuration.Selection)
	}
}

func warnUnknownStages(target []int32) {
	for _, stage := range target {
		if !km3.KnownStage(stage) {
			message := fmt.Sprintf("Target stage %d is not in the stage vocabulary", stage)
			logger.Error(message)
		} else if VerbosityLevel > 1 {
			message := fmt.Sprintf("Target stage %d: %s", stage, km3.StageName(stage))
			logger.Info(message, "main")
		}
	}
}

func projectHits(reader *km3.Reader, tracks *km3.TrackTable, selection km3.Selection, start, stop int) error {
	hits, err := reader.Hits(start, stop)
	if err != nil {
		return fmt.Errorf("error reading hits: %w", err)
	}
	hitColumns, err := km3.ProjectCross(tracks, hits, selection, configuration.HitFields)
	if err != nil {
		return fmt.Errorf("hit projection failed: %w", err)
	}
	if VerbosityLevel > 0 {
		for name, column := range hitColumns {
			total := column.Ints.NumValues() + column.Floats.NumValues()
			message := fmt.Sprintf("Projected %d hit values for field %s", total, name)
			logger.Info(message, "main")
		}
	}
	return nil
}

func summarizeSlices(reader *km3.Reader) error {
	nSlices, err := reader.NumSlices()
	if err != nil {
		return fmt.Errorf("error counting summary slices: %w", err)
	}
	summary, err := reader.SummarySlices(0, nSlices)
	if err != nil {
		return fmt.Errorf("error reading summary slices: %w", err)
	}
	framesWithTrailer := 0
	var udpPackets uint64
	for frame := 0; frame < summary.NumFrames(); frame++ {
		if summary.HasUDPTrailer(frame) {
			framesWithTrailer++
		}
		udpPackets += uint64(summary.UDPPackets(frame))
	}
	hrvCounts := summary.HRVCount()
	framesWithHRV := 0
	for _, n := range hrvCounts {
		if n > 0 {
			framesWithHRV++
		}
	}
	message := fmt.Sprintf("Summary: %d slices, %d frames, %d with UDP trailer, %d with HRV, %d UDP packets",
		summary.NumSlices(), summary.NumFrames(), framesWithTrailer, framesWithHRV, udpPackets)
	logger.Info(message, "summary")
	return nil
}

func writeOutput(events *km3.EventTable, selection km3.Selection, columns map[string]km3.Column) error {
	writer, err := km3.NewWriter(configuration.FileOut)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := writeTables(writer, events, selection, columns); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func writeTables(writer *km3.Writer, events *km3.EventTable, selection km3.Selection, columns map[string]km3.Column) error {
	runNumber := int32(0)
	detID := int32(0)
	if len(events.RunID) > 0 {
		runNumber = events.RunID[0]
		detID = events.DetID[0]
	}
	if err := writer.WriteRunInfo(runNumber, detID); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}
	if err := writer.WriteEvents(events); err != nil {
		return fmt.Errorf("error writing events: %w", err)
	}
	policy := km3.FailOnAmbiguity
	if configuration.FirstMatch {
		policy = km3.FirstInStorageOrder
	}
	if err := writer.WriteSelectionParams(configuration.TargetStages, policy); err != nil {
		return fmt.Errorf("error writing selection params: %w", err)
	}
	if err := writer.WriteSelection(selection, columns); err != nil {
		return fmt.Errorf("error writing selection: %w", err)
	}
	return nil
}
