package km3

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

var detectorMap map[int32]DetectorModule
var stageVocabulary map[int32]string

// DetectorModule is one optical module of the detector layout: its position
// on a line and in space.
type DetectorModule struct {
	DOMID int32   `db:"DomID"`
	Line  int32   `db:"Line"`
	Floor int32   `db:"Floor"`
	PosX  float64 `db:"PosX"`
	PosY  float64 `db:"PosY"`
	PosZ  float64 `db:"PosZ"`
}

type stageNameEntry struct {
	StageID int32  `db:"StageID"`
	Name    string `db:"Name"`
}

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// LoadDatabase loads the detector layout and the run-dependent stage
// vocabulary into the package maps.
func LoadDatabase(dbConn *sqlx.DB, runNumber int, detID int) error {
	var err error
	detectorMap, err = getDetectorFromDB(dbConn, detID)
	if err != nil {
		errMessage := fmt.Errorf("error getting detector layout from database: %w", err)
		logger.Error(errMessage.Error())
		return errMessage
	}
	stageVocabulary, err = getStageVocabularyFromDB(dbConn, runNumber)
	if err != nil {
		errMessage := fmt.Errorf("error getting stage vocabulary from database: %w", err)
		logger.Error(errMessage.Error())
		return errMessage
	}
	return nil
}

// ModulePosition returns the layout entry for one optical module.
func ModulePosition(domID int32) (DetectorModule, bool) {
	module, ok := detectorMap[domID]
	return module, ok
}

// StageName resolves a stage identifier, preferring the run-dependent
// vocabulary loaded from the database over the static table.
func StageName(stage int32) string {
	if name, ok := stageVocabulary[stage]; ok {
		return name
	}
	if name, ok := StageNames[stage]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", stage)
}

// KnownStage reports whether a stage identifier is part of the vocabulary.
// Used to warn about typo'd stage targets before selection runs.
func KnownStage(stage int32) bool {
	if _, ok := stageVocabulary[stage]; ok {
		return true
	}
	_, ok := StageNames[stage]
	return ok
}

func getDetectorFromDB(db *sqlx.DB, detID int) (map[int32]DetectorModule, error) {
	query := "SELECT DomID, Line, Floor, PosX, PosY, PosZ FROM DetectorLayout WHERE DetID = %d ORDER BY Line, Floor"
	query = fmt.Sprintf(query, detID)

	if configuration.Verbosity > 0 {
		logger.Info("Detector layout read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	modules := make(map[int32]DetectorModule)
	for rows.Next() {
		result := DetectorModule{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		modules[result.DOMID] = result
	}
	if err := rows.Err(); err != nil {
		errMessage := fmt.Errorf("error iterating DB rows: %w", err)
		return nil, errMessage
	}
	return modules, nil
}

func getStageVocabularyFromDB(db *sqlx.DB, runNumber int) (map[int32]string, error) {
	query := "SELECT StageID, Name FROM RecStages WHERE MinRun <= %d and MaxRun >= %d"
	query = fmt.Sprintf(query, runNumber, runNumber)

	if configuration.Verbosity > 0 {
		logger.Info("Stage vocabulary read from DB", "database")
	}
	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Query: %s", query)
		logger.Info(message, "database")
	}

	rows, err := db.Queryx(query)
	if err != nil {
		errMessage := fmt.Errorf("error querying database: %w", err)
		return nil, errMessage
	}
	defer rows.Close()

	vocabulary := make(map[int32]string)
	for rows.Next() {
		result := stageNameEntry{}
		err := rows.StructScan(&result)
		if err != nil {
			errMessage := fmt.Errorf("error scanning DB row: %w", err)
			return nil, errMessage
		}
		vocabulary[result.StageID] = result.Name
	}
	if err := rows.Err(); err != nil {
		errMessage := fmt.Errorf("error iterating DB rows: %w", err)
		return nil, errMessage
	}
	return vocabulary, nil
}
