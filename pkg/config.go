package km3

type Configuration struct {
	MaxEvents        int            `json:"max_events"`
	Skip             int            `json:"skip"`
	Verbosity        int            `json:"verbosity"`
	FileIn           string         `json:"file_in"`
	FileOut          string         `json:"file_out"`
	Selection        string         `json:"selection"`
	TargetStages     []int32        `json:"target_stages"`
	FirstMatch       bool           `json:"first_match"`
	Fields           []string       `json:"fields"`
	ProjectHits      bool           `json:"project_hits"`
	HitFields        []string       `json:"hit_fields"`
	ReadSummary      bool           `json:"read_summary"`
	WriteData        bool           `json:"write_data"`
	NoDB             bool           `json:"no_db"`
	Host             string         `json:"host"`
	User             string         `json:"user"`
	Passwd           string         `json:"pass"`
	DBName           string         `json:"dbname"`
	DetectorID       int            `json:"detector_id"`
	UseBlosc         bool           `json:"use_blosc"`
	CompressionLevel int            `json:"compression_level"`
	BloscAlgorithm   BloscAlgorithm `json:"blosc_algorithm"`
	BloscShuffle     BloscShuffle   `json:"blosc_shuffle"`
}

var configuration Configuration

func GetConfiguration() Configuration {
	return configuration
}

func SetConfiguration(config Configuration) {
	configuration = config
}
