package km3

// Constants from the KM3NeT data format definitions
// https://git.km3net.de/common/km3net-dataformat

// Reconstruction types and stage identifiers. Each fitting chain owns a
// numeric range; a track's rec_stages records which stages of its chain
// completed.
const (
	JPP_RECONSTRUCTION_TYPE = 4000

	JMUONBEGIN   = 0
	JMUONPREFIT  = 1
	JMUONSIMPLEX = 2
	JMUONGANDALF = 3
	JMUONENERGY  = 4
	JMUONSTART   = 5
	JLINEFIT     = 6
	JMUONEND     = 99

	JSHOWERBEGIN           = 100
	JSHOWERPREFIT          = 101
	JSHOWERPOSITIONFIT     = 102
	JSHOWERCOMPLETEFIT     = 103
	JSHOWER_BJORKEN_Y      = 104
	JSHOWERENERGYPREFIT    = 105
	JSHOWERPOINTSIMPLEX    = 106
	JSHOWERDIRECTIONPREFIT = 107
	JSHOWEREND             = 199

	DUSJ_RECONSTRUCTION_TYPE = 200
	DUSJSHOWERBEGIN          = 200
	DUSJSHOWERPREFIT         = 201
	DUSJSHOWERPOSITIONFIT    = 202
	DUSJSHOWERCOMPLETEFIT    = 203
	DUSJSHOWEREND            = 299

	AANET_RECONSTRUCTION_TYPE     = 101
	AASHOWERBEGIN                 = 300
	AASHOWERFITPREFIT             = 302
	AASHOWERFITPOSITIONFIT        = 303
	AASHOWERFITDIRECTIONENERGYFIT = 304
	AASHOWEREND                   = 399

	JUSERBEGIN = 1000
	JMUONVETO  = 1001
	JMUONPATH  = 1003
	JMCEVT     = 1004
	JUSEREND   = 1099

	RECTYPE_UNKNOWN  = -1
	RECSTAGE_UNKNOWN = -1
)

// StageNames maps stage identifiers to their names, used for log output and
// for validating configured stage targets.
var StageNames = map[int32]string{
	JMUONPREFIT:                   "JMUONPREFIT",
	JMUONSIMPLEX:                  "JMUONSIMPLEX",
	JMUONGANDALF:                  "JMUONGANDALF",
	JMUONENERGY:                   "JMUONENERGY",
	JMUONSTART:                    "JMUONSTART",
	JLINEFIT:                      "JLINEFIT",
	JSHOWERPREFIT:                 "JSHOWERPREFIT",
	JSHOWERPOSITIONFIT:            "JSHOWERPOSITIONFIT",
	JSHOWERCOMPLETEFIT:            "JSHOWERCOMPLETEFIT",
	JSHOWER_BJORKEN_Y:             "JSHOWER_BJORKEN_Y",
	JSHOWERENERGYPREFIT:           "JSHOWERENERGYPREFIT",
	JSHOWERPOINTSIMPLEX:           "JSHOWERPOINTSIMPLEX",
	JSHOWERDIRECTIONPREFIT:        "JSHOWERDIRECTIONPREFIT",
	DUSJSHOWERPREFIT:              "DUSJSHOWERPREFIT",
	DUSJSHOWERPOSITIONFIT:         "DUSJSHOWERPOSITIONFIT",
	DUSJSHOWERCOMPLETEFIT:         "DUSJSHOWERCOMPLETEFIT",
	AASHOWERFITPREFIT:             "AASHOWERFITPREFIT",
	AASHOWERFITPOSITIONFIT:        "AASHOWERFITPOSITIONFIT",
	AASHOWERFITDIRECTIONENERGYFIT: "AASHOWERFITDIRECTIONENERGYFIT",
	JMUONVETO:                     "JMUONVETO",
	JMUONPATH:                     "JMUONPATH",
	JMCEVT:                        "JMCEVT",
}

// FitParameters maps fit parameter names to their slot in the per-track
// fitinf vector. The projector resolves these names like regular fields.
var FitParameters = map[string]int{
	"JGANDALF_BETA0_RAD":            0,
	"JGANDALF_BETA1_RAD":            1,
	"JGANDALF_CHI2":                 2,
	"JGANDALF_NUMBER_OF_HITS":       3,
	"JENERGY_ENERGY":                4,
	"JENERGY_CHI2":                  5,
	"JGANDALF_LAMBDA":               6,
	"JGANDALF_NUMBER_OF_ITERATIONS": 7,
	"JSTART_NPE_MIP":                8,
	"JSTART_NPE_MIP_TOTAL":          9,
	"JSTART_LENGTH_METRES":          10,
	"JVETO_NPE":                     11,
	"JVETO_NUMBER_OF_HITS":          12,
	"JENERGY_MUON_RANGE_METRES":     13,
	"JENERGY_NOISE_LIKELIHOOD":      14,
	"JENERGY_NDF":                   15,
	"JENERGY_NUMBER_OF_HITS":        16,
	"JCOPY_Z_M":                     17,
	"JSHOWERFIT_ENERGY":             4,
}

// Trigger bit positions in the event trigger mask.
const (
	JTRIGGER3DSHOWER = 1
	JTRIGGERMXSHOWER = 2
	JTRIGGER3DMUON   = 4
	JTRIGGERNB       = 5
	FACTORY_LIMIT    = 31
)

// DAQ datatype codes.
const (
	DAQSUPERFRAME   = 101
	DAQSUMMARYFRAME = 201
	DAQTIMESLICE    = 1001
	DAQTIMESLICEL0  = 1002
	DAQTIMESLICEL1  = 1003
	DAQTIMESLICEL2  = 1004
	DAQTIMESLICESN  = 1005
	DAQSUMMARYSLICE = 2001
	DAQEVENT        = 10001
)

// Summary-frame word geometry.
const (
	N_CHANNELS      = 31 // PMT channels per optical module
	UDP_TRAILER_BIT = 31 // trailer flag in the fifo word
)

// PMTStatusLayout is the bit layout of the per-PMT status word.
var PMTStatusLayout = BitLayout{
	"PMT_DISABLE":            {Offset: 0, Width: 1},
	"HIGH_RATE_VETO_DISABLE": {Offset: 1, Width: 1},
	"FIFO_FULL_DISABLE":      {Offset: 2, Width: 1},
	"UDP_COUNTER_DISABLE":    {Offset: 3, Width: 1},
	"UDP_TRAILER_DISABLE":    {Offset: 4, Width: 1},
	"OUT_OF_SYNC":            {Offset: 5, Width: 1},
}

// DQStatusLayout is the bit layout of the summary-frame dq_status word.
var DQStatusLayout = BitLayout{
	"UDP_PACKETS":      {Offset: 0, Width: 15},
	"UDP_MAX_SEQUENCE": {Offset: 16, Width: 16},
}
