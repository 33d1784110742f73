package unicorego

// basic data types of the unicore decoder

const (
	VER_UNICOREGO         = "0.1.0"            /* library version */
	PI            float64 = 3.1415926535897932 /* pi */
	D2R                   = (PI / 180.0)       /* deg to rad */
	R2D                   = (180.0 / PI)       /* rad to deg */
)

const (
	SYS_NONE = 0x00 /* navigation system: none */
	SYS_GPS  = 0x01 /* navigation system: GPS */
	SYS_GLO  = 0x04 /* navigation system: GLONASS */
	SYS_BDS  = 0x20 /* navigation system: BeiDou */

	MINPRNGPS = 1                           /* min satellite PRN number of GPS */
	MAXPRNGPS = 32                          /* max satellite PRN number of GPS */
	NSATGPS   = (MAXPRNGPS - MINPRNGPS + 1) /* number of GPS satellites */
	MINPRNGLO = 1                           /* min satellite slot number of GLONASS */
	MAXPRNGLO = 25                          /* max satellite slot number of GLONASS */
	NSATGLO   = (MAXPRNGLO - MINPRNGLO + 1) /* number of GLONASS satellites */
	MINPRNBDS = 1                           /* min satellite PRN number of BeiDou */
	MAXPRNBDS = 37                          /* max satellite PRN number of BeiDou */
	NSATBDS   = (MAXPRNBDS - MINPRNBDS + 1) /* number of BeiDou satellites */
	MAXSAT    = (NSATGPS + NSATGLO + NSATBDS)

	/* receiver satellite id offsets (wire id = prn + offset) */
	RCVOFFGPS = 0
	RCVOFFGLO = 37
	RCVOFFBDS = 160

	NFREQ     = 3    /* number of carrier frequencies */
	MAXOBS    = 64   /* max number of obs in an epoch */
	MAXRAWLEN = 4096 /* max length of receiver raw message */

	SNR_UNIT  = 0.25 /* SNR unit (dBHz) */
	LLI_SLIP  = 0x01 /* LLI: cycle-slip */
	LLI_HALFC = 0x02 /* LLI: half-cycle not resovled */

	ANT_MASTER  = 1 /* receiver/antenna id: primary antenna */
	ANT_HEADING = 2 /* receiver/antenna id: heading (slave) antenna */
)

/* obs codes (RINEX 3 style, subset tracked by unicore receivers) */
const (
	CODE_NONE = 0  /* obs code: none or unknown */
	CODE_L1C  = 1  /* obs code: L1C/A,G1C/A (GPS,GLO) */
	CODE_L2C  = 14 /* obs code: L2C/A,G2C/A (GPS,GLO) */
	CODE_L2P  = 19 /* obs code: L2P,G2P (GPS,GLO) */
	CODE_L5Q  = 25 /* obs code: L5Q (GPS) */
	CODE_L7I  = 27 /* obs code: B2I (BDS) */
	CODE_L2I  = 40 /* obs code: B1I (BDS) */
	CODE_L6I  = 42 /* obs code: B3I (BDS) */
)

// Endian is the declared byte order of a receiver byte stream.
type Endian int

const (
	BIG_ENDIAN    Endian = 0
	LITTLE_ENDIAN Endian = 1
)

// Status is the result kind returned by every decode call.
type Status int

const (
	STAT_EOF    Status = -2 /* end of input */
	STAT_ERROR  Status = -1 /* decode error */
	STAT_NONE   Status = 0  /* no message */
	STAT_OBS    Status = 1  /* observation data */
	STAT_EPH    Status = 2  /* ephemeris */
	STAT_ION    Status = 9  /* ion/utc parameters */
	STAT_OBSH   Status = 11 /* observation data of heading antenna */
	STAT_POS    Status = 21 /* position fix */
	STAT_VEL    Status = 22 /* velocity fix */
	STAT_ATT    Status = 23 /* attitude fix */
	STAT_SATVIS Status = 24 /* satellite visibility */
)

func (s Status) String() string {
	switch s {
	case STAT_EOF:
		return "eof"
	case STAT_ERROR:
		return "error"
	case STAT_NONE:
		return "none"
	case STAT_OBS:
		return "obs"
	case STAT_EPH:
		return "eph"
	case STAT_ION:
		return "ion"
	case STAT_OBSH:
		return "obsh"
	case STAT_POS:
		return "pos"
	case STAT_VEL:
		return "vel"
	case STAT_ATT:
		return "att"
	case STAT_SATVIS:
		return "satvis"
	}
	return "unknown"
}

// Gtime is an epoch: whole seconds since 1970/1/1 plus a fraction in [0,1).
type Gtime struct {
	Time int64   /* time (s) expressed by standard time_t */
	Sec  float64 /* fraction of second under 1 s */
}

type ObsD struct { /* observation data record */
	Time Gtime          /* receiver sampling time (GPST) */
	Sys  int            /* navigation system */
	Sat  int            /* satellite number */
	Rcv  int            /* receiver/antenna number */
	SNR  [NFREQ]uint16  /* signal strength (*SNR_UNIT dBHz) */
	LLI  [NFREQ]uint8   /* loss of lock indicator */
	Code [NFREQ]uint8   /* code indicator (CODE_???) */
	L    [NFREQ]float64 /* observation data carrier-phase (cycle) */
	P    [NFREQ]float64 /* observation data pseudorange (m) */
	D    [NFREQ]float64 /* observation data doppler frequency (Hz) */
}

type Obs struct { /* observation data */
	Data []ObsD /* observation data records, len == MAXOBS */
	N    int    /* number of valid records */
}

type Eph struct { /* GPS/BDS broadcast ephemeris type */
	Sat  int /* satellite number */
	Iode int /* IODE (GPS) or AODE (BDS) */
	Iodc int /* IODC (GPS) or AODC (BDS) */
	Sva  int /* SV accuracy (URA index) */
	Svh  int /* SV health (0:ok) */
	Week int /* GPS week */

	Toe, Toc, Ttr Gtime /* Toe,Toc,T_trans */
	/* SV orbit parameters */
	A, E, I0, OMG0, Omg, M0, Deln, OMGd, Idot float64
	Crc, Crs, Cuc, Cus, Cic, Cis             float64
	N                                        float64 /* corrected mean motion (rad/s) */
	Toes                                     float64 /* Toe (s) in week */
	Tocs                                     float64 /* Toc (s) in week */
	Ura                                      float64 /* user range accuracy (m) */
	F0, F1, F2                               float64 /* SV clock parameters (af0,af1,af2) */
	Tgd                                      [2]float64 /* group delay parameters */
}

type IonUtc struct { /* ionosphere and utc parameters of one system */
	Ion   [8]float64 /* alpha0-3, beta0-3 */
	A0    float64    /* utc offset (s) */
	A1    float64    /* utc drift (s/s) */
	Tot   int        /* utc reference time of week (s) */
	WNt   int        /* utc reference week */
	WNLSF int        /* leap second reference week */
	DN    int        /* leap second reference day */
	DtLS  int        /* leap seconds (system time) */
	DtLSF int        /* future leap seconds */
	Leaps int        /* leap seconds normalized to GPS time */
	Valid bool
}

type Nav struct { /* navigation data */
	Eph    []Eph  /* ephemeris indexed by satellite number - 1, len == MAXSAT */
	IonGps IonUtc /* GPS ion/utc parameters */
	IonBds IonUtc /* BeiDou ion/utc parameters */
	Leaps  int    /* leap seconds (s) */
}

type PosFix struct { /* pseudorange position (PSRPOS) */
	Time       Gtime
	SolStat    int
	PosType    int
	Lat, Lon   float64 /* latitude/longitude (deg) */
	Hgt        float64 /* height above mean sea level (m) */
	Undulation float64 /* geoid undulation (m) */
	LatSig     float64 /* latitude std (m) */
	LonSig     float64 /* longitude std (m) */
	HgtSig     float64 /* height std (m) */
	NumSV      int     /* tracked satellites */
	NumSolnSV  int     /* satellites used in solution */
}

type VelFix struct { /* pseudorange velocity (PSRVEL) */
	Time    Gtime
	SolStat int
	VelType int
	Latency float64 /* velocity latency (s) */
	Age     float64 /* differential age (s) */
	Hspd    float64 /* horizontal speed over ground (m/s) */
	Heading float64 /* track over ground (deg) */
	Vspd    float64 /* vertical speed (m/s) */
}

type AttFix struct { /* dual antenna heading (HEADING) */
	Time       Gtime
	SolStat    int
	PosType    int
	Length     float64 /* baseline length (m) */
	Heading    float64 /* heading (deg) */
	Pitch      float64 /* pitch (deg) */
	Roll       float64 /* roll (deg), not reported by the receiver */
	HeadingSig float64 /* heading std (deg) */
	PitchSig   float64 /* pitch std (deg) */
	NumSV      int
	NumSolnSV  int
}

type SatVisD struct { /* visibility of one satellite */
	Sys     int
	Sat     int
	GloFreq int
	Health  uint32
	Elev    float64 /* elevation (deg) */
	Az      float64 /* azimuth (deg) */
	TrueDop float64 /* theoretical doppler (Hz) */
	AppDop  float64 /* apparent doppler (Hz) */
}

type SatVis struct { /* satellite visibility list (SATVIS) */
	Time        Gtime
	Visible     bool
	CompleteAlm bool
	Data        []SatVisD /* len == MAXOBS */
	N           int
}

// Raw is the decoder context of one receiver byte stream. It is not safe
// for concurrent use.
type Raw struct {
	Time    Gtime  /* message time */
	ObsData Obs    /* observation data */
	NavData Nav    /* satellite ephemerides */
	Pos     PosFix /* position fix */
	Vel     VelFix /* velocity fix */
	Att     AttFix /* attitude fix */
	Vis     SatVis /* satellite visibility */

	Tobs     [2][][NFREQ]Gtime   /* last lock-time sample time per antenna */
	LockTime [2][][NFREQ]float64 /* lock time (s) per antenna */

	EphSat  int    /* satellite number of last ephemeris */
	AntNo   int    /* antenna of last observation message (0:master,1:heading) */
	MsgId   int    /* message id of last decoded message (0: none) */
	MsgType string /* last message type */
	OutType int    /* output message type */
	NumByte int    /* number of bytes in message buffer */
	Len     int    /* message length (bytes) */
	Buff    [MAXRAWLEN]uint8
	Opt     string /* receiver dependent options */
	Tracer  Tracer /* diagnostic sink (nil: none) */

	initialized bool
}
