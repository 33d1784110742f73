/*------------------------------------------------------------------------------
* unicore.go : Unicore UB4B0/UM4B0 binary receiver functions
*
*          Copyright (C) 2007-2020 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* reference :
*     [1] NovAtel, OM-20000094 Rev6 OEMV Family Firmware Reference Manual, 2008
*     [2] Unicore, UB4B0 Commands and Logs Reference Manual (NovAtel OEM4
*         compatible binary logs)
*
* notes   : the unicore binary log shares the oem4 frame (sync AA 44 12,
*           header length at byte 3, crc-32 trailer). the byte order of the
*           stream is selected by receiver option -LE (default big-endian).
*
* history : 2016/07/06 1.0  new (gps/bds ephemeris, ion/utc, range, rangeh,
*                           psrpos, psrvel, heading)
*           2022/09/21 1.1  rewrite the file with golang
*           2023/03/02 1.2  store gps ephemeris by gps satellite number
*                           reject whole range log on unknown signal type
*                           add satvis log
*-----------------------------------------------------------------------------*/
package unicorego

import (
	"fmt"
	"math"
)

const (
	UNISYNC1   = 0xAA /* unicore message start sync code 1 */
	UNISYNC2   = 0x44 /* unicore message start sync code 2 */
	UNISYNC3   = 0x12 /* unicore message start sync code 3 */
	UNIHLEN    = 28   /* unicore message header length (bytes) */
	UNIHLENMIN = 20   /* min header length holding the time fields (bytes) */
	UNISYNCLEN = 10   /* sync window: sync code to message length (bytes) */

	/* message IDs */
	ID_GPSEPHEM  = 7    /* gps decoded ephemeris */
	ID_IONUTC    = 8    /* gps iono and utc data */
	ID_RANGE     = 43   /* range measurement */
	ID_PSRPOS    = 47   /* pseudorange position */
	ID_SATVIS    = 48   /* satellite visibility */
	ID_PSRVEL    = 100  /* pseudorange velocity */
	ID_HEADING   = 971  /* dual antenna heading */
	ID_BD2EPHEM  = 1047 /* bds decoded ephemeris */
	ID_BD2IONUTC = 2010 /* bds iono and utc data */
	ID_RANGEH    = 6005 /* range measurement of heading antenna */

	LEN_GPSEPHEM = 224 /* payload lengths (bytes) */
	LEN_BD2EPHEM = 232
	LEN_IONUTC   = 108
	LEN_RANGEOBS = 44
	LEN_PSRPOS   = 66
	LEN_PSRVEL   = 40
	LEN_HEADING  = 38
	LEN_SATVIS   = 40

	BDSLEAPOFF = 14 /* gpst - bdt (s) */
)

/* URA value (m) to URA index ------------------------------------------------*/
func uraindex(value float64) int {
	ura_eph := []float64{
		2.4, 3.4, 4.85, 6.85, 9.65, 13.65, 24.0, 48.0, 96.0, 192.0, 384.0, 768.0, 1536.0,
		3072.0, 6144.0}
	var i int
	for i = 0; i < len(ura_eph); i++ {
		if ura_eph[i] >= value {
			break
		}
	}
	return i
}

/* payload offset and length of current message ------------------------------*/
func payload(raw *Raw) (int, int) {
	p := int(raw.Buff[3])
	return p, raw.Len - p - 4
}

/* get observation data index --------------------------------------------------
* search the records of the current epoch for the satellite, append a record
* if not found. the search is linear, n is bounded by MAXOBS.
*-----------------------------------------------------------------------------*/
func obsindex(raw *Raw, time Gtime, sys, sat, rcv int) int {
	var i, j int

	for i = 0; i < raw.ObsData.N; i++ {
		d := &raw.ObsData.Data[i]
		if d.Sys == sys && d.Sat == sat && d.Rcv == rcv {
			return i
		}
	}
	if raw.ObsData.N >= MAXOBS {
		return -1
	}
	d := &raw.ObsData.Data[i]
	d.Time = time
	d.Sys = sys
	d.Sat = sat
	d.Rcv = rcv
	for j = 0; j < NFREQ; j++ {
		d.L[j], d.P[j], d.D[j] = 0.0, 0.0, 0.0
		d.SNR[j], d.LLI[j] = 0, 0
		d.Code[j] = CODE_NONE
	}
	raw.ObsData.N++
	return i
}

/* signal type to obs code and frequency index -------------------------------*/
func sig2code(sys, sigtype int) (int, int) {
	switch sys {
	case SYS_GPS:
		switch sigtype {
		case 0:
			return CODE_L1C, 0 /* L1C/A */
		case 5, 9:
			return CODE_L2P, 1 /* L2P, L2P codeless */
		case 17:
			return CODE_L2C, 1 /* L2C */
		case 14:
			return CODE_L5Q, 2 /* L5Q */
		}
	case SYS_GLO:
		switch sigtype {
		case 0:
			return CODE_L1C, 0 /* L1C/A */
		case 5:
			return CODE_L2P, 1 /* L2P */
		}
	case SYS_BDS:
		switch sigtype {
		case 0:
			return CODE_L2I, 0 /* B1I */
		case 17:
			return CODE_L7I, 1 /* B2I */
		case 21:
			return CODE_L6I, 2 /* B3I */
		}
	}
	return CODE_NONE, -1
}

/* decode tracking status --------------------------------------------------------
* deocode tracking status
* args   : uint32 stat      I  tracking status field
* return : system, obs code, freq-index (-1:error), parity known flag
* notes  : satellite system in bit 16-18, signal type in bit 21-25
*          the word is read in stream byte order like every other field
*          (receivers copying it raw differ only on big-endian streams)
*-----------------------------------------------------------------------------*/
func decode_track_stat(raw *Raw, stat uint32) (sys, code, idx, parity int) {
	parity = int((stat >> 11) & 1)
	satsys := int((stat >> 16) & 7)
	sigtype := int((stat >> 21) & 0x1F)

	switch satsys {
	case 0:
		sys = SYS_GPS
	case 1:
		sys = SYS_GLO
	case 4:
		sys = SYS_BDS
	default:
		raw.trace(2, "unicore unknown system: sys=%d\n", satsys)
		return SYS_NONE, CODE_NONE, -1, parity
	}
	if code, idx = sig2code(sys, sigtype); idx < 0 {
		raw.trace(2, "unicore signal type error: sys=%d sigtype=%d\n", sys, sigtype)
	}
	return sys, code, idx, parity
}

type rangeobs struct {
	sys, sat, idx, code, parity int
	psr, adr, dop, cno, lockt   float64
}

/* decode RANGE/RANGEH -----------------------------------------------------------
* all entries are checked before any record is written, an unknown system or
* signal type discards the whole log
*-----------------------------------------------------------------------------*/
func decode_range(raw *Raw, ant int) Status {
	var (
		e      = optEndian(raw.Opt)
		p, n   = payload(raw)
		i, q   int
		nobs   int
		obs    []rangeobs
		tt     float64
		lli    int
		result = STAT_OBS
		rcv    = ANT_MASTER
	)
	if ant > 0 {
		result, rcv = STAT_OBSH, ANT_HEADING
	}
	if n < 4 {
		raw.trace(2, "unicore range length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	if nobs = int(I4(raw.Buff[p:], e)); nobs < 0 || n < 4+nobs*LEN_RANGEOBS {
		raw.trace(2, "unicore range length error: len=%d nobs=%d\n", raw.Len, nobs)
		return STAT_ERROR
	}
	if raw.OutType > 0 {
		raw.MsgType += fmt.Sprintf(" nobs=%d", nobs)
	}
	obs = make([]rangeobs, 0, nobs)

	for i, q = 0, p+4; i < nobs; i, q = i+1, q+LEN_RANGEOBS {
		var o rangeobs

		if o.sys, o.code, o.idx, o.parity = decode_track_stat(raw, U4(raw.Buff[q+40:], e)); o.idx < 0 {
			return STAT_ERROR
		}
		prn := int(U2(raw.Buff[q:], e))
		if sys, pr := RcvSat(prn); sys == o.sys {
			prn = pr
		}
		if o.sat = SatNo(o.sys, prn); o.sat == 0 {
			raw.trace(2, "unicore range satellite number error: sys=%d prn=%d\n", o.sys, prn)
			return STAT_ERROR
		}
		o.psr = R8(raw.Buff[q+4:], e)
		o.adr = R8(raw.Buff[q+16:], e)
		o.dop = float64(R4(raw.Buff[q+28:], e))
		o.cno = float64(R4(raw.Buff[q+32:], e))
		o.lockt = float64(R4(raw.Buff[q+36:], e))
		obs = append(obs, o)
	}

	/* new epoch clears the collection */
	if raw.ObsData.N > 0 && math.Abs(TimeDiff(raw.ObsData.Data[0].Time, raw.Time)) > 1e-9 {
		raw.ObsData.N = 0
	}
	for _, o := range obs {
		lli = 0
		if tobs := raw.Tobs[ant][o.sat-1][o.idx]; tobs.Time != 0 {
			tt = TimeDiff(raw.Time, tobs)
			if o.lockt-raw.LockTime[ant][o.sat-1][o.idx]+0.05 <= tt {
				lli = LLI_SLIP
			}
		}
		if o.parity == 0 {
			lli |= LLI_HALFC
		}
		raw.Tobs[ant][o.sat-1][o.idx] = raw.Time
		raw.LockTime[ant][o.sat-1][o.idx] = o.lockt

		index := obsindex(raw, raw.Time, o.sys, o.sat, rcv)
		if index < 0 {
			raw.trace(2, "unicore range obs overflow: sat=%s\n", SatNo2Id(o.sat))
			continue
		}
		d := &raw.ObsData.Data[index]
		d.P[o.idx] = o.psr
		d.L[o.idx] = -o.adr
		d.D[o.idx] = o.dop
		d.SNR[o.idx] = uint16(math.Max(math.Floor(o.cno/SNR_UNIT), 0.0))
		d.LLI[o.idx] = uint8(lli)
		d.Code[o.idx] = uint8(o.code)
	}
	raw.AntNo = ant
	return result
}

/* decode ephemeris fields common to gps and bds -----------------------------*/
func decode_ephcmn(raw *Raw, p int, e Endian, eph *Eph) {
	eph.Week = int(U4(raw.Buff[p+24:], e))
	eph.Toes = R8(raw.Buff[p+32:], e)
	eph.A = R8(raw.Buff[p+40:], e)
	eph.Deln = R8(raw.Buff[p+48:], e)
	eph.M0 = R8(raw.Buff[p+56:], e)
	eph.E = R8(raw.Buff[p+64:], e)
	eph.Omg = R8(raw.Buff[p+72:], e)
	eph.Cuc = R8(raw.Buff[p+80:], e)
	eph.Cus = R8(raw.Buff[p+88:], e)
	eph.Crc = R8(raw.Buff[p+96:], e)
	eph.Crs = R8(raw.Buff[p+104:], e)
	eph.Cic = R8(raw.Buff[p+112:], e)
	eph.Cis = R8(raw.Buff[p+120:], e)
	eph.I0 = R8(raw.Buff[p+128:], e)
	eph.Idot = R8(raw.Buff[p+136:], e)
	eph.OMG0 = R8(raw.Buff[p+144:], e)
	eph.OMGd = R8(raw.Buff[p+152:], e)
	eph.Iodc = int(U4(raw.Buff[p+160:], e))
	eph.Tocs = R8(raw.Buff[p+164:], e)
	eph.Tgd[0] = R8(raw.Buff[p+172:], e)
}

/* satellite number of ephemeris log -----------------------------------------*/
func ephsat(raw *Raw, p int, e Endian, sys int, name string) int {
	id := int(U4(raw.Buff[p:], e))
	s, prn := RcvSat(id)
	if s != sys {
		raw.trace(2, "unicore %s satellite error: id=%d sys=%d\n", name, id, s)
		return 0
	}
	if raw.OutType > 0 {
		raw.MsgType += fmt.Sprintf(" prn=%d", prn)
	}
	return SatNo(sys, prn)
}

/* decode GPSEPHEM -----------------------------------------------------------*/
func decode_gpsephem(raw *Raw) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
		eph  = Eph{Iode: -1, Iodc: -1}
		tow  float64
		sat  int
	)
	if n < LEN_GPSEPHEM {
		raw.trace(2, "unicore gpsephem length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	if sat = ephsat(raw, p, e, SYS_GPS, "gpsephem"); sat == 0 {
		return STAT_ERROR
	}
	tow = R8(raw.Buff[p+4:], e)
	eph.Svh = int(U4(raw.Buff[p+12:], e))
	eph.Iode = int(U4(raw.Buff[p+20:], e)) /* IODE2 */
	decode_ephcmn(raw, p, e, &eph)
	eph.F0 = R8(raw.Buff[p+180:], e)
	eph.F1 = R8(raw.Buff[p+188:], e)
	eph.F2 = R8(raw.Buff[p+196:], e)
	eph.N = R8(raw.Buff[p+208:], e)
	eph.Ura = R8(raw.Buff[p+216:], e)

	eph.Sat = sat
	eph.Sva = uraindex(eph.Ura)
	eph.Toe = GpsT2Time(eph.Week, eph.Toes)
	eph.Toc = GpsT2Time(eph.Week, eph.Tocs)
	eph.Ttr = GpsT2Time(eph.Week, tow)

	raw.NavData.Eph[sat-1] = eph
	raw.EphSat = sat
	return STAT_EPH
}

/* decode BD2EPHEM -------------------------------------------------------------
* notes  : week and times of the log are in gps time
*-----------------------------------------------------------------------------*/
func decode_bd2ephem(raw *Raw) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
		eph  = Eph{Iode: -1, Iodc: -1}
		tow  float64
		sat  int
	)
	if n < LEN_BD2EPHEM {
		raw.trace(2, "unicore bd2ephem length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	if sat = ephsat(raw, p, e, SYS_BDS, "bd2ephem"); sat == 0 {
		return STAT_ERROR
	}
	tow = R8(raw.Buff[p+4:], e)
	eph.Svh = int(U4(raw.Buff[p+12:], e))
	eph.Iode = int(U4(raw.Buff[p+16:], e)) /* AODE */
	decode_ephcmn(raw, p, e, &eph)         /* Iodc: AODC */
	eph.Tgd[1] = R8(raw.Buff[p+180:], e)
	eph.F0 = R8(raw.Buff[p+188:], e)
	eph.F1 = R8(raw.Buff[p+196:], e)
	eph.F2 = R8(raw.Buff[p+204:], e)
	eph.N = R8(raw.Buff[p+216:], e)
	eph.Ura = R8(raw.Buff[p+224:], e)

	eph.Sat = sat
	eph.Sva = uraindex(eph.Ura)
	eph.Toe = GpsT2Time(eph.Week, eph.Toes)
	eph.Toc = GpsT2Time(eph.Week, eph.Tocs)
	eph.Ttr = GpsT2Time(eph.Week, tow)

	raw.NavData.Eph[sat-1] = eph
	raw.EphSat = sat
	return STAT_EPH
}

/* decode IONUTC/BD2IONUTC ---------------------------------------------------*/
func decode_ionutc(raw *Raw, sys int) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
		ion  IonUtc
	)
	if n < LEN_IONUTC {
		raw.trace(2, "unicore ionutc length error: len=%d sys=%d\n", raw.Len, sys)
		return STAT_ERROR
	}
	for i := 0; i < 8; i++ {
		ion.Ion[i] = R8(raw.Buff[p+i*8:], e)
	}
	ion.WNt = int(U4(raw.Buff[p+64:], e))
	ion.Tot = int(U4(raw.Buff[p+68:], e))
	ion.A0 = R8(raw.Buff[p+72:], e)
	ion.A1 = R8(raw.Buff[p+80:], e)
	ion.WNLSF = int(U4(raw.Buff[p+88:], e))
	ion.DN = int(U4(raw.Buff[p+92:], e))
	ion.DtLS = int(I4(raw.Buff[p+96:], e))
	ion.DtLSF = int(I4(raw.Buff[p+100:], e))
	ion.Leaps = ion.DtLS
	ion.Valid = true

	if sys == SYS_BDS {
		ion.Leaps += BDSLEAPOFF
		raw.NavData.IonBds = ion
	} else {
		raw.NavData.IonGps = ion
	}
	raw.NavData.Leaps = ion.Leaps
	return STAT_ION
}

/* decode PSRPOS -------------------------------------------------------------*/
func decode_psrpos(raw *Raw) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
	)
	if n < LEN_PSRPOS {
		raw.trace(2, "unicore psrpos length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	raw.Pos = PosFix{
		Time:       raw.Time,
		SolStat:    int(U4(raw.Buff[p:], e)),
		PosType:    int(U4(raw.Buff[p+4:], e)),
		Lat:        R8(raw.Buff[p+8:], e),
		Lon:        R8(raw.Buff[p+16:], e),
		Hgt:        R8(raw.Buff[p+24:], e),
		Undulation: float64(R4(raw.Buff[p+32:], e)),
		LatSig:     float64(R4(raw.Buff[p+40:], e)),
		LonSig:     float64(R4(raw.Buff[p+44:], e)),
		HgtSig:     float64(R4(raw.Buff[p+48:], e)),
		NumSV:      int(U1(raw.Buff[p+64:])),
		NumSolnSV:  int(U1(raw.Buff[p+65:])),
	}
	return STAT_POS
}

/* decode PSRVEL -------------------------------------------------------------*/
func decode_psrvel(raw *Raw) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
	)
	if n < LEN_PSRVEL {
		raw.trace(2, "unicore psrvel length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	raw.Vel = VelFix{
		Time:    raw.Time,
		SolStat: int(U4(raw.Buff[p:], e)),
		VelType: int(U4(raw.Buff[p+4:], e)),
		Latency: float64(R4(raw.Buff[p+8:], e)),
		Age:     float64(R4(raw.Buff[p+12:], e)),
		Hspd:    R8(raw.Buff[p+16:], e),
		Heading: R8(raw.Buff[p+24:], e),
		Vspd:    R8(raw.Buff[p+32:], e),
	}
	return STAT_VEL
}

/* decode HEADING ------------------------------------------------------------*/
func decode_heading(raw *Raw) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
	)
	if n < LEN_HEADING {
		raw.trace(2, "unicore heading length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	raw.Att = AttFix{
		Time:       raw.Time,
		SolStat:    int(U4(raw.Buff[p:], e)),
		PosType:    int(U4(raw.Buff[p+4:], e)),
		Length:     float64(R4(raw.Buff[p+8:], e)),
		Heading:    float64(R4(raw.Buff[p+12:], e)),
		Pitch:      float64(R4(raw.Buff[p+16:], e)),
		HeadingSig: float64(R4(raw.Buff[p+24:], e)),
		PitchSig:   float64(R4(raw.Buff[p+28:], e)),
		NumSV:      int(U1(raw.Buff[p+36:])),
		NumSolnSV:  int(U1(raw.Buff[p+37:])),
	}
	return STAT_ATT
}

/* decode SATVIS ---------------------------------------------------------------
* satellites with unknown receiver ids are skipped, at most MAXOBS are kept
*-----------------------------------------------------------------------------*/
func decode_satvis(raw *Raw) Status {
	var (
		e    = optEndian(raw.Opt)
		p, n = payload(raw)
		nsat int
		vis  []SatVisD
	)
	if n < 12 {
		raw.trace(2, "unicore satvis length error: len=%d\n", raw.Len)
		return STAT_ERROR
	}
	if nsat = int(U4(raw.Buff[p+8:], e)); n < 12+nsat*LEN_SATVIS {
		raw.trace(2, "unicore satvis length error: len=%d nsat=%d\n", raw.Len, nsat)
		return STAT_ERROR
	}
	if raw.OutType > 0 {
		raw.MsgType += fmt.Sprintf(" nsat=%d", nsat)
	}
	for i, q := 0, p+12; i < nsat; i, q = i+1, q+LEN_SATVIS {
		id := int(I2(raw.Buff[q:], e))
		sys, prn := RcvSat(id)
		sat := SatNo(sys, prn)
		if sat == 0 {
			raw.trace(3, "unicore satvis satellite skipped: id=%d\n", id)
			continue
		}
		if len(vis) >= MAXOBS {
			raw.trace(2, "unicore satvis overflow: nsat=%d\n", nsat)
			break
		}
		vis = append(vis, SatVisD{
			Sys:     sys,
			Sat:     sat,
			GloFreq: int(I2(raw.Buff[q+2:], e)),
			Health:  U4(raw.Buff[q+4:], e),
			Elev:    R8(raw.Buff[q+8:], e),
			Az:      R8(raw.Buff[q+16:], e),
			TrueDop: R8(raw.Buff[q+24:], e),
			AppDop:  R8(raw.Buff[q+32:], e),
		})
	}
	raw.Vis.Time = raw.Time
	raw.Vis.Visible = U4(raw.Buff[p:], e) != 0
	raw.Vis.CompleteAlm = U4(raw.Buff[p+4:], e) != 0
	raw.Vis.N = copy(raw.Vis.Data, vis)
	return STAT_SATVIS
}

/* decode unicore message ----------------------------------------------------*/
func decode_unicore(raw *Raw) Status {
	var (
		e     = optEndian(raw.Opt)
		ctype = int(U2(raw.Buff[4:], e))
		week  = int(U2(raw.Buff[14:], e))
		tow   = float64(U4(raw.Buff[16:], e)) * 0.001
	)
	raw.trace(3, "decode_unicore: type=%4d len=%d\n", ctype, raw.Len)

	raw.Time = GpsT2Time(week, tow)
	raw.MsgId = ctype

	if raw.OutType > 0 {
		raw.MsgType = fmt.Sprintf("UNICORE %4d (%4d): %s", ctype, raw.Len, Time2Str(raw.Time, 2))
	}
	switch ctype {
	case ID_GPSEPHEM:
		return decode_gpsephem(raw)
	case ID_BD2EPHEM:
		return decode_bd2ephem(raw)
	case ID_IONUTC:
		return decode_ionutc(raw, SYS_GPS)
	case ID_BD2IONUTC:
		return decode_ionutc(raw, SYS_BDS)
	case ID_RANGE:
		return decode_range(raw, 0)
	case ID_RANGEH:
		return decode_range(raw, 1)
	case ID_PSRPOS:
		return decode_psrpos(raw)
	case ID_PSRVEL:
		return decode_psrvel(raw)
	case ID_HEADING:
		return decode_heading(raw)
	case ID_SATVIS:
		return decode_satvis(raw)
	}
	return STAT_NONE
}

/* sync header -----------------------------------------------------------------
* shift the 10 byte window, test sync code and non-zero message length
*-----------------------------------------------------------------------------*/
func sync_unicore(buff []uint8, data uint8) bool {
	copy(buff[0:UNISYNCLEN-1], buff[1:UNISYNCLEN])
	buff[UNISYNCLEN-1] = data
	return buff[0] == UNISYNC1 && buff[1] == UNISYNC2 && buff[2] == UNISYNC3 &&
		(buff[8] != 0 || buff[9] != 0)
}

/* input unicore raw data from stream ------------------------------------------
* fetch next unicore raw data and input a mesasge from stream
* args   : raw *Raw       IO  receiver raw data control struct
*          uint8 data       I   stream data (1 byte)
* return : status (-1: error message, 0: no message, 1: input observation data,
*                  2: input ephemeris, 9: input ion/utc parameter,
*                  11: input observation data of heading antenna,
*                  21: input position, 22: input velocity, 23: input attitude,
*                  24: input satellite visibility)
*
* notes  : to specify input options, set raw.Opt to the following option
*          strings separated by spaces.
*
*          -LE     : little-endian byte stream (default big-endian)
*
*          a message with crc error is dropped silently (status 0). the last
*          message stays in raw.Buff until the next byte is input.
*-----------------------------------------------------------------------------*/
func InputUnicore(raw *Raw, data uint8) Status {
	raw.trace(5, "input_unicore: data=%02x\n", data)

	if !raw.initialized {
		raw.trace(1, "input_unicore: raw not initialized\n")
		return STAT_ERROR
	}
	e := optEndian(raw.Opt)

	/* synchronize frame */
	if raw.NumByte == 0 {
		if raw.Len > 0 { /* clear last message */
			for i := 0; i < UNISYNCLEN; i++ {
				raw.Buff[i] = 0
			}
			raw.Len = 0
		}
		if !sync_unicore(raw.Buff[:], data) {
			return STAT_NONE
		}
		hlen := int(raw.Buff[3])
		length := hlen + int(U2(raw.Buff[8:], e)) + 4
		if hlen < UNIHLENMIN || length > MAXRAWLEN {
			raw.trace(2, "unicore length error: hlen=%d len=%d\n", hlen, length)
			return STAT_NONE
		}
		raw.Len = length
		raw.NumByte = UNISYNCLEN
		return STAT_NONE
	}
	raw.Buff[raw.NumByte] = data
	raw.NumByte++
	if raw.NumByte < raw.Len {
		return STAT_NONE
	}
	raw.NumByte = 0

	if Crc32(raw.Buff[:raw.Len-4]) != U4(raw.Buff[raw.Len-4:], e) {
		raw.trace(2, "unicore crc error: type=%4d len=%d\n", U2(raw.Buff[4:], e), raw.Len)
		raw.Len = 0
		for i := 0; i < UNISYNCLEN; i++ {
			raw.Buff[i] = 0
		}
		return STAT_NONE
	}
	/* decode unicore message */
	return decode_unicore(raw)
}
