/*------------------------------------------------------------------------------
* solution.go : decoded record output functions
*
*          Copyright (C) 2007-2020 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* references :
*     [1] NMEA 0183 Version 4.10, 2012
*
* history : 2022/09/21 1.0  rewrite the file with golang
*           2023/03/02 1.1  output of unicore position/velocity/attitude,
*                           observation and visibility records
*                           add run summary
*-----------------------------------------------------------------------------*/
package unicorego

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const NMEA_TID = "GN" /* NMEA talker ID for GGA sentence */

/* output observation header -------------------------------------------------*/
func OutObsHead(w io.Writer) {
	fmt.Fprintf(w, "%25s %4s %4s %4s %15s %15s %5s %15s %15s %5s %15s %15s %5s\n",
		"time", "sys", "prn", "ant",
		"C1", "L1", "SNR1",
		"C2", "L2", "SNR2",
		"C5", "L5", "SNR5")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 154))
}

/* output observation data of current epoch -----------------------------------
* args   : io.Writer w      I   output
*          Obs  *obs        I   observation data
*          int  rcv         I   antenna (ANT_MASTER,ANT_HEADING, 0:all)
*-----------------------------------------------------------------------------*/
func OutObs(w io.Writer, obs *Obs, rcv int) {
	for i := 0; i < obs.N; i++ {
		d := &obs.Data[i]
		if rcv > 0 && d.Rcv != rcv {
			continue
		}
		_, prn := SatSys(d.Sat)
		fmt.Fprintf(w, "%25s %4c %4d %4d ", Time2Str(d.Time, 3), Sys2Char(d.Sys), prn, d.Rcv)
		for j := 0; j < NFREQ; j++ {
			fmt.Fprintf(w, "%15.3f %15.3f %5.2f ", d.P[j], d.L[j], float64(d.SNR[j])*SNR_UNIT)
		}
		fmt.Fprintf(w, "\n")
	}
}

/* output position fix -------------------------------------------------------*/
func OutPos(w io.Writer, pos *PosFix) {
	fmt.Fprintf(w, "%25s %15.9f %15.9f %12.4f %9.4f %3d %3d %8.4f %8.4f %8.4f %3d %3d\n",
		Time2Str(pos.Time, 3), pos.Lat, pos.Lon, pos.Hgt, pos.Undulation, pos.SolStat,
		pos.PosType, pos.LatSig, pos.LonSig, pos.HgtSig, pos.NumSV, pos.NumSolnSV)
}

/* output velocity fix -------------------------------------------------------*/
func OutVel(w io.Writer, vel *VelFix) {
	fmt.Fprintf(w, "%25s %15.3f %15.3f %15.3f %3d %3d %6.3f %6.1f\n",
		Time2Str(vel.Time, 3), vel.Hspd, vel.Vspd, vel.Heading, vel.SolStat, vel.VelType,
		vel.Latency, vel.Age)
}

/* output attitude fix -------------------------------------------------------*/
func OutAtt(w io.Writer, att *AttFix) {
	fmt.Fprintf(w, "%25s %15.3f %15.3f %15.3f %15.3f %15.3f %15.3f\n",
		Time2Str(att.Time, 3), att.Heading, att.HeadingSig, att.Pitch, att.PitchSig,
		att.Roll, att.Length)
}

/* output satellite visibility -----------------------------------------------*/
func OutSatVis(w io.Writer, vis *SatVis) {
	for i := 0; i < vis.N; i++ {
		d := &vis.Data[i]
		fmt.Fprintf(w, "%25s %s %8.3f %8.3f %12.3f %12.3f %d\n", Time2Str(vis.Time, 3),
			SatNo2Id(d.Sat), d.Az, d.Elev, d.TrueDop, d.AppDop, d.Health)
	}
}

/* convert degree to deg-min-sec -----------------------------------------------
* args   : double deg       I   degree
*          int    ndec      I   number of decimals of second
* return : {deg,min,sec}
*-----------------------------------------------------------------------------*/
func Deg2Dms(deg float64, ndec int) [3]float64 {
	var (
		dms  [3]float64
		sign = 1.0
		unit = math.Pow(0.1, float64(ndec))
		a    = math.Abs(deg)
	)
	if deg < 0.0 {
		sign = -1.0
	}
	dms[0] = math.Floor(a)
	a = (a - dms[0]) * 60.0
	dms[1] = math.Floor(a)
	a = (a - dms[1]) * 60.0
	dms[2] = math.Floor(a/unit+0.5) * unit
	if dms[2] >= 60.0 {
		dms[2] = 0.0
		dms[1] += 1.0
		if dms[1] >= 60.0 {
			dms[1] = 0.0
			dms[0] += 1.0
		}
	}
	dms[0] *= sign
	return dms
}

/* nmea checksum and terminator ----------------------------------------------*/
func nmeasum(p string) string {
	var sum uint8
	for i := 1; i < len(p); i++ {
		sum ^= p[i]
	}
	return p + fmt.Sprintf("*%02X\r\n", sum)
}

/* output position fix in the form of NMEA GGA sentence ------------------------
* args   : PosFix *pos      I   position fix (time in gpst)
*          int    leaps     I   leap seconds (gpst-utc)
* return : GGA sentence
*-----------------------------------------------------------------------------*/
func OutNmeaGga(pos *PosFix, leaps int) string {
	var (
		dop   = 1.0
		solq  = 1
		refid = 0
		age   = 0.0
	)
	if pos.PosType == 0 || pos.SolStat != 0 {
		return nmeasum(fmt.Sprintf("$%sGGA,,,,,,,,,,,,,,", NMEA_TID))
	}
	time := TimeAdd(pos.Time, -float64(leaps))
	if time.Sec >= 0.995 {
		time.Time++
		time.Sec = 0.0
	}
	ep := Time2Epoch(time)
	dms1 := Deg2Dms(math.Abs(pos.Lat), 7)
	dms2 := Deg2Dms(math.Abs(pos.Lon), 7)
	ns, ew := "N", "E"
	if pos.Lat < 0 {
		ns = "S"
	}
	if pos.Lon < 0 {
		ew = "W"
	}
	p := fmt.Sprintf("$%sGGA,%02.0f%02.0f%05.2f,%02.0f%010.7f,%s,%03.0f%010.7f,%s,%d,%02d,%.1f,%.3f,M,%.3f,M,%.1f,%04d",
		NMEA_TID, ep[3], ep[4], ep[5], dms1[0], dms1[1]+dms1[2]/60.0, ns,
		dms2[0], dms2[1]+dms2[2]/60.0, ew, solq, pos.NumSolnSV, dop, pos.Hgt,
		pos.Undulation, age, refid)
	return nmeasum(p)
}

/* C/N0 statistics of observation data (dBHz) ----------------------------------
* args   : Obs  *obs        I   observation data
*          int  f           I   frequency index
*          int  rcv         I   antenna (ANT_MASTER,ANT_HEADING, 0:all)
* return : number of signals, mean, standard deviation
*-----------------------------------------------------------------------------*/
func SnrStat(obs *Obs, f, rcv int) (int, float64, float64) {
	var snr []float64
	for i := 0; i < obs.N; i++ {
		if rcv > 0 && obs.Data[i].Rcv != rcv {
			continue
		}
		if obs.Data[i].SNR[f] > 0 {
			snr = append(snr, float64(obs.Data[i].SNR[f])*SNR_UNIT)
		}
	}
	switch len(snr) {
	case 0:
		return 0, 0.0, 0.0
	case 1:
		return 1, snr[0], 0.0
	}
	mean, std := stat.MeanStdDev(snr, nil)
	return len(snr), mean, std
}

// Summary counts decoded messages of a run.
type Summary struct {
	Count map[Status]int
	Snr   []float64 /* mean L1 C/N0 per observation epoch (dBHz) */
}

func NewSummary() *Summary {
	return &Summary{Count: make(map[Status]int)}
}

func (s *Summary) Add(st Status, raw *Raw) {
	s.Count[st]++
	if st == STAT_OBS {
		if n, mean, _ := SnrStat(&raw.ObsData, 0, ANT_MASTER); n > 0 {
			s.Snr = append(s.Snr, mean)
		}
	}
}

/* print summary -------------------------------------------------------------*/
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "--------------------------SUMMARY-----------------------------\n")
	fmt.Fprintf(w, "obs   :%6d\n", s.Count[STAT_OBS])
	fmt.Fprintf(w, "obsh  :%6d\n", s.Count[STAT_OBSH])
	fmt.Fprintf(w, "eph   :%6d\n", s.Count[STAT_EPH])
	fmt.Fprintf(w, "ion   :%6d\n", s.Count[STAT_ION])
	fmt.Fprintf(w, "pos   :%6d\n", s.Count[STAT_POS])
	fmt.Fprintf(w, "vel   :%6d\n", s.Count[STAT_VEL])
	fmt.Fprintf(w, "att   :%6d\n", s.Count[STAT_ATT])
	fmt.Fprintf(w, "satvis:%6d\n", s.Count[STAT_SATVIS])
	fmt.Fprintf(w, "error :%6d\n", s.Count[STAT_ERROR])
	if len(s.Snr) > 0 {
		fmt.Fprintf(w, "snr   : mean=%5.2f min=%5.2f max=%5.2f dBHz\n", stat.Mean(s.Snr, nil),
			floats.Min(s.Snr), floats.Max(s.Snr))
	}
	fmt.Fprintf(w, "--------------------------------------------------------------\n")
}
