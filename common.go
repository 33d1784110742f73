/*------------------------------------------------------------------------------
* common.go : common functions of the unicore decoder
*
*          Copyright (C) 2007-2020 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* notes   : satellite numbering, time conversion and crc-32 parity shared by
*           all message decoders
*
* history : 2022/09/21 1.0  rewrite the file with golang
*           2023/03/02 1.1  keep gpst/bdt epochs only
*                           receiver satellite ids (gps/glo/bds)
*-----------------------------------------------------------------------------*/
package unicorego

import (
	"fmt"
	"math"
)

const POLYCRC32 = 0xEDB88320 /* CRC32 polynomial */

var (
	gpst0 = [6]float64{1980, 1, 6, 0, 0, 0} /* gps time reference */
	bdt0  = [6]float64{2006, 1, 1, 0, 0, 0} /* beidou time reference */
)

/* satellite system+prn/slot number to satellite number ------------------------
* convert satellite system+prn/slot number to satellite number
* args   : int    sys       I   satellite system (SYS_GPS,SYS_GLO,SYS_BDS)
*          int    prn       I   satellite prn/slot number
* return : satellite number (0:error)
*-----------------------------------------------------------------------------*/
func SatNo(sys int, prn int) int {
	if prn <= 0 {
		return 0
	}
	switch sys {
	case SYS_GPS:
		if prn < MINPRNGPS || MAXPRNGPS < prn {
			return 0
		}
		return prn - MINPRNGPS + 1
	case SYS_GLO:
		if prn < MINPRNGLO || MAXPRNGLO < prn {
			return 0
		}
		return NSATGPS + prn - MINPRNGLO + 1
	case SYS_BDS:
		if prn < MINPRNBDS || MAXPRNBDS < prn {
			return 0
		}
		return NSATGPS + NSATGLO + prn - MINPRNBDS + 1
	}
	return 0
}

/* satellite number to satellite system ----------------------------------------
* convert satellite number to satellite system
* args   : int    sat       I   satellite number (1-MAXSAT)
* return : satellite system (SYS_NONE: invalid satellite number) and
*          prn/slot number (0: invalid)
*-----------------------------------------------------------------------------*/
func SatSys(sat int) (sys int, prn int) {
	switch {
	case sat <= 0 || MAXSAT < sat:
		return SYS_NONE, 0
	case sat <= NSATGPS:
		return SYS_GPS, sat + MINPRNGPS - 1
	case sat <= NSATGPS+NSATGLO:
		return SYS_GLO, sat - NSATGPS + MINPRNGLO - 1
	}
	return SYS_BDS, sat - NSATGPS - NSATGLO + MINPRNBDS - 1
}

/* receiver satellite id to satellite system+prn -------------------------------
* the receiver numbers satellites gps 1-32, glonass 38-62 and beidou 161-197
* args   : int    id        I   receiver satellite id
* return : satellite system (SYS_NONE: unknown id) and prn/slot number
*-----------------------------------------------------------------------------*/
func RcvSat(id int) (sys int, prn int) {
	switch {
	case MINPRNGPS+RCVOFFGPS <= id && id <= MAXPRNGPS+RCVOFFGPS:
		return SYS_GPS, id - RCVOFFGPS
	case MINPRNGLO+RCVOFFGLO <= id && id <= MAXPRNGLO+RCVOFFGLO:
		return SYS_GLO, id - RCVOFFGLO
	case MINPRNBDS+RCVOFFBDS <= id && id <= MAXPRNBDS+RCVOFFBDS:
		return SYS_BDS, id - RCVOFFBDS
	}
	return SYS_NONE, 0
}

/* satellite number to satellite id ------------------------------------------*/
func SatNo2Id(sat int) string {
	sys, prn := SatSys(sat)
	switch sys {
	case SYS_GPS:
		return fmt.Sprintf("G%02d", prn)
	case SYS_GLO:
		return fmt.Sprintf("R%02d", prn)
	case SYS_BDS:
		return fmt.Sprintf("C%02d", prn)
	}
	return ""
}

/* satellite system to system code -------------------------------------------*/
func Sys2Char(sys int) byte {
	switch sys {
	case SYS_GPS:
		return 'G'
	case SYS_GLO:
		return 'R'
	case SYS_BDS:
		return 'C'
	}
	return ' '
}

/* crc-32 parity ---------------------------------------------------------------
* compute crc-32 parity for unicore/novatel raw
* args   : uint8_t *buff    I   data
* return : crc-32 parity
* notes  : reflected polynomial, zero initial value and no final xor
*-----------------------------------------------------------------------------*/
func Crc32(buff []uint8) uint32 {
	var crc uint32 = 0

	for i := 0; i < len(buff); i++ {
		crc ^= uint32(buff[i])
		for j := 0; j < 8; j++ {
			if crc&1 > 0 {
				crc = (crc >> 1) ^ POLYCRC32
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

/* convert calendar day/time to time -------------------------------------------
* convert calendar day/time to gtime struct
* args   : [6]float64 ep    I   day/time {year,month,day,hour,min,sec}
* return : gtime struct
* notes  : proper in 1970-2099
*-----------------------------------------------------------------------------*/
func Epoch2Time(ep [6]float64) Gtime {
	var (
		doy            = [12]int{1, 32, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}
		ret            Gtime
		days           int
		year, mon, day = int(ep[0]), int(ep[1]), int(ep[2])
	)

	if year < 1970 || 2099 < year || mon < 1 || 12 < mon {
		return ret
	}

	/* leap year if year%4==0 in 1901-2099 */
	days = (year-1970)*365 + (year-1969)/4 + doy[mon-1] + day - 2
	if year%4 == 0 && mon >= 3 {
		days++
	}
	sec := math.Floor(ep[5])
	ret.Time = int64(days)*86400 + int64(ep[3])*3600 + int64(ep[4])*60 + int64(sec)
	ret.Sec = ep[5] - sec
	return ret
}

/* time to calendar day/time ---------------------------------------------------
* convert gtime struct to calendar day/time
* args   : gtime t          I   gtime struct
* return : day/time {year,month,day,hour,min,sec}
* notes  : proper in 1970-2099
*-----------------------------------------------------------------------------*/
func Time2Epoch(t Gtime) [6]float64 {
	var mday = [48]int{ /* # of days in a month */
		31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31,
		31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	var (
		ep       [6]float64
		mon, day int
	)

	/* leap year if year%4==0 in 1901-2099 */
	days := int(t.Time / 86400)
	sec := int(t.Time - int64(days)*86400)
	for day = days % 1461; mon < 48; mon++ {
		if day >= mday[mon] {
			day -= mday[mon]
		} else {
			break
		}
	}
	ep[0] = float64(1970 + days/1461*4 + mon/12)
	ep[1] = float64(mon%12 + 1)
	ep[2] = float64(day + 1)
	ep[3] = float64(sec / 3600)
	ep[4] = float64(sec % 3600 / 60)
	ep[5] = float64(sec%60) + t.Sec
	return ep
}

/* week and time of week to time ---------------------------------------------*/
func week2time(t0 [6]float64, week int, sec float64) Gtime {
	t := Epoch2Time(t0)

	if sec < -1e9 || 1e9 < sec {
		sec = 0.0
	}
	s := math.Floor(sec)
	t.Time += int64(86400*7)*int64(week) + int64(s)
	t.Sec = sec - s
	return t
}

/* time to week and time of week ---------------------------------------------*/
func time2week(t0 [6]float64, t Gtime) (float64, int) {
	sec := t.Time - Epoch2Time(t0).Time
	w := sec / (86400 * 7)
	if sec < 0 && sec%(86400*7) != 0 {
		w--
	}
	return float64(sec-w*86400*7) + t.Sec, int(w)
}

/* gps time to time ------------------------------------------------------------
* convert week and tow in gps time to gtime struct
* args   : int    week      I   week number in gps time
*          double sec       I   time of week in gps time (s)
* return : gtime struct
* notes  : tow beyond +/-1e9 s is treated as 0
*-----------------------------------------------------------------------------*/
func GpsT2Time(week int, sec float64) Gtime {
	return week2time(gpst0, week, sec)
}

/* time to gps time ------------------------------------------------------------
* convert gtime struct to week and tow in gps time
* args   : gtime t          I   gtime struct
* return : time of week in gps time (s), week number in gps time
*-----------------------------------------------------------------------------*/
func Time2GpsT(t Gtime) (float64, int) {
	return time2week(gpst0, t)
}

/* beidou time (bdt) to time ---------------------------------------------------
* convert week and tow in beidou time (bdt) to gtime struct
* args   : int    week      I   week number in bdt
*          double sec       I   time of week in bdt (s)
* return : gtime struct
*-----------------------------------------------------------------------------*/
func BDT2Time(week int, sec float64) Gtime {
	return week2time(bdt0, week, sec)
}

/* time to beidouo time (bdt) --------------------------------------------------*/
func Time2BDT(t Gtime) (float64, int) {
	return time2week(bdt0, t)
}

/* add time --------------------------------------------------------------------
* add time to gtime struct
* args   : gtime t          I   gtime struct
*          double sec       I   time to add (s)
* return : gtime struct (t+sec)
*-----------------------------------------------------------------------------*/
func TimeAdd(t Gtime, sec float64) Gtime {
	t.Sec += sec
	tt := math.Floor(t.Sec)
	t.Time += int64(tt)
	t.Sec -= tt
	return t
}

/* time difference -------------------------------------------------------------
* difference between gtime structs
* args   : gtime t1,t2      I   gtime structs
* return : time difference (t1-t2) (s)
*-----------------------------------------------------------------------------*/
func TimeDiff(t1, t2 Gtime) float64 {
	return float64(t1.Time-t2.Time) + t1.Sec - t2.Sec
}

/* time to string --------------------------------------------------------------
* convert gtime struct to string
* args   : gtime t          I   gtime struct
*          int    n         I   number of decimals (0-12)
* return : string ("yyyy/mm/dd hh:mm:ss.ssss")
*-----------------------------------------------------------------------------*/
func Time2Str(t Gtime, n int) string {
	if n < 0 {
		n = 0
	} else if n > 12 {
		n = 12
	}
	if 1.0-t.Sec < 0.5/math.Pow(10.0, float64(n)) {
		t.Time++
		t.Sec = 0.0
	}
	ep := Time2Epoch(t)
	w := n + 3
	if n <= 0 {
		w = 2
	}
	return fmt.Sprintf("%04.0f/%02.0f/%02.0f %02.0f:%02.0f:%0*.*f", ep[0], ep[1], ep[2],
		ep[3], ep[4], w, n, ep[5])
}
