/*------------------------------------------------------------------------------
* unicorego unit test driver : satellite numbers, time and crc functions
*-----------------------------------------------------------------------------*/
package unicorego_test

import (
	"hash/crc32"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"unicorego"
)

/* SatNo(),SatSys() */
func TestSatNo(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(1, unicorego.SatNo(unicorego.SYS_GPS, 1))
	assert.Equal(32, unicorego.SatNo(unicorego.SYS_GPS, 32))
	assert.Equal(33, unicorego.SatNo(unicorego.SYS_GLO, 1))
	assert.Equal(57, unicorego.SatNo(unicorego.SYS_GLO, 25))
	assert.Equal(58, unicorego.SatNo(unicorego.SYS_BDS, 1))
	assert.Equal(unicorego.MAXSAT, unicorego.SatNo(unicorego.SYS_BDS, 37))

	assert.Equal(0, unicorego.SatNo(unicorego.SYS_GPS, 0))
	assert.Equal(0, unicorego.SatNo(unicorego.SYS_GPS, 33))
	assert.Equal(0, unicorego.SatNo(unicorego.SYS_GLO, 26))
	assert.Equal(0, unicorego.SatNo(unicorego.SYS_BDS, 38))
	assert.Equal(0, unicorego.SatNo(unicorego.SYS_NONE, 5))
	assert.Equal(0, unicorego.SatNo(unicorego.SYS_BDS, -1))

	for sat := 1; sat <= unicorego.MAXSAT; sat++ {
		sys, prn := unicorego.SatSys(sat)
		assert.NotEqual(unicorego.SYS_NONE, sys)
		assert.Equal(sat, unicorego.SatNo(sys, prn))
	}
	sys, prn := unicorego.SatSys(0)
	assert.True(sys == unicorego.SYS_NONE && prn == 0)
	sys, prn = unicorego.SatSys(unicorego.MAXSAT + 1)
	assert.True(sys == unicorego.SYS_NONE && prn == 0)
}

/* RcvSat(),SatNo2Id() */
func TestRcvSat(t *testing.T) {
	assert := assert.New(t)

	var tests = []struct {
		id, sys, prn int
	}{
		{1, unicorego.SYS_GPS, 1},
		{32, unicorego.SYS_GPS, 32},
		{38, unicorego.SYS_GLO, 1},
		{62, unicorego.SYS_GLO, 25},
		{161, unicorego.SYS_BDS, 1},
		{197, unicorego.SYS_BDS, 37},
		{0, unicorego.SYS_NONE, 0},
		{33, unicorego.SYS_NONE, 0},
		{100, unicorego.SYS_NONE, 0},
		{198, unicorego.SYS_NONE, 0},
	}
	for _, tt := range tests {
		sys, prn := unicorego.RcvSat(tt.id)
		assert.Equal(tt.sys, sys, "id=%d", tt.id)
		assert.Equal(tt.prn, prn, "id=%d", tt.id)
	}
	assert.Equal("G05", unicorego.SatNo2Id(5))
	assert.Equal("R01", unicorego.SatNo2Id(33))
	assert.Equal("C37", unicorego.SatNo2Id(unicorego.MAXSAT))
	assert.Equal("", unicorego.SatNo2Id(0))
	assert.Equal(byte('C'), unicorego.Sys2Char(unicorego.SYS_BDS))
}

/* Epoch2Time(),Time2Epoch() */
func TestEpoch2Time(t *testing.T) {
	assert := assert.New(t)

	ep := unicorego.Time2Epoch(unicorego.Epoch2Time([6]float64{1980, 1, 6, 0, 0, 0}))
	assert.Equal([6]float64{1980, 1, 6, 0, 0, 0}, ep)
	ep = unicorego.Time2Epoch(unicorego.Epoch2Time([6]float64{2004, 2, 29, 2, 0, 30}))
	assert.Equal([6]float64{2004, 2, 29, 2, 0, 30}, ep)
	ep = unicorego.Time2Epoch(unicorego.Epoch2Time([6]float64{2099, 12, 31, 23, 59, 59.5}))
	assert.Equal([6]float64{2099, 12, 31, 23, 59, 59.5}, ep)

	/* out of range */
	assert.Equal(unicorego.Gtime{}, unicorego.Epoch2Time([6]float64{1969, 12, 31, 0, 0, 0}))
	assert.Equal(unicorego.Gtime{}, unicorego.Epoch2Time([6]float64{2020, 13, 1, 0, 0, 0}))
}

/* GpsT2Time(),Time2GpsT() */
func TestGpsT2Time(t *testing.T) {
	assert := assert.New(t)

	tm := unicorego.GpsT2Time(0, 0.0)
	assert.Equal([6]float64{1980, 1, 6, 0, 0, 0}, unicorego.Time2Epoch(tm))
	tm = unicorego.GpsT2Time(1400, 86400.0)
	assert.Equal([6]float64{2006, 11, 6, 0, 0, 0}, unicorego.Time2Epoch(tm))
	tm = unicorego.GpsT2Time(1401, 0.0)
	assert.Equal([6]float64{2006, 11, 12, 0, 0, 0}, unicorego.Time2Epoch(tm))

	for w := 1000; w <= 4000; w += 7 {
		for sec := 0.0; sec < 604800.0; sec += 3600.5 {
			tow, week := unicorego.Time2GpsT(unicorego.GpsT2Time(w, sec))
			assert.True(tow == sec && week == w)
		}
	}
	/* tow beyond +/-1e9 s */
	assert.Equal(unicorego.GpsT2Time(2200, 0.0), unicorego.GpsT2Time(2200, 2e9))
	assert.Equal(unicorego.GpsT2Time(2200, 0.0), unicorego.GpsT2Time(2200, -2e9))

	/* negative tow normalized into the previous week */
	tow, week := unicorego.Time2GpsT(unicorego.GpsT2Time(2200, -1.5))
	assert.Equal(2199, week)
	assert.Equal(604798.5, tow)
}

/* BDT2Time(),Time2BDT() */
func TestBDT2Time(t *testing.T) {
	assert := assert.New(t)

	tm := unicorego.BDT2Time(0, 0.0)
	assert.Equal([6]float64{2006, 1, 1, 0, 0, 0}, unicorego.Time2Epoch(tm))
	tow, week := unicorego.Time2BDT(unicorego.BDT2Time(850, 123456.25))
	assert.Equal(850, week)
	assert.Equal(123456.25, tow)

	/* bdt week 0 starts 1356 gps weeks after gpst0 */
	assert.Equal(unicorego.GpsT2Time(1356, 0.0), unicorego.BDT2Time(0, 0.0))
}

/* TimeAdd(),TimeDiff() */
func TestTimeAdd(t *testing.T) {
	assert := assert.New(t)

	t0 := unicorego.Epoch2Time([6]float64{2003, 12, 31, 23, 59, 59})
	tm := unicorego.TimeAdd(t0, 3.0)
	assert.Equal([6]float64{2004, 1, 1, 0, 0, 2}, unicorego.Time2Epoch(tm))
	tm = unicorego.TimeAdd(t0, -0.25)
	assert.Equal(t0.Time-1, tm.Time)
	assert.Equal(0.75, tm.Sec)
	assert.True(tm.Sec >= 0.0 && tm.Sec < 1.0)

	assert.Equal(-0.25, unicorego.TimeDiff(tm, t0))
	assert.Equal(86400.0, unicorego.TimeDiff(unicorego.TimeAdd(t0, 86400.0), t0))
}

/* Time2Str() */
func TestTime2Str(t *testing.T) {
	assert := assert.New(t)

	tm := unicorego.Epoch2Time([6]float64{2023, 3, 2, 12, 34, 56.25})
	assert.Equal("2023/03/02 12:34:56.250", unicorego.Time2Str(tm, 3))
	assert.Equal("2023/03/02 12:34:56", unicorego.Time2Str(tm, 0))
	assert.Equal("2023/03/02 12:34:56", unicorego.Time2Str(tm, -1))

	/* rounding carries to the next second */
	tm = unicorego.Epoch2Time([6]float64{2023, 12, 31, 23, 59, 59.9996})
	assert.Equal("2024/01/01 00:00:00.000", unicorego.Time2Str(tm, 3))
	assert.Equal("2023/12/31 23:59:59.9996", unicorego.Time2Str(tm, 4))
}

/* Crc32() */
func TestCrc32(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(0), unicorego.Crc32(nil))
	assert.Equal(uint32(0), unicorego.Crc32([]uint8{0x00}))

	data := []uint8{0xAA, 0x44, 0x12, 0x1C, 0x2B, 0x00, 0x02, 0x20, 0x48, 0x00}
	crc := unicorego.Crc32(data)
	assert.Equal(crc, unicorego.Crc32(data))
	assert.Equal(^crc32.Update(math.MaxUint32, crc32.IEEETable, data), crc)

	msg := []byte("123456789")
	assert.Equal(^crc32.Update(math.MaxUint32, crc32.IEEETable, msg), unicorego.Crc32(msg))

	data[5] ^= 0x01
	assert.NotEqual(crc, unicorego.Crc32(data))
}
