/*------------------------------------------------------------------------------
* unicorego unit test driver : decoded record output functions
*-----------------------------------------------------------------------------*/
package unicorego_test

import (
	"bytes"
	"strings"
	"testing"

	nmea "github.com/adrianmo/go-nmea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicorego"
)

/* Deg2Dms() */
func TestDeg2Dms(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([3]float64{35, 30, 0}, unicorego.Deg2Dms(35.5, 7))
	assert.Equal([3]float64{-139, 15, 0}, unicorego.Deg2Dms(-139.25, 7))
	dms := unicorego.Deg2Dms(10.0+59.0/60.0+59.9999/3600.0, 2)
	assert.Equal([3]float64{11, 0, 0}, dms)
}

/* OutNmeaGga() */
func TestOutNmeaGga(t *testing.T) {
	assert := assert.New(t)

	pos := unicorego.PosFix{
		Time:    unicorego.Epoch2Time([6]float64{2023, 3, 2, 4, 5, 24.25}),
		PosType: 16, Lat: 35.5, Lon: -139.25, Hgt: 52.125, Undulation: 36.5,
		NumSV: 20, NumSolnSV: 12,
	}
	gga := unicorego.OutNmeaGga(&pos, 18)
	assert.True(strings.HasPrefix(gga, "$GNGGA,040506.25,"))
	assert.True(strings.HasSuffix(gga, "\r\n"))

	s, err := nmea.Parse(strings.TrimSpace(gga))
	require.NoError(t, err)
	assert.Equal(nmea.TypeGGA, s.DataType())
	m := s.(nmea.GGA)
	assert.InDelta(35.5, m.Latitude, 1e-9)
	assert.InDelta(-139.25, m.Longitude, 1e-9)
	assert.Equal("1", m.FixQuality)
	assert.Equal(int64(12), m.NumSatellites)
	assert.Equal(52.125, m.Altitude)
	assert.Equal(36.5, m.Separation)
	assert.Equal(4, m.Time.Hour)
	assert.Equal(5, m.Time.Minute)
	assert.Equal(6, m.Time.Second)

	/* no solution */
	pos.SolStat = 1
	assert.True(strings.HasPrefix(unicorego.OutNmeaGga(&pos, 18), "$GNGGA,,,,,,,,,,,,,,*"))
	pos.SolStat, pos.PosType = 0, 0
	assert.True(strings.HasPrefix(unicorego.OutNmeaGga(&pos, 18), "$GNGGA,,,,,,,,,,,,,,*"))
}

/* OutPos(),OutVel(),OutAtt(),OutObs(),OutSatVis() */
func TestOutRecords(t *testing.T) {
	assert := assert.New(t)
	raw := newRaw("-LE")

	feed(raw, buildMsg(true, unicorego.ID_PSRPOS, testWeek, testMs, psrposPayload(true)))
	ents := []rangeEntry{
		{id: 10, sys: 0, sig: 0, parity: true, psr: 21000000.125, adr: 110000000.5, cno: 45.0, lt: 100.0},
		{id: 166, sys: 4, sig: 21, parity: true, psr: 37000000.0, adr: 190000000.0, cno: 41.0, lt: 50.0},
	}
	feed(raw, buildMsg(true, unicorego.ID_RANGE, testWeek, testMs, rangePayload(true, ents)))

	var buff bytes.Buffer
	unicorego.OutPos(&buff, &raw.Pos)
	assert.Contains(buff.String(), "2022/03/10 00:00:00.000")
	assert.Contains(buff.String(), "35.500000000")
	assert.Contains(buff.String(), "139.250000000")

	buff.Reset()
	unicorego.OutObsHead(&buff)
	unicorego.OutObs(&buff, &raw.ObsData, 0)
	lines := strings.Split(strings.TrimSpace(buff.String()), "\n")
	assert.Equal(4, len(lines))
	assert.Contains(lines[2], "   G   10    1 ")
	assert.Contains(lines[2], "21000000.125")
	assert.Contains(lines[3], "   C    6    1 ")
	assert.Contains(lines[3], "41.00")

	buff.Reset()
	unicorego.OutVel(&buff, &raw.Vel)
	unicorego.OutAtt(&buff, &raw.Att)
	unicorego.OutSatVis(&buff, &raw.Vis)
	assert.Equal(2, strings.Count(buff.String(), "\n"))
}

/* SnrStat(),Summary */
func TestSummary(t *testing.T) {
	assert := assert.New(t)

	obs := unicorego.Obs{Data: make([]unicorego.ObsD, 3), N: 3}
	obs.Data[0].SNR[0] = 160
	obs.Data[1].SNR[0] = 200
	obs.Data[2].SNR[1] = 120
	n, mean, std := unicorego.SnrStat(&obs, 0, 0)
	assert.Equal(2, n)
	assert.InDelta(45.0, mean, 1e-12)
	assert.InDelta(7.0710678118654755, std, 1e-12)
	n, mean, std = unicorego.SnrStat(&obs, 1, 0)
	assert.Equal(1, n)
	assert.Equal(30.0, mean)
	assert.Equal(0.0, std)
	n, _, _ = unicorego.SnrStat(&obs, 2, 0)
	assert.Equal(0, n)

	/* antenna filter */
	obs.Data[0].Rcv = unicorego.ANT_MASTER
	obs.Data[1].Rcv = unicorego.ANT_HEADING
	n, mean, _ = unicorego.SnrStat(&obs, 0, unicorego.ANT_MASTER)
	assert.Equal(1, n)
	assert.InDelta(40.0, mean, 1e-12)
	n, mean, _ = unicorego.SnrStat(&obs, 0, unicorego.ANT_HEADING)
	assert.Equal(1, n)
	assert.InDelta(50.0, mean, 1e-12)

	raw := newRaw("-LE")
	sum := unicorego.NewSummary()
	ents := []rangeEntry{
		{id: 1, sys: 0, sig: 0, parity: true, psr: 2.1e7, adr: 1.1e8, cno: 40.0, lt: 10.0},
		{id: 2, sys: 0, sig: 0, parity: true, psr: 2.1e7, adr: 1.1e8, cno: 50.0, lt: 10.0},
	}
	for _, stat := range feed(raw, buildMsg(true, unicorego.ID_RANGE, testWeek, testMs, rangePayload(true, ents))) {
		sum.Add(stat, raw)
	}
	/* heading antenna of the next epoch stays out of the mean */
	ents[0].cno, ents[1].cno = 60.0, 60.0
	for _, stat := range feed(raw, buildMsg(true, unicorego.ID_RANGEH, testWeek, testMs+1000, rangePayload(true, ents))) {
		sum.Add(stat, raw)
	}
	ents[0].cno, ents[1].cno = 30.0, 30.0
	for _, stat := range feed(raw, buildMsg(true, unicorego.ID_RANGE, testWeek, testMs+1000, rangePayload(true, ents))) {
		sum.Add(stat, raw)
	}
	sum.Add(unicorego.STAT_ERROR, raw)
	assert.Equal(2, sum.Count[unicorego.STAT_OBS])
	assert.Equal(1, sum.Count[unicorego.STAT_OBSH])
	assert.Equal(4, raw.ObsData.N)
	assert.Equal([]float64{45.0, 30.0}, sum.Snr)

	var buff bytes.Buffer
	sum.Print(&buff)
	out := buff.String()
	assert.Contains(out, "obs   :     2\n")
	assert.Contains(out, "obsh  :     1\n")
	assert.Contains(out, "error :     1\n")
	assert.Contains(out, "snr   : mean=37.50 min=30.00 max=45.00 dBHz")
}
