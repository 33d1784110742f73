package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicorego"
)

/* little-endian unicore message ---------------------------------------------*/
func message(id uint16, payload []byte) []byte {
	buff := make([]byte, 28+len(payload)+4)
	buff[0], buff[1], buff[2], buff[3] = 0xAA, 0x44, 0x12, 28
	binary.LittleEndian.PutUint16(buff[4:], id)
	binary.LittleEndian.PutUint16(buff[8:], uint16(len(payload)))
	binary.LittleEndian.PutUint16(buff[14:], 2200)
	binary.LittleEndian.PutUint32(buff[16:], 345600000)
	copy(buff[28:], payload)
	n := len(buff) - 4
	binary.LittleEndian.PutUint32(buff[n:], unicorego.Crc32(buff[:n]))
	return buff
}

func psrpos() []byte {
	p := make([]byte, 72)
	binary.LittleEndian.PutUint32(p[4:], 16)
	binary.LittleEndian.PutUint64(p[8:], math.Float64bits(35.5))
	binary.LittleEndian.PutUint64(p[16:], math.Float64bits(139.25))
	binary.LittleEndian.PutUint64(p[24:], math.Float64bits(40.0))
	p[64], p[65] = 12, 10
	return p
}

func rangeh() []byte {
	p := make([]byte, 4+44)
	binary.LittleEndian.PutUint32(p, 1)
	binary.LittleEndian.PutUint16(p[4:], 12)
	binary.LittleEndian.PutUint64(p[8:], math.Float64bits(2.2e7))
	binary.LittleEndian.PutUint64(p[20:], math.Float64bits(1.1e8))
	binary.LittleEndian.PutUint32(p[36:], math.Float32bits(44.0))
	binary.LittleEndian.PutUint32(p[44:], 1<<11)
	return p
}

/* convert() */
func TestConvert(t *testing.T) {
	assert := assert.New(t)

	var in bytes.Buffer
	in.Write(message(unicorego.ID_PSRPOS, psrpos()))
	in.Write(message(unicorego.ID_RANGEH, rangeh()))
	in.Write(message(unicorego.ID_PSRPOS, psrpos()[:20]))

	raw, err := unicorego.NewRaw("-LE", nil)
	require.NoError(t, err)
	var out, rng bytes.Buffer
	sum := unicorego.NewSummary()
	require.NoError(t, convert(raw, &in, &out, &convopt{nmea: true, leaps: 18, rangeh: &rng}, sum))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 4, len(lines))
	assert.True(strings.HasPrefix(lines[0], "$GNGGA,235942.00,3530.0000000,N,13915.0000000,E,1,10,"))
	assert.Contains(lines[3], "   G   12    2 ")
	assert.Equal(1, sum.Count[unicorego.STAT_POS])
	assert.Equal(1, sum.Count[unicorego.STAT_OBSH])
	assert.Equal(1, sum.Count[unicorego.STAT_ERROR])

	/* converted range message decodes as master antenna */
	raw2, err := unicorego.NewRaw("-LE", nil)
	require.NoError(t, err)
	assert.Equal(unicorego.STAT_OBS, unicorego.InputUnicoreF(raw2, bytes.NewReader(rng.Bytes())))
	assert.Equal(unicorego.ANT_MASTER, raw2.ObsData.Data[0].Rcv)
	assert.Equal(12, raw2.ObsData.Data[0].Sat)
}

/* convert() text records */
func TestConvertText(t *testing.T) {
	assert := assert.New(t)

	raw, err := unicorego.NewRaw("-LE -OUTTYPE", nil)
	require.NoError(t, err)
	var out bytes.Buffer
	err = convert(raw, bytes.NewReader(message(unicorego.ID_PSRPOS, psrpos())), &out, &convopt{}, unicorego.NewSummary())
	require.NoError(t, err)
	assert.Contains(out.String(), "2022/03/10 00:00:00.000    35.500000000")
	assert.True(strings.HasPrefix(raw.MsgType, "UNICORE   47 ( 104): "))
}

/* convert() both antennas in one epoch */
func TestConvertAntennas(t *testing.T) {
	assert := assert.New(t)

	var in bytes.Buffer
	in.Write(message(unicorego.ID_RANGE, rangeh()))
	in.Write(message(unicorego.ID_RANGEH, rangeh()))

	raw, err := unicorego.NewRaw("-LE", nil)
	require.NoError(t, err)
	var out bytes.Buffer
	sum := unicorego.NewSummary()
	require.NoError(t, convert(raw, &in, &out, &convopt{}, sum))
	assert.Equal(2, raw.ObsData.N)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 4, len(lines))
	assert.Contains(lines[2], "   G   12    1 ")
	assert.Contains(lines[3], "   G   12    2 ")
	assert.Equal(1, strings.Count(out.String(), "   G   12    1 "))
	assert.Equal(1, sum.Count[unicorego.STAT_OBS])
	assert.Equal(1, sum.Count[unicorego.STAT_OBSH])
}
