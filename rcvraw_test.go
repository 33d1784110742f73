/*------------------------------------------------------------------------------
* unicorego unit test driver : receiver raw data control functions
*-----------------------------------------------------------------------------*/
package unicorego_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unicorego"
)

/* InitRaw(),FreeRaw() */
func TestInitRaw(t *testing.T) {
	assert := assert.New(t)

	raw, err := unicorego.NewRaw("-LE -OUTTYPE", unicorego.NopTracer)
	require.NoError(t, err)
	assert.Equal(unicorego.MAXOBS, len(raw.ObsData.Data))
	assert.Equal(unicorego.MAXSAT, len(raw.NavData.Eph))
	assert.Equal(unicorego.MAXOBS, len(raw.Vis.Data))
	assert.Equal(0, raw.ObsData.N)
	assert.Equal(1, raw.OutType)
	assert.Equal("-LE -OUTTYPE", raw.Opt)
	assert.Equal(unicorego.NopTracer, raw.Tracer)
	for i := range raw.NavData.Eph {
		assert.Equal(-1, raw.NavData.Eph[i].Iode)
		assert.Equal(-1, raw.NavData.Eph[i].Iodc)
	}

	/* re-init clears decoded data */
	feed(raw, buildMsg(true, unicorego.ID_PSRPOS, testWeek, testMs, psrposPayload(true)))
	assert.Equal(16, raw.Pos.PosType)
	assert.Equal(unicorego.ID_PSRPOS, raw.MsgId)
	require.NoError(t, raw.InitRaw("-LE"))
	assert.Equal(0, raw.Pos.PosType)
	assert.Equal(0, raw.OutType)
	assert.Equal(unicorego.NopTracer, raw.Tracer)

	raw.FreeRaw()
	assert.Nil(raw.ObsData.Data)
	assert.Nil(raw.NavData.Eph)
	assert.Equal(0, raw.NumByte)
	assert.Equal(0, raw.MsgId)

	var nilraw *unicorego.Raw
	assert.Error(nilraw.InitRaw(""))
}

/* ObsRcv() */
func TestObsRcv(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(unicorego.ANT_MASTER, unicorego.ObsRcv(unicorego.STAT_OBS))
	assert.Equal(unicorego.ANT_HEADING, unicorego.ObsRcv(unicorego.STAT_OBSH))
	assert.Equal(0, unicorego.ObsRcv(unicorego.STAT_POS))
	assert.Equal(0, unicorego.ObsRcv(unicorego.STAT_NONE))
}

/* InputUnicoreF() */
func TestInputUnicoreF(t *testing.T) {
	assert := assert.New(t)
	raw := newRaw("")

	var buff bytes.Buffer
	buff.Write([]byte{0x01, 0x02, 0x03})
	buff.Write(buildMsg(false, unicorego.ID_PSRPOS, testWeek, testMs, psrposPayload(false)))
	buff.Write(buildMsg(false, unicorego.ID_IONUTC, testWeek, testMs, ionPayload(false, 18)))
	buff.Write([]byte{0xAA, 0x44})

	assert.Equal(unicorego.STAT_POS, unicorego.InputUnicoreF(raw, &buff))
	assert.Equal(unicorego.STAT_ION, raw.InputRawF(&buff))
	assert.Equal(unicorego.STAT_EOF, unicorego.InputUnicoreF(raw, &buff))
	assert.Equal(unicorego.STAT_EOF, unicorego.InputUnicoreF(raw, &buff))
	assert.Equal(18, raw.NavData.Leaps)
}

/* Packet() */
func TestPacket(t *testing.T) {
	assert := assert.New(t)
	raw := newRaw("-LE")

	assert.Nil(raw.Packet())
	msg := buildMsg(true, unicorego.ID_PSRPOS, testWeek, testMs, psrposPayload(true))
	for i, c := range msg {
		stat := raw.InputRaw(c)
		if i < len(msg)-1 {
			assert.Equal(unicorego.STAT_NONE, stat)
			assert.Nil(raw.Packet())
		} else {
			assert.Equal(unicorego.STAT_POS, stat)
		}
	}
	assert.Equal(msg, []byte(raw.Packet()))

	/* released by the next byte */
	raw.InputRaw(0x00)
	assert.Nil(raw.Packet())
}

/* RangeH2Range() */
func TestRangeH2Range(t *testing.T) {
	assert := assert.New(t)

	ents := []rangeEntry{
		{id: 7, sys: 0, sig: 0, parity: true, psr: 2.3e7, adr: 1.2e8, cno: 42.0, lt: 30.0},
	}
	for _, le := range []bool{true, false} {
		opt := ""
		if le {
			opt = "-LE"
		}
		e := unicorego.BIG_ENDIAN
		if le {
			e = unicorego.LITTLE_ENDIAN
		}
		rangeh := buildMsg(le, unicorego.ID_RANGEH, testWeek, testMs, rangePayload(le, ents))

		raw := newRaw(opt)
		assert.Equal([]unicorego.Status{unicorego.STAT_OBSH}, feed(raw, rangeh))

		out, err := unicorego.RangeH2Range(raw.Packet(), e)
		require.NoError(t, err)
		assert.Equal(buildMsg(le, unicorego.ID_RANGE, testWeek, testMs, rangePayload(le, ents)), out)
		assert.Equal(unicorego.ID_RANGEH, int(unicorego.U2(raw.Packet()[4:], e)))

		raw = newRaw(opt)
		assert.Equal([]unicorego.Status{unicorego.STAT_OBS}, feed(raw, out))
		assert.Equal(unicorego.ANT_MASTER, raw.ObsData.Data[0].Rcv)
		assert.Equal(7, raw.ObsData.Data[0].Sat)
	}

	rng := buildMsg(true, unicorego.ID_RANGE, testWeek, testMs, rangePayload(true, ents))
	_, err := unicorego.RangeH2Range(rng, unicorego.LITTLE_ENDIAN)
	assert.Error(err)
	_, err = unicorego.RangeH2Range(rng[:40], unicorego.LITTLE_ENDIAN)
	assert.Error(err)
	_, err = unicorego.RangeH2Range([]byte{0x00, 0x01}, unicorego.LITTLE_ENDIAN)
	assert.Error(err)
}
