/*------------------------------------------------------------------------------
* unicorego unit test driver : unicore message builder
*-----------------------------------------------------------------------------*/
package unicorego_test

import (
	"encoding/binary"
	"math"

	"unicorego"
)

/* payload writer ------------------------------------------------------------*/
type payloadw struct {
	b []byte
	o binary.ByteOrder
}

func newPayload(n int, le bool) *payloadw {
	return &payloadw{b: make([]byte, n), o: order(le)}
}

func order(le bool) binary.ByteOrder {
	if le {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (w *payloadw) u1(off int, v uint8)  { w.b[off] = v }
func (w *payloadw) u2(off int, v uint16) { w.o.PutUint16(w.b[off:], v) }
func (w *payloadw) u4(off int, v uint32) { w.o.PutUint32(w.b[off:], v) }
func (w *payloadw) i4(off int, v int32)  { w.o.PutUint32(w.b[off:], uint32(v)) }
func (w *payloadw) r4(off int, v float32) {
	w.o.PutUint32(w.b[off:], math.Float32bits(v))
}
func (w *payloadw) r8(off int, v float64) {
	w.o.PutUint64(w.b[off:], math.Float64bits(v))
}

/* build unicore message (28 byte header, payload, crc-32) -------------------*/
func buildMsg(le bool, id uint16, week uint16, ms uint32, payload []byte) []byte {
	o := order(le)
	buff := make([]byte, 28+len(payload)+4)
	buff[0], buff[1], buff[2], buff[3] = 0xAA, 0x44, 0x12, 28
	o.PutUint16(buff[4:], id)
	o.PutUint16(buff[8:], uint16(len(payload)))
	o.PutUint16(buff[14:], week)
	o.PutUint32(buff[16:], ms)
	copy(buff[28:], payload)
	n := len(buff) - 4
	o.PutUint32(buff[n:], unicorego.Crc32(buff[:n]))
	return buff
}

/* input bytes, return statuses other than none -------------------------------*/
func feed(raw *unicorego.Raw, data []byte) []unicorego.Status {
	var stats []unicorego.Status
	for _, c := range data {
		if stat := unicorego.InputUnicore(raw, c); stat != unicorego.STAT_NONE {
			stats = append(stats, stat)
		}
	}
	return stats
}

/* range entry ---------------------------------------------------------------*/
type rangeEntry struct {
	id           uint16
	sys, sig     uint32
	parity       bool
	psr, adr     float64
	dop, cno, lt float32
}

func trackStat(sys, sig uint32, parity bool) uint32 {
	stat := (sys&7)<<16 | (sig&0x1F)<<21
	if parity {
		stat |= 1 << 11
	}
	return stat
}

func rangePayload(le bool, ents []rangeEntry) []byte {
	w := newPayload(4+44*len(ents), le)
	w.u4(0, uint32(len(ents)))
	for i, en := range ents {
		q := 4 + 44*i
		w.u2(q, en.id)
		w.r8(q+4, en.psr)
		w.r4(q+12, 0.5)
		w.r8(q+16, en.adr)
		w.r4(q+24, 0.01)
		w.r4(q+28, en.dop)
		w.r4(q+32, en.cno)
		w.r4(q+36, en.lt)
		w.u4(q+40, trackStat(en.sys, en.sig, en.parity))
	}
	return w.b
}

func newRaw(opt string) *unicorego.Raw {
	raw, err := unicorego.NewRaw(opt, nil)
	if err != nil {
		panic(err)
	}
	return raw
}
