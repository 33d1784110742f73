package unicorego

import (
	"encoding/binary"
	"math"
	"strings"
)

/* get fields (endian given by receiver option) ------------------------------*/
func byteOrder(e Endian) binary.ByteOrder {
	if e == LITTLE_ENDIAN {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func U1(p []uint8) uint8 { return p[0] }
func I1(p []uint8) int8  { return int8(p[0]) }

func U2(p []uint8, e Endian) uint16 { return byteOrder(e).Uint16(p) }
func I2(p []uint8, e Endian) int16  { return int16(byteOrder(e).Uint16(p)) }
func U4(p []uint8, e Endian) uint32 { return byteOrder(e).Uint32(p) }
func I4(p []uint8, e Endian) int32  { return int32(byteOrder(e).Uint32(p)) }

func R4(p []uint8, e Endian) float32 {
	return math.Float32frombits(byteOrder(e).Uint32(p))
}
func R8(p []uint8, e Endian) float64 {
	return math.Float64frombits(byteOrder(e).Uint64(p))
}

/* set fields ----------------------------------------------------------------*/
func setU2(p []uint8, e Endian, v uint16) { byteOrder(e).PutUint16(p, v) }
func setU4(p []uint8, e Endian, v uint32) { byteOrder(e).PutUint32(p, v) }

/* receiver option tokens ----------------------------------------------------*/
func hasOpt(opt, key string) bool {
	for _, tok := range strings.Fields(opt) {
		if tok == key {
			return true
		}
	}
	return false
}

/* endian of receiver option (-LE: little-endian, default big-endian) --------*/
func optEndian(opt string) Endian {
	if hasOpt(opt, "-LE") {
		return LITTLE_ENDIAN
	}
	return BIG_ENDIAN
}

/* byte order of the context stream ------------------------------------------*/
func (raw *Raw) Endian() Endian {
	return optEndian(raw.Opt)
}
