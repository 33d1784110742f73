/*------------------------------------------------------------------------------
* rcvraw.go : receiver raw data control functions
*
*          Copyright (C) 2009-2020 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* history : 2022/09/21 1.0  rewrite the file with golang
*           2023/03/02 1.1  unicore binary only
*                           input from io.ByteReader
*                           add RangeH2Range()
*-----------------------------------------------------------------------------*/
package unicorego

import (
	"errors"
	"fmt"
	"io"
)

/* initialize receiver raw data control ----------------------------------------
* initialize receiver raw data control struct and reallocate observation,
* ephemeris and visibility buffers
* args   : raw  *Raw        IO  receiver raw data control struct
*          opt  string      I   receiver options ("-LE": little-endian,
*                               "-OUTTYPE": output message type)
* return : error (nil: ok)
*-----------------------------------------------------------------------------*/
func (raw *Raw) InitRaw(opt string) error {
	if raw == nil {
		return errors.New("init raw: raw is nil")
	}
	raw.trace(4, "init_raw: opt=%s\n", opt)

	/* allocate all buffers before the struct is touched */
	var (
		obs  = make([]ObsD, MAXOBS)
		ephs = make([]Eph, MAXSAT)
		vis  = make([]SatVisD, MAXOBS)
		tobs [2][][NFREQ]Gtime
		lock [2][][NFREQ]float64
	)
	for i := range ephs {
		ephs[i] = Eph{Iode: -1, Iodc: -1}
	}
	for i := 0; i < 2; i++ {
		tobs[i] = make([][NFREQ]Gtime, MAXSAT)
		lock[i] = make([][NFREQ]float64, MAXSAT)
	}

	tracer := raw.Tracer
	*raw = Raw{
		ObsData:  Obs{Data: obs},
		NavData:  Nav{Eph: ephs},
		Vis:      SatVis{Data: vis},
		Tobs:     tobs,
		LockTime: lock,
		Opt:      opt,
		Tracer:   tracer,
	}
	if hasOpt(opt, "-OUTTYPE") {
		raw.OutType = 1
	}
	raw.initialized = true
	return nil
}

/* new receiver raw data control -----------------------------------------------
* allocate and initialize a receiver raw data control struct
* args   : opt  string      I   receiver options
*          tr   Tracer      I   trace sink (nil: no trace)
* return : raw data control struct, error
*-----------------------------------------------------------------------------*/
func NewRaw(opt string, tr Tracer) (*Raw, error) {
	raw := &Raw{Tracer: tr}
	if err := raw.InitRaw(opt); err != nil {
		return nil, err
	}
	return raw, nil
}

/* free receiver raw data control ----------------------------------------------
* free observation and ephemeris buffer in receiver raw data control struct
* args   : raw  *Raw        IO  receiver raw data control struct
* return : none
*-----------------------------------------------------------------------------*/
func (raw *Raw) FreeRaw() {
	raw.trace(4, "free_raw:\n")

	raw.ObsData = Obs{}
	raw.NavData = Nav{}
	raw.Vis = SatVis{}
	raw.Tobs = [2][][NFREQ]Gtime{}
	raw.LockTime = [2][][NFREQ]float64{}
	raw.NumByte, raw.Len, raw.MsgId = 0, 0, 0
	raw.initialized = false
}

/* antenna of observation status -----------------------------------------------
* the observation collection holds both antennas of the current epoch, a
* status names the antenna whose records the last message updated
* args   : Status st        I   status of InputUnicore()
* return : antenna (ANT_MASTER: STAT_OBS, ANT_HEADING: STAT_OBSH, 0: other)
*-----------------------------------------------------------------------------*/
func ObsRcv(st Status) int {
	switch st {
	case STAT_OBS:
		return ANT_MASTER
	case STAT_OBSH:
		return ANT_HEADING
	}
	return 0
}

/* input receiver raw data from stream -----------------------------------------
* fetch next receiver raw data and input a message from stream
* args   : raw  *Raw        IO  receiver raw data control struct
*          uint8 data       I   stream data (1 byte)
* return : status (see InputUnicore())
*-----------------------------------------------------------------------------*/
func (raw *Raw) InputRaw(data uint8) Status {
	return InputUnicore(raw, data)
}

/* input unicore raw data from file ----------------------------------------------
* fetch next unicore raw data and input a message from a byte reader
* args   : raw  *Raw          IO  receiver raw data control struct
*          r    io.ByteReader I   byte source (file, socket, serial)
* return : status(-2: end of file, -1...24: same as InputUnicore())
*-----------------------------------------------------------------------------*/
func InputUnicoreF(raw *Raw, r io.ByteReader) Status {
	raw.trace(4, "input_unicoref:\n")

	for {
		data, err := r.ReadByte()
		if err != nil {
			if err != io.EOF {
				raw.trace(2, "input_unicoref: read error: %v\n", err)
			}
			return STAT_EOF
		}
		if stat := InputUnicore(raw, data); stat != STAT_NONE {
			return stat
		}
	}
}

func (raw *Raw) InputRawF(r io.ByteReader) Status {
	return InputUnicoreF(raw, r)
}

/* last message ----------------------------------------------------------------
* return the last complete message (valid until the next byte is input)
*-----------------------------------------------------------------------------*/
func (raw *Raw) Packet() []uint8 {
	if raw.NumByte != 0 || raw.Len == 0 {
		return nil
	}
	return raw.Buff[:raw.Len]
}

/* convert RANGEH message to RANGE message ---------------------------------------
* re-tag a heading antenna range message as range message and recompute crc
* args   : buff []uint8     I   RANGEH message (sync to crc)
*          e    Endian      I   byte order of the message
* return : RANGE message, error
*-----------------------------------------------------------------------------*/
func RangeH2Range(buff []uint8, e Endian) ([]uint8, error) {
	if len(buff) < UNIHLENMIN+4 || buff[0] != UNISYNC1 || buff[1] != UNISYNC2 ||
		buff[2] != UNISYNC3 {
		return nil, errors.New("rangeh2range: no unicore message")
	}
	n := int(buff[3]) + int(U2(buff[8:], e)) + 4
	if n != len(buff) {
		return nil, fmt.Errorf("rangeh2range: length error: len=%d msg=%d", len(buff), n)
	}
	if id := U2(buff[4:], e); id != ID_RANGEH {
		return nil, fmt.Errorf("rangeh2range: message type error: type=%d", id)
	}
	out := make([]uint8, n)
	copy(out, buff)
	setU2(out[4:], e, ID_RANGE)
	setU4(out[n-4:], e, Crc32(out[:n-4]))
	return out, nil
}
