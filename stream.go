/*------------------------------------------------------------------------------
* stream.go : stream input functions
*
*          Copyright (C) 2008-2020 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* notes   : input only. stream path formats
*
*           serial://port[:brate]    serial port (default 115200 bps)
*           tcpcli://addr:port       tcp client
*           file://path or path      file
*
* history : 2022/09/21 1.0  rewrite the file with golang
*           2023/03/02 1.1  serial, tcp client and file input for the decoder
*-----------------------------------------------------------------------------*/
package unicorego

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	serial "github.com/tarm/goserial"
)

const (
	STR_NONE   = 0 /* stream type: none */
	STR_SERIAL = 1 /* stream type: serial */
	STR_FILE   = 2 /* stream type: file */
	STR_TCPCLI = 4 /* stream type: TCP client */

	DEFBRATE   = 115200           /* default serial bitrate (bps) */
	TCPTIMEOUT = 10 * time.Second /* tcp connect timeout */
)

// Stream is an opened input byte source.
type Stream struct {
	Type int    /* stream type (STR_???) */
	Path string /* stream path */

	rd     *bufio.Reader
	closer io.Closer
	once   sync.Once
	nbyte  int64
}

/* stream path to stream type and path ---------------------------------------*/
func ParseStreamPath(spec string) (int, string) {
	switch {
	case strings.HasPrefix(spec, "serial://"):
		return STR_SERIAL, spec[len("serial://"):]
	case strings.HasPrefix(spec, "tcpcli://"):
		return STR_TCPCLI, spec[len("tcpcli://"):]
	case strings.HasPrefix(spec, "file://"):
		return STR_FILE, spec[len("file://"):]
	case len(spec) == 0:
		return STR_NONE, ""
	}
	return STR_FILE, spec
}

/* open serial ---------------------------------------------------------------*/
func openserial(path string) (io.ReadCloser, error) {
	var (
		br    = []int{300, 600, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}
		port  = path
		brate = DEFBRATE
	)
	if index := strings.Index(path, ":"); index > 0 {
		port = path[:index]
		if _, err := fmt.Sscanf(path[index:], ":%d", &brate); err != nil {
			return nil, fmt.Errorf("serial path error (%s): %w", path, err)
		}
	}
	if i := sort.SearchInts(br, brate); i >= len(br) || br[i] != brate {
		return nil, fmt.Errorf("bitrate error (%d)", brate)
	}
	if runtime.GOOS != "windows" && !strings.HasPrefix(port, "/") {
		port = "/dev/" + port
	}
	s, err := serial.OpenPort(&serial.Config{Name: port, Baud: brate})
	if err != nil {
		return nil, fmt.Errorf("serial open error (%s): %w", port, err)
	}
	return s, nil
}

/* open tcp client -----------------------------------------------------------*/
func opentcpcli(path string) (io.ReadCloser, error) {
	conn, err := net.DialTimeout("tcp", path, TCPTIMEOUT)
	if err != nil {
		return nil, fmt.Errorf("tcp connect error (%s): %w", path, err)
	}
	return conn, nil
}

/* open stream -----------------------------------------------------------------
* open input stream
* args   : int    stype     I   stream type (STR_SERIAL,STR_FILE,STR_TCPCLI)
*          string path      I   stream path
* return : stream, error
*-----------------------------------------------------------------------------*/
func OpenStream(stype int, path string) (*Stream, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch stype {
	case STR_SERIAL:
		rc, err = openserial(path)
	case STR_TCPCLI:
		rc, err = opentcpcli(path)
	case STR_FILE:
		rc, err = os.Open(path)
	default:
		return nil, fmt.Errorf("stream type error (%d)", stype)
	}
	if err != nil {
		return nil, err
	}
	return &Stream{Type: stype, Path: path, rd: bufio.NewReaderSize(rc, MAXRAWLEN), closer: rc}, nil
}

func (s *Stream) ReadByte() (byte, error) {
	c, err := s.rd.ReadByte()
	if err == nil {
		s.nbyte++
	}
	return c, err
}

func (s *Stream) Read(p []byte) (int, error) {
	n, err := s.rd.Read(p)
	s.nbyte += int64(n)
	return n, err
}

/* number of bytes read ------------------------------------------------------*/
func (s *Stream) NumByte() int64 {
	return s.nbyte
}

/* close stream (may be called from another goroutine to stop a read) -------*/
func (s *Stream) Close() error {
	var err error
	if s == nil || s.closer == nil {
		return nil
	}
	s.once.Do(func() { err = s.closer.Close() })
	return err
}
