/*------------------------------------------------------------------------------
* uni2txt.go : convert unicore binary log to text records
*
*          Copyright (C) 2007-2020 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* history : 2023/03/02 1.0  new
*-----------------------------------------------------------------------------*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"unicorego"
)

const (
	PRGNAME   = "UNI2TXT"
	TRACEFILE = "uni2txt.trace"
	DEFLEAPS  = 18 /* gpst-utc (s) until ion/utc is decoded */
)

/* help text -----------------------------------------------------------------*/
var help []string = []string{
	"",
	" Synopsys",
	"",
	" uni2txt [option ...] [file]",
	"",
	" Description",
	"",
	" Decode unicore binary log (UB4B0/UM4B0) and output position, velocity,",
	" attitude, observation and satellite visibility records as text. The input",
	" is a file or a stream path. A summary of the decoded messages is printed",
	" to stderr at the end.",
	"",
	" Options [default]",
	"",
	"     file         input file or stream path (serial://port[:brate],",
	"                  tcpcli://addr:port, file://path) [UNI_INPUT]",
	"     -in path     input file or stream path, same as file",
	"     -r opt       receiver options (-LE: little-endian, -OUTTYPE) [UNI_RCVOPT]",
	"     -o file      output file [stdout]",
	"     -nmea        output position as NMEA GGA sentence",
	"     -rangeh file write heading antenna range as range message to file",
	"     -env file    environment file [.env]",
	"     -t level     debug trace level (0:off) [UNI_TRACE]",
	"     -trace file  debug trace file [" + TRACEFILE + "]",
	"",
}

func printusage() {
	for _, v := range help {
		fmt.Fprintf(os.Stderr, "%s\n", v)
	}
	os.Exit(0)
}

func searchHelp(key string) string {
	for _, v := range help {
		if strings.Contains(v, key) {
			return v
		}
	}
	return "no surported augument"
}

/* convert options -------------------------------------------------------------*/
type convopt struct {
	nmea   bool      /* output position as gga */
	leaps  int       /* default leap seconds for gga before ion/utc */
	rangeh io.Writer /* rangeh as range output (nil: off) */
}

/* convert unicore log ---------------------------------------------------------
* decode all messages of r and write text records to w
* args   : raw  *Raw          IO  receiver raw data control
*          r    io.ByteReader I   input
*          w    io.Writer     I   text output
*          opt  *convopt      I   convert options
*          sum  *Summary      IO  run summary
* return : error (rangeh output only)
*-----------------------------------------------------------------------------*/
func convert(raw *unicorego.Raw, r io.ByteReader, w io.Writer, opt *convopt, sum *unicorego.Summary) error {
	var nobs int

	for {
		stat := unicorego.InputUnicoreF(raw, r)
		if stat == unicorego.STAT_EOF {
			return nil
		}
		sum.Add(stat, raw)
		if raw.OutType > 0 {
			log.Debug(raw.MsgType)
		}
		switch stat {
		case unicorego.STAT_OBS, unicorego.STAT_OBSH:
			if nobs == 0 {
				unicorego.OutObsHead(w)
			}
			nobs++
			unicorego.OutObs(w, &raw.ObsData, unicorego.ObsRcv(stat))
			if stat == unicorego.STAT_OBSH && opt.rangeh != nil {
				if err := writeRange(raw, opt.rangeh); err != nil {
					return err
				}
			}
		case unicorego.STAT_POS:
			if opt.nmea {
				leaps := raw.NavData.Leaps
				if leaps == 0 {
					leaps = opt.leaps
				}
				fmt.Fprint(w, unicorego.OutNmeaGga(&raw.Pos, leaps))
			} else {
				unicorego.OutPos(w, &raw.Pos)
			}
		case unicorego.STAT_VEL:
			unicorego.OutVel(w, &raw.Vel)
		case unicorego.STAT_ATT:
			unicorego.OutAtt(w, &raw.Att)
		case unicorego.STAT_SATVIS:
			unicorego.OutSatVis(w, &raw.Vis)
		case unicorego.STAT_EPH:
			log.Debugf("ephemeris: sat=%s", unicorego.SatNo2Id(raw.EphSat))
		case unicorego.STAT_ION:
			log.Debugf("ion/utc: leaps=%d", raw.NavData.Leaps)
		}
	}
}

/* write last rangeh message as range message ---------------------------------*/
func writeRange(raw *unicorego.Raw, w io.Writer) error {
	buff, err := unicorego.RangeH2Range(raw.Packet(), raw.Endian())
	if err != nil {
		log.Warnf("rangeh convert error: %v", err)
		return nil
	}
	if _, err = w.Write(buff); err != nil {
		return fmt.Errorf("rangeh write error: %w", err)
	}
	return nil
}

/* getenv with default ---------------------------------------------------------*/
func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && len(v) > 0 {
		return v
	}
	return def
}

func main() {
	var (
		infile, rcvopt, outfile, rangehfile string
		envfile, tracefile                  string
		trace                               int
		nmeaout                             bool
		err                                 error
	)
	flag.StringVar(&infile, "in", "", searchHelp("-in"))
	flag.StringVar(&rcvopt, "r", "", searchHelp("-r"))
	flag.StringVar(&outfile, "o", "", searchHelp("-o"))
	flag.BoolVar(&nmeaout, "nmea", false, searchHelp("-nmea"))
	flag.StringVar(&rangehfile, "rangeh", "", searchHelp("-rangeh"))
	flag.StringVar(&envfile, "env", ".env", searchHelp("-env"))
	flag.IntVar(&trace, "t", -1, searchHelp("-t"))
	flag.StringVar(&tracefile, "trace", TRACEFILE, searchHelp("-trace"))
	flag.Usage = printusage
	flag.Parse()

	if err = godotenv.Load(envfile); err != nil {
		log.Debugf("no environment file %s: %v", envfile, err)
	}
	if len(infile) == 0 && flag.NArg() > 0 {
		infile = flag.Arg(0)
	}
	if len(infile) == 0 {
		infile = getenv("UNI_INPUT", "")
	}
	if len(rcvopt) == 0 {
		rcvopt = getenv("UNI_RCVOPT", "")
	}
	if trace < 0 {
		if trace, err = strconv.Atoi(getenv("UNI_TRACE", "0")); err != nil {
			log.Fatalf("UNI_TRACE error: %v", err)
		}
	}
	if len(infile) == 0 {
		printusage()
	}
	if trace > 0 {
		log.SetLevel(log.DebugLevel)
	}

	var tr unicorego.Tracer = unicorego.NopTracer
	if trace > 0 {
		t, err := unicorego.TraceOpen(tracefile, trace)
		if err != nil {
			log.Fatal(err)
		}
		defer t.TraceClose()
		tr = t
	}
	raw, err := unicorego.NewRaw(rcvopt, tr)
	if err != nil {
		log.Fatal(err)
	}
	defer raw.FreeRaw()

	strm, err := unicorego.OpenStream(unicorego.ParseStreamPath(infile))
	if err != nil {
		log.Fatal(err)
	}
	defer strm.Close()

	var w io.Writer = os.Stdout
	if len(outfile) > 0 {
		fp, err := os.Create(outfile)
		if err != nil {
			log.Fatalf("output file open error: %v", err)
		}
		defer fp.Close()
		w = fp
	}
	opt := &convopt{nmea: nmeaout, leaps: DEFLEAPS}
	if len(rangehfile) > 0 {
		fp, err := os.Create(rangehfile)
		if err != nil {
			log.Fatalf("rangeh file open error: %v", err)
		}
		defer fp.Close()
		opt.rangeh = fp
	}
	log.Infof("%s: input=%s opt=%q", PRGNAME, infile, rcvopt)

	sum := unicorego.NewSummary()
	if err = convert(raw, strm, w, opt, sum); err != nil {
		log.Error(err)
	}
	sum.Print(os.Stderr)
	log.Infof("%s: %d bytes read", PRGNAME, strm.NumByte())
}
