package unicorego

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Tracer receives decoder diagnostics. Levels: 1 error, 2 warning,
// 3 message, 4 debug, 5 per byte.
type Tracer interface {
	Trace(level int, format string, v ...interface{})
}

type nopTracer struct{}

func (nopTracer) Trace(int, string, ...interface{}) {}

// NopTracer discards everything.
var NopTracer Tracer = nopTracer{}

// LogrusTracer forwards traces up to Level to a logrus logger.
type LogrusTracer struct {
	Log   *log.Logger
	Level int

	out io.Closer
}

func NewLogrusTracer(l *log.Logger, level int) *LogrusTracer {
	return &LogrusTracer{Log: l, Level: level}
}

/* open trace file ("": stderr) ----------------------------------------------*/
func TraceOpen(path string, level int) (*LogrusTracer, error) {
	l := log.New()
	l.SetLevel(log.TraceLevel)
	l.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})

	t := &LogrusTracer{Log: l, Level: level}
	if len(path) == 0 {
		l.SetOutput(os.Stderr)
		return t, nil
	}
	fp, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open trace file %s: %w", path, err)
	}
	l.SetOutput(fp)
	t.out = fp
	return t, nil
}

func (t *LogrusTracer) TraceClose() error {
	if t.out == nil {
		return nil
	}
	err := t.out.Close()
	t.out = nil
	return err
}

func (t *LogrusTracer) TraceLevel(level int) {
	t.Level = level
}

func (t *LogrusTracer) Trace(level int, format string, v ...interface{}) {
	if t == nil || t.Log == nil || level > t.Level {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, v...), "\n")

	var lv log.Level
	switch {
	case level <= 1:
		lv = log.ErrorLevel
	case level == 2:
		lv = log.WarnLevel
	case level == 3:
		lv = log.InfoLevel
	case level == 4:
		lv = log.DebugLevel
	default:
		lv = log.TraceLevel
	}
	t.Log.WithField("trace", level).Log(lv, msg)
}

/* trace through the context sink -------------------------------------------*/
func (raw *Raw) trace(level int, format string, v ...interface{}) {
	if raw.Tracer == nil {
		return
	}
	raw.Tracer.Trace(level, format, v...)
}
