/*------------------------------------------------------------------------------
* unisvr.go : unicore receiver server
*
*          Copyright (C) 2009-2015 by T.TAKASU, All rights reserved.
*          Copyright (C) 2022-2023 by Feng Xuebin, All rights reserved.
*
* notes   : read a unicore binary stream and publish decoded records to the
*           configured sinks (influxdb, clickhouse, mongodb, mqtt). a sink
*           with an empty endpoint is disabled. decoder metrics are pushed
*           to a prometheus pushgateway or served on /metrics.
*
* history : 2023/03/02 1.0  new
*-----------------------------------------------------------------------------*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"

	"unicorego"
)

const (
	PRGNAME   = "UNISVR"
	TRACEFILE = "unisvr.trace"
	ENVFILE   = ".env"
	DEFLEAPS  = 18 /* gpst-utc (s) until ion/utc is decoded */
)

/* help text -----------------------------------------------------------------*/
var helptxt []string = []string{
	"",
	" usage: unisvr [-in path] [-r opt] [-env file] [-t level] [-trace file]",
	"",
	" options [environment]",
	"     -in path     input stream path (serial://port[:brate], tcpcli://addr:port,",
	"                  file://path) [UNI_INPUT]",
	"     -r opt       receiver options (-LE: little-endian) [UNI_RCVOPT]",
	"     -env file    environment file [" + ENVFILE + "]",
	"     -t level     debug trace level (0:off) [UNI_TRACE]",
	"     -trace file  debug trace file [" + TRACEFILE + "]",
	"     -influx url  influxdb server url [INFLUX_URL]",
	"     -mqtt url    mqtt broker url [MQTT_BROKER]",
	"     -ch dsn      clickhouse dsn [CLICKHOUSE_DSN]",
	"     -mongo uri   mongodb uri [MONGO_URI]",
	"     -cron spec   status report schedule [UNI_STATUS_CRON]",
	"     -push url    prometheus pushgateway url [PROM_PUSH]",
	"     -listen addr prometheus metrics address (host:port) [PROM_LISTEN]",
	"",
	" environment only: INFLUX_TOKEN, INFLUX_ORG, INFLUX_BUCKET, MQTT_TOPIC,",
	" MQTT_CLIENTID, MONGO_DB",
	"",
}

func printusage() {
	for _, v := range helptxt {
		fmt.Fprintf(os.Stderr, "%s\n", v)
	}
	os.Exit(0)
}

func searchHelp(key string) string {
	for _, v := range helptxt {
		if strings.Contains(v, key) {
			return v
		}
	}
	return "no surported augument"
}

/* server configuration --------------------------------------------------------*/
type config struct {
	Input     string
	RcvOpt    string
	Trace     int
	TraceFile string

	InfluxURL    string
	InfluxToken  string
	InfluxOrg    string
	InfluxBucket string

	MqttBroker   string
	MqttTopic    string
	MqttClientID string

	ClickhouseDSN string

	MongoURI string
	MongoDB  string

	StatusCron string

	PromPush   string
	PromListen string
}

/* load configuration ----------------------------------------------------------
* read the environment file and the process environment (the process
* environment wins)
* args   : string envfile   I   environment file ("": none)
* return : configuration, error
*-----------------------------------------------------------------------------*/
func loadConfig(envfile string) (*config, error) {
	var (
		env map[string]string
		err error
	)
	if len(envfile) > 0 {
		if env, err = godotenv.Read(envfile); err != nil {
			log.Debugf("no environment file %s: %v", envfile, err)
		}
	}
	get := func(key, def string) string {
		if v := os.Getenv(key); len(v) > 0 {
			return v
		}
		if v := env[key]; len(v) > 0 {
			return v
		}
		return def
	}
	cfg := &config{
		Input:         get("UNI_INPUT", ""),
		RcvOpt:        get("UNI_RCVOPT", ""),
		TraceFile:     TRACEFILE,
		InfluxURL:     get("INFLUX_URL", ""),
		InfluxToken:   get("INFLUX_TOKEN", ""),
		InfluxOrg:     get("INFLUX_ORG", "gnss"),
		InfluxBucket:  get("INFLUX_BUCKET", "gnss"),
		MqttBroker:    get("MQTT_BROKER", ""),
		MqttTopic:     get("MQTT_TOPIC", "unicore"),
		MqttClientID:  get("MQTT_CLIENTID", "unisvr"),
		ClickhouseDSN: get("CLICKHOUSE_DSN", ""),
		MongoURI:      get("MONGO_URI", ""),
		MongoDB:       get("MONGO_DB", "gnss"),
		StatusCron:    get("UNI_STATUS_CRON", "@every 1m"),
		PromPush:      get("PROM_PUSH", ""),
		PromListen:    get("PROM_LISTEN", ""),
	}
	if cfg.Trace, err = strconv.Atoi(get("UNI_TRACE", "0")); err != nil {
		return nil, fmt.Errorf("UNI_TRACE error: %w", err)
	}
	return cfg, nil
}

/* command line options override configuration -------------------------------*/
func (cfg *config) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.Input, "in", cfg.Input, searchHelp("-in"))
	fs.StringVar(&cfg.RcvOpt, "r", cfg.RcvOpt, searchHelp("-r"))
	fs.IntVar(&cfg.Trace, "t", cfg.Trace, searchHelp("-t"))
	fs.StringVar(&cfg.TraceFile, "trace", cfg.TraceFile, searchHelp("-trace"))
	fs.StringVar(&cfg.InfluxURL, "influx", cfg.InfluxURL, searchHelp("-influx"))
	fs.StringVar(&cfg.MqttBroker, "mqtt", cfg.MqttBroker, searchHelp("-mqtt"))
	fs.StringVar(&cfg.ClickhouseDSN, "ch", cfg.ClickhouseDSN, searchHelp("-ch"))
	fs.StringVar(&cfg.MongoURI, "mongo", cfg.MongoURI, searchHelp("-mongo"))
	fs.StringVar(&cfg.StatusCron, "cron", cfg.StatusCron, searchHelp("-cron"))
	fs.StringVar(&cfg.PromPush, "push", cfg.PromPush, searchHelp("-push"))
	fs.StringVar(&cfg.PromListen, "listen", cfg.PromListen, searchHelp("-listen"))
}

/* receiver server -------------------------------------------------------------*/
type server struct {
	session string
	raw     *unicorego.Raw
	sinks   []sink
	met     *metrics
	pushurl string /* pushgateway url ("": off) */

	mu   sync.Mutex
	sum  *unicorego.Summary
	nerr map[string]int /* sink write errors */
}

func newServer(session string, raw *unicorego.Raw, sinks []sink) *server {
	return &server{
		session: session,
		raw:     raw,
		sinks:   sinks,
		met:     newMetrics(session),
		sum:     unicorego.NewSummary(),
		nerr:    make(map[string]int),
	}
}

/* handle a decoded message --------------------------------------------------*/
func (s *server) handle(ctx context.Context, stat unicorego.Status) {
	s.mu.Lock()
	s.sum.Add(stat, s.raw)
	s.mu.Unlock()
	s.met.observe(stat, s.raw)

	if stat <= unicorego.STAT_NONE {
		return
	}
	for _, k := range s.sinks {
		if err := k.Write(ctx, stat, s.raw); err != nil {
			log.WithFields(log.Fields{"sink": k.Name(), "stat": stat.String()}).Warn(err)
			s.mu.Lock()
			s.nerr[k.Name()]++
			s.mu.Unlock()
		}
	}
}

/* decode stream until end of input or cancel ----------------------------------*/
func (s *server) run(ctx context.Context, r io.ByteReader) error {
	for ctx.Err() == nil {
		stat := unicorego.InputUnicoreF(s.raw, r)
		if stat == unicorego.STAT_EOF {
			if ctx.Err() != nil {
				break
			}
			return io.EOF
		}
		s.handle(ctx, stat)
	}
	return ctx.Err()
}

/* status report and sink flush ------------------------------------------------*/
func (s *server) status(ctx context.Context) {
	s.mu.Lock()
	fields := log.Fields{"session": s.session}
	for _, stat := range []unicorego.Status{unicorego.STAT_OBS, unicorego.STAT_OBSH,
		unicorego.STAT_EPH, unicorego.STAT_ION, unicorego.STAT_POS, unicorego.STAT_VEL,
		unicorego.STAT_ATT, unicorego.STAT_SATVIS, unicorego.STAT_ERROR} {
		fields[stat.String()] = s.sum.Count[stat]
	}
	for name, n := range s.nerr {
		fields[name+"_error"] = n
	}
	s.mu.Unlock()
	log.WithFields(fields).Info("status")

	for _, k := range s.sinks {
		if err := k.Flush(ctx); err != nil {
			log.WithField("sink", k.Name()).Warn(err)
		}
	}
	if len(s.pushurl) > 0 {
		if err := s.met.push(s.pushurl); err != nil {
			log.WithField("push", s.pushurl).Warn(err)
		}
	}
}

/* open configured sinks -------------------------------------------------------*/
func openSinks(ctx context.Context, cfg *config, session string) ([]sink, error) {
	var sinks []sink

	if len(cfg.InfluxURL) > 0 {
		sinks = append(sinks, newInfluxSink(cfg, session))
	}
	if len(cfg.ClickhouseDSN) > 0 {
		k, err := newClickhouseSink(ctx, cfg, session)
		if err != nil {
			closeSinks(ctx, sinks)
			return nil, err
		}
		sinks = append(sinks, k)
	}
	if len(cfg.MongoURI) > 0 {
		k, err := newMongoSink(ctx, cfg, session)
		if err != nil {
			closeSinks(ctx, sinks)
			return nil, err
		}
		sinks = append(sinks, k)
	}
	if len(cfg.MqttBroker) > 0 {
		k, err := newMqttSink(cfg, session)
		if err != nil {
			closeSinks(ctx, sinks)
			return nil, err
		}
		sinks = append(sinks, k)
	}
	return sinks, nil
}

func closeSinks(ctx context.Context, sinks []sink) {
	for _, k := range sinks {
		if err := k.Close(ctx); err != nil {
			log.WithField("sink", k.Name()).Warn(err)
		}
	}
}

/* sink opener (openSinks, replaced in tests) ----------------------------------*/
type sinkOpener func(ctx context.Context, cfg *config, session string) ([]sink, error)

/* run server ------------------------------------------------------------------
* decode the input stream until end of input or a stop signal. every resource
* opened here is released before return.
* args   : config    *cfg     I   configuration
*          string    session  I   session id
*          sinkOpener open    I   sink opener
* return : error
*-----------------------------------------------------------------------------*/
func run(cfg *config, session string, open sinkOpener) error {
	var tr unicorego.Tracer = unicorego.NopTracer
	if cfg.Trace > 0 {
		t, err := unicorego.TraceOpen(cfg.TraceFile, cfg.Trace)
		if err != nil {
			return err
		}
		defer t.TraceClose()
		tr = t
	}
	raw, err := unicorego.NewRaw(cfg.RcvOpt, tr)
	if err != nil {
		return err
	}
	defer raw.FreeRaw()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sinks, err := open(ctx, cfg, session)
	if err != nil {
		return err
	}
	if len(sinks) == 0 {
		log.Warn("no sink configured, decoded records are counted only")
	}
	defer closeSinks(context.Background(), sinks)

	strm, err := unicorego.OpenStream(unicorego.ParseStreamPath(cfg.Input))
	if err != nil {
		return err
	}
	defer strm.Close()

	svr := newServer(session, raw, sinks)
	svr.pushurl = cfg.PromPush

	cr := cron.New()
	if err = cr.AddFunc(cfg.StatusCron, func() { svr.status(ctx) }); err != nil {
		return fmt.Errorf("status schedule error (%s): %w", cfg.StatusCron, err)
	}
	cr.Start()
	defer cr.Stop()

	if len(cfg.PromListen) > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", svr.met.handler())
		go func() {
			if err := http.ListenAndServe(cfg.PromListen, mux); err != nil {
				log.WithField("listen", cfg.PromListen).Error(err)
			}
		}()
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(c)
	go func() {
		select {
		case s := <-c:
			log.Infof("signal: %v", s)
			cancel()
			strm.Close()
		case <-ctx.Done():
		}
	}()

	if err = svr.run(ctx, strm); err != nil && !errors.Is(err, io.EOF) &&
		!errors.Is(err, context.Canceled) {
		log.Infof("%s stop: %v", PRGNAME, err)
	}
	svr.status(context.Background())
	log.Infof("%s: %d bytes read", PRGNAME, strm.NumByte())
	return nil
}

func main() {
	envfile := ENVFILE
	for i, arg := range os.Args[1:] { /* environment file before flags */
		if (arg == "-env" || arg == "--env") && i+2 < len(os.Args) {
			envfile = os.Args[i+2]
		}
	}
	cfg, err := loadConfig(envfile)
	if err != nil {
		log.Fatal(err)
	}
	flag.String("env", envfile, searchHelp("-env"))
	cfg.bindFlags(flag.CommandLine)
	flag.Usage = printusage
	flag.Parse()

	if len(cfg.Input) == 0 {
		printusage()
	}
	session := uuid.NewString()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.WithFields(log.Fields{"session": session, "input": cfg.Input}).Infof("%s start", PRGNAME)

	if err = run(cfg, session, openSinks); err != nil {
		log.Fatal(err)
	}
}
