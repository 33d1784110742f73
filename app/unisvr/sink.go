package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unicorego"
)

const MQTTTIMEOUT = 5 * time.Second /* mqtt connect/publish timeout */

// sink receives every decoded message of the server.
type sink interface {
	Name() string
	Write(ctx context.Context, stat unicorego.Status, raw *unicorego.Raw) error
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

/* gps time to time.Time -------------------------------------------------------*/
func gtime2time(t unicorego.Gtime) time.Time {
	return time.Unix(t.Time, int64(t.Sec*1e9)).UTC()
}

/* influxdb --------------------------------------------------------------------*/
type influxSink struct {
	session string
	client  influxdb2.Client
	wapi    api.WriteAPI
}

func newInfluxSink(cfg *config, session string) *influxSink {
	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
	wapi := client.WriteAPI(cfg.InfluxOrg, cfg.InfluxBucket)
	go func() {
		for err := range wapi.Errors() {
			log.WithField("sink", "influx").Warn(err)
		}
	}()
	return &influxSink{session: session, client: client, wapi: wapi}
}

func (k *influxSink) Name() string { return "influx" }

func (k *influxSink) Write(ctx context.Context, stat unicorego.Status, raw *unicorego.Raw) error {
	for _, p := range points(k.session, stat, raw) {
		k.wapi.WritePoint(p)
	}
	return nil
}

func (k *influxSink) Flush(ctx context.Context) error {
	k.wapi.Flush()
	return nil
}

func (k *influxSink) Close(ctx context.Context) error {
	k.wapi.Flush()
	k.client.Close()
	return nil
}

/* decoded message to influxdb points ----------------------------------------*/
func points(session string, stat unicorego.Status, raw *unicorego.Raw) []*write.Point {
	var pts []*write.Point

	switch stat {
	case unicorego.STAT_POS:
		pos := &raw.Pos
		pts = append(pts, influxdb2.NewPointWithMeasurement("pos").
			AddTag("session", session).
			AddField("lat", pos.Lat).
			AddField("lon", pos.Lon).
			AddField("hgt", pos.Hgt).
			AddField("undulation", pos.Undulation).
			AddField("lat_sig", pos.LatSig).
			AddField("lon_sig", pos.LonSig).
			AddField("hgt_sig", pos.HgtSig).
			AddField("solstat", pos.SolStat).
			AddField("postype", pos.PosType).
			AddField("nsv", pos.NumSV).
			AddField("nsolnsv", pos.NumSolnSV).
			SetTime(gtime2time(pos.Time)))
	case unicorego.STAT_VEL:
		vel := &raw.Vel
		pts = append(pts, influxdb2.NewPointWithMeasurement("vel").
			AddTag("session", session).
			AddField("hspd", vel.Hspd).
			AddField("vspd", vel.Vspd).
			AddField("heading", vel.Heading).
			AddField("latency", vel.Latency).
			AddField("age", vel.Age).
			AddField("solstat", vel.SolStat).
			AddField("veltype", vel.VelType).
			SetTime(gtime2time(vel.Time)))
	case unicorego.STAT_ATT:
		att := &raw.Att
		pts = append(pts, influxdb2.NewPointWithMeasurement("att").
			AddTag("session", session).
			AddField("heading", att.Heading).
			AddField("pitch", att.Pitch).
			AddField("length", att.Length).
			AddField("heading_sig", att.HeadingSig).
			AddField("pitch_sig", att.PitchSig).
			AddField("solstat", att.SolStat).
			AddField("postype", att.PosType).
			AddField("nsv", att.NumSV).
			SetTime(gtime2time(att.Time)))
	case unicorego.STAT_OBS, unicorego.STAT_OBSH:
		rcv := unicorego.ObsRcv(stat)
		for i := 0; i < raw.ObsData.N; i++ {
			d := &raw.ObsData.Data[i]
			if d.Rcv != rcv {
				continue
			}
			p := influxdb2.NewPointWithMeasurement("snr").
				AddTag("session", session).
				AddTag("sat", unicorego.SatNo2Id(d.Sat)).
				AddTag("rcv", fmt.Sprintf("%d", d.Rcv))
			for j := 0; j < unicorego.NFREQ; j++ {
				if d.SNR[j] == 0 {
					continue
				}
				p.AddField(fmt.Sprintf("snr%d", j+1), float64(d.SNR[j])*unicorego.SNR_UNIT)
				p.AddField(fmt.Sprintf("lli%d", j+1), int(d.LLI[j]))
			}
			pts = append(pts, p.SetTime(gtime2time(d.Time)))
		}
	case unicorego.STAT_SATVIS:
		for i := 0; i < raw.Vis.N; i++ {
			d := &raw.Vis.Data[i]
			pts = append(pts, influxdb2.NewPointWithMeasurement("satvis").
				AddTag("session", session).
				AddTag("sat", unicorego.SatNo2Id(d.Sat)).
				AddField("elev", d.Elev).
				AddField("az", d.Az).
				AddField("health", int64(d.Health)).
				SetTime(gtime2time(raw.Vis.Time)))
		}
	}
	return pts
}

/* clickhouse ------------------------------------------------------------------*/
const obsTable = "CREATE TABLE IF NOT EXISTS Obs (" +
	"`Time` DateTime64(3), Session String, Sat String, Rcv UInt8, " +
	"SNR Array(Float64), Code Array(UInt8), LLI Array(UInt8), " +
	"L Array(Float64), P Array(Float64), D Array(Float64)" +
	") ENGINE = MergeTree() ORDER BY (`Time`, Sat)"

const obsInsert = "INSERT INTO Obs (`Time`, Session, Sat, Rcv, SNR, Code, LLI, L, P, D)"

type obsRow struct {
	Time    time.Time `db:"Time"`
	Session string    `db:"Session"`
	Sat     string    `db:"Sat"`
	Rcv     uint8     `db:"Rcv"`
	SNR     []float64 `db:"SNR"`
	Code    []uint8   `db:"Code"`
	LLI     []uint8   `db:"LLI"`
	L       []float64 `db:"L"`
	P       []float64 `db:"P"`
	D       []float64 `db:"D"`
}

/* observation data of one antenna (0: all) to table rows -------------------*/
func obsRows(session string, obs *unicorego.Obs, rcv int) []obsRow {
	rows := make([]obsRow, 0, obs.N)
	for i := 0; i < obs.N; i++ {
		d := &obs.Data[i]
		if rcv > 0 && d.Rcv != rcv {
			continue
		}
		r := obsRow{
			Time:    gtime2time(d.Time),
			Session: session,
			Sat:     unicorego.SatNo2Id(d.Sat),
			Rcv:     uint8(d.Rcv),
			SNR:     make([]float64, unicorego.NFREQ),
			Code:    append([]uint8(nil), d.Code[:]...),
			LLI:     append([]uint8(nil), d.LLI[:]...),
			L:       append([]float64(nil), d.L[:]...),
			P:       append([]float64(nil), d.P[:]...),
			D:       append([]float64(nil), d.D[:]...),
		}
		for j := 0; j < unicorego.NFREQ; j++ {
			r.SNR[j] = float64(d.SNR[j]) * unicorego.SNR_UNIT
		}
		rows = append(rows, r)
	}
	return rows
}

type clickhouseSink struct {
	session string
	db      *sqlx.DB
}

func newClickhouseSink(ctx context.Context, cfg *config, session string) (*clickhouseSink, error) {
	db, err := sqlx.Open("clickhouse", cfg.ClickhouseDSN)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open error: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	if _, err = db.ExecContext(ctx, obsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("clickhouse create table error: %w", err)
	}
	return &clickhouseSink{session: session, db: db}, nil
}

func (k *clickhouseSink) Name() string { return "clickhouse" }

func (k *clickhouseSink) Write(ctx context.Context, stat unicorego.Status, raw *unicorego.Raw) error {
	rcv := unicorego.ObsRcv(stat)
	if rcv == 0 {
		return nil
	}
	rows := obsRows(k.session, &raw.ObsData, rcv)
	if len(rows) == 0 {
		return nil
	}
	tx, err := k.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clickhouse begin error: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, obsInsert)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("clickhouse prepare error: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err = stmt.ExecContext(ctx, r.Time, r.Session, r.Sat, r.Rcv, r.SNR, r.Code,
			r.LLI, r.L, r.P, r.D); err != nil {
			tx.Rollback()
			return fmt.Errorf("clickhouse insert error: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("clickhouse commit error: %w", err)
	}
	return nil
}

func (k *clickhouseSink) Flush(ctx context.Context) error { return nil }

func (k *clickhouseSink) Close(ctx context.Context) error { return k.db.Close() }

/* mongodb ---------------------------------------------------------------------*/
type ephDoc struct {
	Session string    `bson:"session"`
	Sat     string    `bson:"sat"`
	Iode    int       `bson:"iode"`
	Iodc    int       `bson:"iodc"`
	Sva     int       `bson:"sva"`
	Svh     int       `bson:"svh"`
	Week    int       `bson:"week"`
	Toe     time.Time `bson:"toe"`
	Toc     time.Time `bson:"toc"`
	Ttr     time.Time `bson:"ttr"`
	A       float64   `bson:"a"`
	E       float64   `bson:"e"`
	I0      float64   `bson:"i0"`
	OMG0    float64   `bson:"omg0"`
	Omg     float64   `bson:"omg"`
	M0      float64   `bson:"m0"`
	Deln    float64   `bson:"deln"`
	OMGd    float64   `bson:"omgd"`
	Idot    float64   `bson:"idot"`
	Crc     float64   `bson:"crc"`
	Crs     float64   `bson:"crs"`
	Cuc     float64   `bson:"cuc"`
	Cus     float64   `bson:"cus"`
	Cic     float64   `bson:"cic"`
	Cis     float64   `bson:"cis"`
	Toes    float64   `bson:"toes"`
	Tocs    float64   `bson:"tocs"`
	Ura     float64   `bson:"ura"`
	F       []float64 `bson:"f"`
	Tgd     []float64 `bson:"tgd"`
}

type ionDoc struct {
	Session string    `bson:"session"`
	Sys     string    `bson:"sys"`
	Ion     []float64 `bson:"ion"`
	A0      float64   `bson:"a0"`
	A1      float64   `bson:"a1"`
	Tot     int       `bson:"tot"`
	WNt     int       `bson:"wnt"`
	WNLSF   int       `bson:"wnlsf"`
	DN      int       `bson:"dn"`
	DtLS    int       `bson:"dtls"`
	DtLSF   int       `bson:"dtlsf"`
	Leaps   int       `bson:"leaps"`
	Time    time.Time `bson:"time"`
}

func newEphDoc(session string, eph *unicorego.Eph) *ephDoc {
	return &ephDoc{
		Session: session, Sat: unicorego.SatNo2Id(eph.Sat),
		Iode: eph.Iode, Iodc: eph.Iodc, Sva: eph.Sva, Svh: eph.Svh, Week: eph.Week,
		Toe: gtime2time(eph.Toe), Toc: gtime2time(eph.Toc), Ttr: gtime2time(eph.Ttr),
		A: eph.A, E: eph.E, I0: eph.I0, OMG0: eph.OMG0, Omg: eph.Omg, M0: eph.M0,
		Deln: eph.Deln, OMGd: eph.OMGd, Idot: eph.Idot,
		Crc: eph.Crc, Crs: eph.Crs, Cuc: eph.Cuc, Cus: eph.Cus, Cic: eph.Cic, Cis: eph.Cis,
		Toes: eph.Toes, Tocs: eph.Tocs, Ura: eph.Ura,
		F:   []float64{eph.F0, eph.F1, eph.F2},
		Tgd: eph.Tgd[:],
	}
}

/* ion/utc document of last decoded message (nil: none) ----------------------*/
func newIonDoc(session string, raw *unicorego.Raw) *ionDoc {
	var (
		ion *unicorego.IonUtc
		sys string
	)
	switch raw.MsgId {
	case unicorego.ID_IONUTC:
		ion, sys = &raw.NavData.IonGps, "G"
	case unicorego.ID_BD2IONUTC:
		ion, sys = &raw.NavData.IonBds, "C"
	default:
		return nil
	}
	return &ionDoc{
		Session: session, Sys: sys, Ion: ion.Ion[:], A0: ion.A0, A1: ion.A1,
		Tot: ion.Tot, WNt: ion.WNt, WNLSF: ion.WNLSF, DN: ion.DN, DtLS: ion.DtLS,
		DtLSF: ion.DtLSF, Leaps: ion.Leaps, Time: gtime2time(raw.Time),
	}
}

type mongoSink struct {
	session string
	client  *mongo.Client
	eph     *mongo.Collection
	ion     *mongo.Collection
}

func newMongoSink(ctx context.Context, cfg *config, session string) (*mongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	db := client.Database(cfg.MongoDB)
	return &mongoSink{
		session: session,
		client:  client,
		eph:     db.Collection("eph"),
		ion:     db.Collection("ionutc"),
	}, nil
}

func (k *mongoSink) Name() string { return "mongo" }

func (k *mongoSink) Write(ctx context.Context, stat unicorego.Status, raw *unicorego.Raw) error {
	upsert := options.Replace().SetUpsert(true)

	switch stat {
	case unicorego.STAT_EPH:
		doc := newEphDoc(k.session, &raw.NavData.Eph[raw.EphSat-1])
		if _, err := k.eph.ReplaceOne(ctx, bson.M{"sat": doc.Sat}, doc, upsert); err != nil {
			return fmt.Errorf("mongodb eph error: %w", err)
		}
	case unicorego.STAT_ION:
		doc := newIonDoc(k.session, raw)
		if doc == nil {
			return nil
		}
		if _, err := k.ion.ReplaceOne(ctx, bson.M{"sys": doc.Sys}, doc, upsert); err != nil {
			return fmt.Errorf("mongodb ion/utc error: %w", err)
		}
	}
	return nil
}

func (k *mongoSink) Flush(ctx context.Context) error { return nil }

func (k *mongoSink) Close(ctx context.Context) error { return k.client.Disconnect(ctx) }

/* mqtt ------------------------------------------------------------------------*/
type posMsg struct {
	Session    string  `json:"session"`
	Time       string  `json:"time"`
	SolStat    int     `json:"solstat"`
	PosType    int     `json:"postype"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Hgt        float64 `json:"hgt"`
	Undulation float64 `json:"undulation"`
	NumSV      int     `json:"nsv"`
	NumSolnSV  int     `json:"nsolnsv"`
	GGA        string  `json:"gga"`
}

type velMsg struct {
	Session string  `json:"session"`
	Time    string  `json:"time"`
	Hspd    float64 `json:"hspd"`
	Vspd    float64 `json:"vspd"`
	Heading float64 `json:"heading"`
}

type attMsg struct {
	Session    string  `json:"session"`
	Time       string  `json:"time"`
	SolStat    int     `json:"solstat"`
	Heading    float64 `json:"heading"`
	Pitch      float64 `json:"pitch"`
	Length     float64 `json:"length"`
	HeadingSig float64 `json:"heading_sig"`
	PitchSig   float64 `json:"pitch_sig"`
}

type visSat struct {
	Sat  string  `json:"sat"`
	Elev float64 `json:"elev"`
	Az   float64 `json:"az"`
}

type visMsg struct {
	Session string   `json:"session"`
	Time    string   `json:"time"`
	Sats    []visSat `json:"sats"`
}

/* decoded message to mqtt topic and payload ("": not published) ---------------*/
func mqttMessage(session string, stat unicorego.Status, raw *unicorego.Raw) (string, []byte, error) {
	var (
		sub string
		msg interface{}
	)
	switch stat {
	case unicorego.STAT_POS:
		pos := &raw.Pos
		leaps := raw.NavData.Leaps
		if leaps == 0 {
			leaps = DEFLEAPS
		}
		sub, msg = "pos", posMsg{
			Session: session, Time: unicorego.Time2Str(pos.Time, 3),
			SolStat: pos.SolStat, PosType: pos.PosType, Lat: pos.Lat, Lon: pos.Lon,
			Hgt: pos.Hgt, Undulation: pos.Undulation, NumSV: pos.NumSV,
			NumSolnSV: pos.NumSolnSV, GGA: unicorego.OutNmeaGga(pos, leaps),
		}
	case unicorego.STAT_VEL:
		vel := &raw.Vel
		sub, msg = "vel", velMsg{
			Session: session, Time: unicorego.Time2Str(vel.Time, 3),
			Hspd: vel.Hspd, Vspd: vel.Vspd, Heading: vel.Heading,
		}
	case unicorego.STAT_ATT:
		att := &raw.Att
		sub, msg = "att", attMsg{
			Session: session, Time: unicorego.Time2Str(att.Time, 3), SolStat: att.SolStat,
			Heading: att.Heading, Pitch: att.Pitch, Length: att.Length,
			HeadingSig: att.HeadingSig, PitchSig: att.PitchSig,
		}
	case unicorego.STAT_SATVIS:
		m := visMsg{Session: session, Time: unicorego.Time2Str(raw.Vis.Time, 3),
			Sats: make([]visSat, 0, raw.Vis.N)}
		for i := 0; i < raw.Vis.N; i++ {
			d := &raw.Vis.Data[i]
			m.Sats = append(m.Sats, visSat{Sat: unicorego.SatNo2Id(d.Sat), Elev: d.Elev, Az: d.Az})
		}
		sub, msg = "satvis", m
	default:
		return "", nil, nil
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", nil, fmt.Errorf("mqtt json error: %w", err)
	}
	return sub, payload, nil
}

type mqttSink struct {
	session string
	topic   string
	client  mqtt.Client
}

func newMqttSink(cfg *config, session string) (*mqttSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MqttBroker).
		SetClientID(cfg.MqttClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(MQTTTIMEOUT)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(MQTTTIMEOUT) {
		return nil, fmt.Errorf("mqtt connect timeout (%s)", cfg.MqttBroker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error (%s): %w", cfg.MqttBroker, err)
	}
	log.WithField("sink", "mqtt").Infof("connected to %s", cfg.MqttBroker)
	return &mqttSink{session: session, topic: cfg.MqttTopic, client: client}, nil
}

func (k *mqttSink) Name() string { return "mqtt" }

func (k *mqttSink) Write(ctx context.Context, stat unicorego.Status, raw *unicorego.Raw) error {
	sub, payload, err := mqttMessage(k.session, stat, raw)
	if err != nil || len(sub) == 0 {
		return err
	}
	token := k.client.Publish(k.topic+"/"+sub, 0, false, payload)
	if !token.WaitTimeout(MQTTTIMEOUT) {
		return fmt.Errorf("mqtt publish timeout: topic=%s/%s", k.topic, sub)
	}
	return token.Error()
}

func (k *mqttSink) Flush(ctx context.Context) error { return nil }

func (k *mqttSink) Close(ctx context.Context) error {
	k.client.Disconnect(250)
	return nil
}
