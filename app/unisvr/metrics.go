package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"unicorego"
)

const METRICSJOB = "unisvr" /* pushgateway job name */

// metrics holds the decoder metrics of one server session.
type metrics struct {
	session string
	reg     *prometheus.Registry
	msgs    *prometheus.CounterVec /* decoded messages by status */
	fix     *prometheus.GaugeVec   /* last position/attitude fix */
	nobs    *prometheus.GaugeVec   /* observations of last epoch by antenna */
}

func newMetrics(session string) *metrics {
	m := &metrics{
		session: session,
		reg:     prometheus.NewRegistry(),
		msgs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unicore_messages_total",
				Help: "decoded unicore messages by status",
			},
			[]string{"stat"},
		),
		fix: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "unicore_fix",
				Help: "last position and attitude fix",
			},
			[]string{"value"},
		),
		nobs: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "unicore_observations",
				Help: "observation records of last epoch",
			},
			[]string{"antenna"},
		),
	}
	m.reg.MustRegister(m.msgs, m.fix, m.nobs)
	return m
}

/* update metrics by decoded message -----------------------------------------*/
func (m *metrics) observe(stat unicorego.Status, raw *unicorego.Raw) {
	if stat == unicorego.STAT_NONE {
		return
	}
	m.msgs.WithLabelValues(stat.String()).Inc()

	switch stat {
	case unicorego.STAT_POS:
		m.fix.WithLabelValues("lat").Set(raw.Pos.Lat)
		m.fix.WithLabelValues("lon").Set(raw.Pos.Lon)
		m.fix.WithLabelValues("hgt").Set(raw.Pos.Hgt)
		m.fix.WithLabelValues("nsolnsv").Set(float64(raw.Pos.NumSolnSV))
	case unicorego.STAT_ATT:
		m.fix.WithLabelValues("heading").Set(raw.Att.Heading)
		m.fix.WithLabelValues("pitch").Set(raw.Att.Pitch)
	case unicorego.STAT_OBS, unicorego.STAT_OBSH:
		rcv := unicorego.ObsRcv(stat)
		n := 0
		for i := 0; i < raw.ObsData.N; i++ {
			if raw.ObsData.Data[i].Rcv == rcv {
				n++
			}
		}
		m.nobs.WithLabelValues(fmt.Sprintf("%d", rcv)).Set(float64(n))
	}
}

/* push metrics to pushgateway -----------------------------------------------*/
func (m *metrics) push(url string) error {
	return push.New(url, METRICSJOB).
		Gatherer(m.reg).
		Grouping("session", m.session).
		Push()
}

/* metrics http handler --------------------------------------------------------*/
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
