package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 结果标签
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
)

// Metrics 服务指标
type Metrics struct {
	estimates    *prometheus.CounterVec
	ratings      *prometheus.CounterVec
	sessions     prometheus.Gauge
	sessionEvent *prometheus.CounterVec
}

// New 在给定的 Registerer 上注册指标，reg 为 nil 时使用默认 Registerer。
// 已注册的指标会被复用。
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	estimates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evrange_estimates_total",
		Help: "Total number of range estimates computed",
	}, []string{"outcome"})
	ratings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evrange_long_distance_ratings_total",
		Help: "Total number of long-distance ratings computed",
	}, []string{"outcome"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "evrange_estimator_sessions",
		Help: "Number of live estimator sessions",
	})
	sessionEvent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evrange_estimator_session_events_total",
		Help: "Total number of estimator session messages handled",
	}, []string{"type"})

	var err error
	if estimates, err = register(reg, estimates); err != nil {
		return nil, err
	}
	if ratings, err = register(reg, ratings); err != nil {
		return nil, err
	}
	if sessions, err = register(reg, sessions); err != nil {
		return nil, err
	}
	if sessionEvent, err = register(reg, sessionEvent); err != nil {
		return nil, err
	}

	return &Metrics{
		estimates:    estimates,
		ratings:      ratings,
		sessions:     sessions,
		sessionEvent: sessionEvent,
	}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func outcome(ok bool) string {
	if ok {
		return OutcomeOK
	}
	return OutcomeUnavailable
}

// ObserveEstimate 记录一次续航估算
func (m *Metrics) ObserveEstimate(ok bool) {
	if m == nil {
		return
	}
	m.estimates.WithLabelValues(outcome(ok)).Inc()
}

// ObserveRating 记录一次长途评分
func (m *Metrics) ObserveRating(ok bool) {
	if m == nil {
		return
	}
	m.ratings.WithLabelValues(outcome(ok)).Inc()
}

// SessionOpened 估算会话建立
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// SessionClosed 估算会话关闭
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

// ObserveSessionEvent 记录一条会话消息
func (m *Metrics) ObserveSessionEvent(msgType string) {
	if m == nil {
		return
	}
	m.sessionEvent.WithLabelValues(msgType).Inc()
}
