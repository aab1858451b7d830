package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"flipnet/core/events"
	"flipnet/core/types"
)

type rpcMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

type engineMetrics struct {
	betsPlaced    prometheus.Counter
	betsSettled   *prometheus.CounterVec
	betsCancelled prometheus.Counter
	payoutTotal   prometheus.Counter
	bonusTotal    prometheus.Counter
	dividends     prometheus.Counter
	fallbacks     prometheus.Counter
	epoch         prometheus.Gauge
	stakeFlows    *prometheus.CounterVec
	rewardsPaid   prometheus.Counter
}

var (
	rpcMetricsOnce sync.Once
	rpcRegistry    *rpcMetrics

	engineMetricsOnce sync.Once
	engineRegistry    *engineMetrics
)

// RPCMetrics returns the lazily-initialised registry tracking JSON-RPC
// activity.
func RPCMetrics() *rpcMetrics {
	rpcMetricsOnce.Do(func() {
		rpcRegistry = &rpcMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "flipnet",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "flipnet",
				Subsystem: "rpc",
				Name:      "request_duration_seconds",
				Help:      "Latency distribution for JSON-RPC handlers.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
		}
		prometheus.MustRegister(rpcRegistry.requests, rpcRegistry.latency)
	})
	return rpcRegistry
}

// Record tracks a completed RPC call.
func (m *rpcMetrics) Record(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// EngineMetrics returns the registry tracking wager and stake activity.
func EngineMetrics() *engineMetrics {
	engineMetricsOnce.Do(func() {
		engineRegistry = &engineMetrics{
			betsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "bets_placed_total",
				Help: "Count of accepted bets.",
			}),
			betsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "bets_settled_total",
				Help: "Count of settled bets segmented by outcome.",
			}, []string{"outcome"}),
			betsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "bets_cancelled_total",
				Help: "Count of expired bets refunded by cancellation.",
			}),
			payoutTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "payout_wei_total",
				Help: "Cumulative native payout volume.",
			}),
			bonusTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "bonus_wei_total",
				Help: "Cumulative bonus token volume delivered to winners.",
			}),
			dividends: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "dividends_wei_total",
				Help: "Cumulative surplus swept into the stake vault.",
			}),
			fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "transfer_fallbacks_total",
				Help: "Count of push payments degraded into pull credits.",
			}),
			epoch: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "flipnet", Subsystem: "wager", Name: "bonus_epoch",
				Help: "Current bonus halving epoch.",
			}),
			stakeFlows: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "stake", Name: "flows_total",
				Help: "Count of stake operations segmented by kind.",
			}, []string{"kind"}),
			rewardsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "flipnet", Subsystem: "stake", Name: "rewards_wei_total",
				Help: "Cumulative native rewards claimed by stakers.",
			}),
		}
		prometheus.MustRegister(
			engineRegistry.betsPlaced,
			engineRegistry.betsSettled,
			engineRegistry.betsCancelled,
			engineRegistry.payoutTotal,
			engineRegistry.bonusTotal,
			engineRegistry.dividends,
			engineRegistry.fallbacks,
			engineRegistry.epoch,
			engineRegistry.stakeFlows,
			engineRegistry.rewardsPaid,
		)
	})
	return engineRegistry
}

func attrAmount(evt *types.Event, key string) float64 {
	value, err := strconv.ParseFloat(evt.Attributes[key], 64)
	if err != nil {
		return 0
	}
	return value
}

// ObserveEvent folds a structured protocol event into the metric registry.
// Intended to be fed from an event bus subscription.
func (m *engineMetrics) ObserveEvent(evt *types.Event) {
	if m == nil || evt == nil {
		return
	}
	switch evt.Type {
	case events.TypeWagerPlaced:
		m.betsPlaced.Inc()
	case events.TypeWagerSettled:
		outcome := "won"
		if evt.Attributes["flips"] == "0" {
			outcome = "lost"
		}
		m.betsSettled.WithLabelValues(outcome).Inc()
		m.payoutTotal.Add(attrAmount(evt, "payout"))
		m.bonusTotal.Add(attrAmount(evt, "bonus"))
	case events.TypeWagerCancelled:
		m.betsCancelled.Inc()
	case events.TypeWagerEpochAdvanced:
		m.epoch.Set(attrAmount(evt, "epoch"))
	case events.TypeWagerDividendPaid:
		m.dividends.Add(attrAmount(evt, "amount"))
	case events.TypeWagerTransferFailed:
		m.fallbacks.Inc()
	case events.TypeStakeDeposited:
		m.stakeFlows.WithLabelValues("deposit").Inc()
	case events.TypeStakeUnstakeRequested:
		m.stakeFlows.WithLabelValues("unstake").Inc()
	case events.TypeStakeWithdrawn:
		m.stakeFlows.WithLabelValues("withdraw").Inc()
	case events.TypeStakeRewardsClaimed:
		m.stakeFlows.WithLabelValues("claim").Inc()
		m.rewardsPaid.Add(attrAmount(evt, "amount"))
	}
}
