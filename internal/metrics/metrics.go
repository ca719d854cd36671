package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scaling Metrics
var (
	RecomputeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRecomputeTotal,
			Help: HelpTextRecomputeTotal,
		},
		[]string{LabelOutcome, LabelReason},
	)

	DamageAdjusted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDamageAdjusted,
			Help: HelpTextDamageAdjusted,
		},
	)

	XPScaled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameXPScaled,
			Help: HelpTextXPScaled,
		},
	)

	TrackedInstances = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTrackedInstances,
			Help: HelpTextTrackedInstances,
		},
	)

	TrackedCreatures = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTrackedCreatures,
			Help: HelpTextTrackedCreatures,
		},
	)

	TrackerEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTrackerEvents,
			Help: HelpTextTrackerEvents,
		},
		[]string{LabelEvent},
	)

	ImmunityChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameImmunityChanges,
			Help: HelpTextImmunityChanges,
		},
		[]string{LabelKind},
	)

	ConfigReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConfigReloads,
			Help: HelpTextConfigReloads,
		},
		[]string{LabelResult},
	)
)

// Reward Metrics
var (
	RewardGrants = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRewardGrants,
			Help: HelpTextRewardGrants,
		},
	)

	RewardSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardSkips,
			Help: HelpTextRewardSkips,
		},
		[]string{LabelReason},
	)

	LedgerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerErrors,
			Help: HelpTextLedgerErrors,
		},
	)
)

// Console Metrics
var (
	ConsoleSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameConsoleSessions,
			Help: HelpTextConsoleSessions,
		},
	)

	ConsoleCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConsoleCommands,
			Help: HelpTextConsoleCommands,
		},
		[]string{LabelCommand},
	)

	ConsoleAuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameConsoleAuthFails,
			Help: HelpTextConsoleAuthFails,
		},
	)

	ConsoleThrottled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameConsoleThrottled,
			Help: HelpTextConsoleThrottled,
		},
	)

	ConsoleRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConsoleRejected,
			Help: HelpTextConsoleRejected,
		},
		[]string{LabelLimit},
	)
)

// ObserveRecompute counts one scaling pass.
func ObserveRecompute(outcome, reason string) {
	if reason == "" {
		reason = "none"
	}
	RecomputeTotal.WithLabelValues(outcome, reason).Inc()
}
