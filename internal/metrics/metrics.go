package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry metrics
	PlayersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rushmax_players_registered_total",
		Help: "The total number of players registered",
	})
	PlayersReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rushmax_players_reaped_total",
		Help: "The total number of idle players removed by the liveness reaper",
	})

	// Matchmaking metrics
	QueueJoinsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rushmax_queue_joins_total",
		Help: "The total number of accepted queue joins",
	}, []string{"rule"})
	MatchesCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rushmax_matches_created_total",
		Help: "The total number of games created",
	}, []string{"source", "rule"})
	MailboxDeliveriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rushmax_mailbox_deliveries_total",
		Help: "The total number of pending matches picked up by a poll",
	})

	// Scoring metrics
	ScoresSubmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rushmax_scores_submitted_total",
		Help: "The total number of scores accepted",
	}, []string{"mode"})
	LeaderboardPersistErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rushmax_leaderboard_persist_errors_total",
		Help: "The total number of leaderboard flush failures",
	})

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rushmax_http_requests_total",
		Help: "The total number of HTTP requests served",
	}, []string{"method", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rushmax_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	HTTPPanicsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rushmax_http_panics_total",
		Help: "The total number of handler panics recovered",
	}, []string{"route"})

	// Judge proxy metrics
	JudgeUpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rushmax_judge_upstream_latency_seconds",
		Help:    "Latency of calls to the judging model endpoint",
		Buckets: prometheus.DefBuckets,
	})
	JudgeUpstreamErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rushmax_judge_upstream_errors_total",
		Help: "The total number of failed calls to the judging model endpoint",
	})
)
