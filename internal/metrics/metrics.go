package metrics

import (
	"context"

	"github.com/aretw0/pairs/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the game counters exported on /metrics.
type Metrics struct {
	GamesStarted   *prometheus.CounterVec
	CardFlips      *prometheus.CounterVec
	PairsMatched   *prometheus.CounterVec
	GamesCompleted *prometheus.CounterVec
	GamesEnded     *prometheus.CounterVec
	GameDuration   *prometheus.HistogramVec
	GameMoves      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairs_games_started_total",
				Help: "Total number of games dealt",
			},
			[]string{"environment"},
		),
		CardFlips: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairs_card_flips_total",
				Help: "Total number of accepted card flips",
			},
			[]string{"environment"},
		),
		PairsMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairs_pairs_matched_total",
				Help: "Total number of pairs matched",
			},
			[]string{"environment"},
		),
		GamesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairs_games_completed_total",
				Help: "Total number of games with every pair matched",
			},
			[]string{"environment"},
		),
		GamesEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pairs_games_ended_total",
				Help: "Total number of games discarded by the player",
			},
			[]string{"environment"},
		),
		GameDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pairs_game_duration_seconds",
				Help:    "Wall-clock time from deal to the last match",
				Buckets: []float64{10, 20, 30, 45, 60, 90, 120, 180, 300, 600},
			},
			[]string{"environment"},
		),
		GameMoves: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pairs_game_moves",
				Help:    "Card flips needed to complete a game",
				Buckets: prometheus.LinearBuckets(16, 4, 10),
			},
			[]string{"environment"},
		),
	}

	reg.MustRegister(
		m.GamesStarted,
		m.CardFlips,
		m.PairsMatched,
		m.GamesCompleted,
		m.GamesEnded,
		m.GameDuration,
		m.GameMoves,
	)
	return m
}

// Hooks returns lifecycle hooks that record every game event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGameStart: func(ctx context.Context, e *domain.Event) {
			m.GamesStarted.WithLabelValues(e.Environment).Inc()
		},
		OnCardFlip: func(ctx context.Context, e *domain.Event) {
			m.CardFlips.WithLabelValues(e.Environment).Inc()
		},
		OnPairMatch: func(ctx context.Context, e *domain.Event) {
			m.PairsMatched.WithLabelValues(e.Environment).Inc()
		},
		OnGameComplete: func(ctx context.Context, e *domain.Event) {
			m.GamesCompleted.WithLabelValues(e.Environment).Inc()
			m.GameDuration.WithLabelValues(e.Environment).Observe(e.ElapsedSeconds)
			m.GameMoves.WithLabelValues(e.Environment).Observe(float64(e.Moves))
		},
		OnGameEnd: func(ctx context.Context, e *domain.Event) {
			m.GamesEnded.WithLabelValues(e.Environment).Inc()
		},
	}
}
