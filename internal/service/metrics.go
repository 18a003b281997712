package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rewardsGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "rewards",
			Name:      "granted_total",
			Help:      "Task rewards granted, by task type",
		},
		[]string{"task_type"},
	)
	rewardsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "rewards",
			Name:      "rejected_total",
			Help:      "Task reward attempts rejected, by reason",
		},
		[]string{"reason"},
	)
	levelUps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "questline",
		Subsystem: "progression",
		Name:      "level_ups_total",
		Help:      "Levels gained across all users",
	})
	xpGranted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "questline",
		Subsystem: "progression",
		Name:      "xp_granted_total",
		Help:      "XP granted after bonuses",
	})
	achievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "achievements",
			Name:      "unlocked_total",
			Help:      "Achievements unlocked, by category",
		},
		[]string{"category"},
	)
	achievementCheckErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "questline",
		Subsystem: "achievements",
		Name:      "check_errors_total",
		Help:      "Achievement checks that failed and were logged",
	})
	ledgerEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "wallet",
			Name:      "entries_total",
			Help:      "Ledger entries written, by kind",
		},
		[]string{"kind"},
	)
	ledgerCoins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "wallet",
			Name:      "coins_total",
			Help:      "Coins moved through the ledger, by kind",
		},
		[]string{"kind"},
	)
	purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "shop",
			Name:      "purchases_total",
			Help:      "Equipment purchases, by rarity",
		},
		[]string{"rarity"},
	)
)
