package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coderoom",
		Name:      "connections_active",
		Help:      "Live transport connections.",
	})
	roomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "coderoom",
		Name:      "rooms_active",
		Help:      "Rooms with at least one participant.",
	})
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coderoom",
		Name:      "events_received_total",
		Help:      "Inbound protocol events by type.",
	}, []string{"type"})
	FramesSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coderoom",
		Name:      "frames_sent_total",
		Help:      "Frames queued to connections.",
	})
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "coderoom",
		Name:      "frames_dropped_total",
		Help:      "Frames refused by a full or closed connection.",
	})
	Executions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coderoom",
		Name:      "executions_total",
		Help:      "Execution requests by outcome (ok, failed, dropped).",
	}, []string{"outcome"})
)
