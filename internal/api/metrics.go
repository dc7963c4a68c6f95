package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var configRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "supaconf",
		Name:      "config_requests_total",
		Help:      "Client config documents served, by format.",
	},
	[]string{"format"},
)
