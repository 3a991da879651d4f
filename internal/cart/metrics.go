package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_mutations_total",
			Help: "Cart mutations that changed the cart, by operation",
		},
		[]string{"op"},
	)

	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_loads_total",
			Help: "Initial cart loads, by resulting state",
		},
		[]string{"state"},
	)

	persistenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_persistence_errors_total",
			Help: "Failed cart storage operations, by operation",
		},
		[]string{"op"},
	)
)
