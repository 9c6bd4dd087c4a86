package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

var (
	mongoOpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_open_connections",
			Help: "Connections currently open in the MongoDB pool",
		},
	)

	mongoCheckedOutConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongo_checked_out_connections",
			Help: "Connections currently checked out of the MongoDB pool",
		},
	)
)

// MongoPoolMonitor feeds driver pool events into the connection gauges.
// Attach it to the client options at connect time.
func MongoPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				mongoOpenConnections.Inc()
			case event.ConnectionClosed:
				mongoOpenConnections.Dec()
			case event.GetSucceeded:
				mongoCheckedOutConnections.Inc()
			case event.ConnectionReturned:
				mongoCheckedOutConnections.Dec()
			}
		},
	}
}
