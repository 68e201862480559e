package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HeapOperationsTotal counts indexed heap operations by outcome
	HeapOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_heap_operations_total",
			Help: "Total number of indexed heap operations",
		},
		[]string{"op", "status"},
	)

	// RingOperationsTotal counts ring buffer operations by outcome
	RingOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collections_ring_operations_total",
			Help: "Total number of ring buffer operations",
		},
		[]string{"op", "status"},
	)

	// BlockAllocatedBytes tracks bytes handed out to storage blocks
	BlockAllocatedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collections_block_allocated_bytes_total",
			Help: "Total bytes allocated for storage blocks",
		},
	)

	// BlockReleasedBytes tracks bytes returned by storage blocks
	BlockReleasedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "collections_block_released_bytes_total",
			Help: "Total bytes released back by storage blocks",
		},
	)
)
