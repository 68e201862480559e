package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/apustovitovsky/native-collections/heap"
	"github.com/apustovitovsky/native-collections/ring"
)

// popRecord is what the recent-pops ring buffer keeps per extraction.
type popRecord struct {
	Slot  int
	Value int64
}

// Simulator drives a randomized push/update/pop workload against an
// indexed heap and checks the result against a shadow model.
type Simulator struct {
	cfg    Config
	logger *zap.Logger
	rng    *rand.Rand

	queue  *heap.Indexed[int64]
	recent *ring.Buffer[popRecord]

	// shadow model: expected value per present slot
	expected map[int]int64

	pushes    int
	updates   int
	pops      int
	rejected  int
	anomalies int
}

// NewSimulator builds a simulator with its heap allocated from alloc. The
// slot space is twice the element capacity so the workload saturates the
// heap and exercises full-heap rejections.
func NewSimulator(cfg Config, alloc memory.Allocator, logger *zap.Logger) (*Simulator, error) {
	queue, err := heap.NewIndexedSpace[int64](2*cfg.Capacity, cfg.Capacity, alloc)
	if err != nil {
		return nil, err
	}
	recent, err := ring.New[popRecord](cfg.RecentWindow)
	if err != nil {
		queue.Release()
		return nil, err
	}
	return &Simulator{
		cfg:      cfg,
		logger:   logger,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		queue:    queue,
		recent:   recent,
		expected: make(map[int]int64, cfg.Capacity),
	}, nil
}

// Close releases the heap storage. Safe to call more than once.
func (s *Simulator) Close() {
	s.queue.Release()
}

// Run executes the scheduled operations, then drains the heap and verifies
// extraction order and content against the shadow model. It returns an
// error when any anomaly was observed.
func (s *Simulator) Run(ctx context.Context) error {
	var limiter *rate.Limiter
	if s.cfg.OpsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.OpsPerSec), s.cfg.OpsPerSec)
	}

	for i := 0; i < s.cfg.Operations; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if s.rng.Float64() < s.cfg.PopRatio {
			s.stepPop()
		} else {
			s.stepPush()
		}
	}

	s.drain()

	s.logger.Info("simulation finished",
		zap.Int("pushes", s.pushes),
		zap.Int("updates", s.updates),
		zap.Int("pops", s.pops),
		zap.Int("rejected", s.rejected),
		zap.Uint64("recent_lifetime_pushes", s.recent.Pushed()),
		zap.Int("anomalies", s.anomalies),
	)
	if s.anomalies > 0 {
		return fmt.Errorf("detected %d anomalies", s.anomalies)
	}
	return nil
}

func (s *Simulator) stepPush() {
	slot := s.pickSlot()
	value := s.rng.Int63()

	wasPresent := s.queue.Contains(slot)
	err := s.queue.TryPush(slot, value)
	switch {
	case err == heap.ErrFull:
		if wasPresent {
			s.anomaly("full rejection for present slot", slot, value)
		}
		s.rejected++
	case err != nil:
		s.anomaly("unexpected push error: "+err.Error(), slot, value)
	case wasPresent:
		s.updates++
		s.expected[slot] = value
	default:
		s.pushes++
		s.expected[slot] = value
	}
}

// pickSlot aims at a present slot with probability UpdateRatio when
// anything is present, otherwise anywhere in the slot space.
func (s *Simulator) pickSlot() int {
	space := s.queue.Slots()
	slot := s.rng.Intn(space)
	if s.rng.Float64() < s.cfg.UpdateRatio && !s.queue.Contains(slot) && s.queue.Len() > 0 {
		// probe forward for a present slot
		for i := 0; i < space; i++ {
			probe := (slot + i) % space
			if s.queue.Contains(probe) {
				return probe
			}
		}
	}
	return slot
}

func (s *Simulator) stepPop() {
	slot, value, ok := s.queue.TryPop()
	if !ok {
		if len(s.expected) != 0 {
			s.anomaly("empty pop while model has entries", -1, 0)
		}
		return
	}
	s.pops++
	s.checkPopped(slot, value)
	s.recent.Push(popRecord{Slot: slot, Value: value})
}

// drain pops everything that remains, asserting non-decreasing order.
func (s *Simulator) drain() {
	prev, first := int64(0), true
	for {
		slot, value, ok := s.queue.TryPop()
		if !ok {
			break
		}
		s.pops++
		if !first && value < prev {
			s.anomaly("extraction order went backwards", slot, value)
		}
		prev, first = value, false
		s.checkPopped(slot, value)
		s.recent.Push(popRecord{Slot: slot, Value: value})
	}
	if len(s.expected) != 0 {
		s.anomaly("model entries left after drain", -1, 0)
	}
	if !s.queue.Empty() || s.queue.Len() != 0 {
		s.anomaly("heap not empty after drain", -1, 0)
	}
}

func (s *Simulator) checkPopped(slot int, value int64) {
	want, present := s.expected[slot]
	switch {
	case !present:
		s.anomaly("popped slot not in model", slot, value)
	case want != value:
		s.anomaly(fmt.Sprintf("popped value mismatch, want %d", want), slot, value)
	default:
		delete(s.expected, slot)
	}
}

func (s *Simulator) anomaly(msg string, slot int, value int64) {
	s.anomalies++
	s.logger.Error("invariant violation",
		zap.String("detail", msg),
		zap.Int("slot", slot),
		zap.Int64("value", value),
	)
}
