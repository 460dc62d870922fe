package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/domain/entity"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

// Timeout for a single delivery attempt
const sendTimeout = 5 * time.Second

// =============================================================================
// Types
// =============================================================================

// EventTransport delivers one event to the given partition of the event stream.
type EventTransport interface {
	Send(ctx context.Context, partition int, event *entity.AppointmentEvent) error
}

// AppointmentEventPublisher emits appointment lifecycle events without blocking the caller.
//
// Key Features:
// - Ordered: events are routed by appointment id to one of N bounded queues,
//   each drained by a single worker, so one appointment's events keep their order
// - Non-blocking: a full queue drops the event and logs it
// - Best-effort: transport failures are retried, then logged and dropped
//
// Delivery happens outside the caller's transaction and never affects its result.
type AppointmentEventPublisher struct {
	cfg       config.EventsConfig
	transport EventTransport
	log       *logrus.Logger
	now       func() time.Time

	queues []chan *entity.AppointmentEvent

	// Graceful shutdown. mu orders enqueueing against closing the queues.
	mu      sync.RWMutex
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// =============================================================================
// Constructor
// =============================================================================

// NewAppointmentEventPublisher starts one worker per partition.
// When events are disabled no worker is started and Publish only logs.
// Call Stop() during graceful shutdown.
func NewAppointmentEventPublisher(cfg config.EventsConfig, transport EventTransport, log *logrus.Logger) *AppointmentEventPublisher {
	p := &AppointmentEventPublisher{
		cfg:       cfg,
		transport: transport,
		log:       log,
		now:       time.Now,
	}

	if !cfg.Enabled {
		return p
	}

	p.queues = make([]chan *entity.AppointmentEvent, cfg.Partitions)
	for i := range p.queues {
		p.queues[i] = make(chan *entity.AppointmentEvent, cfg.QueueSize)
		p.wg.Add(1)
		go p.worker(i, p.queues[i])
	}

	return p
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// Stop closes the queues and waits until every queued event has been handled,
// retries included, so it returns within MaxAttempts backoff rounds per queued event.
// Safe to call multiple times.
func (p *AppointmentEventPublisher) Stop() {
	p.mu.Lock()
	if !p.stopped.CompareAndSwap(false, true) {
		p.mu.Unlock()
		return
	}
	for _, q := range p.queues {
		close(q)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("AppointmentEventPublisher stopped")
}

// =============================================================================
// Public Methods
// =============================================================================

// Publish snapshots appointment into an event and enqueues it. It never blocks and never fails.
func (p *AppointmentEventPublisher) Publish(ctx context.Context, eventType entity.AppointmentEventType, appointment *entity.Appointment, actor entity.Actor) {
	fields := logrus.Fields{
		"event_type":     eventType,
		"appointment_id": appointment.ID,
	}

	if !p.cfg.Enabled {
		p.log.WithFields(fields).Debug("Event publishing disabled, skipping")
		return
	}

	event := converter.AppointmentToEvent(eventType, appointment, actor)
	event.EventID = uuid.New()
	event.Timestamp = p.now().UTC()

	partition := Partition(event.RoutingKey(), len(p.queues))
	fields["partition"] = partition

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped.Load() {
		p.log.WithFields(fields).Error("Event publisher stopped, dropping event")
		return
	}

	select {
	case p.queues[partition] <- event:
		p.log.WithFields(fields).Debug("Event queued")
	default:
		p.log.WithFields(fields).Error("Event queue full, dropping event")
	}
}

// Partition maps a routing key onto one of n partitions.
func Partition(key string, n int) int {
	if n <= 1 {
		return 0
	}
	return int(xxhash.Sum64String(key) % uint64(n))
}

// =============================================================================
// Workers
// =============================================================================

func (p *AppointmentEventPublisher) worker(partition int, queue <-chan *entity.AppointmentEvent) {
	defer p.wg.Done()
	for event := range queue {
		p.deliver(partition, event)
	}
}

// deliver retries with linear backoff. Shutdown does not cut retries short.
func (p *AppointmentEventPublisher) deliver(partition int, event *entity.AppointmentEvent) {
	fields := logrus.Fields{
		"event_id":       event.EventID,
		"event_type":     event.EventType,
		"appointment_id": event.AppointmentID,
		"partition":      partition,
	}

	attempts := p.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err = p.transport.Send(ctx, partition, event)
		cancel()
		if err == nil {
			p.log.WithFields(fields).Debug("Event delivered")
			return
		}

		p.log.WithFields(fields).WithField("attempt", attempt).Warnf("Event delivery failed: %+v", err)
		if attempt == attempts {
			break
		}

		time.Sleep(p.cfg.RetryBackoff * time.Duration(attempt))
	}

	p.log.WithFields(fields).Errorf("Event dropped after %d attempts: %+v", attempts, err)
}
