package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	partition int
	event     *entity.AppointmentEvent
}

// fakeTransport records sends and fails the first failures calls.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentEvent
	calls    int
	failures int
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeTransport) Send(_ context.Context, partition int, event *entity.AppointmentEvent) error {
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("broker unavailable")
	}
	f.sent = append(f.sent, sentEvent{partition: partition, event: event})
	return nil
}

func (f *fakeTransport) snapshot() ([]sentEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEvent(nil), f.sent...), f.calls
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func eventsConfig() config.EventsConfig {
	return config.EventsConfig{
		Enabled:      true,
		Partitions:   4,
		QueueSize:    64,
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	}
}

func testAppointment(status string) *entity.Appointment {
	a := &entity.Appointment{ID: uuid.New(), PatientName: "John Doe", ScheduledAt: time.Now().Add(time.Hour)}
	a.AssignDoctor(&entity.User{ID: uuid.New(), Name: "Dr. Grey", Role: entity.RoleDoctor})
	a.AssignSpecialty(&entity.Specialty{ID: 1, Name: "Cardiology"})
	a.Transition(&entity.AppointmentStatus{ID: 1, Code: status})
	return a
}

var admin = entity.Actor{UserID: uuid.New(), Name: "Ada Admin", Email: "admin@clinic.test", Role: entity.RoleAdmin}

func TestPublisher_KeepsPerAppointmentOrder(t *testing.T) {
	transport := &fakeTransport{}
	p := NewAppointmentEventPublisher(eventsConfig(), transport, quietLogger())
	ctx := context.Background()

	appointments := make([]*entity.Appointment, 8)
	for i := range appointments {
		appointments[i] = testAppointment(entity.StatusCodeScheduled)
	}
	sequence := []entity.AppointmentEventType{
		entity.AppointmentEventCreated,
		entity.AppointmentEventUpdated,
		entity.AppointmentEventUpdated,
		entity.AppointmentEventDeleted,
	}
	for _, eventType := range sequence {
		for _, a := range appointments {
			p.Publish(ctx, eventType, a, admin)
		}
	}
	p.Stop()

	sent, _ := transport.snapshot()
	require.Len(t, sent, len(sequence)*len(appointments))

	byID := map[uuid.UUID][]sentEvent{}
	for _, s := range sent {
		byID[s.event.AppointmentID] = append(byID[s.event.AppointmentID], s)
	}
	for _, a := range appointments {
		got := byID[a.ID]
		require.Len(t, got, len(sequence))
		want := Partition(a.ID.String(), 4)
		for i, s := range got {
			assert.Equal(t, sequence[i], s.event.EventType)
			assert.Equal(t, want, s.partition)
		}
	}
}

func TestPublisher_SnapshotIsTakenAtPublishTime(t *testing.T) {
	transport := &fakeTransport{}
	p := NewAppointmentEventPublisher(eventsConfig(), transport, quietLogger())

	a := testAppointment(entity.StatusCodeScheduled)
	p.Publish(context.Background(), entity.AppointmentEventDeleted, a, admin)
	a.Transition(&entity.AppointmentStatus{ID: 2, Code: entity.StatusCodeCanceled})
	a.PatientName = "changed"
	p.Stop()

	sent, _ := transport.snapshot()
	require.Len(t, sent, 1)
	event := sent[0].event
	assert.Equal(t, entity.StatusCodeScheduled, event.StatusCode)
	assert.Equal(t, "John Doe", event.PatientName)
	assert.Equal(t, "Ada Admin", event.PerformedBy)
	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestPublisher_RetriesThenSucceeds(t *testing.T) {
	transport := &fakeTransport{failures: 2}
	p := NewAppointmentEventPublisher(eventsConfig(), transport, quietLogger())

	p.Publish(context.Background(), entity.AppointmentEventCreated, testAppointment(entity.StatusCodeScheduled), admin)
	p.Stop()

	sent, calls := transport.snapshot()
	assert.Len(t, sent, 1)
	assert.Equal(t, 3, calls)
}

func TestPublisher_SwallowsPersistentFailure(t *testing.T) {
	transport := &fakeTransport{failures: 100}
	p := NewAppointmentEventPublisher(eventsConfig(), transport, quietLogger())

	p.Publish(context.Background(), entity.AppointmentEventCreated, testAppointment(entity.StatusCodeScheduled), admin)
	p.Stop()

	sent, calls := transport.snapshot()
	assert.Empty(t, sent)
	assert.Equal(t, 3, calls)
}

func TestPublisher_StopRetriesQueuedEvents(t *testing.T) {
	cfg := eventsConfig()
	cfg.Partitions = 1
	transport := &fakeTransport{failures: 1}
	p := NewAppointmentEventPublisher(cfg, transport, quietLogger())
	ctx := context.Background()
	a := testAppointment(entity.StatusCodeScheduled)

	p.Publish(ctx, entity.AppointmentEventCreated, a, admin)
	p.Publish(ctx, entity.AppointmentEventUpdated, a, admin)
	p.Publish(ctx, entity.AppointmentEventDeleted, a, admin)
	p.Stop()

	sent, calls := transport.snapshot()
	require.Len(t, sent, 3)
	assert.Equal(t, 4, calls)
	assert.Equal(t, entity.AppointmentEventCreated, sent[0].event.EventType)
	assert.Equal(t, entity.AppointmentEventDeleted, sent[2].event.EventType)
}

func TestPublisher_DisabledSkipsTransport(t *testing.T) {
	cfg := eventsConfig()
	cfg.Enabled = false
	transport := &fakeTransport{}
	p := NewAppointmentEventPublisher(cfg, transport, quietLogger())

	p.Publish(context.Background(), entity.AppointmentEventCreated, testAppointment(entity.StatusCodeScheduled), admin)
	p.Stop()

	_, calls := transport.snapshot()
	assert.Zero(t, calls)
}

func TestPublisher_FullQueueDropsWithoutBlocking(t *testing.T) {
	cfg := eventsConfig()
	cfg.Partitions = 1
	cfg.QueueSize = 1
	transport := &fakeTransport{entered: make(chan struct{}), release: make(chan struct{})}
	p := NewAppointmentEventPublisher(cfg, transport, quietLogger())
	ctx := context.Background()
	a := testAppointment(entity.StatusCodeScheduled)

	p.Publish(ctx, entity.AppointmentEventCreated, a, admin)
	<-transport.entered

	done := make(chan struct{})
	go func() {
		p.Publish(ctx, entity.AppointmentEventUpdated, a, admin)
		p.Publish(ctx, entity.AppointmentEventUpdated, a, admin)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}

	go func() {
		for range transport.entered {
		}
	}()
	close(transport.release)
	p.Stop()
	close(transport.entered)

	sent, _ := transport.snapshot()
	assert.Len(t, sent, 2)
}

func TestPublisher_PublishAfterStopIsIgnored(t *testing.T) {
	transport := &fakeTransport{}
	p := NewAppointmentEventPublisher(eventsConfig(), transport, quietLogger())
	p.Stop()
	p.Stop()

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), entity.AppointmentEventCreated, testAppointment(entity.StatusCodeScheduled), admin)
	})
	_, calls := transport.snapshot()
	assert.Zero(t, calls)
}

func TestPartition_IsStableAndInRange(t *testing.T) {
	key := uuid.New().String()
	first := Partition(key, 8)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Partition(key, 8))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
	assert.Zero(t, Partition(key, 1))
}
