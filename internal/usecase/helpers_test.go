package usecase

import (
	"context"
	"io"
	"sync"
	"testing"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/testutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type publishedEvent struct {
	eventType     entity.AppointmentEventType
	appointmentID uuid.UUID
	statusCode    string
	deleted       bool
	performedBy   string
}

// recordingPublisher captures what the engine hands to the emitter, as seen at publish time.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType entity.AppointmentEventType, appointment *entity.Appointment, actor entity.Actor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{
		eventType:     eventType,
		appointmentID: appointment.ID,
		statusCode:    appointment.Status.Code,
		deleted:       appointment.IsDeleted(),
		performedBy:   actor.Auditor(),
	})
}

func (p *recordingPublisher) types() []entity.AppointmentEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.AppointmentEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type clinic struct {
	db           *gorm.DB
	publisher    *recordingPublisher
	appointments AppointmentUsecase
	statuses     AppointmentStatusUsecase

	admin         entity.Actor
	receptionist  entity.Actor
	grey          entity.Actor
	house         entity.Actor
	receptionUser *entity.User
	cardiology    *entity.Specialty
	neurology     *entity.Specialty
}

func newClinic(t *testing.T) *clinic {
	t.Helper()
	db := testutil.NewDB(t)
	log := newTestLogger()
	publisher := &recordingPublisher{}

	appointmentRepo := repository.NewAppointmentRepository()
	statusRepo := repository.NewAppointmentStatusRepository()

	statuses := NewAppointmentStatusUsecase(db, log, statusRepo, appointmentRepo)
	if err := statuses.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("ensure defaults: %v", err)
	}

	reception := testutil.SeedUser(db, t, "Rita Reception", "rita@clinic.test", entity.RoleReceptionist)
	return &clinic{
		db:        db,
		publisher: publisher,
		appointments: NewAppointmentUsecase(
			db, log,
			appointmentRepo,
			statusRepo,
			repository.NewUserRepository(),
			repository.NewSpecialtyRepository(),
			publisher,
		),
		statuses:      statuses,
		admin:         testutil.Admin(db, t),
		receptionist:  testutil.AsActor(reception),
		receptionUser: reception,
		grey:          testutil.AsActor(testutil.SeedUser(db, t, "Dr. Grey", "grey@clinic.test", entity.RoleDoctor)),
		house:         testutil.AsActor(testutil.SeedUser(db, t, "Dr. House", "house@clinic.test", entity.RoleDoctor)),
		cardiology:    testutil.SeedSpecialty(db, t, "CARD", "Cardiology"),
		neurology:     testutil.SeedSpecialty(db, t, "NEURO", "Neurology"),
	}
}

func strPtr(s string) *string { return &s }
