package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/class-scheduler/internal/application"
	"github.com/example/class-scheduler/internal/persistence"
)

// ServiceFactory assists tests with constructing the scheduling service
// using deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("journal"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithLogger overrides the logger handed to services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// SchedulingFixture bundles a service with the state it operates on.
type SchedulingFixture struct {
	Service *application.SchedulingService
	Store   *persistence.ScheduleStore
	Journal *RecordingJournal
}

// NewSchedulingFixture returns a service backed by an empty schedule and a
// recording journal.
func (f *ServiceFactory) NewSchedulingFixture() SchedulingFixture {
	journal := &RecordingJournal{}
	service, store := f.NewSchedulingService(journal)
	return SchedulingFixture{Service: service, Store: store, Journal: journal}
}

// NewSchedulingService returns a service over an empty schedule that writes
// to journal with the factory's identifiers and clock.
func (f *ServiceFactory) NewSchedulingService(journal application.CommandJournal) (*application.SchedulingService, *persistence.ScheduleStore) {
	store := persistence.NewScheduleStore()
	service := application.NewSchedulingServiceWithLogger(store, journal, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
	return service, store
}
