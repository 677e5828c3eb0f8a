package protocol

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/class-scheduler/internal/application"
	"github.com/example/class-scheduler/internal/logging"
	"github.com/example/class-scheduler/internal/scheduler"
)

// Scheduler is the set of schedule operations the dispatcher drives.
type Scheduler interface {
	Book(ctx context.Context, session scheduler.Session) error
	Cancel(ctx context.Context, slot scheduler.Slot) (scheduler.Session, error)
	Display(ctx context.Context, scope scheduler.Scope) (string, error)
	ShiftEarly(ctx context.Context, scope scheduler.Scope) (int, error)
	Stop(ctx context.Context)
}

// Dispatcher turns request lines into schedule operations and response lines.
type Dispatcher struct {
	scheduler Scheduler
	logger    *slog.Logger
}

// NewDispatcher constructs a Dispatcher. A nil logger uses slog.Default.
func NewDispatcher(s Scheduler, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{scheduler: s, logger: logger}
}

// Handle answers a single request line. It never panics.
func (d *Dispatcher) Handle(ctx context.Context, line string) (resp Response) {
	logger := d.loggerFor(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "request handler panicked", "panic", r, "request", line)
			resp = Errorf("%s", MessageInternalError)
		}
	}()

	cmd, err := ParseRequest(line)
	if err != nil {
		logger.WarnContext(ctx, "rejected request", "request", line, "error", err, "error_kind", errorKind(err))
		return errorResponse(err)
	}
	logger = logger.With("command", cmd.Keyword())
	return d.execute(logging.ContextWithLogger(ctx, logger), cmd)
}

// Execute runs an already parsed command.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) Response {
	return d.execute(ctx, cmd)
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command) Response {
	switch c := cmd.(type) {
	case AddCommand:
		if err := d.scheduler.Book(ctx, c.Session); err != nil {
			return errorResponse(err)
		}
		return Success(MessageScheduled)

	case RemoveCommand:
		if _, err := d.scheduler.Cancel(ctx, c.Slot); err != nil {
			if errors.Is(err, application.ErrNotFound) {
				return Errorf("%s %s", MessageNothingBooked, c.Slot)
			}
			return errorResponse(err)
		}
		return Success(MessageFreedSlot + " " + c.Slot.String())

	case DisplayCommand:
		listing, err := d.scheduler.Display(ctx, c.Scope)
		if err != nil {
			return errorResponse(err)
		}
		return Display(c.Scope.String(), listing)

	case EarlyLecturesCommand:
		if _, err := d.scheduler.ShiftEarly(ctx, c.Scope); err != nil {
			return errorResponse(err)
		}
		return Success(MessageShifted)

	case StopCommand:
		d.scheduler.Stop(ctx)
		return Terminate()
	}
	return errorResponse(&UnknownCommandError{Keyword: cmd.Keyword()})
}

func (d *Dispatcher) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return d.logger
}

func errorResponse(err error) Response {
	var (
		malformed *scheduler.MalformedInputError
		unknown   *UnknownCommandError
	)
	switch {
	case errors.As(err, &malformed):
		return Errorf("%s: %s", MessageIncorrectFormat, malformed.Reason)
	case errors.As(err, &unknown):
		return Errorf("%s %s", MessageUnknownCommand, unknown.Keyword)
	case errors.Is(err, application.ErrConflict):
		return Errorf("%s", MessageSlotTaken)
	case errors.Is(err, application.ErrNoSessions):
		return Errorf("%s", MessageNoSessions)
	case errors.Is(err, application.ErrNotFound):
		return Errorf("%s", MessageNothingBooked)
	}
	return Errorf("%s", MessageInternalError)
}

func errorKind(err error) string {
	if errors.Is(err, ErrUnknownCommand) {
		return "unknown_command"
	}
	return application.ErrorKind(err)
}
