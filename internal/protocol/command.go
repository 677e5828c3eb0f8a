package protocol

import (
	"errors"
	"strings"
	"unicode"

	"github.com/example/class-scheduler/internal/scheduler"
)

// Command keywords recognised on the wire.
const (
	KeywordAdd           = "ADD"
	KeywordRemove        = "REMOVE"
	KeywordDisplay       = "DISPLAY"
	KeywordStop          = "STOP"
	KeywordEarlyLectures = "EARLY_LECTURES"
)

// ErrUnknownCommand is matched by every UnknownCommandError.
var ErrUnknownCommand = errors.New("protocol: unknown command")

// UnknownCommandError reports a keyword outside the command set.
type UnknownCommandError struct {
	Keyword string
}

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return "protocol: unknown command " + e.Keyword
}

// Is allows errors.Is(err, ErrUnknownCommand).
func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// Command is one parsed request. The set of implementations is closed.
type Command interface {
	Keyword() string
	command()
}

// AddCommand books Session.
type AddCommand struct {
	Session scheduler.Session
}

// RemoveCommand frees Slot.
type RemoveCommand struct {
	Slot scheduler.Slot
}

// DisplayCommand lists the sessions selected by Scope.
type DisplayCommand struct {
	Scope scheduler.Scope
}

// StopCommand asks the server to terminate the exchange.
type StopCommand struct{}

// EarlyLecturesCommand shifts the sessions selected by Scope earlier.
type EarlyLecturesCommand struct {
	Scope scheduler.Scope
}

func (AddCommand) Keyword() string           { return KeywordAdd }
func (RemoveCommand) Keyword() string        { return KeywordRemove }
func (DisplayCommand) Keyword() string       { return KeywordDisplay }
func (StopCommand) Keyword() string          { return KeywordStop }
func (EarlyLecturesCommand) Keyword() string { return KeywordEarlyLectures }

func (AddCommand) command()           {}
func (RemoveCommand) command()        {}
func (DisplayCommand) command()       {}
func (StopCommand) command()          {}
func (EarlyLecturesCommand) command() {}

// ParseRequest splits a request line into its keyword and arguments and
// parses the arguments for that keyword. Keywords are case-sensitive.
func ParseRequest(line string) (Command, error) {
	keyword, args := splitRequest(line)

	switch keyword {
	case "":
		return nil, &scheduler.MalformedInputError{Reason: "empty request"}
	case KeywordAdd:
		session, err := scheduler.Parse(args)
		if err != nil {
			return nil, err
		}
		return AddCommand{Session: session}, nil
	case KeywordRemove:
		slot, err := scheduler.ParseSlot(slotArguments(args))
		if err != nil {
			return nil, err
		}
		return RemoveCommand{Slot: slot}, nil
	case KeywordDisplay:
		scope, err := scheduler.ParseScope(args)
		if err != nil {
			return nil, err
		}
		return DisplayCommand{Scope: scope}, nil
	case KeywordEarlyLectures:
		scope, err := scheduler.ParseScope(args)
		if err != nil {
			return nil, err
		}
		return EarlyLecturesCommand{Scope: scope}, nil
	case KeywordStop:
		if args != "" {
			return nil, &scheduler.MalformedInputError{Reason: "STOP takes no arguments"}
		}
		return StopCommand{}, nil
	}
	return nil, &UnknownCommandError{Keyword: keyword}
}

func splitRequest(line string) (keyword, args string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i:])
}

// slotArguments drops the class and description placeholders a full
// six-field session carries, leaving the four slot fields.
func slotArguments(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 6 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}
