package protocol

import (
	"fmt"
	"strings"
)

// Status is the first word of every response line.
type Status string

// Response statuses.
const (
	StatusSuccess   Status = "SUCCESS"
	StatusError     Status = "ERROR"
	StatusDisplay   Status = "DISPLAY"
	StatusTerminate Status = "TERMINATE"
)

// Fixed response messages.
const (
	MessageScheduled       = "Class scheduled successfully"
	MessageSlotTaken       = "There is already a class booked for this time slot"
	MessageFreedSlot       = "The freed time slot is"
	MessageNothingBooked   = "There is no class booked"
	MessageNoSessions      = "There are no scheduled Sessions"
	MessageShifted         = "Lectures shifted to earliest available times"
	MessageIncorrectFormat = "Incorrect action format"
	MessageUnknownCommand  = "Unknown command"
	MessageInternalError   = "Internal server error"
)

// DisplaySeparator splits the scope from the listing in DISPLAY responses.
const DisplaySeparator = ";"

// Response is a single response line.
type Response struct {
	Status  Status
	Message string
}

// String renders the response without a trailing newline.
func (r Response) String() string {
	if r.Message == "" {
		return string(r.Status)
	}
	return string(r.Status) + " " + r.Message
}

// Terminates reports whether the client should treat the server as shut down.
func (r Response) Terminates() bool {
	return r.Status == StatusTerminate
}

// Success builds a SUCCESS response.
func Success(message string) Response {
	return Response{Status: StatusSuccess, Message: message}
}

// Errorf builds an ERROR response.
func Errorf(format string, args ...any) Response {
	return Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Display builds a DISPLAY response for scope and its formatted listing.
func Display(scope, listing string) Response {
	return Response{Status: StatusDisplay, Message: scope + DisplaySeparator + listing}
}

// Terminate builds the TERMINATE response.
func Terminate() Response {
	return Response{Status: StatusTerminate}
}

// ParseResponse splits a response line into its status and message.
func ParseResponse(line string) (Response, error) {
	line = strings.TrimRight(line, "\r\n")
	status, message, _ := strings.Cut(line, " ")
	switch Status(status) {
	case StatusSuccess, StatusError, StatusDisplay, StatusTerminate:
		return Response{Status: Status(status), Message: message}, nil
	}
	return Response{}, fmt.Errorf("protocol: unrecognised response %q", line)
}
