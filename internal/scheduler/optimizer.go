package scheduler

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ShiftStep is the granularity at which earlier start times are tried.
const ShiftStep = time.Hour

// ScopeAll is the wire keyword selecting every session.
const ScopeAll = "ALL"

// Scope selects the sessions an operation applies to: every session, or
// those of a single class.
type Scope struct {
	className string
}

// AllSessions returns the scope covering the whole schedule.
func AllSessions() Scope {
	return Scope{}
}

// ClassScope returns the scope covering a single class.
func ClassScope(className string) Scope {
	return Scope{className: className}
}

// ParseScope maps "ALL" to AllSessions and anything else to a class scope.
func ParseScope(value string) (Scope, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return Scope{}, malformed("expected ALL or a class name")
	case value == ScopeAll:
		return AllSessions(), nil
	case len(strings.Fields(value)) != 1:
		return Scope{}, malformed("class name must be a single word")
	default:
		return ClassScope(value), nil
	}
}

// IsAll reports whether the scope selects every session.
func (s Scope) IsAll() bool {
	return s.className == ""
}

// ClassName returns the selected class, empty for AllSessions.
func (s Scope) ClassName() string {
	return s.className
}

// String returns the scope as it appears on the wire.
func (s Scope) String() string {
	if s.IsAll() {
		return ScopeAll
	}
	return s.className
}

// includes matches class names case-insensitively.
func (s Scope) includes(session Session) bool {
	return s.IsAll() || strings.EqualFold(session.ClassName, s.className)
}

// ShiftEarliest moves every in-scope session to the earliest start, tried
// from OpeningTime in ShiftStep increments, at which it conflicts with no
// other session of its day. Days are processed concurrently, each on its own
// copy; byDay is never modified. The returned map holds the rearranged
// sessions for every day in byDay along with the number of sessions moved.
func ShiftEarliest(ctx context.Context, byDay map[Day][]Session, scope Scope) (map[Day][]Session, int, error) {
	type partition struct {
		day      Day
		sessions []Session
		moved    int
	}

	parts := make([]*partition, 0, len(byDay))
	for day, sessions := range byDay {
		parts = append(parts, &partition{day: day, sessions: append([]Session(nil), sessions...)})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, part := range parts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part.moved = ShiftDay(part.sessions, scope)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	result := make(map[Day][]Session, len(parts))
	total := 0
	for _, part := range parts {
		result[part.day] = part.sessions
		total += part.moved
	}
	return result, total, nil
}

// ShiftDay applies the early-lecture shift in place to the sessions of a
// single day, visiting them in slice order. It returns how many moved.
func ShiftDay(sessions []Session, scope Scope) int {
	moved := 0
	for i := range sessions {
		if !scope.includes(sessions[i]) {
			continue
		}
		if shiftSession(sessions, i) {
			moved++
		}
	}
	return moved
}

func shiftSession(sessions []Session, idx int) bool {
	current := sessions[idx]
	length := current.Duration()
	for candidate := OpeningTime; candidate < current.Start; candidate = candidate.Add(ShiftStep) {
		moved := current.WithTimes(candidate, candidate.Add(length))
		if !conflictsWithOthers(sessions, idx, moved) {
			sessions[idx] = moved
			return true
		}
	}
	return false
}

func conflictsWithOthers(sessions []Session, skip int, candidate Session) bool {
	for i, other := range sessions {
		if i == skip {
			continue
		}
		if Conflicts(other, candidate) {
			return true
		}
	}
	return false
}
