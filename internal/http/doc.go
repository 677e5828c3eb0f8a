// Package http exposes a read-only operations endpoint next to the line
// protocol listener.
//
// The router serves:
//   - GET /healthz: {"status":"ok","sessions":N}.
//   - GET /sessions: the schedule in (day, start) order as a list of
//     `sessionDTO`. The optional `class` query parameter keeps only sessions
//     whose class name matches exactly, the same rule DISPLAY uses.
//   - GET /journal: the most recent command journal entries as `journalEntryDTO`,
//     newest first. `limit` defaults to 50 and is capped at 500. Returns 404
//     when the journal is disabled.
//
// Nothing here mutates the schedule; bookings only change through the line
// protocol.
package http
