// Package commands defines the blip CLI and wires dependencies for subcommands.
//
// Commands
//
//   - clock-in       Start a session at the current location
//   - clock-out      Complete the active session
//   - break          Start or end a break
//   - status         Show the active session, optionally refreshing every second
//   - history        List sessions clocked in within a date range
//   - settings       Show or change geofencing, work hours and reminders
//   - geofence       Check a coordinate against the work locations
//   - serve          Expose the time clock over HTTP
//
// # Implementation
//
// The root command loads .env and the environment, opens the snapshot
// backend and restores the saved state before any subcommand runs. Every
// successful mutation saves a fresh snapshot, so each invocation sees the
// state the previous one left.
package commands
