// Package store holds the session state machine: an ordered list of work
// sessions plus the settings singleton, mutated by clock-in/out and break
// commands.
//
// The store trusts its caller. It does not prevent a second active session
// for an employee or a second open break, and commands naming an unknown
// session are silently ignored. Eligibility rules live in the usecase
// package. The store is not safe for concurrent use.
package store
