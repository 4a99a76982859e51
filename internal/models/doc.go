// Package models defines the core domain models for Splitsies.
//
// # Current Models
//
// The following models are actively used:
//   - BillSession: One bill being split, from capture to summary
//   - BillItem: Individual line items on a bill, assignable to participants
//   - Participant: A person splitting the bill
//   - Receipt: Validated output of the receipt extraction pipeline
//   - PersonSummary: Calculated split result for one participant
//
// Participants are identified by session-local IDs (no user accounts).
//
// # Design Principles
//
// 1. **Immutable snapshots**: Models are plain values; mutations happen in
// the session package, which returns new snapshots instead of editing in
// place
// 2. **Avoid circular references**: Use ID strings instead of pointers for
// relationships
// 3. **Untrusted input stays out**: A Receipt only exists after the receipt
// package has bounded and sanitized it
package models
