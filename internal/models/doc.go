// Package models defines the core domain models for the event coordination
// service.
//
// # Models
//
//   - User: a registered account, identified by a unique login
//   - Event: the top-level shared activity, owner of all sub-resources
//   - Membership: one user's participation record in one event
//   - Item: a claimable unit of responsibility (purchase, stuff or task)
//   - Receipt: an attachment on a purchase
//   - Debt: a monetary obligation derived from a costed purchase
//
// # Design Principles
//
//  1. Roles, admission states and statuses are closed string enums so that
//     invalid states are unrepresentable outside of deserialization bugs.
//  2. Relationships use login/ID strings instead of pointers to avoid
//     circular references between event, membership and item records.
//  3. Money is stored in integer cents. Splitting a cost must be exact;
//     floats are only used at the API boundary for display.
package models
