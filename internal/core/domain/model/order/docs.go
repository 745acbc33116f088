// Package order provides domain entities and business logic for delivery
// order management. It implements the Order aggregate root with lifecycle
// management, route linkage, and state transitions.
//
// The package includes:
//   - Order: the aggregate root for a single delivery, scoped to one tenant
//   - Status: the lifecycle state machine (planned, in_progress, completed, failed)
//   - Recipient: the contact details for a stop
//
// The status machine accepts idempotent retries of courier actions but never
// leaves a terminal status. Route membership is tracked on the order itself
// (route id + position); the route aggregate owns the position sequence.
package order
