// Package order contains the Order aggregate, the central entity of the
// fulfillment engine.
//
// The aggregate owns the order status state machine with its fixed transition
// table, immutable line-item snapshots, derived pricing, the append-only
// status history, write-once milestone timestamps, and post-delivery ratings.
// All state changes go through validated methods; the persistence layer
// rehydrates orders via RestoreOrder, which re-checks structural invariants.
package order
