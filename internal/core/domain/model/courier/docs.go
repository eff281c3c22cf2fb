// Package courier contains the Courier aggregate: identity, matching
// eligibility flags (online, verified, free), last known location, running
// rating, and the completed-delivery counter.
package courier
