// Package services contains stateless domain services that coordinate logic
// across aggregates, currently the courier matcher used for assignment and
// ready-order broadcast.
package services
