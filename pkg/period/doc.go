// Package period provides pure time-bucketing functions for quota windows.
// A cadence plus a UTC instant deterministically yields the key of the
// current counting window and the instant at which that window resets.
// All arithmetic is UTC-only; inputs in other locations are normalized
// before use.
package period
