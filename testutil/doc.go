// Package testutil provides shared helpers for tests: a seeded, thread-safe
// random number generator and small synthetic metric spaces with fully
// controlled distances.
package testutil
