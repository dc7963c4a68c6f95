// Package testutils provides testing utilities shared across packages:
// signed project keys with chosen claims for exercising key inspection.
package testutils
