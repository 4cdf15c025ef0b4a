// Package match ranks known names by similarity to an unknown one.
//
// It backs the "did you mean" suggestions attached to configuration errors
// when an event names a var or op the mapping does not define.
package match
