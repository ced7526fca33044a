// Package tools provides reusable runtime helpers shared by the espctl commands.
//
// Ownership boundary:
// - child-process execution and exit-code mapping
package tools
