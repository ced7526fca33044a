// Package buildenv owns the ESP-IDF build launch.
//
// Ownership boundary:
// - sanitized child environment construction (pure, never touches os env)
//
// - single blocking build invocation with exit-code propagation
//
// The launcher performs no retries and does not touch child output;
// stdio is handed to the child as-is.
package buildenv
