// Package diagnostic provides structured errors and warnings collected while
// building domain metadata.
//
// Builds never stop at the first problem. Every failure is recorded as a
// Diagnostic and the whole set is returned as one *ConfigError, so a user can
// fix a misconfigured domain model in a single pass.
package diagnostic
