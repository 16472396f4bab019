// Package fixer holds the fixer contract, the registry that validates and
// stores fixers, the orderer and the per-type dispatch index used by the
// rewrite engine. It also carries small tree builders shared by fixers.
//
// A Registry is filled once at start-up and is read-only afterwards, so the
// fixers, their compiled patterns and any Index built from them can be
// shared between goroutines.
package fixer
