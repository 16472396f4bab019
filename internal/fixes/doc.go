// Package fixes holds the built-in Python 2 to 3 fixers.
//
// Each fixer is a pattern plus a transform written against the fixer
// builders. Fixers marked Explicit only run when named on the command line.
package fixes
