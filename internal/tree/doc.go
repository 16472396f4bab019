// Package tree is the concrete syntax tree every fixer reads and rewrites.
//
// A tree is made of two node kinds: *Leaf (a token with its value and the
// whitespace/comments preceding it) and *Internal (a grammar symbol with
// ordered children). Nothing is lost during parsing, so String() of a fresh
// tree reproduces the source byte for byte.
//
// Parent pointers are a derived index. Mutating helpers in this package
// (Replace, AppendChild, InsertChild, Detach) keep them consistent; code that
// builds children slices by hand must call Relink.
package tree
