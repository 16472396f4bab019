// Package rewrite applies an ordered fixer set to a tree in one traversal.
//
// At every node the top-down fixers that can start there are tried before
// the children are visited and the bottom-up ones after. The first fixer
// whose pattern matches and whose transform returns a node wins that node
// for the pass. After a top-down replacement the walk continues inside it:
// nodes carried over from the matched subtree are visited as usual, new
// structure is only walked through.
//
// Transform errors and panics do not stop the pass. They are collected as
// *TransformFailure values and the subtree is put back the way it was.
package rewrite
