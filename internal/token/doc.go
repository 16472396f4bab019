// Package token defines lexical token kinds and trivia for Python 2/3 sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies, no normalisation).
//   - Token.Span matches Text exactly.
//   - Everything between two tokens (spaces, comments, blank lines, line
//     continuations) is kept as Leading trivia of the following token, so
//     concatenating Prefix()+Text over the whole stream reproduces the file.
//   - INDENT and DEDENT tokens are zero-width; indentation whitespace lives in
//     the prefix of the first token of the line.
//   - Keywords are NAME tokens. Keyword status is a property of the text.
package token
