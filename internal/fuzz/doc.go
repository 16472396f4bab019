
// Package fuzztests houses Go fuzz harnesses for the front half of pyfix
// (source -> lexer -> parser -> rewrite). They guard against panics, hangs
// and lossy trees on arbitrary input.
//
// Назначение: прогонять произвольные байты через FileSet, лексер, парсер и
// встроенные фиксеры.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser, internal/diag,
// internal/driver, internal/fixes, internal/testkit.

package fuzztests
