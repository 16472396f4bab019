package driver

import (
	"pyfix/internal/diag"
	"pyfix/internal/parser"
	"pyfix/internal/source"
	"pyfix/internal/tree"
)

// ParseResult backs `pyfix parse`. Tree is nil when Err is set.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    tree.Node
	Bag     *diag.Bag
	Err     error
}

func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	root, perr := parser.ParseFile(file, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	return &ParseResult{FileSet: fs, File: file, Tree: root, Bag: bag, Err: perr}, nil
}
