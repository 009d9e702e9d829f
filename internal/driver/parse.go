package driver

import (
	"fortio.org/safecast"

	"valign/internal/ast"
	"valign/internal/diag"
	"valign/internal/parser"
	"valign/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Bag     *diag.Bag
}

// Parse loads and parses one file.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	tree, err := parseFile(file, bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{FileSet: fs, File: file, Tree: tree, Bag: bag}, nil
}

func parseFile(file *source.File, bag *diag.Bag, maxDiagnostics int) (*ast.Tree, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}
	result := parser.ParseFile(file, parser.Options{
		Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		MaxErrors: maxErrors,
	})
	return result.Tree, nil
}
