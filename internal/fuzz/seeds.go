package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

var builtinSeeds = []string{
	"",
	"const {\n  a = 1,\n  bbbb = 2,\n} = obj;\n",
	"const o = {\n  a: 1,\n  bbb: 2,\n  'c-d': 3,\n};\n",
	"function f({ x = 1,\n  yy = 2 }) {}\n",
	"let {\n  a\t= 1,\n  bb =\t2,\n} = o; // valign-disable-line\n",
	"x = 1;\nyyy = 2;\n",
	"const s = `a${ {b: 1} }c`, r = /[/]+/g;\n",
	"#!/usr/bin/env node\nimport x, { y as z } from 'm';\n",
	"a = b\n/hi/g.exec(c)\n",
	"({ a, b = 1, ...c } = d);\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every .js file under the repository testdata
// directory, when there is one.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".js" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}
