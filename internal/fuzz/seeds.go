package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса

var inlineSeeds = []string{
	"",
	"x = 1\n",
	"print 'a', b,\n",
	"if d.has_key(k) and not d.has_key(j):\n\tpass\n",
	"try:\n    f()\nexcept (A, B), e:\n    raise E, e\n",
	"exec code in g, l\n",
	"for i in xrange(10): print >>sys.stderr, `i`\n",
	"class C(object):\n    def f(self, *a, **kw):\n        return lambda x: x <> 0L\n",
	"x = [y for y in filter(lambda z: z % 2, map(f, s)) if y]\n",
	"s = '''multi\nline''' + r'\\d' # comment\n",
	"def f(\n    a,\n    b=1,\n):\n    pass\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.py file found under a testdata directory of
// the module.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "_examples" || name[0] == '.') {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".py" || filepath.Base(filepath.Dir(path)) != "testdata" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
