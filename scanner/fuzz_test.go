package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCorpus loads the .sage files under examples/ and a set of inputs
// aimed at quoting edge cases.
func seedCorpus(f *testing.F) {
	root := filepath.Join("..", "examples")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".sage") {
			return nil
		}
		if data, err := os.ReadFile(path); err == nil {
			f.Add(string(data))
		}
		return nil
	})

	seeds := []string{
		`'a' "b"`,
		`"""triple "quoted" text"""`,
		`'''open`,
		`r"\" + '\\'`,
		`"\\\""`,
		"# comment with 'quote'",
		"x = 1 # trailing\ny = '#not a comment'",
		"%(L1)s %% %s",
		"'%(L1)s'",
		"s = 'line one\nline two'",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}
}

// FuzzStripRestore checks that Restore undoes Strip exactly, for whole
// inputs and for inputs split into two chunks that carry state.
func FuzzStripRestore(f *testing.F) {
	seedCorpus(f)

	f.Fuzz(func(t *testing.T, src string) {
		skel, lits, _ := Strip(src, State{})
		got, err := lits.Restore(skel)
		require.NoError(t, err)
		assert.Equal(t, src, got)

		mid := len(src) / 2
		skelA, litsA, st := Strip(src[:mid], State{})
		skelB, litsB, _ := Strip(src[mid:], st)
		a, err := litsA.Restore(skelA)
		require.NoError(t, err)
		b, err := litsB.Restore(skelB)
		require.NoError(t, err)
		assert.Equal(t, src, a+b)
	})
}
