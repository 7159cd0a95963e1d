package main

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"path"
	"strings"
	"testing"

	"github.com/cottand/tsolve/tsolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeds the test folder
//
//go:embed test
var testSet embed.FS

const expectDirective = "# tsolve:expect "

// format is one comment per type variable, in order:
//
//	# tsolve:expect T = int
func extractExpectations(t *testing.T, str string) []string {
	var expected []string
	for _, line := range strings.Split(str, "\n") {
		if rest, ok := strings.CutPrefix(line, expectDirective); ok {
			expected = append(expected, strings.TrimSpace(rest))
		}
	}
	if len(expected) == 0 {
		t.Fatalf("no '%s' comments found", strings.TrimSpace(expectDirective))
	}
	return expected
}

func TestBuiltinsEndToEnd(t *testing.T) {
	testDir(t, "builtins")
}

func TestClassesEndToEnd(t *testing.T) {
	testDir(t, "classes")
}

func testDir(t *testing.T, at string) {
	files, err := testSet.ReadDir(path.Join("test", at))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}
		testFile(t, at, f)
	}
}

func testFile(t *testing.T, at string, f fs.DirEntry) bool {
	return t.Run(f.Name(), func(t *testing.T) {
		content, err := testSet.ReadFile(path.Join("test", at, f.Name()))
		require.NoError(t, err)
		expected := extractExpectations(t, string(content))

		for _, concurrency := range []int{1, 4} {
			report, err := tsolve.SolveBytes(context.Background(), content, tsolve.Settings{Concurrency: concurrency})
			require.NoError(t, err)
			assert.Equal(t, expected, report.Lines(), "with concurrency %d", concurrency)
		}
	})
}

func TestRootCommand(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"join", "bool", "str"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "object\n", out.String())
}
