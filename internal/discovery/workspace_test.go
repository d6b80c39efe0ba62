package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/benchtree/internal/bench"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const codecTest = `package codec

import "testing"

func BenchmarkCodec_Decode(b *testing.B) {}

func BenchmarkCodec_Encode(b *testing.B) {}

func BenchmarkPlain(b *testing.B) {}

func Benchmarking(b *testing.B) {}

func BenchmarkWrongArgs(t *testing.T) {}

func TestCodec(t *testing.T) {}

type S struct{}

func (S) BenchmarkMethod(b *testing.B) {}
`

const aliasedTest = `package root_test

import tt "testing"

func BenchmarkRoot(b *tt.B) {}
`

func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "go.mod"), "module example.com/a\n\ngo 1.24\n")
	writeFile(t, filepath.Join(root, "a", "root_test.go"), aliasedTest)
	writeFile(t, filepath.Join(root, "a", "codec", "codec_test.go"), codecTest)
	writeFile(t, filepath.Join(root, "a", "codec", "codec.go"), "package codec\n")
	writeFile(t, filepath.Join(root, "a", "vendor", "x", "x_test.go"), codecTest)
	writeFile(t, filepath.Join(root, "a", "testdata", "y_test.go"), codecTest)
	writeFile(t, filepath.Join(root, "a", "nested", "go.mod"), "module example.com/nested\n")
	writeFile(t, filepath.Join(root, "a", "nested", "n_test.go"), "package nested\nimport \"testing\"\nfunc BenchmarkNested(b *testing.B) {}\n")
	writeFile(t, filepath.Join(root, "a", "broken", "broken_test.go"), "package broken\nfunc {")
	return root
}

func TestWorkspace_FindBenchmarks(t *testing.T) {
	root := newWorkspace(t)
	w := NewWorkspace(root, nil)
	require.NoError(t, w.Initialize(context.Background()))

	projects := w.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "example.com/a", projects[0].Name)
	assert.Equal(t, "example.com/nested", projects[1].Name)

	descs, err := w.FindBenchmarks(context.Background())
	require.NoError(t, err)

	var keys []bench.Key
	for _, d := range descs {
		keys = append(keys, d.Key())
	}
	assert.Equal(t, []bench.Key{
		{Project: "example.com/a", Namespace: "example.com/a/codec", Type: "Codec", Method: "BenchmarkCodec_Decode"},
		{Project: "example.com/a", Namespace: "example.com/a/codec", Type: "Codec", Method: "BenchmarkCodec_Encode"},
		{Project: "example.com/a", Namespace: "example.com/a/codec", Type: "", Method: "BenchmarkPlain"},
		{Project: "example.com/a", Namespace: "example.com/a", Type: "", Method: "BenchmarkRoot"},
		{Project: "example.com/nested", Namespace: "example.com/nested", Type: "", Method: "BenchmarkNested"},
	}, keys)

	first := descs[0]
	assert.Equal(t, filepath.Join(root, "a", "codec"), first.Dir)
	assert.Equal(t, filepath.Join(root, "a", "codec", "codec_test.go"), first.Symbol.File)
	assert.Equal(t, 5, first.Symbol.Line)
}

func TestWorkspace_RequiresInitialize(t *testing.T) {
	w := NewWorkspace(t.TempDir(), nil)
	_, err := w.FindBenchmarks(context.Background())
	var derr *DiscoveryError
	require.True(t, errors.As(err, &derr))
	assert.ErrorIs(t, err, errNotInitialized)
}

func TestWorkspace_BadGoMod(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "go 1.24\n")
	err := NewWorkspace(root, nil).Initialize(context.Background())
	var derr *DiscoveryError
	assert.True(t, errors.As(err, &derr))
}

func TestDiscover_Set(t *testing.T) {
	root := newWorkspace(t)
	set, err := Discover(context.Background(), NewWorkspace(root, nil))
	require.NoError(t, err)
	assert.Equal(t, 5, set.Len())
	p, ok := set.ProjectNamed("example.com/a")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a"), p.Dir)
}

func TestIsBenchmarkName(t *testing.T) {
	assert.True(t, isBenchmarkName("Benchmark"))
	assert.True(t, isBenchmarkName("BenchmarkX"))
	assert.True(t, isBenchmarkName("Benchmark_x"))
	assert.True(t, isBenchmarkName("Benchmark1"))
	assert.False(t, isBenchmarkName("Benchmarking"))
	assert.False(t, isBenchmarkName("TestX"))
}
