package domain

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suitesync.dev/pkg/suitesync/internal/adapter"
	m "suitesync.dev/pkg/suitesync/internal/model"
)

func mathSet() m.ImpactedSet {
	return m.ImpactedSet{
		FilePath: "src/math.js",
		Declarations: []m.Declaration{
			m.NewDeclaration(m.KindFunction, "add", m.NewLineRange(3, 5)),
			m.NewDeclaration(m.KindFunction, "sub", m.NewLineRange(7, 9)),
			m.NewDeclaration(m.KindClass, "Calculator", m.NewLineRange(11, 15)),
		},
		CurrentSource: mathJS,
	}
}

func newGeneratorUnderTest(gen adapter.GeneratorAdapter) (TestGenerator, *adapter.LocalTestFileAdapter) {
	testFiles := adapter.NewLocalTestFileAdapter(adapter.NewLocalSourceFSAdapter(), adapter.DefaultTestLayout())

	return NewTestGenerator(gen, testFiles, adapter.NewPrometheusMetrics(), 4), testFiles
}

func TestMutationIdentifier(t *testing.T) {
	assert.Equal(t, "mutation", MutationIdentifier(0))
	assert.Equal(t, "mutation", MutationIdentifier(1))
	assert.Equal(t, "mutation-2", MutationIdentifier(2))
	assert.Equal(t, "mutation-5", MutationIdentifier(5))
}

func TestTestGenerator_Generate_Append(t *testing.T) {
	ctx := context.Background()
	root := m.Path(t.TempDir())
	gen := &fakeGenerator{}
	generator, testFiles := newGeneratorUnderTest(gen)

	written, err := generator.Generate(ctx, root, []m.ImpactedSet{mathSet()}, m.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.ElementsMatch(t, []string{"add", "sub", "Calculator"}, gen.declarationIDs())

	content, err := testFiles.Read(ctx, root, "src/math.js")
	require.NoError(t, err)

	for _, id := range []string{"add", "sub", "Calculator"} {
		assert.Equal(t, 1, strings.Count(content, adapter.Marker(id)), id)
	}

	written, err = generator.Generate(ctx, root, []m.ImpactedSet{mathSet()}, m.WriteAppend)
	require.NoError(t, err)
	assert.Zero(t, written)

	again, err := testFiles.Read(ctx, root, "src/math.js")
	require.NoError(t, err)
	assert.Equal(t, content, again)
}

func TestTestGenerator_Generate_DeclarationSnippetSent(t *testing.T) {
	gen := &fakeGenerator{}
	generator, _ := newGeneratorUnderTest(gen)

	set := mathSet()
	set.Declarations = set.Declarations[:1]

	_, err := generator.Generate(context.Background(), m.Path(t.TempDir()), []m.ImpactedSet{set}, m.WriteAppend)
	require.NoError(t, err)

	require.Len(t, gen.declCalls, 1)
	assert.Equal(t, "function add(a, b) {\n  return a + b;\n}", gen.declCalls[0].Snippet)
	assert.Equal(t, m.Path("src/math.js"), gen.declCalls[0].FilePath)
}

func TestTestGenerator_Generate_OverwriteKeepsDeclarationOrder(t *testing.T) {
	ctx := context.Background()
	root := m.Path(t.TempDir())
	generator, testFiles := newGeneratorUnderTest(&fakeGenerator{})

	target := filepath.Join(string(root), string(testFiles.Locate("src/math.js")))
	writeFile(t, target, "/* TEST_FOR: stale */\ntest('stale', () => {});\n")

	written, err := generator.Generate(ctx, root, []m.ImpactedSet{mathSet()}, m.WriteOverwrite)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	content := readFile(t, target)
	assert.NotContains(t, content, "stale")

	add := strings.Index(content, adapter.Marker("add"))
	sub := strings.Index(content, adapter.Marker("sub"))
	calc := strings.Index(content, adapter.Marker("Calculator"))

	assert.True(t, add >= 0 && add < sub && sub < calc, content)
}

func TestTestGenerator_Generate_FailureIsSkipped(t *testing.T) {
	ctx := context.Background()
	root := m.Path(t.TempDir())
	gen := &fakeGenerator{fail: map[string]bool{"sub": true}}
	generator, testFiles := newGeneratorUnderTest(gen)

	written, err := generator.Generate(ctx, root, []m.ImpactedSet{mathSet()}, m.WriteAppend)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	content, err := testFiles.Read(ctx, root, "src/math.js")
	require.NoError(t, err)
	assert.Contains(t, content, adapter.Marker("add"))
	assert.NotContains(t, content, adapter.Marker("sub"))
	assert.Contains(t, content, adapter.Marker("Calculator"))
}

func TestTestGenerator_Generate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	generator, _ := newGeneratorUnderTest(&fakeGenerator{})

	_, err := generator.Generate(ctx, m.Path(t.TempDir()), []m.ImpactedSet{mathSet()}, m.WriteOverwrite)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTestGenerator_Mutate(t *testing.T) {
	ctx := context.Background()
	root := m.Path(t.TempDir())
	gen := &fakeGenerator{}
	generator, testFiles := newGeneratorUnderTest(gen)

	_, err := generator.Generate(ctx, root, []m.ImpactedSet{mathSet()}, m.WriteAppend)
	require.NoError(t, err)

	written, err := generator.Mutate(ctx, root, []m.ImpactedSet{mathSet()}, 42.5, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	written, err = generator.Mutate(ctx, root, []m.ImpactedSet{mathSet()}, 60, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	require.Len(t, gen.mutCalls, 2)
	assert.InDelta(t, 42.5, gen.mutCalls[0].CoveragePercent, 0.001)
	assert.Contains(t, gen.mutCalls[0].ExistingTests, adapter.Marker("add"))
	assert.Contains(t, gen.mutCalls[1].ExistingTests, adapter.Marker("mutation"))

	content, err := testFiles.Read(ctx, root, "src/math.js")
	require.NoError(t, err)
	assert.Contains(t, content, adapter.Marker("mutation"))
	assert.Contains(t, content, adapter.Marker("mutation-2"))
}

func TestTestGenerator_Mutate_FailureIsSkipped(t *testing.T) {
	gen := &fakeGenerator{fail: map[string]bool{m.MutationIdentifier: true}}
	generator, _ := newGeneratorUnderTest(gen)

	written, err := generator.Mutate(context.Background(), m.Path(t.TempDir()), []m.ImpactedSet{mathSet()}, 10, 1)

	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Equal(t, 1, gen.mutationCount())
}
