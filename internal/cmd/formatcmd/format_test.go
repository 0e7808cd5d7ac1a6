package formatcmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	messy     = `<a x="1"><b/></a>`
	canonical = "<a\n    x=\"1\"\n>\n    <b/>\n</a>\n"
	broken    = "<a>\n  <b =>\n</a>"
)

// isolate keeps the user's config file and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, v := range []string{"XMLFMT_INDENT_WIDTH", "XMLFMT_EXTENSIONS", "XMLFMT_JOBS", "XMLFMT_OUTPUT"} {
		t.Setenv(v, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newOpts(paths ...string) (*formatOptions, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &formatOptions{
		paths:   paths,
		noColor: true,
		stdin:   strings.NewReader(""),
		out:     &out,
		errOut:  &errOut,
	}, &out, &errOut
}

func TestRunFormat_RewritesFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	changed := filepath.Join(dir, "changed.xml")
	clean := filepath.Join(dir, "clean.xml")
	writeFile(t, changed, messy)
	writeFile(t, clean, canonical)

	opts, out, _ := newOpts(dir)
	err := runFormat(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, canonical, readFile(t, changed))
	assert.Contains(t, out.String(), "reformatted "+changed)
	assert.NotContains(t, out.String(), clean)
}

func TestRunFormat_AlreadyFormatted(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, canonical)

	opts, out, _ := newOpts(path)
	require.NoError(t, runFormat(context.Background(), opts))
	assert.Contains(t, out.String(), "1 file(s) already formatted")
}

func TestRunFormat_Check(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, messy)

	opts, out, _ := newOpts(path)
	opts.check = true

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "1 file(s) need formatting", err.Error())
	assert.Contains(t, out.String(), "would reformat "+path)
	assert.Equal(t, messy, readFile(t, path))
}

func TestRunFormat_CheckClean(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, canonical)

	opts, _, _ := newOpts(path)
	opts.check = true
	assert.NoError(t, runFormat(context.Background(), opts))
}

func TestRunFormat_Stdout(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "a.xml")
	writeFile(t, path, messy)

	opts, out, _ := newOpts(path)
	opts.stdout = true

	require.NoError(t, runFormat(context.Background(), opts))
	assert.Equal(t, canonical, out.String())
	assert.Equal(t, messy, readFile(t, path))
}

func TestRunFormat_CheckWithStdout(t *testing.T) {
	isolate(t)
	opts, _, _ := newOpts("a.xml")
	opts.check = true
	opts.stdout = true

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--check cannot be used with --stdout")
}

func TestRunFormat_ParseError(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.xml")
	writeFile(t, bad, broken)

	opts, out, errOut := newOpts(bad)
	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "failed to format 1 file(s)", err.Error())
	assert.Contains(t, out.String(), "✗ failed to format "+bad)
	assert.NotContains(t, out.String(), "already formatted")

	assert.Contains(t, errOut.String(), "File "+bad+", line 2, col 3 parse failed in tag <b =>")
	assert.Contains(t, errOut.String(), "2 |   <b =>")
	assert.Equal(t, broken, readFile(t, bad))
}

func TestRunFormat_JSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.xml")
	good := filepath.Join(dir, "good.xml")
	writeFile(t, bad, broken)
	writeFile(t, good, messy)

	opts, out, errOut := newOpts(dir)
	opts.output = "json"

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Empty(t, errOut.String())

	var results []jsonResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 2)

	assert.Equal(t, bad, results[0].Path)
	assert.Equal(t, 2, results[0].Line)
	assert.Equal(t, 3, results[0].Column)
	assert.NotEmpty(t, results[0].Error)

	assert.Equal(t, good, results[1].Path)
	assert.True(t, results[1].Changed)
	assert.Empty(t, results[1].Error)
}

func TestRunFormat_Plain(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	writeFile(t, a, messy)
	writeFile(t, b, canonical)

	opts, out, _ := newOpts(dir)
	opts.output = "plain"
	opts.check = true

	require.Error(t, runFormat(context.Background(), opts))
	assert.Equal(t, a+"\n", out.String())
}

func TestRunFormat_InvalidOutput(t *testing.T) {
	isolate(t)
	opts, _, _ := newOpts("a.xml")
	opts.output = "yaml"

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRunFormat_Stdin(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		paths []string
	}{
		{name: "no paths", paths: nil},
		{name: "dash", paths: []string{"-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, out, _ := newOpts(tt.paths...)
			opts.stdin = strings.NewReader(messy)

			require.NoError(t, runFormat(context.Background(), opts))
			assert.Equal(t, canonical, out.String())
		})
	}
}

func TestRunFormat_StdinParseError(t *testing.T) {
	isolate(t)
	opts, out, errOut := newOpts()
	opts.stdin = strings.NewReader(broken)

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to format <stdin>")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "File <stdin>, line 2, col 3 parse failed")
	assert.Contains(t, errOut.String(), "2 |   <b =>")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRunFormat_StdinReadError(t *testing.T) {
	isolate(t)
	opts, out, errOut := newOpts()
	opts.stdin = failingReader{}

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestRunFormat_StdinCheckClean(t *testing.T) {
	isolate(t)
	opts, out, _ := newOpts()
	opts.stdin = strings.NewReader(canonical)
	opts.check = true

	require.NoError(t, runFormat(context.Background(), opts))
	assert.Empty(t, out.String())
}

func TestRunFormat_StdinCheck(t *testing.T) {
	isolate(t)
	opts, out, _ := newOpts()
	opts.stdin = strings.NewReader(messy)
	opts.check = true

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<stdin> needs formatting")
	assert.Empty(t, out.String())
}

func TestRunFormat_FlagsOverrideConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yml")
	writeFile(t, cfgPath, "indent_width: 8\nextensions: [\".svg\"]\n")

	path := filepath.Join(dir, "a.xml")
	writeFile(t, path, "<a><b/></a>")

	t.Run("config applies", func(t *testing.T) {
		opts, out, _ := newOpts(path)
		opts.configPath = cfgPath
		opts.stdout = true

		require.NoError(t, runFormat(context.Background(), opts))
		assert.Equal(t, "<a>\n        <b/>\n</a>\n", out.String())
	})

	t.Run("indent flag wins", func(t *testing.T) {
		opts, out, _ := newOpts(path)
		opts.configPath = cfgPath
		opts.stdout = true
		opts.indent = 2

		require.NoError(t, runFormat(context.Background(), opts))
		assert.Equal(t, "<a>\n  <b/>\n</a>\n", out.String())
	})

	t.Run("ext flag wins", func(t *testing.T) {
		opts, _, _ := newOpts(dir)
		opts.configPath = cfgPath
		opts.check = true
		opts.extensions = "xml"

		err := runFormat(context.Background(), opts)
		require.Error(t, err)
		assert.Equal(t, "1 file(s) need formatting", err.Error())
	})
}

func TestRunFormat_InvalidConfig(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, cfgPath, "jobs: -3\n")

	opts, _, _ := newOpts("a.xml")
	opts.configPath = cfgPath

	err := runFormat(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestNewCmdFormat_Flags(t *testing.T) {
	cmd := NewCmdFormat()

	for _, name := range []string{"check", "stdout", "jobs", "indent", "ext"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "j", cmd.Flags().Lookup("jobs").Shorthand)
	assert.Contains(t, cmd.Aliases, "format")
}
