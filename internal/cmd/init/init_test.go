package init

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/xmlfmt/internal/config"
)

func TestRunInit_NoPrompt(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yml")

	var out bytes.Buffer
	err := runInit(&initOptions{
		configPath: configPath,
		indent:     2,
		extensions: "xml, SVG",
		jobs:       3,
		output:     "plain",
		noPrompt:   true,
		out:        &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Configuration saved to "+configPath)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		IndentWidth:  2,
		Extensions:   []string{".xml", ".svg"},
		Jobs:         3,
		OutputFormat: "plain",
	}, *cfg)
}

func TestRunInit_ExistingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, (&config.Config{IndentWidth: 8}).Save(configPath))

	t.Run("refuses without force", func(t *testing.T) {
		err := runInit(&initOptions{configPath: configPath, extensions: "xml", output: "table", noPrompt: true, out: &bytes.Buffer{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "use --force to overwrite")

		cfg, err := config.Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.IndentWidth)
	})

	t.Run("overwrites with force", func(t *testing.T) {
		err := runInit(&initOptions{configPath: configPath, indent: 4, extensions: "xml", output: "table", noPrompt: true, force: true, out: &bytes.Buffer{}})
		require.NoError(t, err)

		cfg, err := config.Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.IndentWidth)
	})
}

func TestRunInit_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		opts   initOptions
		errMsg string
	}{
		{
			name:   "indent too wide",
			opts:   initOptions{indent: 40, extensions: "xml", output: "table"},
			errMsg: "indent_width must be between",
		},
		{
			name:   "bad output format",
			opts:   initOptions{indent: 4, extensions: "xml", output: "yaml"},
			errMsg: "invalid output format",
		},
		{
			name:   "negative jobs",
			opts:   initOptions{indent: 4, jobs: -1, extensions: "xml", output: "table"},
			errMsg: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yml")
			opts := tt.opts
			opts.configPath = configPath
			opts.noPrompt = true
			opts.out = &bytes.Buffer{}

			err := runInit(&opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.errMsg)

			_, statErr := os.Stat(configPath)
			assert.True(t, os.IsNotExist(statErr), "nothing is written for an invalid config")
		})
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "", want: 0},
		{input: " 4 ", want: 4},
		{input: "0", want: 0},
		{input: "-1", wantErr: true},
		{input: "four", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFilePermissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, runInit(&initOptions{configPath: configPath, indent: 4, extensions: "xml", output: "table", noPrompt: true, out: &bytes.Buffer{}}))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	// Verify command structure
	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	tests := []struct {
		flag string
		def  string
	}{
		{"indent", "4"},
		{"ext", "xml"},
		{"jobs", "0"},
		{"format", "table"},
		{"no-prompt", "false"},
		{"force", "false"},
	}
	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		require.NotNil(t, f, tt.flag)
		assert.Equal(t, tt.def, f.DefValue, tt.flag)
	}
}
