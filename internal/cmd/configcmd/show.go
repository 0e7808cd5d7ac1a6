package configcmd

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/xmlfmt/internal/config"
	"github.com/open-cli-collective/xmlfmt/internal/view"
	"github.com/open-cli-collective/xmlfmt/pkg/xmlfmt"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective xmlfmt configuration and where each value comes from.`,
		Example: `  # Show current config
  xmlfmt config show

  # As JSON
  xmlfmt config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			output, _ := cmd.Flags().GetString("output")
			return runShow(configPath(cmd), output, noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

type field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

type showJSON struct {
	Fields     []field `json:"fields"`
	ConfigFile string  `json:"config_file"`
	FileFound  bool    `json:"file_found"`
}

func runShow(configPath, output string, noColor bool, out io.Writer) error {
	if err := view.ValidateFormat(output); err != nil {
		return err
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	newField := func(name, value, defaultValue string, inFile bool, envVar string) field {
		source := "default"
		switch {
		case os.Getenv(envVar) != "":
			source = envVar
		case inFile:
			source = "config"
		}
		if value == "" {
			value = defaultValue
		}
		return field{Name: name, Value: value, Source: source}
	}

	fields := []field{
		newField("Indent width", countString(cfg.IndentWidth), strconv.Itoa(xmlfmt.DefaultIndentWidth),
			fileCfg.IndentWidth != 0, "XMLFMT_INDENT_WIDTH"),
		newField("Extensions", strings.Join(cfg.Extensions, ","), strings.Join(config.DefaultExtensions, ","),
			len(fileCfg.Extensions) > 0, "XMLFMT_EXTENSIONS"),
		newField("Jobs", countString(cfg.Jobs), "number of CPUs",
			fileCfg.Jobs != 0, "XMLFMT_JOBS"),
		newField("Output", cfg.OutputFormat, string(view.FormatTable),
			fileCfg.OutputFormat != "", "XMLFMT_OUTPUT"),
	}

	if output == "" {
		output = cfg.OutputFormat
	}
	renderer := view.NewRenderer(view.Format(output), noColor)
	renderer.SetWriter(out)

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(showJSON{
			Fields:     fields,
			ConfigFile: configPath,
			FileFound:  fileErr == nil,
		})
	}

	for _, f := range fields {
		renderer.RenderKeyValue(f.Name, f.Value+"  (source: "+f.Source+")")
	}

	renderer.RenderText("")
	renderer.RenderKeyValue("Config file", configPath)
	if fileErr != nil {
		renderer.Warn("file not found")
	}

	return nil
}

func countString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
