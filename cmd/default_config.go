package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the optional YAML defaults file passed with --config.
// Unknown keys are rejected so that typos surface as errors.
type FileConfig struct {
	InitProgram string `yaml:"init_program"`
	MaxCycles   int64  `yaml:"max_cycles"`
	Output      string `yaml:"output"`
	LogLevel    string `yaml:"log_level"`
	MetricsFile string `yaml:"metrics_file"`
}

// runOptions is the effective configuration of one CLI invocation.
type runOptions struct {
	InitProgram string
	MaxCycles   int64
	Output      string
	MetricsFile string
	LogLevel    string
	Summary     bool
}

// loadFileConfig parses a defaults file with strict field checking.
func loadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
	}
	return cfg, nil
}

// resolveOptions merges the flag values of cmd with the --config file.
// A file value is used only when the corresponding flag was not set explicitly,
// so flags always win over the file and the file wins over flag defaults.
func resolveOptions(cmd *cobra.Command) (runOptions, error) {
	opts := runOptions{
		InitProgram: initProgram,
		MaxCycles:   maxCycles,
		Output:      outputPath,
		MetricsFile: metricsFile,
		LogLevel:    logLevel,
		Summary:     showSummary,
	}
	if configPath == "" {
		return opts, nil
	}
	fc, err := loadFileConfig(configPath)
	if err != nil {
		return opts, err
	}

	changed := cmd.Flags().Changed
	if fc.InitProgram != "" && !changed("init") {
		opts.InitProgram = fc.InitProgram
	}
	if fc.MaxCycles != 0 && !changed("max-cycles") {
		opts.MaxCycles = fc.MaxCycles
	}
	if fc.Output != "" && !changed("output") {
		opts.Output = fc.Output
	}
	if fc.LogLevel != "" && !changed("log") {
		opts.LogLevel = fc.LogLevel
	}
	if fc.MetricsFile != "" && !changed("metrics-file") {
		opts.MetricsFile = fc.MetricsFile
	}
	return opts, nil
}
