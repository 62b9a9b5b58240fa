package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// CLI commands print responses as YAML unless the root --output flag
// selects JSON.
var cliFormat = "yaml"

// SetOutputFormat selects the CLI output format ("yaml" or "json").
// Unknown values fall back to YAML.
func SetOutputFormat(format string) {
	if format == "json" {
		cliFormat = "json"
		return
	}
	cliFormat = "yaml"
}

// Output prints data to stdout in the selected CLI format.
func Output(data any) error {
	return writeFormatted(os.Stdout, data)
}

// OutputToFile writes data to path in the selected CLI format.
func OutputToFile(data any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()
	return writeFormatted(f, data)
}

func writeFormatted(w io.Writer, data any) error {
	if cliFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}
