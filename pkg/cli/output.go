package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatYAML is YAML output.
	FormatYAML OutputFormat = "yaml"
	// FormatCSV is CSV output. The value must implement Tabular.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unsupported output format %q", s))
	}
}

// Tabular is implemented by values that can be rendered as rows.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Formatter formats command output.
type Formatter interface {
	Format(data interface{}) ([]byte, error)
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter formats output as plain text.
type TextFormatter struct{}

// Format converts data to text format.
func (f *TextFormatter) Format(data interface{}) ([]byte, error) {
	return []byte(fmt.Sprintf("%v\n", data)), nil
}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format converts data to JSON format.
func (f *JSONFormatter) Format(data interface{}) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// Format converts data to YAML format.
func (f *YAMLFormatter) Format(data interface{}) ([]byte, error) {
	return yaml.Marshal(data)
}

// FormatTo writes data to writer in YAML format.
func (f *YAMLFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// CSVFormatter formats Tabular values as CSV.
type CSVFormatter struct {
	// OmitHeader suppresses the header row.
	OmitHeader bool
}

// Format converts data to CSV format.
func (f *CSVFormatter) Format(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatTo writes data to writer in CSV format.
func (f *CSVFormatter) FormatTo(w io.Writer, data interface{}) error {
	table, ok := data.(Tabular)
	if !ok {
		return fmt.Errorf("csv output not supported for %T", data)
	}

	csvWriter := csv.NewWriter(w)
	if !f.OmitHeader {
		if err := csvWriter.Write(table.Header()); err != nil {
			return err
		}
	}
	if err := csvWriter.WriteAll(table.Rows()); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
