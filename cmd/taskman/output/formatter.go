package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"taskman/internal/application/dto"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatIDs  Format = "ids"
)

// Formatter handles output formatting for different formats
type Formatter struct {
	format Format
	writer io.Writer
}

func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{format: format, writer: writer}
}

// Format returns the configured format
func (f *Formatter) Format() Format {
	return f.format
}

// Structured reports whether output is machine-readable, in which case
// commands print data instead of tables and messages.
func (f *Formatter) Structured() bool {
	return f.format != FormatText
}

// Print outputs data in the configured format. The ids format prints
// one task id per line for piping into other commands and falls back to
// text for anything that is not a task.
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatJSON:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(f.writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case FormatIDs:
		if ids, ok := taskIDs(data); ok {
			if len(ids) == 0 {
				return nil
			}
			_, err := fmt.Fprintln(f.writer, strings.Join(ids, "\n"))
			return err
		}
		return f.printText(data)
	case FormatText:
		return f.printText(data)
	}
	return fmt.Errorf("unsupported output format: %s", f.format)
}

func taskIDs(data interface{}) ([]string, bool) {
	switch v := data.(type) {
	case dto.TaskDTO:
		return []string{v.ID}, true
	case []dto.TaskDTO:
		ids := make([]string, len(v))
		for i, task := range v {
			ids[i] = task.ID
		}
		return ids, true
	}
	return nil, false
}

func (f *Formatter) printText(data interface{}) error {
	if s, ok := data.(fmt.Stringer); ok {
		data = s.String()
	}
	_, err := fmt.Fprintln(f.writer, data)
	return err
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "ids":
		return FormatIDs, nil
	default:
		return FormatText, fmt.Errorf("invalid format '%s': must be one of: text, json, yaml, ids", s)
	}
}
