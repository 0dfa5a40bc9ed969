package output

import (
	"fmt"
	"strings"
)

// Formatter renders an engine result in one output format.
type Formatter interface {
	Name() string
	Format(v any) ([]byte, error)
}

// UnsupportedTypeError is returned when a formatter has no layout for a
// result type.
type UnsupportedTypeError struct {
	Format string
	Value  any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s output does not support %T", e.Format, e.Value)
}

// FormatterNames lists the names accepted by GetFormatterByName.
func FormatterNames() []string {
	return []string{"console", "json", "csv"}
}

// GetFormatterByName returns the formatter for a --format value.
func GetFormatterByName(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "console", "table":
		return ConsoleFormatter{}, nil
	case "json":
		return JSONFormatter{Pretty: true}, nil
	case "csv":
		return CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (choose %s)", name, strings.Join(FormatterNames(), ", "))
	}
}
