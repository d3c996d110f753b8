package report

import (
	"fmt"
	"strings"
)

// Format enumerates supported report encodings.
type Format string

// Supported report formats.
const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

const unsupportedFormatTemplateConstant = "unsupported report format: %s"

// SupportedFormats lists the accepted format names with the default first.
func SupportedFormats() []string {
	return []string{string(FormatText), string(FormatCSV), string(FormatYAML)}
}

// ParseFormat normalizes a user supplied format name.
func ParseFormat(rawFormat string) (Format, error) {
	normalizedFormat := Format(strings.ToLower(strings.TrimSpace(rawFormat)))
	switch normalizedFormat {
	case "":
		return FormatText, nil
	case FormatText, FormatCSV, FormatYAML:
		return normalizedFormat, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, rawFormat)
	}
}
