package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/temirov/ghostbuster/internal/scanner"
	"github.com/temirov/ghostbuster/internal/submodules"
)

const (
	scanningDirectoryTemplateConstant = "Scanning directory: %s\n"
	manifestFileTemplateConstant      = "Submodules file: %s\n"
	submoduleListHeaderConstant       = "\nSubmodules:\n"
	submoduleListItemTemplateConstant = "  - %s\n"
	referencesHeaderConstant          = "\nReferences found:\n\n"
	referencedHeadingTemplateConstant = "Submodule path: %s"
	ghostHeadingTemplateConstant      = "Submodule path: %s (no references found!)"
	referencingFileTemplateConstant   = "  -> %s\n"
	summaryTemplateConstant           = "Summary: %d referenced, %d ghost, %d files scanned, %d unreadable\n"
	statusReferencedConstant          = "referenced"
	statusGhostConstant               = "ghost"
	csvHeaderSubmodulePathConstant    = "submodule_path"
	csvHeaderStatusConstant           = "status"
	csvHeaderFileConstant             = "file"
	referencedColorConstant           = lipgloss.Color("#10B981")
	ghostColorConstant                = lipgloss.Color("#EF4444")
)

// Report bundles everything the renderers need.
type Report struct {
	RepositoryRoot string
	ManifestPath   string
	Submodules     []submodules.SubmodulePath
	Result         scanner.ScanResult
}

// SubmoduleRecord is the structured form of one report entry.
type SubmoduleRecord struct {
	Path   string   `yaml:"path"`
	Status string   `yaml:"status"`
	Files  []string `yaml:"files"`
}

// Records converts the scan result into structured entries in declaration order.
func (report Report) Records() []SubmoduleRecord {
	entries := report.Result.Index.Entries()
	records := make([]SubmoduleRecord, 0, len(entries))
	for _, entry := range entries {
		status := statusReferencedConstant
		if entry.IsGhost() {
			status = statusGhostConstant
		}
		records = append(records, SubmoduleRecord{
			Path:   entry.SubmodulePath.String(),
			Status: status,
			Files:  entry.Files,
		})
	}
	return records
}

// Render writes the report to writer in the requested format.
func Render(writer io.Writer, report Report, format Format) error {
	switch format {
	case FormatText, "":
		return renderText(writer, report)
	case FormatCSV:
		return renderCSV(writer, report)
	case FormatYAML:
		return renderYAML(writer, report)
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

func renderText(writer io.Writer, report Report) error {
	renderer := lipgloss.NewRenderer(writer)
	referencedStyle := renderer.NewStyle().Foreground(referencedColorConstant)
	ghostStyle := renderer.NewStyle().Bold(true).Foreground(ghostColorConstant)

	textWriter := &stickyErrorWriter{writer: writer}
	textWriter.printf(scanningDirectoryTemplateConstant, report.RepositoryRoot)
	textWriter.printf(manifestFileTemplateConstant, report.ManifestPath)

	textWriter.printf(submoduleListHeaderConstant)
	for _, submodulePath := range report.Submodules {
		textWriter.printf(submoduleListItemTemplateConstant, submodulePath)
	}

	textWriter.printf(referencesHeaderConstant)
	for _, entry := range report.Result.Index.Entries() {
		if entry.IsGhost() {
			textWriter.printf("%s\n", ghostStyle.Render(fmt.Sprintf(ghostHeadingTemplateConstant, entry.SubmodulePath)))
		} else {
			textWriter.printf("%s\n", referencedStyle.Render(fmt.Sprintf(referencedHeadingTemplateConstant, entry.SubmodulePath)))
			for _, referencingFile := range entry.Files {
				textWriter.printf(referencingFileTemplateConstant, referencingFile)
			}
		}
		textWriter.printf("\n")
	}

	textWriter.printf(
		summaryTemplateConstant,
		len(report.Result.Index.Referenced()),
		len(report.Result.Index.Ghosts()),
		report.Result.FilesScanned,
		report.Result.FilesUnreadable,
	)

	return textWriter.err
}

func renderCSV(writer io.Writer, report Report) error {
	csvWriter := csv.NewWriter(writer)
	if writeError := csvWriter.Write([]string{csvHeaderSubmodulePathConstant, csvHeaderStatusConstant, csvHeaderFileConstant}); writeError != nil {
		return writeError
	}

	for _, record := range report.Records() {
		if len(record.Files) == 0 {
			if writeError := csvWriter.Write([]string{record.Path, record.Status, ""}); writeError != nil {
				return writeError
			}
			continue
		}
		for _, referencingFile := range record.Files {
			if writeError := csvWriter.Write([]string{record.Path, record.Status, referencingFile}); writeError != nil {
				return writeError
			}
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

func renderYAML(writer io.Writer, report Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if encodeError := encoder.Encode(report.Records()); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}

type stickyErrorWriter struct {
	writer io.Writer
	err    error
}

func (writer *stickyErrorWriter) printf(format string, arguments ...any) {
	if writer.err != nil {
		return
	}
	_, writer.err = fmt.Fprintf(writer.writer, format, arguments...)
}
