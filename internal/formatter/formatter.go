// package formatter provides functions to export dashboard statistics to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tunestats/internal/models"
	"github.com/desertthunder/tunestats/internal/shared"
	"github.com/desertthunder/tunestats/internal/stats"
)

// Format is an export format accepted by the stats command.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat converts a flag value to a [Format]. Empty input selects [FormatText].
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV, FormatMarkdown:
		return Format(strings.ToLower(s)), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: format %q (expected text, json, csv or markdown)", shared.ErrInvalidFlag, s)
	}
}

// ExportToCSV converts one dashboard section to CSV.
//
// Columns: tracks (Rank, Name, Artist, Plays, Duration), artists (Rank, Name, Plays, Genres),
// genres (Name, Percentage).
func ExportToCSV(d models.Dashboard, section stats.Section) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	var records [][]string
	switch section {
	case stats.SectionTracks:
		records = append(records, []string{"Rank", "Name", "Artist", "Plays", "Duration"})
		for i, t := range d.TopTracks {
			records = append(records, []string{strconv.Itoa(i + 1), t.Name, t.Artist, strconv.Itoa(t.Plays), t.Duration})
		}
	case stats.SectionArtists:
		records = append(records, []string{"Rank", "Name", "Plays", "Genres"})
		for i, a := range d.TopArtists {
			records = append(records, []string{strconv.Itoa(i + 1), a.Name, strconv.Itoa(a.Plays), strings.Join(a.Genres, "/")})
		}
	case stats.SectionGenres:
		records = append(records, []string{"Name", "Percentage"})
		for _, g := range d.Genres {
			records = append(records, []string{g.Name, strconv.Itoa(g.Percentage)})
		}
	default:
		return nil, fmt.Errorf("%w: section %q", shared.ErrInvalidArgument, section)
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a dashboard to a Markdown report titled for owner.
func ExportToMarkdown(d models.Dashboard, owner string) ([]byte, error) {
	var buf bytes.Buffer

	title := "Listening stats"
	if owner != "" {
		title = fmt.Sprintf("Listening stats for %s", owner)
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	if d.Platform != "" {
		fmt.Fprintf(&buf, "**Platform**: %s\n", d.Platform.Label())
	}
	fmt.Fprintf(&buf, "**Listening time**: %s\n", stats.FormatMinutes(d.Overview.TotalMinutes))
	fmt.Fprintf(&buf, "**Tracks played**: %d\n", d.Overview.TotalTracks)
	fmt.Fprintf(&buf, "**Top genre**: %s\n", d.Overview.TopGenre)
	fmt.Fprintf(&buf, "**Average session**: %s\n\n", d.Overview.AvgSessionLength)

	buf.WriteString("## Top Tracks\n\n")
	buf.WriteString("| # | Track | Artist | Plays | Length |\n")
	buf.WriteString("|---|-------|--------|-------|--------|\n")
	for i, t := range d.TopTracks {
		fmt.Fprintf(&buf, "| %d | %s | %s | %d | %s |\n", i+1, t.Name, t.Artist, t.Plays, t.Duration)
	}

	buf.WriteString("\n## Top Artists\n\n")
	buf.WriteString("| # | Artist | Plays | Genres |\n")
	buf.WriteString("|---|--------|-------|--------|\n")
	for i, a := range d.TopArtists {
		fmt.Fprintf(&buf, "| %d | %s | %d | %s |\n", i+1, a.Name, a.Plays, strings.Join(a.Genres, ", "))
	}

	buf.WriteString("\n## Genres\n\n")
	for _, g := range d.Genres {
		fmt.Fprintf(&buf, "- %s: %d%%\n", g.Name, g.Percentage)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a dashboard to plain text
func ExportToText(d models.Dashboard) ([]byte, error) {
	var buf bytes.Buffer

	if d.Platform != "" {
		fmt.Fprintf(&buf, "Platform: %s\n", d.Platform.Label())
	}
	fmt.Fprintf(&buf, "Listening time: %s\n", stats.FormatMinutes(d.Overview.TotalMinutes))
	fmt.Fprintf(&buf, "Tracks played: %d\n", d.Overview.TotalTracks)
	fmt.Fprintf(&buf, "Top genre: %s\n", d.Overview.TopGenre)
	fmt.Fprintf(&buf, "Average session: %s\n\n", d.Overview.AvgSessionLength)

	buf.WriteString("Top Tracks\n")
	for i, t := range d.TopTracks {
		fmt.Fprintf(&buf, "%d. %s - %s (%d plays, %s)\n", i+1, t.Artist, t.Name, t.Plays, t.Duration)
	}

	buf.WriteString("\nTop Artists\n")
	for i, a := range d.TopArtists {
		fmt.Fprintf(&buf, "%d. %s (%d plays) %s\n", i+1, a.Name, a.Plays, strings.Join(a.Genres, ", "))
	}

	buf.WriteString("\nGenres\n")
	for _, g := range d.Genres {
		fmt.Fprintf(&buf, "%s %d%%\n", g.Name, g.Percentage)
	}

	return buf.Bytes(), nil
}

// ToJSON renders the dashboard as indented JSON
func ToJSON(d models.Dashboard) ([]byte, error) {
	return shared.MarshalJSON(d, true)
}

// Write renders d in format to w. CSV output contains only section.
func Write(w io.Writer, d models.Dashboard, format Format, section stats.Section, owner string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = ToJSON(d)
		data = append(data, '\n')
	case FormatCSV:
		data, err = ExportToCSV(d, section)
	case FormatMarkdown:
		data, err = ExportToMarkdown(d, owner)
	case FormatText:
		data, err = ExportToText(d)
	default:
		return fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", format, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	ArtistsFile  string
	GenresFile   string
	OverviewFile string
}

// Files returns every path in the result.
func (r *CSVExportResult) Files() []string {
	return []string{r.TracksFile, r.ArtistsFile, r.GenresFile, r.OverviewFile}
}

// WriteCSVExport writes one CSV file per section plus an overview JSON file.
//
// Defaults to "stats" as the base filename & creates {base}_tracks.csv, {base}_artists.csv,
// {base}_genres.csv and {base}_overview.json
func WriteCSVExport(d models.Dashboard, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "stats"
	}

	result := &CSVExportResult{}
	targets := map[stats.Section]*string{
		stats.SectionTracks:  &result.TracksFile,
		stats.SectionArtists: &result.ArtistsFile,
		stats.SectionGenres:  &result.GenresFile,
	}

	for _, section := range stats.Sections {
		data, err := ExportToCSV(d, section)
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSV: %w", err)
		}

		path := fmt.Sprintf("%s_%s.csv", baseFilepath, section)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write CSV file: %w", err)
		}
		*targets[section] = path
	}

	overview, err := shared.MarshalJSON(d.Overview, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate overview JSON: %w", err)
	}

	result.OverviewFile = baseFilepath + "_overview.json"
	if err := os.WriteFile(result.OverviewFile, overview, 0644); err != nil {
		return nil, fmt.Errorf("failed to write overview file: %w", err)
	}

	return result, nil
}

// WriteCSVSection writes one section to a single CSV file.
//
// Defaults to stats_{section}.csv as the filename.
func WriteCSVSection(d models.Dashboard, section stats.Section, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("stats_%s.csv", section)
	}

	data, err := ExportToCSV(d, section)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// WriteMarkdownExport writes the Markdown report to {dir}/README.md.
//
// Directory name defaults to "stats".
func WriteMarkdownExport(d models.Dashboard, owner, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "stats"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := ExportToMarkdown(d, owner)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	path := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return path, nil
}

// WriteTextExport exports the dashboard to plain text.
//
// Defaults to stats.txt as the filename.
func WriteTextExport(d models.Dashboard, path string) (string, error) {
	if path == "" {
		path = "stats.txt"
	}

	data, err := ExportToText(d)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport exports the dashboard to indented JSON.
//
// Defaults to stats.json as the filename.
func WriteJSONExport(d models.Dashboard, path string) (string, error) {
	if path == "" {
		path = "stats.json"
	}

	data, err := ToJSON(d)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}
