package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunestats/internal/formatter"
	"github.com/desertthunder/tunestats/internal/shared"
	"github.com/desertthunder/tunestats/internal/stats"
	"github.com/urfave/cli/v3"
)

// Stats prints the signed-in user's dashboard, or writes it to files when --output is set.
//
// --section selects a single CSV section; with --output it is written to exactly that path.
// Without --section, CSV exports write one file per section.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	section, err := stats.ParseSection(cmd.String("section"))
	if err != nil {
		return err
	}
	sectionSet := cmd.IsSet("section")
	if sectionSet && format != formatter.FormatCSV {
		return fmt.Errorf("%w: --section only applies to csv output", shared.ErrInvalidFlag)
	}

	provider, err := r.Provider()
	if err != nil {
		return err
	}
	provider.Start(ctx)

	user, err := provider.RequireUser()
	if err != nil {
		return err
	}

	d, err := stats.ForUser(user)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		return formatter.Write(r.output, d, format, section, user.Name())
	}

	var files []string
	switch format {
	case formatter.FormatCSV:
		if sectionSet {
			path, err := formatter.WriteCSVSection(d, section, output)
			if err != nil {
				return err
			}
			files = []string{path}
			break
		}
		result, err := formatter.WriteCSVExport(d, output)
		if err != nil {
			return err
		}
		files = result.Files()
	case formatter.FormatMarkdown:
		path, err := formatter.WriteMarkdownExport(d, user.Name(), output)
		if err != nil {
			return err
		}
		files = []string{path}
	case formatter.FormatJSON:
		path, err := formatter.WriteJSONExport(d, output)
		if err != nil {
			return err
		}
		files = []string{path}
	default:
		path, err := formatter.WriteTextExport(d, output)
		if err != nil {
			return err
		}
		files = []string{path}
	}

	r.logger.Info("exported stats", "format", format, "files", len(files))
	r.writePlainHeader("Exported " + user.Name() + "'s stats")
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}
