package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/batch"
	"github.com/conn-castle/plugin-stage/internal/config"
	"github.com/conn-castle/plugin-stage/internal/messages"
)

func newInstallCmd(sess *session) *cobra.Command {
	var manifestPath string
	var jobs int
	var strict bool

	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := installItems(sess, args, manifestPath, cmd.Flags().Changed("manifest"))
			if err != nil {
				return err
			}
			runner := batch.Runner{
				Stager:  sess.manager,
				BaseDir: sess.baseDir(),
				Jobs:    sess.cfg.Batch.Jobs,
				Strict:  sess.cfg.Batch.Strict,
			}
			if cmd.Flags().Changed("jobs") {
				runner.Jobs = jobs
			}
			if cmd.Flags().Changed("strict") {
				runner.Strict = strict
			}

			results, err := runner.Run(cmd.Context(), items)
			if err != nil && !errors.Is(err, batch.ErrBatchFailed) {
				return err
			}
			renderInstallReport(cmd.OutOrStdout(), results)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("%v", err))
				return &SilentExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", messages.InstallFlagManifest)
	cmd.Flags().IntVar(&jobs, "jobs", batch.DefaultJobs, messages.InstallFlagJobs)
	cmd.Flags().BoolVar(&strict, "strict", false, messages.InstallFlagStrict)
	return cmd
}

// installItems builds the batch from name=source arguments, or from a
// manifest when no arguments are given.
func installItems(sess *session, args []string, manifestPath string, manifestSet bool) ([]batch.Item, error) {
	if len(args) > 0 {
		if manifestSet {
			return nil, errors.New(messages.InstallArgsAndManifest)
		}
		return parseItemArgs(args)
	}
	if manifestSet {
		manifestPath = sess.resolveFlag(manifestPath)
	} else {
		manifestPath = sess.paths.ManifestPath
	}
	manifest, err := config.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	items := make([]batch.Item, 0, len(manifest.Plugins))
	for _, entry := range manifest.Plugins {
		items = append(items, batch.Item{Name: entry.Name, Source: entry.Source})
	}
	return items, nil
}

func parseItemArgs(args []string) ([]batch.Item, error) {
	items := make([]batch.Item, 0, len(args))
	for _, arg := range args {
		name, source, ok := strings.Cut(arg, "=")
		name, source = strings.TrimSpace(name), strings.TrimSpace(source)
		if !ok || name == "" || source == "" {
			return nil, fmt.Errorf(messages.InstallInvalidItemFmt, arg)
		}
		items = append(items, batch.Item{Name: name, Source: source})
	}
	return items, nil
}

func renderInstallReport(out io.Writer, results []batch.Result) {
	rows := make([]table.Row, 0, len(results))
	staged := 0
	for _, result := range results {
		status := color.GreenString(messages.InstallStatusOK)
		if result.OK() {
			staged++
		} else {
			status = color.RedString(messages.InstallStatusFailedFmt, result.Err)
		}
		rows = append(rows, table.Row{
			result.Item.Name,
			result.Descriptor.Version,
			result.Item.Source,
			status,
			result.Elapsed.Round(time.Millisecond),
		})
	}
	renderTable(out, table.Row{
		messages.InstallHeaderPlugin,
		messages.InstallHeaderVersion,
		messages.InstallHeaderSource,
		messages.InstallHeaderStatus,
		messages.InstallHeaderElapsed,
	}, rows)

	summary := fmt.Sprintf(messages.InstallSummaryFmt, staged, len(results))
	if staged < len(results) {
		summary = color.YellowString("%s", summary)
	}
	_, _ = fmt.Fprint(out, summary)
}
