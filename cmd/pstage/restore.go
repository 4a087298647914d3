package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
	"github.com/conn-castle/plugin-stage/internal/prompt"
)

func newRestoreCmd(sess *session) *cobra.Command {
	var yes bool
	var diffLines int

	cmd := &cobra.Command{
		Use:   messages.RestoreUse,
		Short: messages.RestoreShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := pluginfs.ValidatePluginName(name); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes {
				if !isTerminal() {
					return errors.New(messages.RestoreRequiresYes)
				}
				preview, ok, err := pluginfs.PreviewRestore(sess.manager.System(), sess.baseDir(), name, diffLines)
				if err != nil {
					return err
				}
				if !ok {
					_, err = fmt.Fprintf(out, messages.RestoreNoBackupFmt, name)
					return err
				}
				if err := printRestorePreview(out, preview); err != nil {
					return err
				}
				confirmed, err := confirmRestore(preview)
				if err != nil {
					return err
				}
				if !confirmed {
					_, err = fmt.Fprintln(out, messages.RestoreAborted)
					return err
				}
			}

			desc, restored, err := sess.manager.Restore(cmd.Context(), sess.baseDir(), name)
			if err != nil {
				return err
			}
			if !restored {
				_, err = fmt.Fprintf(out, messages.RestoreNoBackupFmt, name)
				return err
			}
			_, err = fmt.Fprintf(out, messages.RestoreCompletedFmt, desc.Name, desc.Version, desc.SourcePath)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.FlagYes)
	cmd.Flags().IntVar(&diffLines, strings.TrimPrefix(pluginfs.DiffLineCapFlagName, "--"), pluginfs.DefaultDiffMaxLines, messages.RestoreFlagDiffLines)
	return cmd
}

func printRestorePreview(out io.Writer, preview pluginfs.RestorePreview) error {
	if _, err := fmt.Fprintf(out, messages.RestorePreviewFmt, preview.Plugin, preview.CurrentPath, preview.BackupPath); err != nil {
		return err
	}
	if preview.UnifiedDiff == "" {
		_, err := fmt.Fprintln(out, messages.PluginsDiffNoChanges)
		return err
	}
	_, err := fmt.Fprint(out, color.YellowString("%s", preview.UnifiedDiff))
	return err
}

// confirmRestore asks through the terminal UI. A cancelled prompt declines.
func confirmRestore(preview pluginfs.RestorePreview) (bool, error) {
	confirmed := false
	title := fmt.Sprintf(messages.RestoreConfirmTitleFmt, preview.Plugin)
	description := fmt.Sprintf(messages.RestoreConfirmDescFmt, versionOrUnknown(preview.CurrentVersion), versionOrUnknown(preview.BackupVersion))
	err := newPromptUI().Confirm(title, description, &confirmed)
	if errors.Is(err, prompt.ErrCancelled) {
		return false, nil
	}
	return confirmed, err
}

func versionOrUnknown(version string) string {
	if version == "" {
		return messages.RestoreUnknownVersion
	}
	return version
}
