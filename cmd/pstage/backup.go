package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
)

func newBackupCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   messages.BackupUse,
		Short: messages.BackupShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := pluginfs.ValidatePluginName(name); err != nil {
				return err
			}
			var backupPath string
			var created bool
			err := sess.guard(name, func() error {
				var err error
				backupPath, created, err = sess.manager.BackupExisting(cmd.Context(), pluginfs.CanonicalPath(sess.baseDir(), name), name)
				return err
			})
			if err != nil {
				return err
			}
			if !created {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), messages.BackupNothingFmt, name)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), messages.BackupCreatedFmt, name, backupPath)
			return err
		},
	}
}

func newBackupsCmd(sess *session) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   messages.BackupsUse,
		Short: messages.BackupsShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := pluginfs.ValidatePluginName(name); err != nil {
				return err
			}
			sys := sess.manager.System()
			backups, err := pluginfs.ListBackups(sys, sess.baseDir(), name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, backups)
			}
			if len(backups) == 0 {
				_, err = fmt.Fprintf(out, messages.BackupsNoneFmt, name)
				return err
			}
			next, _, err := pluginfs.MostRecentBackup(sys, sess.baseDir(), name)
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(backups))
			for _, backup := range backups {
				marker := ""
				if backup.Path == next {
					marker = messages.BackupsNextMarker
				}
				rows = append(rows, table.Row{backup.Token, backup.Path, marker})
			}
			renderTable(out, table.Row{messages.BackupsHeaderTok, messages.BackupsHeaderPath, messages.BackupsHeaderNext}, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, messages.FlagJSON)
	return cmd
}

func newPruneCmd(sess *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   messages.PruneUse,
		Short: messages.PruneShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := pluginfs.ValidatePluginName(name); err != nil {
				return err
			}
			sys := sess.manager.System()
			out := cmd.OutOrStdout()
			backups, err := pluginfs.ListBackups(sys, sess.baseDir(), name)
			if err != nil {
				return err
			}
			if len(backups) <= 1 {
				_, err = fmt.Fprintf(out, messages.PruneNothingFmt, name)
				return err
			}

			if !yes {
				if !isTerminal() {
					return errors.New(messages.PruneRequiresYes)
				}
				keep, _, err := pluginfs.MostRecentBackup(sys, sess.baseDir(), name)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, messages.PruneKeepFmt, keep); err != nil {
					return err
				}
				for _, backup := range backups {
					if backup.Path == keep {
						continue
					}
					if _, err := fmt.Fprintf(out, messages.PruneRemoveFmt, backup.Path); err != nil {
						return err
					}
				}
				prompt := fmt.Sprintf(messages.PrunePromptFmt, len(backups)-1, name)
				confirmed, err := promptYesNo(cmd.InOrStdin(), out, prompt, false)
				if err != nil {
					return err
				}
				if !confirmed {
					_, err = fmt.Fprintln(out, messages.PruneAborted)
					return err
				}
			}

			err = sess.guard(name, func() error {
				return sess.manager.PruneBackups(cmd.Context(), sess.baseDir(), name)
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, messages.PruneCompletedFmt, len(backups)-1, name)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.FlagYes)
	return cmd
}
