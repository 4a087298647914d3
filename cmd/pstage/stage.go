package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/messages"
)

func newStageCmd(sess *session) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   messages.StageUse,
		Short: messages.StageShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := sess.manager.Stage(cmd.Context(), args[0], args[1], sess.baseDir())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, desc)
			}
			if !desc.IsLocalInstall {
				_, err = fmt.Fprintf(out, messages.StagePassthroughFmt, desc.Name, desc.Version)
				return err
			}
			_, err = fmt.Fprintf(out, messages.StageStagedFmt, desc.Name, desc.Version, desc.SourcePath)
			return err
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, messages.FlagJSON)
	return cmd
}
