package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/messages"
	"github.com/conn-castle/plugin-stage/internal/pluginfs"
)

type inspectResult struct {
	pluginfs.Metadata
	File string `json:"file"`
}

func newInspectCmd(sess *session) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   messages.InspectUse,
		Short: messages.InspectShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys := sess.manager.System()
			meta, err := pluginfs.ReadMetadata(sys, args[0])
			if err != nil {
				return err
			}
			file, err := pluginfs.MetadataPath(sys, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outputJSON {
				return writeJSON(out, inspectResult{Metadata: meta, File: file})
			}
			renderTable(out,
				table.Row{messages.InspectHeaderName, messages.InspectHeaderVersion, messages.InspectHeaderFile},
				[]table.Row{{meta.Name, meta.Version, file}},
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, messages.FlagJSON)
	return cmd
}
