package main

import (
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/config"
	"github.com/conn-castle/plugin-stage/internal/inbox"
	"github.com/conn-castle/plugin-stage/internal/messages"
)

func newWatchCmd(sess *session) *cobra.Command {
	var inboxDir string
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   messages.WatchUse,
		Short: messages.WatchShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := inbox.Options{
				Dir:     sess.cfg.Inbox.Dir,
				BaseDir: sess.baseDir(),
				Settle:  sess.cfg.Inbox.Settle.Duration,
				Stager:  sess.manager,
			}
			if cmd.Flags().Changed("inbox") {
				dir, err := config.ExpandPath(inboxDir)
				if err != nil {
					return err
				}
				opts.Dir = sess.resolveFlag(dir)
			}
			if cmd.Flags().Changed("settle") {
				opts.Settle = settle
			}
			watcher, err := inbox.New(opts)
			if err != nil {
				return err
			}

			ctx, stop := notifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			runErr := make(chan error, 1)
			go func() { runErr <- watcher.Run(ctx) }()
			printInboxEvents(cmd.OutOrStdout(), watcher.Events())
			return <-runErr
		},
	}
	cmd.Flags().StringVar(&inboxDir, "inbox", "", messages.WatchFlagInbox)
	cmd.Flags().DurationVar(&settle, "settle", inbox.DefaultSettle, messages.WatchFlagSettle)
	return cmd
}

// printInboxEvents reports each event until the channel closes.
func printInboxEvents(out io.Writer, events <-chan inbox.Event) {
	for event := range events {
		if event.Err != nil {
			_, _ = fmt.Fprint(out, color.RedString(messages.WatchFailedFmt, event.Source, event.Err))
			continue
		}
		_, _ = fmt.Fprint(out, color.GreenString(messages.WatchStagedFmt, event.Descriptor.Name, event.Descriptor.Version, event.Source))
	}
}
