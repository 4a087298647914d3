package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/plugin-stage/internal/doctor"
	"github.com/conn-castle/plugin-stage/internal/messages"
)

func newDoctorCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		// Config errors are reported as a failed check rather than aborting.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path, optional, err := sess.locate(cmd)
			if err != nil {
				return err
			}

			results, cfg := doctor.CheckConfig(path, optional)
			if cfg != nil {
				if err := sess.apply(cmd, cfg); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, sess.baseDir())
				sys := sess.manager.System()
				results = append(results, doctor.CheckBaseDir(sys, sess.baseDir())...)
				results = append(results, doctor.CheckPlugins(sys, sess.baseDir())...)
				results = append(results, doctor.CheckStaging(sys, sess.baseDir())...)
			}

			warned := false
			for _, r := range results {
				printResult(out, r)
				if r.Status == doctor.StatusWarn {
					warned = true
				}
			}
			switch {
			case doctor.HasFailure(results):
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return errors.New(messages.DoctorFailureError)
			case warned:
				_, _ = fmt.Fprintln(out, color.YellowString(messages.DoctorWarningSummary))
			default:
				_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			}
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, r.Recommendation)
	}
}
