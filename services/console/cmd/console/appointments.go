package main

import (
	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/hooks"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

func newAppointmentStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "status <id> <pending|confirmed|cancelled|completed>",
		Short:     "Move an appointment to another status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"pending", "confirmed", "cancelled", "completed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.hooks.SetAppointmentStatus().Run(cmd.Context(), hooks.StatusChange{
				ID:     args[0],
				Status: schema.AppointmentStatus{Status: args[1]},
			})
			if err != nil {
				return err
			}
			return view.Record(a.out, view.AppointmentColumns, out)
		},
	}
}
