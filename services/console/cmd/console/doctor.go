package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/libs/kafkax"
	"github.com/md-rashed-zaman/bookingdesk/libs/runtime"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

type checkRow struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

var checkColumns = []view.Column[checkRow]{
	{Title: "Check", Value: func(r checkRow) string { return r.Name }},
	{Title: "Status", Value: func(r checkRow) string { return r.Status }},
	{Title: "Took", Value: func(r checkRow) string { return r.Duration }},
	{Title: "Error", Value: func(r checkRow) string { return r.Error }},
}

func newDoctorCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the backend, cache, message bus and session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := runtime.RunChecks(cmd.Context(), timeout, a.readyChecks()...)
			rows := make([]checkRow, 0, len(results))
			failed := 0
			for _, r := range results {
				row := checkRow{Name: r.Name, Status: "ok", Duration: r.Duration.Round(time.Millisecond).String()}
				if !r.OK() {
					failed++
					row.Status = "failed"
					row.Error = r.Err.Error()
				}
				rows = append(rows, row)
			}
			if err := view.List(a.out, "checks", checkColumns, rows); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "time limit per check")
	return cmd
}

func (a *app) readyChecks() []runtime.ReadyCheck {
	checks := []runtime.ReadyCheck{{Name: "api", Check: a.api.Ping}}
	if a.api.Token() != "" {
		checks = append(checks, runtime.ReadyCheck{Name: "token", Check: func(context.Context) error {
			claims, err := a.api.Session()
			if err != nil {
				return err
			}
			if claims.ExpiresWithin(time.Now(), 0) {
				return errors.New("token expired, sign in again")
			}
			return nil
		}})
	}
	if a.rdb != nil {
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return a.rdb.Ping(ctx).Err()
		}})
	}
	if len(a.settings.KafkaBrokers) > 0 {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(a.settings.KafkaBrokers)})
	}
	return checks
}
