package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		times    int
	)
	cmd := &cobra.Command{
		Use:   "watch <collection>",
		Short: "Reprint a collection on an interval and whenever it is invalidated",
		Long: "Reprints the first page of a collection every --interval. With KAFKA_BROKERS set, " +
			"writes made by other consoles trigger an immediate refresh.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			list, ok := a.listers[name]
			if !ok {
				return fmt.Errorf("unknown collection %q (one of %s)", name, strings.Join(a.collections(), ", "))
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			var wg sync.WaitGroup
			defer func() {
				cancel()
				wg.Wait()
			}()

			events, stop := a.queries.Subscribe(8)
			defer stop()
			if a.bus != nil {
				wg.Add(1)
				go func() {
					defer wg.Done()
					a.bus.Run(ctx, a.queries)
				}()
			}

			if err := list(ctx, false); err != nil {
				return err
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			own := query.K(name)
			errOut := view.New(a.stderr, a.out.Format())

			for n := 1; times <= 0 || n < times; n++ {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				case key := <-events:
					if !own.HasPrefix(key) && !key.HasPrefix(own) {
						n--
						continue
					}
					a.logger.Debug("collection invalidated", "key", key.String())
				}
				if err := list(ctx, true); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					_ = errOut.Error(err)
				}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "time between refreshes")
	cmd.Flags().IntVar(&times, "times", 0, "stop after this many prints (0 = until interrupted)")
	return cmd
}

func (a *app) collections() []string {
	names := make([]string, 0, len(a.listers))
	for name := range a.listers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
