package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/broadcast"
	"github.com/coachkit/coachkit/realtime"
)

var resourceNames = []string{
	broadcast.Clients,
	broadcast.Sessions,
	broadcast.Tasks,
	broadcast.DietPlans,
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream refresh events from the platform",
		Long: `watch connects to the platform's event feed and prints a line for
every resource the server reports changed. Requires COACHKIT_EVENTS_URL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if !a.cfg.HasEvents() {
				return fmt.Errorf("COACHKIT_EVENTS_URL is not set")
			}

			for _, name := range resourceNames {
				name := name
				a.buses.Bus(name).Subscribe(func(trigger uint64) {
					fmt.Printf("%s changed (trigger %d)\n", name, trigger)
				})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.log.Info().Str("url", a.cfg.EventsURL).Msg("watching for changes")
			err = realtime.New(a.cfg.EventsURL, a.buses, realtime.WithLogger(a.log)).Run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
