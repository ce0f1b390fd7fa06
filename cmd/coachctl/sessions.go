package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/sessions"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage the training schedule",
	}
	cmd.AddCommand(sessionsListCmd(), sessionsRescheduleCmd(), sessionsCancelCmd())
	return cmd
}

func newCalendar(a *app) *sessions.Calendar {
	return sessions.New(a.api, sessions.Options{
		Cache:  a.cache,
		Buses:  a.buses,
		Logger: a.log,
	})
}

func sessionsListCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			cal := newCalendar(a)
			defer cal.Close()

			list, err := cal.Fetch(cmd.Context(), force)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCLIENT\tTITLE\tSTART\tMINUTES")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.ClientID, s.Title, s.StartTime, s.DurationMinutes)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&force, "refresh", false, "bypass the cache")
	return cmd
}

func sessionsRescheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <id> <start> <end>",
		Short: "Move a session to new start and end times",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			cal := newCalendar(a)
			defer cal.Close()

			if _, err := cal.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			moved, ok, err := cal.Reschedule(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("session %s not found", args[0])
			}
			fmt.Printf("session %s now %s – %s (%d min)\n", moved.ID, moved.StartTime, moved.EndTime, moved.DurationMinutes)
			return nil
		},
	}
}

func sessionsCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			cal := newCalendar(a)
			defer cal.Close()

			if _, err := cal.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			ok, err := cal.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("session %s not found", args[0])
			}
			fmt.Printf("cancelled session %s\n", args[0])
			return nil
		},
	}
}
