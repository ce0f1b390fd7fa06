package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/dietplans"
)

func plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage diet plans",
	}
	cmd.AddCommand(plansListCmd(), plansActivateCmd())
	return cmd
}

func newLibrary(a *app) *dietplans.Library {
	return dietplans.New(a.api, dietplans.Options{
		Cache:  a.cache,
		Buses:  a.buses,
		Logger: a.log,
	})
}

func plansListCmd() *cobra.Command {
	var force bool
	var clientID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diet plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			lib := newLibrary(a)
			defer lib.Close()

			list, err := lib.Fetch(cmd.Context(), force)
			if err != nil {
				return err
			}
			if clientID != "" {
				list = lib.ForClient(clientID)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCLIENT\tTITLE\tMEALS/DAY\tACTIVE")
			for _, p := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n", p.ID, p.ClientID, p.Title, p.MealsPerDay, p.IsActive)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&force, "refresh", false, "bypass the cache")
	cmd.Flags().StringVar(&clientID, "client", "", "filter by client id")
	return cmd
}

func plansActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <planID>",
		Short: "Make a plan its client's active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			lib := newLibrary(a)
			defer lib.Close()

			if _, err := lib.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			plan, ok, err := lib.Activate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("plan %s not found", args[0])
			}
			fmt.Printf("activated %s for client %s\n", plan.Title, plan.ClientID)
			return nil
		},
	}
}
