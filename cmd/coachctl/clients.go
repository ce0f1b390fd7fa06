package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/api"
	"github.com/coachkit/coachkit/clients"
)

func clientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage the client roster",
	}
	cmd.AddCommand(clientsListCmd(), clientsAddCmd(), clientsInviteCmd(), clientsRemoveCmd())
	return cmd
}

func newRoster(a *app) *clients.Roster {
	return clients.New(a.api, clients.Options{
		Cache:   a.cache,
		Buses:   a.buses,
		Logger:  a.log,
		Metrics: nil,
	})
}

func clientsListCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			roster := newRoster(a)
			defer roster.Close()

			list, err := roster.Fetch(cmd.Context(), force)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tGOAL")
			for _, c := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Goal)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&force, "refresh", false, "bypass the cache")
	return cmd
}

func clientsAddCmd() *cobra.Command {
	var name, email, goal string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			roster := newRoster(a)
			defer roster.Close()

			if _, err := roster.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			created, err := roster.Add(cmd.Context(), api.Athlete{Name: name, Email: email, Goal: goal})
			if err != nil {
				return err
			}
			fmt.Printf("added client %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&email, "email", "", "client email")
	cmd.Flags().StringVar(&goal, "goal", "", "training goal")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func clientsInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite <email>",
		Short: "Email a signup invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			roster := newRoster(a)
			defer roster.Close()

			if err := roster.Invite(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("invite sent to %s\n", args[0])
			return nil
		},
	}
}

func clientsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a client from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			roster := newRoster(a)
			defer roster.Close()

			if _, err := roster.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			ok, err := roster.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("client %s not found", args[0])
			}
			fmt.Printf("removed client %s\n", args[0])
			return nil
		},
	}
}
