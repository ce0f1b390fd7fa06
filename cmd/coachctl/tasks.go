package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/api"
	"github.com/coachkit/coachkit/tasks"
)

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage client tasks",
	}
	cmd.AddCommand(tasksListCmd(), tasksAddCmd(), tasksCompleteCmd())
	return cmd
}

func newBoard(a *app) *tasks.Board {
	return tasks.New(a.api, tasks.Options{
		Cache:  a.cache,
		Buses:  a.buses,
		Logger: a.log,
	})
}

func tasksListCmd() *cobra.Command {
	var force bool
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			board := newBoard(a)
			defer board.Close()

			list, err := board.Fetch(cmd.Context(), force)
			if err != nil {
				return err
			}
			if status != "" {
				list = board.WithStatus(status)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, t.DueDate)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&force, "refresh", false, "bypass the cache")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func tasksAddCmd() *cobra.Command {
	var title, clientID, priority, due string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			board := newBoard(a)
			defer board.Close()

			if _, err := board.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			created, err := board.Add(cmd.Context(), api.Task{
				Title:    title,
				ClientID: clientID,
				Priority: priority,
				DueDate:  due,
			})
			if err != nil {
				return err
			}
			fmt.Printf("added task %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&clientID, "client", "", "client id")
	cmd.Flags().StringVar(&priority, "priority", "", "task priority")
	cmd.Flags().StringVar(&due, "due", "", "due date")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func tasksCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			board := newBoard(a)
			defer board.Close()

			if _, err := board.Fetch(cmd.Context(), false); err != nil {
				return err
			}
			done, ok, err := board.Complete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			fmt.Printf("completed task %s\n", done.ID)
			return nil
		},
	}
}
