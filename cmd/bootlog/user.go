package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bootlog/bootlog/internal/identity"
)

func newUserCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "user <email>",
		Short: "Show or update a user account",
		Long:  "User looks up the account for an email, creating it on first use, and optionally updates its display name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			users, err := identity.Open("")
			if err != nil {
				return err
			}
			defer func() {
				_ = users.Close()
			}()

			u, err := users.GetOrCreateUser(ctx, args[0])
			if err != nil {
				return err
			}

			if name != "" {
				if err := users.UpdateUserName(ctx, u.ID, name); err != nil {
					return err
				}
				u, err = users.GetUser(ctx, u.ID)
				if err != nil {
					return err
				}
			}

			fmt.Printf("ID:    %d\n", u.ID)
			fmt.Printf("Email: %s\n", u.Email)
			if u.Name != "" {
				fmt.Printf("Name:  %s\n", u.Name)
			}
			if !u.LastSeen.IsZero() {
				fmt.Printf("Seen:  %s\n", u.LastSeen.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Set the display name")

	return cmd
}
