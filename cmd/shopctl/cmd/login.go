package cmd

import (
	"fmt"

	"github.com/Thanhnebe/hoainamprj/internal/app"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(state *cli) *cobra.Command {
	var sess domain.Session
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a login record",
		Long: `Store the login record the app keeps after signing in. The record is
read by every other command.

Example:
  shopctl login --id u1 --token t1 --photo https://cdn.example.com/me.jpg`,
		RunE: state.run(func(cmd *cobra.Command, c *app.Container) error {
			if err := c.Sessions().Save(cmd.Context(), sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", sess.UserID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&sess.UserID, "id", "", "user id")
	cmd.Flags().StringVar(&sess.AccessToken, "token", "", "access token")
	cmd.Flags().StringVar(&sess.PhotoURL, "photo", "", "avatar URL shown on the home screen")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newLogoutCmd(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored login record",
		RunE: state.run(func(cmd *cobra.Command, c *app.Container) error {
			if err := c.Sessions().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		}),
	}
}
