package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Thanhnebe/hoainamprj/internal/app"
	"github.com/Thanhnebe/hoainamprj/internal/domain"
	"github.com/Thanhnebe/hoainamprj/internal/profileedit"
	"github.com/Thanhnebe/hoainamprj/internal/session"
	"github.com/spf13/cobra"
)

func newProfileCmd(state *cli) *cobra.Command {
	var states bool
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the signed-in user's profile",
	}
	cmd.PersistentFlags().BoolVar(&states, "states", false, "print editor state transitions")
	cmd.AddCommand(newProfileShowCmd(state, &states), newProfileEditCmd(state, &states))
	return cmd
}

// newEditor subscribes the terminal to the bus and builds a profile editor
// publishing its transitions there.
func newEditor(cmd *cobra.Command, c *app.Container, picker profileedit.ImagePicker, states bool) (*profileedit.Controller, error) {
	ctx := cmd.Context()
	if err := printNotices(ctx, c.Bus(), cmd.ErrOrStderr(), states); err != nil {
		return nil, err
	}
	return c.NewProfileEditor(picker, profileedit.PublishStates(ctx, c.Bus(), c.Logger())), nil
}

func newProfileShowCmd(state *cli, states *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Load and print the profile",
		RunE: state.run(func(cmd *cobra.Command, c *app.Container) error {
			ctx := cmd.Context()
			editor, err := newEditor(cmd, c, &flagPicker{}, *states)
			if err != nil {
				return err
			}
			defer editor.Close()

			if err := editor.Initialize(ctx); err != nil && !errors.Is(err, domain.ErrUnauthorized) && !errors.Is(err, domain.ErrFetch) {
				return err
			}
			return printJSON(cmd.OutOrStdout(), editor.Snapshot())
		}),
	}
}

type editOptions struct {
	name        string
	email       string
	image       string
	waitSession bool
}

func newProfileEditCmd(state *cli, states *bool) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the profile and request an OTP for the new details",
		Long: `Load the profile, apply the given edits, upload a new avatar and request
a verification code for the resulting email. On success the OTP handoff
payload is printed as JSON.

Examples:
  shopctl profile edit --email new@example.com
  shopctl profile edit --name "Hoài Nam" --image ./avatar.jpg
  shopctl profile edit --wait-session --email new@example.com`,
		RunE: state.run(func(cmd *cobra.Command, c *app.Container) error {
			return runProfileEdit(cmd, c, opts, *states)
		}),
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "new display name")
	cmd.Flags().StringVar(&opts.email, "email", "", "new email, the OTP is sent here")
	cmd.Flags().StringVar(&opts.image, "image", "", "path of a new avatar image")
	cmd.Flags().BoolVar(&opts.waitSession, "wait-session", false, "wait for a login record instead of editing anonymously")
	return cmd
}

func runProfileEdit(cmd *cobra.Command, c *app.Container, opts editOptions, states bool) error {
	ctx := cmd.Context()
	if opts.waitSession {
		if err := waitForSession(ctx, c, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	editor, err := newEditor(cmd, c, &flagPicker{path: opts.image}, states)
	if err != nil {
		return err
	}
	defer editor.Close()

	if err := editor.Initialize(ctx); err != nil {
		// Load failures leave an empty, editable form.
		c.Logger().Warn("profile not loaded", "error", err)
	}

	if cmd.Flags().Changed("name") {
		if err := editor.SetName(opts.name); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("email") {
		if err := editor.SetEmail(opts.email); err != nil {
			return err
		}
	}
	if opts.image != "" {
		if err := editor.PickImage(ctx); err != nil {
			return err
		}
		editor.Wait()
	}

	payload, err := editor.RequestOTP(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), payload)
}

// waitForSession blocks until a login record naming a user exists.
func waitForSession(ctx context.Context, c *app.Container, w io.Writer) error {
	if sess, _ := c.Sessions().Get(ctx); sess.HasUser() {
		return nil
	}
	fmt.Fprintln(w, "waiting for login (run: shopctl login --id ... --token ...)")

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	err := session.Watch(watchCtx, c.SessionPath(), c.Logger(), func() {
		if sess, _ := c.Sessions().Get(watchCtx); sess.HasUser() {
			cancel()
		}
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
