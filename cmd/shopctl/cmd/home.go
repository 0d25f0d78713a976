package cmd

import (
	"fmt"

	"github.com/Thanhnebe/hoainamprj/internal/app"
	"github.com/spf13/cobra"
)

func newHomeCmd(state *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Show the home feed",
		RunE: state.run(func(cmd *cobra.Command, c *app.Container) error {
			feed, err := c.Home().Load(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), feed)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "avatar: %s\n", feed.Avatar)
			fmt.Fprintln(out, "banners:")
			for _, b := range feed.Banners {
				fmt.Fprintf(out, "  %d  %s\n", b.ID, b.URL)
			}
			fmt.Fprintln(out, "top products:")
			for _, p := range feed.Products {
				fmt.Fprintf(out, "  %s\n", p.Name)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the feed as JSON")
	return cmd
}
