package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Thanhnebe/hoainamprj/internal/profileedit"
	"github.com/spf13/cobra"
)

type topicInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// busTopics lists every event the client publishes.
func busTopics() []topicInfo {
	return []topicInfo{
		{profileedit.NoticeEvent.Name(), profileedit.NoticeEvent.Description()},
		{profileedit.NavigationEvent.Name(), profileedit.NavigationEvent.Description()},
		{profileedit.StateEvent.Name(), profileedit.StateEvent.Description()},
	}
}

func newTopicsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the message bus topics",
		Long: `List the topics the client publishes on its in-process message bus.

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := busTopics()
			switch format {
			case "json":
				return printJSON(cmd.OutOrStdout(), topics)
			case "table":
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TOPIC\tDESCRIPTION")
				for _, t := range topics {
					fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
				}
				return w.Flush()
			default:
				return fmt.Errorf("unknown format %q, expected table or json", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format (table, json)")
	return cmd
}
