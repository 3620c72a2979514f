package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cyclone1070/wisemcp/internal/history"
	"github.com/Cyclone1070/wisemcp/internal/tool"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var (
		conversation string
		toolName     string
		limit        int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded tool calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be non-negative, got %d", limit)
			}

			ledger, err := openLedger(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			records, err := ledger.List(cmd.Context(), history.Filter{
				ConversationID: conversation,
				ToolName:       tool.Name(toolName),
				Limit:          limit,
			})
			if err != nil {
				return err
			}

			if asJSON {
				if records == nil {
					records = []history.Record{}
				}
				return writeJSON(cmd.OutOrStdout(), records)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tTOOL\tCONVERSATION\tPARAMS")
			for _, r := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					r.ID, r.Timestamp.Local().Format(time.DateTime), r.ToolName, r.ConversationID, r.RequestParams)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&conversation, "conversation", "", "only show calls of this conversation id")
	cmd.Flags().StringVar(&toolName, "tool", "", "only show calls of this tool")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of records (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON, including responses")
	return cmd
}
