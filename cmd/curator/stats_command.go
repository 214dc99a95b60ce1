package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/ipc"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show enrichment coverage for the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stats()
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Library Coverage", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Artifact", "Count"},
					buildCoverageRows(resp.Stats.Counts),
					[]columnAlignment{alignLeft, alignRight},
				))

				if len(resp.Stats.BySource) > 0 {
					fmt.Fprintln(stdout)
					for _, line := range renderSectionHeader("By Source", colorize) {
						fmt.Fprintln(stdout, line)
					}
					rows := make([][]string, 0, len(resp.Stats.BySource))
					for _, source := range resp.Stats.BySource {
						rows = append(rows, []string{
							source.Source,
							fmt.Sprintf("%d", source.Counts.Total),
							fmt.Sprintf("%d", source.Counts.WithTranscript),
							fmt.Sprintf("%d", source.Counts.WithSummary),
							fmt.Sprintf("%d", source.Counts.FullyEnriched),
						})
					}
					fmt.Fprintln(stdout, renderTable(
						[]string{"Source", "Items", "Transcript", "Summary", "Fully Enriched"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
					))
				}

				if len(resp.Stats.ByChannel) > 0 {
					fmt.Fprintln(stdout)
					for _, line := range renderSectionHeader("By Channel", colorize) {
						fmt.Fprintln(stdout, line)
					}
					rows := make([][]string, 0, len(resp.Stats.ByChannel))
					for _, channel := range resp.Stats.ByChannel {
						name := channel.ChannelName
						if name == "" {
							name = fmt.Sprintf("channel %d", channel.ChannelID)
						}
						rows = append(rows, []string{
							name,
							fmt.Sprintf("%d", channel.Counts.Total),
							fmt.Sprintf("%d", channel.Counts.WithTranscript),
							fmt.Sprintf("%d", channel.Counts.FullyEnriched),
						})
					}
					fmt.Fprintln(stdout, renderTable(
						[]string{"Channel", "Items", "Transcript", "Fully Enriched"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
					))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}
