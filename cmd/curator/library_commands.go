package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/ipc"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect library items",
	}
	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	return libraryCmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	var (
		source      string
		title       string
		author      string
		channelName string
		externalID  string
		uploadDate  string
		jsonOut     bool
	)
	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add an item to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemAdd(ipc.ItemAddRequest{
					Source:      source,
					URL:         args[0],
					Title:       title,
					Author:      author,
					ChannelName: channelName,
					ExternalID:  externalID,
					UploadDate:  uploadDate,
				})
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %d (%s)\n", resp.Item.ID, resp.Item.Source)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "youtube", "Ingestion source for the item")
	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&author, "author", "", "Item author")
	cmd.Flags().StringVar(&channelName, "channel", "", "Curated channel name")
	cmd.Flags().StringVar(&externalID, "external-id", "", "Platform-native item id")
	cmd.Flags().StringVar(&uploadDate, "upload-date", "", "Platform upload date (YYYYMMDD)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item including its enrichment artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemGet(id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				printItemDetail(cmd, resp)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func printItemDetail(cmd *cobra.Command, resp *ipc.ItemGetResponse) {
	stdout := cmd.OutOrStdout()
	item := resp.Item
	fmt.Fprintf(stdout, "Item %d: %s\n", item.ID, item.Title)
	fmt.Fprintf(stdout, "  Source:   %s\n", item.Source)
	if item.ChannelName != "" {
		fmt.Fprintf(stdout, "  Channel:  %s\n", item.ChannelName)
	}
	fmt.Fprintf(stdout, "  URL:      %s\n", item.URL)
	if item.Author != "" {
		fmt.Fprintf(stdout, "  Author:   %s\n", item.Author)
	}
	fmt.Fprintf(stdout, "  Added:    %s\n", formatDisplayTime(item.CreatedAt))
	if item.EnrichedAt != "" {
		fmt.Fprintf(stdout, "  Enriched: %s\n", formatDisplayTime(item.EnrichedAt))
	}
	if item.Category != "" {
		fmt.Fprintf(stdout, "  Category: %s\n", item.Category)
	}
	if len(item.Subcategories) > 0 {
		fmt.Fprintf(stdout, "  Subcategories: %s\n", strings.Join(item.Subcategories, ", "))
	}
	if item.Area != "" {
		fmt.Fprintf(stdout, "  Area:     %s\n", item.Area)
	}
	if item.Summary != "" {
		fmt.Fprintf(stdout, "\nSummary:\n%s\n", item.Summary)
	}
	if len(item.KeyPoints) > 0 {
		fmt.Fprintln(stdout, "\nKey points:")
		for _, point := range item.KeyPoints {
			fmt.Fprintf(stdout, "  - %s\n", point)
		}
	}
	if resp.Transcript != "" {
		fmt.Fprintf(stdout, "\nTranscript (%d characters available, use --json for full text)\n",
			len([]rune(resp.Transcript)))
	}
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var (
		source  string
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library items with their enrichment state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemList(ipc.ItemListRequest{Source: source, Limit: limit})
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(stdout, "No items found")
					return nil
				}
				rows := make([][]string, 0, len(resp.Items))
				for _, item := range resp.Items {
					rows = append(rows, []string{
						fmt.Sprintf("%d", item.ID),
						truncateText(item.Title, 48),
						item.Source,
						yesNo(item.HasTranscript),
						yesNo(item.Summary != ""),
						item.Category,
						item.Area,
						formatDisplayTime(item.CreatedAt),
					})
				}
				table := renderTable(
					[]string{"ID", "Title", "Source", "Transcript", "Summary", "Category", "Area", "Added"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Filter by ingestion source")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to list")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func truncateText(value string, max int) string {
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
