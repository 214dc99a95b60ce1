package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/api"
	"curator/internal/ipc"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	enrichCmd := &cobra.Command{
		Use:   "enrich",
		Short: "Run and control enrichment jobs",
	}

	enrichCmd.AddCommand(newEnrichStartCommand(ctx))
	enrichCmd.AddCommand(newEnrichStatusCommand(ctx))
	enrichCmd.AddCommand(newEnrichControlCommand(ctx, "pause", "Pause the job at the next item boundary",
		func(client *ipc.Client, id string) (*ipc.JobResponse, error) { return client.EnrichPause(id) }))
	enrichCmd.AddCommand(newEnrichControlCommand(ctx, "resume", "Resume a paused job",
		func(client *ipc.Client, id string) (*ipc.JobResponse, error) { return client.EnrichResume(id) }))
	enrichCmd.AddCommand(newEnrichControlCommand(ctx, "cancel", "Cancel the job at the next item boundary",
		func(client *ipc.Client, id string) (*ipc.JobResponse, error) { return client.EnrichCancel(id) }))
	enrichCmd.AddCommand(newEnrichJobsCommand(ctx))
	enrichCmd.AddCommand(newEnrichDeleteCommand(ctx))
	enrichCmd.AddCommand(newEnrichOnceCommand(ctx))

	return enrichCmd
}

func newEnrichStartCommand(ctx *commandContext) *cobra.Command {
	var (
		scope              string
		channelID          int64
		limit              int
		model              string
		skipTranscription  bool
		skipSummary        bool
		skipKeyPoints      bool
		skipCategorization bool
		skipSubcategories  bool
		includeProcessed   bool
		onlyWithoutArea    bool
		onlyWithoutSummary bool
		onlyWithoutKP      bool
		jsonOut            bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an enrichment job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.EnrichStartRequest{
				Options: api.StartEnrichmentRequest{
					SourceScope:          scope,
					CuratedChannelID:     channelID,
					TranscriptionModel:   model,
					Limit:                limit,
					OnlyWithoutArea:      onlyWithoutArea,
					OnlyWithoutSummary:   onlyWithoutSummary,
					OnlyWithoutKeyPoints: onlyWithoutKP,
				},
			}
			if skipTranscription {
				req.Options.IncludeTranscription = boolPtr(false)
			}
			if skipSummary {
				req.Options.IncludeSummary = boolPtr(false)
			}
			if skipKeyPoints {
				req.Options.IncludeKeyPoints = boolPtr(false)
			}
			if skipCategorization {
				req.Options.IncludeCategorization = boolPtr(false)
			}
			if skipSubcategories {
				req.Options.IncludeSubcategories = boolPtr(false)
			}
			if includeProcessed {
				req.Options.SkipProcessed = boolPtr(false)
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EnrichStart(req)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				for _, note := range resp.Notes {
					fmt.Fprintf(stdout, "Note: %s\n", note)
				}
				// The driver resolves targets after Start returns, so no
				// meaningful item count exists yet.
				fmt.Fprintf(stdout, "Started job %s (selecting targets)\n", resp.Job.ID)
				fmt.Fprintf(stdout, "Follow progress with `curator enrich status %s`\n", shortJobID(resp.Job.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Restrict the run to one source scope (e.g. youtube)")
	cmd.Flags().Int64Var(&channelID, "channel", 0, "Restrict the run to one curated channel id")
	cmd.Flags().IntVar(&limit, "limit", 0, "Process at most this many items")
	cmd.Flags().StringVar(&model, "model", "", "Whisper model tier override (tiny, base, small, medium)")
	cmd.Flags().BoolVar(&skipTranscription, "skip-transcription", false, "Do not fetch or transcribe audio")
	cmd.Flags().BoolVar(&skipSummary, "skip-summary", false, "Do not generate summaries")
	cmd.Flags().BoolVar(&skipKeyPoints, "skip-key-points", false, "Do not extract key points")
	cmd.Flags().BoolVar(&skipCategorization, "skip-categorization", false, "Do not assign categories")
	cmd.Flags().BoolVar(&skipSubcategories, "skip-subcategories", false, "Do not assign subcategories")
	cmd.Flags().BoolVar(&includeProcessed, "include-processed", false, "Also revisit items that already have a transcript")
	cmd.Flags().BoolVar(&onlyWithoutArea, "only-without-area", false, "Only items missing an area; assigns areas")
	cmd.Flags().BoolVar(&onlyWithoutSummary, "only-without-summary", false, "Only items with a transcript but no summary")
	cmd.Flags().BoolVar(&onlyWithoutKP, "only-without-key-points", false, "Only items with a summary but no key points")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newEnrichStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show progress for a job (defaults to the active job)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				id, err := resolveJobID(client, args)
				if err != nil {
					return err
				}
				resp, err := client.EnrichStatus(id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				printJobDetail(cmd.OutOrStdout(), resp.Job)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newEnrichControlCommand(ctx *commandContext, verb, short string, call func(*ipc.Client, string) (*ipc.JobResponse, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " [job-id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				id, err := resolveJobID(client, args)
				if err != nil {
					return err
				}
				resp, err := call(client, id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Job %s is now %s\n", shortJobID(resp.Job.ID), formatStatusLabel(resp.Job.Status))
				return nil
			})
		},
	}
}

func newEnrichJobsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List enrichment jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EnrichList()
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Jobs) == 0 {
					fmt.Fprintln(stdout, "No jobs recorded")
					return nil
				}
				rows := make([][]string, 0, len(resp.Jobs))
				for _, job := range resp.Jobs {
					scope := job.SourceScope
					if scope == "" {
						scope = "all"
					}
					rows = append(rows, []string{
						shortJobID(job.ID),
						formatStatusLabel(job.Status),
						scope,
						fmt.Sprintf("%d/%d", job.Processed, job.TotalItems),
						fmt.Sprintf("%d", job.Failed),
						formatRelativeTime(job.CreatedAt),
					})
				}
				table := renderTable(
					[]string{"ID", "Status", "Scope", "Progress", "Failed", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newEnrichDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete a finished job from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				id := strings.TrimSpace(args[0])
				resp, err := client.EnrichDelete(id)
				if err != nil {
					return err
				}
				if !resp.Deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "Job %s not found\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Job %s deleted\n", id)
				return nil
			})
		},
	}
}

func newEnrichOnceCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "once <item-id>",
		Short: "Run the full pipeline against one item and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EnrichOnce(id)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				printOnceOutcome(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func printOnceOutcome(out io.Writer, resp *ipc.EnrichOnceResponse) {
	fmt.Fprintf(out, "Item %d: %s\n", resp.Item.ID, resp.Item.Title)
	outcome := resp.Outcome
	if outcome.Skipped {
		fmt.Fprintln(out, "  Skipped (nothing to do)")
	}
	steps := []struct {
		label string
		done  bool
	}{
		{"Transcribed", outcome.Transcribed},
		{"Summarized", outcome.Summarized},
		{"Key points", outcome.KeyPointsAdded},
		{"Categorized", outcome.Categorized},
		{"Area", outcome.AreaAssigned},
	}
	for _, step := range steps {
		fmt.Fprintf(out, "  %-12s %s\n", step.label+":", yesNo(step.done))
	}
	for _, entry := range outcome.Errors {
		fmt.Fprintf(out, "  Error: %s\n", entry)
	}
	if resp.Item.Category != "" {
		fmt.Fprintf(out, "Category: %s", resp.Item.Category)
		if len(resp.Item.Subcategories) > 0 {
			fmt.Fprintf(out, " (%s)", strings.Join(resp.Item.Subcategories, ", "))
		}
		fmt.Fprintln(out)
	}
	if resp.Item.Summary != "" {
		fmt.Fprintf(out, "Summary:\n%s\n", resp.Item.Summary)
	}
}

// resolveJobID returns the explicit argument or falls back to the daemon's
// active job.
func resolveJobID(client *ipc.Client, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	status, err := client.Status()
	if err != nil {
		return "", err
	}
	if status.ActiveJob == nil {
		return "", errors.New("no active job; pass a job id")
	}
	return status.ActiveJob.ID, nil
}

func printJobDetail(out io.Writer, job api.Job) {
	fmt.Fprintf(out, "Job %s\n", job.ID)
	fmt.Fprintf(out, "  Status:      %s\n", formatStatusLabel(job.Status))
	if job.SourceScope != "" {
		fmt.Fprintf(out, "  Scope:       %s\n", job.SourceScope)
	}
	fmt.Fprintf(out, "  Progress:    %d/%d items (%d skipped, %d failed)\n", job.Processed, job.TotalItems, job.Skipped, job.Failed)
	fmt.Fprintf(out, "  Transcribed: %d  Summarized: %d  Categorized: %d  Areas: %d  Key points: %d\n",
		job.Transcribed, job.Summarized, job.Categorized, job.AreaAssigned, job.KeyPointsAdded)
	if job.CurrentItem != "" {
		fmt.Fprintf(out, "  Working on:  %s\n", job.CurrentItem)
	}
	fmt.Fprintf(out, "  Elapsed:     %s\n", formatSeconds(job.ElapsedSeconds))
	if job.EstimateKnown {
		fmt.Fprintf(out, "  Remaining:   %s (%s per item)\n", formatSeconds(job.ETASeconds), formatSeconds(job.AvgSecondsPerItem))
	}
	if job.ErrorMessage != "" {
		fmt.Fprintf(out, "  Error:       %s\n", job.ErrorMessage)
	}
	if len(job.Errors) > 0 {
		fmt.Fprintf(out, "  Item errors (%d total):\n", job.ErrorsTotal)
		for _, entry := range job.Errors {
			fmt.Fprintf(out, "    - %s\n", entry)
		}
		if job.ErrorsTotal > len(job.Errors) {
			fmt.Fprintf(out, "    ... and %d more\n", job.ErrorsTotal-len(job.Errors))
		}
	}
}

func boolPtr(v bool) *bool {
	return &v
}
