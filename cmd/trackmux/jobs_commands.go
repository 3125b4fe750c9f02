package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trackmux/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and maintain the composer job store",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsStatusCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))
	jobsCmd.AddCommand(newJobsResetCommand(ctx))

	return jobsCmd
}

func newJobsStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show job counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range jobs.AllStatuses() {
					rows = append(rows, []string{string(status), strconv.Itoa(stats[status])})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List composer jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]jobs.Status, 0, len(listStatuses))
			for _, raw := range listStatuses {
				status, err := jobs.ParseStatus(raw)
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			}
			return ctx.withStore(func(store *jobs.Store) error {
				list, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if asJSON {
					views := make([]jobView, 0, len(list))
					for _, job := range list {
						views = append(views, newJobView(job))
					}
					return writeJSON(cmd, views)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No jobs")
					return nil
				}
				rows := make([][]string, 0, len(list))
				for _, job := range list {
					rows = append(rows, []string{
						strconv.FormatInt(job.ID, 10),
						string(job.Type),
						job.Profile,
						string(job.Status),
						formatTimestamp(job.CreatedAt),
						formatDuration(job.QueueTime()),
						formatDuration(job.RunTime()),
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Type", "Profile", "Status", "Created", "Queued", "Ran"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (queued, running, finished, failed)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print jobs as JSON")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one composer job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return ctx.withStore(func(store *jobs.Store) error {
				job, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if job == nil {
					return fmt.Errorf("job %d not found", id)
				}
				if asJSON {
					return writeJSON(cmd, newJobView(job))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job %d (%s, %s)\n", job.ID, job.Type, job.Profile)
				fmt.Fprintf(out, "  Status:   %s\n", job.Status)
				fmt.Fprintf(out, "  Created:  %s\n", formatTimestamp(job.CreatedAt))
				fmt.Fprintf(out, "  Queued:   %s\n", formatDuration(job.QueueTime()))
				fmt.Fprintf(out, "  Ran:      %s\n", formatDuration(job.RunTime()))
				if job.Args.VideoURI != "" {
					fmt.Fprintf(out, "  Video:    %s\n", job.Args.VideoURI)
				}
				if job.Args.AudioURI != "" {
					fmt.Fprintf(out, "  Audio:    %s\n", job.Args.AudioURI)
				}
				if job.Args.SourceURI != "" {
					fmt.Fprintf(out, "  Source:   %s\n", job.Args.SourceURI)
				}
				if job.Error != "" {
					fmt.Fprintf(out, "  Error:    %s\n", job.Error)
				}
				if job.Payload != "" {
					fmt.Fprintf(out, "  Payload:\n%s\n", job.Payload)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the job as JSON")
	return cmd
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove finished and failed jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				removed, err := store.ClearFinished(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
				return nil
			})
		},
	}
}

func newJobsResetCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Fail jobs left running by an interrupted process",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("reset marks every running job as failed; pass --force when no select is in progress")
			}
			return ctx.withStore(func(store *jobs.Store) error {
				reset, err := store.ResetStuckRunning(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %d running job(s) as failed\n", reset)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Confirm that no other trackmux process is running jobs")
	return cmd
}

type jobView struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	Profile     string     `json:"profile"`
	Status      string     `json:"status"`
	Args        jobs.Args  `json:"args"`
	Payload     string     `json:"payload,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	QueueTimeMS int64      `json:"queue_time_ms"`
}

func newJobView(job *jobs.Job) jobView {
	return jobView{
		ID:          job.ID,
		Type:        string(job.Type),
		Profile:     job.Profile,
		Status:      string(job.Status),
		Args:        job.Args,
		Payload:     job.Payload,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		FinishedAt:  job.FinishedAt,
		QueueTimeMS: job.QueueTime().Milliseconds(),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
