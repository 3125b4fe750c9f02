package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"trackmux/internal/composer"
	"trackmux/internal/config"
	"trackmux/internal/logging"
	"trackmux/internal/mediapackage"
	"trackmux/internal/preflight"
	"trackmux/internal/selecttracks"
	"trackmux/internal/services"
	"trackmux/internal/workflow"
	"trackmux/internal/workspace"
)

type selectOptions struct {
	manifest      string
	out           string
	params        []string
	json          bool
	skipPreflight bool
}

type trackView struct {
	ID       string   `json:"id"`
	Flavor   string   `json:"flavor"`
	URI      string   `json:"uri"`
	HasAudio bool     `json:"has_audio"`
	HasVideo bool     `json:"has_video"`
	Tags     []string `json:"tags,omitempty"`
}

type selectReport struct {
	MediaPackage string      `json:"media_package"`
	Manifest     string      `json:"manifest"`
	Action       string      `json:"action"`
	QueueTimeMS  int64       `json:"queue_time_ms"`
	Tracks       []trackView `json:"tracks"`
}

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var opts selectOptions

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Run track selection on a media package manifest",
		Long:  "Run track selection on a media package manifest.\n\nParameters:\n" + describeParameters(),
		Example: "  trackmux select --manifest mp.xml --param source-flavor='*/source' --param target-flavor='*/work' \\\n" +
			"    --param audio-muxing=force --param hide_presentation_audio=true",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "Media package manifest (XML)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the updated manifest here instead of in place")
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "Operation parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "Skip binary and directory checks")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func runSelect(cmd *cobra.Command, ctx *commandContext, opts selectOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	store, err := ctx.ensureStore()
	if err != nil {
		return err
	}

	params, err := workflow.ParseParams(opts.params)
	if err != nil {
		return err
	}

	if !opts.skipPreflight {
		if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
			parts := make([]string, 0, len(failed))
			for _, r := range failed {
				parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
			}
			return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
		}
	}

	manifestPath, err := config.ExpandPath(opts.manifest)
	if err != nil {
		return fmt.Errorf("resolve manifest path: %w", err)
	}
	mp, err := mediapackage.LoadManifestFile(manifestPath)
	if err != nil {
		return err
	}

	lock, err := lockMediaPackage(cfg, mp.ID())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release media package lock", logging.Error(err))
		}
	}()
	// Another run may have saved the manifest between the first read and the
	// lock, so work from the copy on disk now.
	if mp, err = reloadManifest(manifestPath, mp.ID()); err != nil {
		return err
	}

	local, err := composer.NewLocal(cfg, store, logger)
	if err != nil {
		return err
	}
	defer local.Close()

	ws, wsCloser, err := workspace.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer wsCloser.Close()

	handler, err := selecttracks.NewHandler(local, ws, logger)
	if err != nil {
		return err
	}

	before := mp.Len()
	result, runErr := handler.Start(cmd.Context(), mp, params)

	outPath := manifestPath
	if strings.TrimSpace(opts.out) != "" {
		if outPath, err = config.ExpandPath(opts.out); err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
	}
	// Tracks added before a failure stay in the package, so the manifest is
	// written either way.
	if mp.Len() != before || outPath != manifestPath {
		if err := mediapackage.SaveManifestFile(outPath, mp); err != nil {
			return errors.Join(runErr, err)
		}
	}
	if runErr != nil {
		if opts.json {
			_ = writeJSON(cmd, jsonError{Error: runErr.Error(), Kind: services.Kind(runErr)})
		}
		return runErr
	}

	report := selectReport{
		MediaPackage: mp.ID(),
		Manifest:     outPath,
		Action:       string(result.Action),
		QueueTimeMS:  result.QueueTime.Milliseconds(),
		Tracks:       trackViews(mp, result.Tracks),
	}
	if opts.json {
		return writeJSON(cmd, report)
	}
	renderSelectReport(cmd, report, result.QueueTime)
	return nil
}

func lockMediaPackage(cfg *config.Config, mediaPackageID string) (*flock.Flock, error) {
	dir := filepath.Join(cfg.Paths.StateDir, "locks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, mediaPackageID+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("media package %s is already being processed", mediaPackageID)
	}
	return lock, nil
}

func reloadManifest(path, mediaPackageID string) (*mediapackage.MediaPackage, error) {
	mp, err := mediapackage.LoadManifestFile(path)
	if err != nil {
		return nil, err
	}
	if mp.ID() != mediaPackageID {
		return nil, fmt.Errorf("manifest %s changed media package from %s to %s", path, mediaPackageID, mp.ID())
	}
	return mp, nil
}

// trackViews describes the tracks an invocation reported as selected.
func trackViews(mp *mediapackage.MediaPackage, handles []mediapackage.Handle) []trackView {
	views := make([]trackView, 0, len(handles))
	for _, h := range handles {
		track := mp.Track(h)
		views = append(views, trackView{
			ID:       track.ID,
			Flavor:   track.Flavor.String(),
			URI:      track.URI,
			HasAudio: track.HasAudio,
			HasVideo: track.HasVideo,
			Tags:     slices.Clone(track.Tags),
		})
	}
	return views
}

func renderSelectReport(cmd *cobra.Command, report selectReport, queueTime time.Duration) {
	out := cmd.OutOrStdout()
	if len(report.Tracks) == 0 {
		fmt.Fprintln(out, "No tracks selected")
		return
	}
	rows := make([][]string, 0, len(report.Tracks))
	for _, t := range report.Tracks {
		rows = append(rows, []string{t.ID, t.Flavor, yesNo(t.HasVideo), yesNo(t.HasAudio), strings.Join(t.Tags, ","), t.URI})
	}
	fmt.Fprint(out, renderTable(
		[]string{"ID", "Flavor", "Video", "Audio", "Tags", "URI"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "\nQueue time: %s\n", queueTime.Round(time.Millisecond))
	fmt.Fprintf(out, "Manifest:   %s\n", report.Manifest)
}

func describeParameters() string {
	options := selecttracks.ConfigurationOptions()
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "  %-20s %s\n", key, options[key])
	}
	return b.String()
}
