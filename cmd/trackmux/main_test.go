package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/mediapackage"
	"trackmux/internal/testsupport"
)

type cliTestEnv struct {
	baseDir      string
	configPath   string
	workspaceDir string
	mediaDir     string
}

// ffmpegStub writes a placeholder file to its last argument.
const ffmpegStub = "#!/bin/sh\nfor last; do :; done\necho composed > \"$last\"\n"

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	if err := os.WriteFile(ffmpeg, []byte(ffmpegStub), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	env := &cliTestEnv{
		baseDir:      base,
		configPath:   filepath.Join(base, "config.toml"),
		workspaceDir: filepath.Join(base, "workspace"),
		mediaDir:     filepath.Join(base, "media"),
	}
	content := fmt.Sprintf(`[paths]
workspace_dir = %q
state_dir = %q
log_dir = %q

[composer]
ffmpeg_binary = %q
output_dir = %q
poll_interval_ms = 5

[logging]
level = "error"
`,
		env.workspaceDir,
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
		ffmpeg,
		filepath.Join(base, "composer"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) writeManifest(t *testing.T, tracks ...*mediapackage.Track) string {
	t.Helper()
	mp := mediapackage.New("mp-cli")
	for _, track := range tracks {
		if _, err := mp.Add(track); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	manifest := filepath.Join(e.baseDir, "mp.xml")
	if err := mediapackage.SaveManifestFile(manifest, mp); err != nil {
		t.Fatalf("SaveManifestFile: %v", err)
	}
	return manifest
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}

func (e *cliTestEnv) sourceTrack(t *testing.T, id, flavor string, audio bool) *mediapackage.Track {
	t.Helper()
	return testsupport.MediaTrack(t, e.mediaDir, id, flavor, audio, true)
}

func TestCLISelectClonesWithoutJobs(t *testing.T) {
	env := setupCLITestEnv(t)
	manifest := env.writeManifest(t, env.sourceTrack(t, "presenter", "presenter/source", true))

	stdout, _, err := runCLI(t, env, "select", "--manifest", manifest,
		"--param", "source-flavor=*/source",
		"--param", "target-flavor=*/work",
	)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	requireContains(t, stdout, "presenter/work")

	mp, err := mediapackage.LoadManifestFile(manifest)
	if err != nil {
		t.Fatalf("LoadManifestFile: %v", err)
	}
	if mp.Len() != 2 {
		t.Fatalf("expected source plus clone, got %d tracks", mp.Len())
	}
}

func TestCLISelectDuplicateRunsComposer(t *testing.T) {
	env := setupCLITestEnv(t)
	manifest := env.writeManifest(t,
		env.sourceTrack(t, "presenter", "presenter/source", true),
		env.sourceTrack(t, "slides", "presentation/source", false),
	)
	out := filepath.Join(env.baseDir, "out.xml")

	stdout, _, err := runCLI(t, env, "select", "--manifest", manifest, "--out", out, "--json",
		"--param", "source-flavor=*/source",
		"--param", "target-flavor=*/work",
		"--param", "audio-muxing=duplicate",
	)
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	var report selectReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if len(report.Tracks) != 2 {
		t.Fatalf("expected two selected tracks, got %+v", report.Tracks)
	}
	var muxed *trackView
	for i := range report.Tracks {
		if report.Tracks[i].Flavor == "presentation/work" {
			muxed = &report.Tracks[i]
		}
	}
	if muxed == nil || !muxed.HasAudio {
		t.Fatalf("expected muxed presentation track with audio, got %+v", report.Tracks)
	}
	path, err := mediapackage.LocalPath(muxed.URI)
	if err != nil {
		t.Fatalf("LocalPath: %v", err)
	}
	if !strings.HasPrefix(path, env.workspaceDir) {
		t.Fatalf("expected output relocated into workspace, got %s", path)
	}
	if filepath.Base(path) != "slides.mp4" {
		t.Fatalf("expected output named after source track, got %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("relocated file missing: %v", err)
	}

	jobsOut, _, err := runCLI(t, env, "jobs", "list")
	if err != nil {
		t.Fatalf("jobs list: %v", err)
	}
	requireContains(t, jobsOut, "mux-av.work")
	requireContains(t, jobsOut, "finished")
}

func TestCLISelectRejectsInvalidParameters(t *testing.T) {
	env := setupCLITestEnv(t)
	manifest := env.writeManifest(t,
		env.sourceTrack(t, "presenter", "presenter/source", true),
		env.sourceTrack(t, "slides", "presentation/source", false),
	)

	stdout, _, err := runCLI(t, env, "select", "--manifest", manifest, "--json",
		"--param", "source-flavor=*/source",
		"--param", "target-flavor=*/work",
		"--param", "audio-muxing=FORCE",
	)
	if err == nil {
		t.Fatal("expected invalid audio-muxing to fail")
	}
	requireContains(t, stdout, `"kind": "configuration"`)

	mp, err := mediapackage.LoadManifestFile(manifest)
	if err != nil {
		t.Fatalf("LoadManifestFile: %v", err)
	}
	if mp.Len() != 2 {
		t.Fatalf("expected manifest untouched, got %d tracks", mp.Len())
	}
}

func TestCLISelectRequiresManifest(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "select"); err == nil {
		t.Fatal("expected missing --manifest to fail")
	}
}

func TestCLIProfiles(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, env, "profiles")
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	requireContains(t, stdout, "mux-av.work")
	requireContains(t, stdout, "video-only.work")
}

func TestCLICheck(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := runCLI(t, env, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, stdout)
	}
	requireContains(t, stdout, "FFmpeg")
	requireContains(t, stdout, "[OK]")
	requireContains(t, stdout, "5 of 5 checks passed")
}

func TestCLIJobsShowUnknown(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "jobs", "show", "42"); err == nil {
		t.Fatal("expected unknown job to fail")
	}
}

func TestCLIJobsResetRequiresForce(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "jobs", "reset"); err == nil {
		t.Fatal("expected reset without --force to fail")
	}
	stdout, _, err := runCLI(t, env, "jobs", "reset", "--force")
	if err != nil {
		t.Fatalf("jobs reset: %v", err)
	}
	requireContains(t, stdout, "Marked 0")
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "init", "config.toml")

	stdout, _, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, target)
	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}

	stdout, _, err = runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Configuration valid")
}

func TestCLISelectRefusesLockedPackage(t *testing.T) {
	env := setupCLITestEnv(t)
	manifest := env.writeManifest(t, env.sourceTrack(t, "presenter", "presenter/source", true))

	cfg := &config.Config{}
	cfg.Paths.StateDir = filepath.Join(env.baseDir, "state")
	lock, err := lockMediaPackage(cfg, "mp-cli")
	if err != nil {
		t.Fatalf("lockMediaPackage: %v", err)
	}
	defer lock.Unlock()

	_, _, err = runCLI(t, env, "select", "--manifest", manifest,
		"--param", "source-flavor=*/source",
		"--param", "target-flavor=*/work",
	)
	if err == nil || !strings.Contains(err.Error(), "already being processed") {
		t.Fatalf("expected lock contention error, got %v", err)
	}
}

func TestReloadManifestReadsLatestCopy(t *testing.T) {
	env := setupCLITestEnv(t)
	manifest := env.writeManifest(t, env.sourceTrack(t, "presenter", "presenter/source", true))

	// Simulate another run saving its additions after the first read.
	updated := mediapackage.New("mp-cli")
	for _, track := range []*mediapackage.Track{
		env.sourceTrack(t, "presenter", "presenter/source", true),
		env.sourceTrack(t, "presenter-work", "presenter/work", true),
	} {
		if _, err := updated.Add(track); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := mediapackage.SaveManifestFile(manifest, updated); err != nil {
		t.Fatalf("SaveManifestFile: %v", err)
	}

	mp, err := reloadManifest(manifest, "mp-cli")
	if err != nil {
		t.Fatalf("reloadManifest: %v", err)
	}
	if mp.Len() != 2 {
		t.Fatalf("expected the saved additions, got %d tracks", mp.Len())
	}

	if _, err := reloadManifest(manifest, "mp-other"); err == nil {
		t.Fatal("expected error when the manifest names another media package")
	}
}
