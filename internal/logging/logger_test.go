package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackmux/internal/config"
	"trackmux/internal/logging"
	"trackmux/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("file message")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "trackmux.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "file message") {
		t.Fatalf("expected message in log file, got %q", content)
	}
	if strings.Contains(string(content), "\x1b[") {
		t.Fatalf("expected no colour codes in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")
	if strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", buf.String())
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")
	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerRendersComponentAndColour(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Console: &buf, Color: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "composer").Warn("slow job", logging.Int64(logging.FieldJobID, 7))
	out := buf.String()
	if !strings.Contains(out, "composer: slow job") {
		t.Fatalf("expected component prefix, got %q", out)
	}
	if !strings.Contains(out, "job_id=7") {
		t.Fatalf("expected job_id attribute, got %q", out)
	}
	if !strings.Contains(out, "\x1b[33mWARN") {
		t.Fatalf("expected coloured level label, got %q", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if record["msg"] != "json message" || record["k"] != "v" || record["level"] != "info" {
		t.Fatalf("unexpected json record: %#v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %#v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Console: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected info level filtering, got %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithMediaPackage(ctx, "mp-1")
	ctx = services.WithOperation(ctx, "select-tracks")
	ctx = services.WithRequestID(ctx, "req-xyz")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	want := map[string]string{
		logging.FieldMediaPackage:  "mp-1",
		logging.FieldOperation:     "select-tracks",
		logging.FieldCorrelationID: "req-xyz",
	}
	for key, value := range want {
		if record[key] != value {
			t.Fatalf("field %s = %v, want %q", key, record[key], value)
		}
	}
}

func TestDecisionAttrs(t *testing.T) {
	attrs := logging.DecisionAttrs("audio_muxing", "force", "target present")
	if len(attrs) != 3 || attrs[0].Key != logging.FieldDecisionType {
		t.Fatalf("unexpected decision attrs: %#v", attrs)
	}
	if !logging.HasAttrKey(attrs, logging.FieldDecisionReason) {
		t.Fatal("expected decision_reason attr")
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With(logging.JobArgs(4, "mux-av.work")...)

	logging.WarnWithContext(logger, "composer job failed", "composer_job_failed",
		logging.String(logging.FieldErrorHint, "inspect the job"),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	want := map[string]any{
		logging.FieldEventType: "composer_job_failed",
		logging.FieldErrorHint: "inspect the job",
		logging.FieldImpact:    "track selection for this media package stops",
		logging.FieldJobID:     float64(4),
		logging.FieldProfile:   "mux-av.work",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("%s = %v, want %v", key, entry[key], value)
		}
	}
}
