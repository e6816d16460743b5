package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggingPrepare_Silent(t *testing.T) {
	conf := &LoggingConfig{
		FileLogger:    LoggerConfig{Level: "none"},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	// everything is a nop core; logging must not touch the filesystem
	log.Info("dropped")
	log.Error("dropped too")
	_ = log.Sync()
}

func TestLoggingPrepare_FileDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "run.log")
	conf := &LoggingConfig{
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Info("render finished")
	log.Debug("filtered at normal level")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "render finished") {
		t.Errorf("log file missing info entry:\n%s", data)
	}
	if strings.Contains(string(data), "filtered at normal level") {
		t.Errorf("debug entry written at normal level:\n%s", data)
	}
	// entries carry the application name
	if !strings.Contains(string(data), AppName) {
		t.Errorf("log entries not named after the application:\n%s", data)
	}
}

func TestLoggingPrepare_ReportForcesDebug(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "run.log")

	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("reporter Prepare() error = %v", err)
	}
	defer rpt.Close()

	conf := &LoggingConfig{
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "append"},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}
	log, err := conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("verbose for the report")
	_ = log.Sync()

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "verbose for the report") {
		t.Errorf("report did not force debug level:\n%s", data)
	}
}
