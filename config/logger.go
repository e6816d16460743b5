package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" sanitize:"path_clean,assure_dir_exists_for_file" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	FileLogger    LoggerConfig `yaml:"file"`
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare builds the program logger: informational output on stdout, errors on
// stderr, plus an optional file core. When a debug report is requested the
// file core is forced to full verbosity so the report carries everything.
func (conf *LoggingConfig) Prepare(rpt *Report) (*zap.Logger, error) {
	stdout, stderr := conf.consoleCores()

	file, redirected, err := conf.fileCore(rpt)
	if err != nil {
		return nil, err
	}

	log := zap.New(zapcore.NewTee(stdout, stderr, file), zap.AddCaller())
	if redirected != "" {
		log.Warn("Log file was redirected to new location", zap.String("location", redirected))
	}
	return log.Named(AppName), nil
}

// consoleCores splits console output: everything below error level goes to
// stdout, errors to stderr with verbose error fields stripped.
func (conf *LoggingConfig) consoleCores() (stdout, stderr zapcore.Core) {
	var floor zapcore.Level
	switch conf.ConsoleLogger.Level {
	case "normal":
		floor = zapcore.InfoLevel
	case "debug":
		floor = zapcore.DebugLevel
	default:
		return zapcore.NewNopCore(), zapcore.NewNopCore()
	}

	encoderFor := func(stream *os.File) zapcore.EncoderConfig {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		if EnableColorOutput(stream) {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
			ec.TimeKey = zapcore.OmitKey
		} else {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		return ec
	}

	stdout = zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderFor(os.Stdout)),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return floor <= lvl && lvl < zapcore.ErrorLevel
		}))
	stderr = zapcore.NewCore(
		newConsoleErrEncoder(encoderFor(os.Stderr)),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel
		}))
	return stdout, stderr
}

// fileCore prepares the file logging core, capturing the panic output next to
// the log and registering both with the debug report. An inaccessible
// destination falls back to a temporary file; redirected names the fallback.
func (conf *LoggingConfig) fileCore(rpt *Report) (core zapcore.Core, redirected string, err error) {
	level := conf.FileLogger.Level
	mode := conf.FileLogger.Mode
	if rpt != nil {
		level = "debug"
		mode = "overwrite"
	}

	var atom zap.AtomicLevel
	switch level {
	case "debug":
		atom = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "normal":
		atom = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		return zapcore.NewNopCore(), "", nil
	}

	open := func(fname string) (*os.File, error) {
		flags := os.O_CREATE | os.O_WRONLY
		if mode == "append" {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		return os.OpenFile(fname, flags, 0644)
	}

	// capture panic output if possible
	panicName := filepath.Join(filepath.Dir(conf.FileLogger.Destination), AppName+"-panic.log")
	pf, perr := open(panicName)
	if perr != nil {
		pf, perr = os.CreateTemp("", AppName+"-panic.*.log")
	}
	if perr == nil {
		debug.SetCrashOutput(pf, debug.CrashOptions{})
		rpt.Store("panic.log", pf.Name())
		pf.Close()
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	f, ferr := open(conf.FileLogger.Destination)
	if ferr != nil {
		if f, ferr = os.CreateTemp("", AppName+".*.log"); ferr != nil {
			return nil, "", fmt.Errorf("unable to access file log destination (%s): %w", conf.FileLogger.Destination, ferr)
		}
		redirected = f.Name()
	}
	rpt.Store("final.log", f.Name())
	return zapcore.NewCore(encoder, zapcore.Lock(f), atom), redirected, nil
}

// consoleErrEncoder shortens error fields on the console - the verbose chain
// stays in the file log.
type consoleErrEncoder struct {
	zapcore.Encoder
}

func newConsoleErrEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleErrEncoder{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleErrEncoder) Clone() zapcore.Encoder {
	return consoleErrEncoder{c.Encoder.Clone()}
}

func (c consoleErrEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	flat := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			f.Interface = errors.New(f.Interface.(error).Error())
		}
		flat = append(flat, f)
	}
	return c.Encoder.EncodeEntry(ent, flat)
}
