// Package log provides the structured logger shared by the opusdec
// package and its cmd tools. It wraps zap the way ausocean-av's cmd
// binaries wrap their own logging.Logger around lumberjack: construct
// once at startup with a rotating file sink, then pass the resulting
// Logger down to whatever needs to log.
package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a structured, leveled logger. The zero value is not usable;
// construct one with New or Nop.
type Logger struct {
	s *zap.SugaredLogger
}

// Nop returns a Logger that discards everything. Decoder uses this as
// its default so library callers never see output unless they opt in
// with a WithLogger option.
func Nop() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

// Config controls where and how verbosely New logs.
type Config struct {
	// Path is the log file path. If empty, logs go to Extra only.
	Path string
	// MaxSizeMB, MaxBackups, and MaxAgeDays configure lumberjack
	// rotation of Path; they are ignored if Path is empty.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// Debug enables debug-level output; otherwise the floor is Info.
	Debug bool
	// Extra, if non-nil, receives a copy of every log line in addition
	// to Path (e.g. os.Stderr for a CLI tool).
	Extra io.Writer
}

// New builds a Logger from cfg. A zero Config is valid and logs
// info-and-above to Extra only (or nowhere, if Extra is nil).
func New(cfg Config) *Logger {
	var writers []zapcore.WriteSyncer
	if cfg.Path != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
		}))
	}
	if cfg.Extra != nil {
		writers = append(writers, zapcore.AddSync(cfg.Extra))
	}
	if len(writers) == 0 {
		return Nop()
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(writers...),
		level,
	)
	return &Logger{s: zap.New(core).Sugar()}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (l *Logger) Debug(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.s.Debugw(msg, kv...)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.s.Infow(msg, kv...)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.s.Warnw(msg, kv...)
}

func (l *Logger) Error(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.s.Errorw(msg, kv...)
}

// Sync flushes buffered log entries. Callers should defer Sync at
// program exit; errors are deliberately discarded, matching zap's own
// documented advice that Sync on stderr/stdout commonly errors on
// Linux even when nothing is actually wrong.
func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.s.Sync()
}
