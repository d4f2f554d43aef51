// Package zap builds the gateway's logger.Logger on top of go.uber.org/zap.
// In development mode it prepends a colorized "[GATEWAY]" tag to every line
// (via github.com/fatih/color, written through a Windows-safe
// github.com/mattn/go-colorable writer) for a pleasant local console;
// outside development mode it emits plain structured JSON suitable for a log
// aggregator.
package zap

import (
	"encoding/json"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/relaygate/gateway/internal/logger"
)

type prependEncoder struct {
	zapcore.Encoder
	cfg  zapcore.EncoderConfig
	pool buffer.Pool
}

func (e *prependEncoder) Clone() zapcore.Encoder {
	return &prependEncoder{
		Encoder: zapcore.NewConsoleEncoder(e.cfg),
		pool:    buffer.NewPool(),
		cfg:     e.cfg,
	}
}

func (e *prependEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := e.pool.Get()
	blue := color.New(color.BgBlue)
	red := color.New(color.BgRed)

	coloredPrefix := blue.Sprint("[GATEWAY]")
	if entry.Level != zapcore.InfoLevel {
		coloredPrefix = red.Sprint("[GATEWAY]")
	}

	buf.AppendString(coloredPrefix)
	buf.AppendString(" ")
	buf.AppendString(levelPrefix(entry.Level))
	buf.AppendString(" | ")
	buf.AppendString(time.Now().Format(time.RFC3339))
	buf.AppendString(" | ")

	consolebuf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}

	if _, err := buf.Write(consolebuf.Bytes()); err != nil {
		return nil, err
	}
	return buf, nil
}

func levelPrefix(lvl zapcore.Level) string {
	switch lvl {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARN"
	case zapcore.ErrorLevel:
		return "ERROR"
	case zapcore.FatalLevel:
		return "FATAL"
	}
	return ""
}

func zapLevel(level string) zapcore.Level {
	switch level {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger builds a logger.Logger at the given threshold level ("DEBUG",
// "INFO", "WARNING", "ERROR"). When development is true, output is a
// colorized single-line console format; otherwise it is structured JSON on
// stdout/stderr.
func NewLogger(level string, development bool) logger.Logger {
	threshold := zapLevel(level)

	if !development {
		rawJSON := []byte(`{
			"encoding": "json",
			"outputPaths": ["stdout"],
			"errorOutputPaths": ["stderr"],
			"encoderConfig": {
			  "messageKey": "message",
			  "levelKey": "level",
			  "timeKey": "timestamp",
			  "levelEncoder": "lowercase",
			  "timeEncoder": "iso8601"
			}
		  }`)

		var cfg zap.Config
		if err := json.Unmarshal(rawJSON, &cfg); err != nil {
			panic(err)
		}
		cfg.Level = zap.NewAtomicLevelAt(threshold)
		return zap.Must(cfg.Build()).Sugar()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.LevelKey = zapcore.OmitKey
	encCfg.TimeKey = zapcore.OmitKey

	enc := &prependEncoder{
		Encoder: zapcore.NewConsoleEncoder(encCfg),
		pool:    buffer.NewPool(),
		cfg:     encCfg,
	}

	zapLogger := zap.New(zapcore.NewCore(
		enc,
		zapcore.AddSync(colorable.NewColorableStdout()),
		threshold,
	))

	return zapLogger.Sugar()
}
