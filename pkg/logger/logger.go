package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how verbosely the service logs.
type Options struct {
	Level    string // debug, info, warn, error
	Filename string // rotate into this file when set, stdout otherwise
	Stdout   bool   // also write to stdout when Filename is set
}

// New builds a JSON zap logger.
func New(opts Options) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		writeSyncer(opts),
		parseLevel(opts.Level),
	)
	return zap.New(core, zap.AddCaller())
}

func writeSyncer(opts Options) zapcore.WriteSyncer {
	if opts.Filename == "" {
		return zapcore.AddSync(os.Stdout)
	}
	rotating := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})
	if opts.Stdout {
		return zapcore.NewMultiWriteSyncer(rotating, zapcore.AddSync(os.Stdout))
	}
	return rotating
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
