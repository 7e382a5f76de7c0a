package mqtt

import (
	"fmt"
	"log/slog"
)

// pahoLogger routes the paho library's internal logging into slog.
type pahoLogger struct {
	logger *slog.Logger
	level  slog.Level
}

func newPahoLogger(logger *slog.Logger, level slog.Level) *pahoLogger {
	return &pahoLogger{logger: logger, level: level}
}

func (l *pahoLogger) Println(v ...any) {
	l.print(fmt.Sprint(v...))
}

func (l *pahoLogger) Printf(format string, v ...any) {
	l.print(fmt.Sprintf(format, v...))
}

func (l *pahoLogger) print(msg string) {
	switch l.level {
	case slog.LevelError:
		l.logger.Error(msg)
	case slog.LevelWarn:
		l.logger.Warn(msg)
	case slog.LevelDebug:
		l.logger.Debug(msg)
	default:
		l.logger.Info(msg)
	}
}
