package logger

import (
	"log/slog"
	"os"
)

var Log *slog.Logger

// Init configures the process-wide JSON logger. debug widens the level for
// local runs; production stays at info.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}
