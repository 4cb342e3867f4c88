package config

import (
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger. With a log file set, output goes
// to a size-rotated file; otherwise it goes to stderr. Rotation keeps the
// file bounded when watch mode runs for days.
func NewLogger(logFile string) *log.Logger {
	if logFile == "" {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}, "", log.LstdFlags)
}
