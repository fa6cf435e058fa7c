// Package slog provides logging decorators for docrag services using log/slog.
// Each decorator logs one record per call with its duration and error.
// Calls made once per item (embeddings, page fetches) log at debug level.
package slog

import "log/slog"

// level returns the record level for a call that finished with err.
func level(base slog.Level, err error) slog.Level {
	if err != nil {
		return slog.LevelError
	}
	return base
}
