package class

import (
	"log/slog"
	"sync/atomic"
)

// pkgLogger is the package-wide logger used for composition and dispatch
// diagnostics. SetLogger may race with Extend and Parent.
var pkgLogger atomic.Pointer[slog.Logger]

// SetLogger overrides the package logger.
//
// If not set, or set to nil, slog.Default() is used.
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}
