package main

import (
	"errors"
	"os"

	"github.com/opd-ai/chapterpress/internal/config"
	"github.com/opd-ai/chapterpress/internal/document"
)

// Exit codes for the chapterpress CLI.
const (
	ExitSuccess = 0 // document written or server stopped cleanly
	ExitGeneral = 1 // unexpected error
	ExitUsage   = 2 // invalid flags, config or request
	ExitIO      = 3 // file not found, permission denied
)

// exitCodeFor maps err to an exit code. Callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, document.ErrFileIO) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrRequestFile) ||
		errors.Is(err, config.ErrConfigRead) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		document.IsInputError(err) {
		return ExitUsage
	}

	return ExitGeneral
}
