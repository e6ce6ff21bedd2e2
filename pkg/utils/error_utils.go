/*
 * stream-share is a project to efficiently share the use of an IPTV service.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrorDetailLevel represents the level of error detail to display
type ErrorDetailLevel int

const (
	// ErrorDetailNone suppresses all additional error information
	ErrorDetailNone ErrorDetailLevel = iota
	// ErrorDetailSimple shows file, line and function (default)
	ErrorDetailSimple
	// ErrorDetailFull adds a stack trace
	ErrorDetailFull
)

func getErrorDetailLevel() ErrorDetailLevel {
	switch strings.ToLower(os.Getenv("ERROR_DETAIL_LEVEL")) {
	case "none":
		return ErrorDetailNone
	case "full":
		return ErrorDetailFull
	default:
		return ErrorDetailSimple
	}
}

// locatedError keeps the original error reachable through errors.Is/As
// while prefixing it with where it was raised.
type locatedError struct {
	prefix string
	err    error
}

func (e *locatedError) Error() string { return e.prefix + e.err.Error() }

func (e *locatedError) Unwrap() error { return e.err }

// formatError wraps err with the location of the caller skip frames above it.
func formatError(err error, skip int) error {
	if err == nil {
		return nil
	}

	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return &locatedError{prefix: "error occurred: ", err: err}
	}
	fnName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		fnName = fn.Name()
	}

	if getErrorDetailLevel() == ErrorDetailFull {
		buffer := make([]byte, 4096)
		n := runtime.Stack(buffer, false)
		stackLines := strings.Split(string(buffer[:n]), "\n")
		if len(stackLines) > 0 {
			stackLines = stackLines[1:]
		}
		return &locatedError{
			prefix: fmt.Sprintf("\nError Location:\n  Full Path: %s\n  File: %s\n  Line: %d\n  Function: %s\nError Details:\n  ",
				file, filepath.Base(file), line, fnName),
			err: stackSuffix{err, strings.Join(stackLines, "\n")},
		}
	}

	return &locatedError{
		prefix: fmt.Sprintf("%s:%d [%s]: ", filepath.Base(file), line, filepath.Base(fnName)),
		err:    err,
	}
}

// stackSuffix prints a stack trace after the wrapped error message.
type stackSuffix struct {
	err   error
	stack string
}

func (s stackSuffix) Error() string { return s.err.Error() + "\nStack Trace:\n" + s.stack }

func (s stackSuffix) Unwrap() error { return s.err }

// ErrorWithLocation wraps an error with the caller location.
func ErrorWithLocation(err error) error {
	return formatError(err, 2)
}

// PrintErrorAndReturn prints the located error to stderr unless
// ERROR_DETAIL_LEVEL is "none", then returns it.
func PrintErrorAndReturn(err error) error {
	if err == nil {
		return nil
	}

	wrappedErr := formatError(err, 2)
	if getErrorDetailLevel() != ErrorDetailNone {
		fmt.Fprintln(os.Stderr, wrappedErr)
	}
	return wrappedErr
}
