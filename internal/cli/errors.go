// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bcem/wealthbox/internal/runlock"
	"github.com/bcem/wealthbox/internal/wealthbox"
)

// Process exit codes.
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitAuth       = 2
	ExitNotFound   = 3
	ExitValidation = 4
	ExitRateLimit  = 5
	ExitNetwork    = 6
	ExitReadonly   = 10
)

// Error codes reported with --json.
const (
	CodeAuthRequired = "AUTH_REQUIRED"
	CodeAuthFailed   = "AUTH_FAILED"
	CodeReadonly     = "READONLY_MODE"
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeRateLimit    = "RATE_LIMIT"
	CodeNetwork      = "NETWORK_ERROR"
	CodeAPI          = "API_ERROR"
	CodeResponse     = "RESPONSE_ERROR"
	CodeLocked       = "EXPORT_LOCKED"
	CodeIncomplete   = "EXPORT_INCOMPLETE"
	CodeAborted      = "EXPORT_ABORTED"
	CodeNoLedger     = "LEDGER_NOT_CONFIGURED"
	CodeUnknown      = "UNKNOWN_ERROR"
)

// ExitError is an error with a machine-readable code and an exit status.
type ExitError struct {
	Code     string
	Message  string
	ExitCode int
}

func (e *ExitError) Error() string { return e.Message }

func usageError(msg string) error {
	return &ExitError{Code: CodeValidation, Message: msg, ExitCode: ExitValidation}
}

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Sprintf(format, args...))
}

// classify maps any error to an ExitError.
func classify(err error) *ExitError {
	var (
		exitErr *ExitError
		rateErr *wealthbox.RateLimitError
		apiErr  *wealthbox.APIError
		respErr *wealthbox.ResponseError
		keyErr  *wealthbox.MissingKeyError
		urlErr  *url.Error
	)
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case errors.As(err, &rateErr):
		return &ExitError{Code: CodeRateLimit, Message: err.Error(), ExitCode: ExitRateLimit}
	case errors.As(err, &apiErr):
		return classifyAPI(apiErr, err)
	case errors.As(err, &respErr), errors.As(err, &keyErr):
		return &ExitError{Code: CodeResponse, Message: err.Error(), ExitCode: ExitGeneral}
	case errors.Is(err, runlock.ErrLocked):
		return &ExitError{Code: CodeLocked, Message: err.Error(), ExitCode: ExitGeneral}
	case errors.As(err, &urlErr):
		return &ExitError{Code: CodeNetwork, Message: err.Error(), ExitCode: ExitNetwork}
	case isCobraUsage(err):
		return &ExitError{Code: CodeValidation, Message: err.Error(), ExitCode: ExitValidation}
	}
	return &ExitError{Code: CodeUnknown, Message: err.Error(), ExitCode: ExitGeneral}
}

func classifyAPI(apiErr *wealthbox.APIError, err error) *ExitError {
	e := &ExitError{Code: CodeAPI, Message: err.Error(), ExitCode: ExitGeneral}
	switch apiErr.StatusCode {
	case 401, 403:
		e.Code, e.ExitCode = CodeAuthFailed, ExitAuth
	case 404:
		e.Code, e.ExitCode = CodeNotFound, ExitNotFound
	case 400, 422:
		e.Code, e.ExitCode = CodeValidation, ExitValidation
	}
	return e
}

// isCobraUsage matches the argument and flag errors cobra returns without
// going through the flag error func.
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"required flag(s)", "unknown command", "if any flags in the group", "accepts ", "requires at least"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func (a *App) reportError(err error) int {
	e := classify(err)
	if a.opts.json {
		data, _ := json.Marshal(map[string]any{
			"error":     true,
			"code":      e.Code,
			"message":   e.Message,
			"exit_code": e.ExitCode,
		})
		fmt.Fprintln(a.Stderr, string(data))
	} else {
		fmt.Fprintf(a.Stderr, "Error: %s\n", e.Message)
	}
	return e.ExitCode
}
