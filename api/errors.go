// Copyright 2025 Poiesic Systems
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

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode identifies the kind of failure in an error response.
type ErrorCode string

const (
	ErrorCodeInvalidJSON    ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeNotConverged   ErrorCode = "NOT_CONVERGED"
	ErrorCodeUnavailable    ErrorCode = "KNOWLEDGE_BASE_UNAVAILABLE"
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// SendError writes a standardized error response.
func SendError(c *gin.Context, status int, code ErrorCode, message string) {
	resp := ErrorResponse{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(requestIDKey),
	}
	c.AbortWithStatusJSON(status, resp)
}

func sendInternalError(c *gin.Context, logger *slog.Logger, operation string, err error) {
	logger.Error("request failed",
		"operation", operation,
		"request_id", c.GetString(requestIDKey),
		"error", err)
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, operation+" failed")
}
