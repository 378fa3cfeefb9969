/* models.go
 * This file contains the configuration and the request/response types of the HTTP server
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"time"

	"confidence-pool/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr           string
	API            *api.API
	AllowedOrigins []string
	// RateLimit is the number of requests per second allowed per client. Zero disables rate limiting
	RateLimit float64
	RateBurst int
	// RateIdle is how long a client can go without a request before its limiter is dropped
	RateIdle time.Duration
	// TrustProxy makes the server take the client address from X-Real-IP or X-Forwarded-For. Only set it when the
	// server sits behind a proxy that sets those headers
	TrustProxy   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server for the confidence pool REST API
type Server struct {
	api     *api.API
	cfg     Config
	limiter *clientLimiter
	handler http.Handler
}

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// MessageResponse is the body of responses that only confirm an action
type MessageResponse struct {
	Message string `json:"message"`
}

// DependentRequest is the body for creating or renaming a dependent
type DependentRequest struct {
	DisplayName string `json:"displayName"`
}

// duplicateConfidenceDetails is the detail of a DuplicateConfidenceValue error
type duplicateConfidenceDetails struct {
	Value int    `json:"value"`
	Round string `json:"round"`
}
