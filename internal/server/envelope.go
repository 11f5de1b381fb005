package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/Sternrassler/vehicle-catalog/pkg/cache"
	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

// Response is the success envelope.
type Response struct {
	Status string       `json:"status"`
	Debug  *Diagnostics `json:"debug,omitempty"`
	Data   any          `json:"data"`
}

// ErrorResponse is the failure envelope. Error carries internal detail only
// when the server exposes errors.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// RefreshResponse answers a manual refresh.
type RefreshResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Diagnostics describes how a debug response's snapshot was obtained.
type Diagnostics struct {
	FromCache        bool    `json:"from_cache"`
	CacheAge         *string `json:"cache_age"`
	RefreshScheduled bool    `json:"refresh_scheduled"`
	Source           string  `json:"source"`
	Version          string  `json:"version"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func diagnostics(res cache.Result) *Diagnostics {
	d := &Diagnostics{
		FromCache:        res.FromCache,
		RefreshScheduled: res.RefreshScheduled,
		Source:           res.Snapshot.Source,
		Version:          res.Snapshot.Version,
	}
	if res.FromCache {
		age := fmt.Sprintf("%d seconds", int64(res.Age.Round(time.Second)/time.Second))
		d.CacheAge = &age
	}
	return d
}

// ok writes data in the success envelope, with diagnostics in debug mode.
func ok(c fiber.Ctx, data any, res cache.Result, debug bool) error {
	resp := Response{Status: statusSuccess, Data: data}
	if debug {
		resp.Debug = diagnostics(res)
	}
	return c.JSON(resp)
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch catalog.KindOf(err) {
	case catalog.KindInvalidInput:
		return fiber.StatusBadRequest
	case catalog.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// errorHandler renders every handler error in the failure envelope.
func (s *Server) errorHandler(c fiber.Ctx, err error) error {
	code := statusFor(err)
	resp := ErrorResponse{
		Status:    statusError,
		Message:   publicMessage(err, code),
		RequestID: requestid.FromContext(c),
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("request_id", resp.RequestID).
			Str("path", c.Path()).
			Str("kind", string(catalog.KindOf(err))).
			Msg("Request failed")
		if s.config.ExposeErrors {
			resp.Error = err.Error()
		}
	}
	return c.Status(code).JSON(resp)
}

func publicMessage(err error, code int) string {
	var ce *catalog.Error
	switch {
	case code == fiber.StatusNotFound && !errors.As(err, &ce):
		return "Endpoint not found"
	case code == fiber.StatusMethodNotAllowed:
		return "Method not allowed"
	case code < fiber.StatusInternalServerError && errors.As(err, &ce):
		return ce.Message
	case code < fiber.StatusInternalServerError:
		return err.Error()
	case catalog.KindOf(err) == catalog.KindUpstreamLoad:
		return "Failed to load catalog data"
	default:
		return "Internal server error"
	}
}

// debugMode reports whether the request asked for a cache bypass.
func debugMode(c fiber.Ctx) bool {
	b, err := strconv.ParseBool(c.Query("debug"))
	return err == nil && b
}
