package comic

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/genai"

	"comicgen/pkg/inference"
	"comicgen/pkg/utils"
)

type ErrorKind string

const (
	KindQuota   ErrorKind = "quota"
	KindRegion  ErrorKind = "region"
	KindKey     ErrorKind = "key"
	KindSafety  ErrorKind = "safety"
	KindNetwork ErrorKind = "network"
	KindOther   ErrorKind = "other"
)

// Classify maps an image-model failure onto the error taxonomy.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if inference.IsBlocked(err) {
		return KindSafety
	}

	msg := err.Error()
	switch {
	case utils.StringContains(msg, false, "quota", "limit", "resource_exhausted"):
		return KindQuota
	case utils.StringContains(msg, false, "not available", "region", "location is not supported"):
		return KindRegion
	case utils.StringContains(msg, false, "api key", "api_key", "unauthenticated", "permission denied", "permission_denied"):
		return KindKey
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return KindQuota
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindKey
		}
		return KindOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) ||
		utils.StringContains(msg, false, "connection refused", "connection reset", "no such host", "network", "timeout") {
		return KindNetwork
	}
	return KindOther
}

// PanelError is returned when one panel exhausts its attempts.
type PanelError struct {
	Panel    int
	Kind     ErrorKind
	Attempts int
	Err      error
}

func (e *PanelError) Error() string {
	return fmt.Sprintf("panel %d failed after %d attempt(s) (%s): %v", e.Panel, e.Attempts, e.Kind, e.Err)
}

func (e *PanelError) Unwrap() error { return e.Err }

// UserMessage is the text shown to API clients.
func (e *PanelError) UserMessage() string {
	switch e.Kind {
	case KindQuota:
		return fmt.Sprintf("image API quota exhausted or rate limited (panel %d)", e.Panel)
	case KindRegion:
		return fmt.Sprintf("image generation is not available in this region (panel %d)", e.Panel)
	case KindKey:
		return fmt.Sprintf("image API key is invalid or missing (panel %d)", e.Panel)
	case KindSafety:
		return fmt.Sprintf("the image model declined panel %d for content-safety reasons", e.Panel)
	case KindNetwork:
		return fmt.Sprintf("network error while generating panel %d", e.Panel)
	default:
		return fmt.Sprintf("failed to generate panel %d: %v", e.Panel, e.Err)
	}
}

// ValidationError reports bad client input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UserMessage returns the client-facing text for any generation error.
func UserMessage(err error) string {
	var pe *PanelError
	if errors.As(err, &pe) {
		return pe.UserMessage()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out, please try again"
	}
	return err.Error()
}
