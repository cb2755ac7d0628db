// README: Scan payload format and the two-tier image decode pipeline.
package qrcode

import (
	"context"
	"errors"
	"strings"

	"justonemore/internal/types"
)

// FormatTag identifies payloads minted by this system. A dish's payload is
// "JOM1|<dish-id>", bound to the dish at creation and never changed.
const FormatTag = "JOM1"

const payloadDelimiter = "|"

var (
	// ErrNotFound means no decoder produced a payload from the image.
	ErrNotFound = errors.New("qr code not found")
	// ErrBadPayload means a string is not a well-formed scan payload.
	ErrBadPayload = errors.New("malformed scan payload")
)

// EncodePayload builds the scan payload for a dish id.
func EncodePayload(id types.ID) string {
	return FormatTag + payloadDelimiter + string(id)
}

// DecodePayload extracts the dish id from a scan payload. Strings not
// produced by EncodePayload fail with ErrBadPayload. Typed manual codes go
// through the exact same check as decoded scans.
func DecodePayload(payload string) (types.ID, error) {
	tag, rest, ok := strings.Cut(payload, payloadDelimiter)
	if !ok || tag != FormatTag || rest == "" {
		return "", ErrBadPayload
	}
	return types.ID(rest), nil
}

// Detector reads a machine-readable code out of raw image bytes. An empty
// string with a nil error means the image contained no readable code.
type Detector interface {
	Detect(imageBytes []byte) (string, error)
}

// RemoteDecoder is the hosted fallback decode service.
type RemoteDecoder interface {
	Decode(ctx context.Context, imageBytes []byte) (string, error)
}

// Service is the image decode pipeline: local detection first, hosted
// fallback second, first success wins. The service never retries; a failed
// decode yields ErrNotFound and the actor falls back to manual code entry.
type Service struct {
	detector       Detector
	remote         RemoteDecoder
	remoteFallback bool
}

func NewService(detector Detector, remote RemoteDecoder, remoteFallback bool) *Service {
	return &Service{detector: detector, remote: remote, remoteFallback: remoteFallback}
}

// Decode resolves image bytes to a payload string. Detector and transport
// failures are soft: the only error ever returned is ErrNotFound.
func (s *Service) Decode(ctx context.Context, imageBytes []byte) (string, error) {
	if s.detector != nil {
		if payload, err := s.detector.Detect(imageBytes); err == nil && payload != "" {
			return payload, nil
		}
	}

	if !s.remoteFallback || s.remote == nil {
		return "", ErrNotFound
	}
	payload, err := s.remote.Decode(ctx, imageBytes)
	if err != nil || payload == "" {
		return "", ErrNotFound
	}
	return payload, nil
}
