// README: QR image rendering for printable dish labels.
package qrcode

import (
	qrc "github.com/skip2/go-qrcode"
)

const renderSizePx = 256

// Render produces a PNG image of the payload suitable for printing and
// attaching to a dish container. Artifact storage is the caller's concern.
func Render(payload string) ([]byte, error) {
	return qrc.Encode(payload, qrc.Medium, renderSizePx)
}
