// README: Scan handler; decodes an uploaded label image to its payload.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"justonemore/internal/modules/qrcode"
)

// Uploads larger than this are rejected before decoding.
const maxScanImageBytes = 8 << 20

type ScanHandler struct {
	qr *qrcode.Service
}

func NewScanHandler(svc *qrcode.Service) *ScanHandler {
	return &ScanHandler{qr: svc}
}

// Decode reads the "image" form file and returns the embedded payload.
func (h *ScanHandler) Decode(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		writeError(c, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxScanImageBytes+1))
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable image")
		return
	}
	if len(raw) > maxScanImageBytes {
		writeError(c, http.StatusRequestEntityTooLarge, "image too large")
		return
	}

	payload, err := h.qr.Decode(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, qrcode.ErrNotFound) {
			writeError(c, http.StatusNotFound, "no code found in image")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"payload": payload})
}
