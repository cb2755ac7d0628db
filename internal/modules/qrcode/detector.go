// README: On-device QR detection backed by gozxing.
package qrcode

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
)

// LocalDetector decodes QR codes in-process, with no network dependency.
type LocalDetector struct {
	reader gozxing.Reader
}

func NewLocalDetector() *LocalDetector {
	return &LocalDetector{reader: zxqr.NewQRCodeReader()}
}

// Detect returns the QR text in the image, or "" when the bytes are not a
// decodable image or contain no QR code. It never fails hard; an undecodable
// frame is an expected outcome of a handheld camera pipeline.
func (d *LocalDetector) Detect(imageBytes []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", nil
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", nil
	}
	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		return "", nil
	}
	return result.GetText(), nil
}
