package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const DefaultQuality = 90

var (
	ErrEncode = errors.New("failed to encode image")
	ErrDecode = errors.New("failed to decode image")
)

// EncodeJPEG encodes img as JPEG at the given quality without resizing it.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrEncode)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrEncode, b)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return buf.Bytes(), nil
}

// DecodeImage decodes any registered format (JPEG, PNG, GIF, BMP, TIFF).
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return img, nil
}

// ToNRGBA returns a mutable copy of img.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}
