// Package qr builds pre-registration links and renders them as QR code PNGs.
package qr

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG width and height in pixels.
const DefaultSize = 256

// PreregistrationURL returns the pre-registration page link for contact.
func PreregistrationURL(baseURL, contact string) string {
	return strings.TrimRight(baseURL, "/") + "/preregister?contact=" + url.QueryEscape(contact)
}

// Encode renders content as a PNG QR code at DefaultSize.
func Encode(content string) ([]byte, error) {
	return EncodeSize(content, DefaultSize)
}

// EncodeSize renders content as a PNG QR code of the given size.
func EncodeSize(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("empty QR content")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return png, nil
}
