package render

import (
	"encoding/base64"
	"net/http"
)

// Base64 encodes image bytes with standard base64
func Base64(image []byte) string {
	return base64.StdEncoding.EncodeToString(image)
}

// DataURI embeds image bytes in a data URI usable as an <img> source
func DataURI(image []byte) string {
	return "data:" + http.DetectContentType(image) + ";base64," + Base64(image)
}
