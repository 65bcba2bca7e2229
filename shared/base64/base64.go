package base64

import (
	stdBase64 "encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
)

var ErrNotDataURL = errors.New("value is not a base64 data URL")

func GetContentType(file string) string {
	start := len(dataPrefix)
	end := strings.Index(file, base64Marker)

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode splits a data URL such as "data:image/png;base64,iVBO..." into its content
// type and decoded payload.
func Decode(file string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(file, dataPrefix) {
		return "", nil, ErrNotDataURL
	}

	contentType = GetContentType(file)
	if contentType == "" {
		return "", nil, ErrNotDataURL
	}

	payload := file[strings.Index(file, base64Marker)+len(base64Marker):]

	data, err = stdBase64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return contentType, data, nil
}

// Size returns the decoded byte length of a data URL payload without decoding it.
func Size(file string) int {
	idx := strings.Index(file, base64Marker)
	if idx == -1 {
		return 0
	}

	return stdBase64.StdEncoding.DecodedLen(len(file)-idx-len(base64Marker)) - strings.Count(file[idx:], "=")
}
