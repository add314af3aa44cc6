package logic

import "bytes"

// verifiedMarkers are the two accepted spellings of the trigger field.
// This is a substring scan, not a JSON parse: the single producer emits one of these.
var verifiedMarkers = [][]byte{
	[]byte(`"verified":true`),
	[]byte(`"verified": true`),
}

// IsVerified reports whether a notification payload should trigger the alert.
func IsVerified(payload []byte) bool {
	for _, m := range verifiedMarkers {
		if bytes.Contains(payload, m) {
			return true
		}
	}
	return false
}
