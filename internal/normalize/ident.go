package normalize

// recordIDPrefix is the kind-neutral prefix the upstream table store puts on
// every opaque record identifier.
const recordIDPrefix = "rec"

// recordIDMinLen guards against short display names that happen to start
// with the prefix ("record", "recess").
const recordIDMinLen = 12

// IsRecordID reports whether a token has the external record identifier
// shape: the fixed prefix followed by an alphanumeric tail of minimum
// length. A legitimate name could in principle match this shape; that is an
// accepted approximation of the upstream ID format.
func IsRecordID(s string) bool {
	if len(s) < recordIDMinLen || s[:len(recordIDPrefix)] != recordIDPrefix {
		return false
	}
	for i := len(recordIDPrefix); i < len(s); i++ {
		c := s[i]
		if !isAlnum(c) {
			return false
		}
	}
	return true
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
