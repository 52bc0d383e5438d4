package utils

import (
	"crypto/md5"
	"fmt"
)

// HashString returns a stable cache key for arbitrary answer text.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}
