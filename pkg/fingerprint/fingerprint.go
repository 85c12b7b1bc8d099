// Package fingerprint hashes raw documents so unchanged content can be
// detected without parsing it again. The hash is not meant for security.
package fingerprint

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Of returns the 16 hex digit xxhash64 of data.
func Of(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
