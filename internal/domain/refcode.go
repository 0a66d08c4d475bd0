package domain

import (
	"crypto/rand"
	"fmt"
	"time"
)

const refCodePrefix = "AWB"

const refCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRefCode generates a human-readable booking reference: a fixed tag, a
// UTC time component and a random suffix. Uniqueness is probabilistic here;
// the real guarantee is the ref_id unique constraint in the store.
func NewRefCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = refCodeAlphabet[int(b)%len(refCodeAlphabet)]
	}
	return fmt.Sprintf("%s-%s-%s", refCodePrefix, time.Now().UTC().Format("060102150405"), string(buf))
}
