package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	referencePrefix = "AIR"
	referenceChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateBookingReference produces a short human-readable code such as
// AIR1234ABCD: prefix, the last four digits of the current millisecond
// clock, and four random characters. Uniqueness is not checked here; the
// unique constraint on the reference column catches the rare collision at
// write time.
func GenerateBookingReference() string {
	var sb strings.Builder
	sb.WriteString(referencePrefix)
	fmt.Fprintf(&sb, "%04d", time.Now().UnixMilli()%10000)
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		sb.WriteByte(referenceChars[n.Int64()])
	}
	return sb.String()
}
