package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BookingNumberPrefix is the fixed prefix of every service booking number.
const BookingNumberPrefix = "SRV"

var bookingNumberPattern = regexp.MustCompile(`^SRV\d{8}[0-9A-F]{6}$`)

// NewBookingNumber generates a booking number of the form
// SRV + YYYYMMDD + 6 uppercase hex characters, e.g. SRV2024061734F9A2.
// Uniqueness is enforced by the store; callers retry on collision.
func NewBookingNumber(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived suffix rather than panicking in a request path.
		return fmt.Sprintf("%s%s%06X", BookingNumberPrefix, now.Format("20060102"), now.UnixNano()&0xFFFFFF)
	}
	return BookingNumberPrefix + now.Format("20060102") + strings.ToUpper(hex.EncodeToString(buf))
}

// IsBookingNumber reports whether s is a well-formed booking number.
func IsBookingNumber(s string) bool {
	return bookingNumberPattern.MatchString(s)
}
