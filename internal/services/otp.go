package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTP channels.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// OTPTTL is how long an issued code stays valid.
const OTPTTL = 10 * time.Minute

// GenerateOTP returns a 6-digit zero-padded code from crypto/rand.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPExpired reports whether a code issued at the given time is past its
// window. A nil issue time means no live code exists.
func OTPExpired(issuedAt *time.Time, now time.Time) bool {
	if issuedAt == nil {
		return true
	}
	return now.Sub(*issuedAt) > OTPTTL
}
