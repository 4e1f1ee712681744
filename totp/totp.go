// Package totp generates time-based one-time codes from base32 secrets,
// either through the host's oathtool or with a built-in generator.
package totp

import (
	"context"
	"fmt"
	"strings"
	"time"

	otplib "github.com/pquerna/otp/totp"
)

// Generator is the code generation collaborator.
type Generator interface {
	Code(ctx context.Context, secret string) (string, error)
}

// Builtin computes codes in-process. It is the fallback when oathtool is not
// installed on the host.
type Builtin struct{}

func (Builtin) Code(_ context.Context, secret string) (string, error) {
	secret = strings.ToUpper(strings.TrimSpace(secret))
	if n := len(strings.TrimRight(secret, "=")) % 8; n != 0 {
		secret = strings.TrimRight(secret, "=") + strings.Repeat("=", 8-n)
	}

	code, err := otplib.GenerateCode(secret, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return code, nil
}
