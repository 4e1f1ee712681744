package totp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Oathtool generates codes by invoking the oathtool binary, preferred over
// Builtin when the host has it.
type Oathtool struct {
	bin string
	log *zap.Logger
}

// NewOathtool wraps the oathtool binary at bin. log may be nil.
func NewOathtool(bin string, log *zap.Logger) *Oathtool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Oathtool{bin: bin, log: log}
}

func (o *Oathtool) Code(ctx context.Context, secret string) (string, error) {
	o.log.Debug("invoking oathtool", zap.String("bin", o.bin))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, o.bin, "--base32", "--totp", secret)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if diag := strings.TrimSpace(stderr.String()); len(diag) != 0 {
			return "", fmt.Errorf("oathtool: %s", diag)
		}
		return "", fmt.Errorf("oathtool: %w", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
