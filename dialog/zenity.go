package dialog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Zenity implements Dialog by invoking the zenity binary. Zenity exits with
// status 1 when the user cancels a dialog.
type Zenity struct {
	bin string
	log *zap.Logger
}

// NewZenity wraps the zenity binary at bin. log may be nil.
func NewZenity(bin string, log *zap.Logger) *Zenity {
	if log == nil {
		log = zap.NewNop()
	}
	return &Zenity{bin: bin, log: log}
}

func (z *Zenity) ChooseOne(ctx context.Context, title string, options []string) (string, error) {
	args := []string{"--list", "--title", title, "--column", title, "--hide-header"}
	args = append(args, options...)
	return z.capture(ctx, args)
}

func (z *Zenity) PromptText(ctx context.Context, label string) (string, error) {
	return z.capture(ctx, []string{"--entry", "--title", "TOTP Vault", "--text", label})
}

func (z *Zenity) Info(ctx context.Context, text string) {
	_, _ = z.capture(ctx, []string{"--info", "--title", "TOTP Vault", "--text", text})
}

func (z *Zenity) Error(ctx context.Context, text string) {
	_, _ = z.capture(ctx, []string{"--error", "--title", "TOTP Vault", "--text", text})
}

func (z *Zenity) capture(ctx context.Context, args []string) (string, error) {
	z.log.Debug("invoking zenity", zap.Strings("args", args))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, z.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", ErrCancelled
		}
		if diag := strings.TrimSpace(stderr.String()); len(diag) != 0 {
			return "", fmt.Errorf("zenity: %s", diag)
		}
		return "", fmt.Errorf("zenity: %w", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
