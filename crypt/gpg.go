package crypt

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// GPG implements Cryptor by invoking GnuPG. Passphrase prompting is gpg's
// own business (pinentry), this package never sees it.
type GPG struct {
	bin string
	log *zap.Logger
}

// NewGPG wraps the gpg binary at bin. log may be nil.
func NewGPG(bin string, log *zap.Logger) *GPG {
	if log == nil {
		log = zap.NewNop()
	}
	return &GPG{bin: bin, log: log}
}

func (g *GPG) Encrypt(ctx context.Context, plaintext []byte, outPath string, mode Mode) error {
	args := []string{"--quiet", "--armour", "--yes", "--output", outPath}
	if keyID, ok := mode.Recipient(); ok {
		args = append(args, "--encrypt", "--recipient", keyID)
	} else {
		args = append(args, "--symmetric")
	}

	g.log.Debug("invoking gpg", zap.Strings("args", args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.bin, args...)
	cmd.Stdin = bytes.NewReader(plaintext)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ExecError{Tool: "gpg", Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return nil
}

func (g *GPG) Decrypt(ctx context.Context, path string) ([]byte, error) {
	args := []string{"--quiet", "--decrypt", path}

	g.log.Debug("invoking gpg", zap.Strings("args", args))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, g.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ExecError{Tool: "gpg", Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}

// HasUsableKey lists secret keys matching keyID in machine-readable form and
// accepts only those with ultimate or full validity.
func (g *GPG) HasUsableKey(ctx context.Context, keyID string) (bool, error) {
	args := []string{"--list-secret-keys", "--with-colons", keyID}

	g.log.Debug("invoking gpg", zap.Strings("args", args))

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, g.bin, args...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		// gpg exits nonzero when no key matches
		return false, nil
	}

	for _, line := range strings.Split(stdout.String(), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 2 || fields[0] != "sec" {
			continue
		}
		if fields[1] == "u" || fields[1] == "f" {
			return true, nil
		}
	}
	return false, nil
}
