// Package crypt drives the external encryption tool that guards the vault.
// Plaintext only ever crosses a pipe to the tool; it is never written to
// disk by this package.
package crypt

import (
	"context"
	"fmt"
)

// Mode selects how the vault is encrypted.
type Mode struct {
	recipient string
}

// Symmetric is passphrase encryption, the first-run default.
func Symmetric() Mode {
	return Mode{}
}

// ToRecipient is public-key encryption to the key identified by keyID.
func ToRecipient(keyID string) Mode {
	return Mode{recipient: keyID}
}

// Recipient returns the target key id and whether the mode is asymmetric.
func (m Mode) Recipient() (string, bool) {
	return m.recipient, len(m.recipient) != 0
}

// Cryptor is the encryption collaborator. Implementations are blocking and
// honor ctx only between invocations, not inside a running tool.
type Cryptor interface {
	// Encrypt writes ciphertext for plaintext to outPath. It must not
	// leave partial output behind on failure.
	Encrypt(ctx context.Context, plaintext []byte, outPath string, mode Mode) error

	// Decrypt returns the plaintext of the file at path. A failure does
	// not distinguish a wrong passphrase from corrupted ciphertext.
	Decrypt(ctx context.Context, path string) ([]byte, error)

	// HasUsableKey reports whether a usable, trusted secret key for keyID
	// exists in the keyring.
	HasUsableKey(ctx context.Context, keyID string) (bool, error)
}

// ExecError occurs when the external tool exits nonzero. Stderr carries the
// tool's own diagnostic, surfaced verbatim to the user.
type ExecError struct {
	Tool   string
	Stderr string
	Err    error
}

// Error interface
func (e *ExecError) Error() string {
	if len(e.Stderr) != 0 {
		return fmt.Sprintf("%s: %s", e.Tool, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
