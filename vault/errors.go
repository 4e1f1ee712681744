package vault

import (
	"errors"
	"fmt"
)

// ErrWrongPassOrCorrupt occurs when the decrypt invocation fails. The
// encryption tool does not tell a bad passphrase apart from mangled
// ciphertext, so neither do we.
var ErrWrongPassOrCorrupt = errors.New("wrong password or corrupted vault file")

// NotFoundError occurs when a referenced service is not in the store.
type NotFoundError string

// Error interface
func (n NotFoundError) Error() string {
	return fmt.Sprintf("service %q not found", string(n))
}

// RecipientNotFoundError occurs when a requested public key has no usable,
// trusted secret key in the keyring. The encryption mode is left unchanged.
type RecipientNotFoundError string

// Error interface
func (r RecipientNotFoundError) Error() string {
	return fmt.Sprintf("no usable secret key for %q in the keyring", string(r))
}

// CorruptError occurs when decrypted vault content fails the record format
// contract. The vault is never auto-repaired.
type CorruptError struct {
	Path string
	Err  error
}

// Error interface
func (c CorruptError) Error() string {
	return fmt.Sprintf("vault file at %q is corrupted: %v", c.Path, c.Err)
}

func (c CorruptError) Unwrap() error {
	return c.Err
}

// IsNotFound checks if the error is a missing-service error.
func IsNotFound(err error) bool {
	var n NotFoundError
	return errors.As(err, &n)
}
