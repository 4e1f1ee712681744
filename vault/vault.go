// Package vault owns the encrypted record store and its lifecycle: load,
// decrypt, parse, mutate in memory, serialize, encrypt, write. Plaintext
// never touches the disk.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"github.com/ammdias/tvault/crypt"
	"github.com/ammdias/tvault/recordfmt"
)

// Store is the vault for one command invocation. It exclusively owns the
// file at path and the decrypted records for that duration; concurrent
// invocations racing on the same file are not protected against.
type Store struct {
	path    string
	cryptor crypt.Cryptor
	log     *zap.Logger

	records *recordfmt.Records

	// recipient mirrors the -recipient sentinel record, which is stripped
	// from records at load and re-injected at save. Empty means symmetric.
	recipient string
}

// New creates a Store over the vault file at path. log may be nil.
func New(path string, cryptor crypt.Cryptor, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		path:    path,
		cryptor: cryptor,
		log:     log,
		records: recordfmt.New(),
	}
}

// Load decrypts and parses the vault file. A missing file is first-run: an
// empty symmetric vault is written, then loaded like any other.
func (s *Store) Load(ctx context.Context) error {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("vault file absent, bootstrapping", zap.String("path", s.path))
		s.records = recordfmt.New()
		s.recipient = ""
		if err := s.Save(ctx); err != nil {
			return err
		}
	}

	plaintext, err := s.cryptor.Decrypt(ctx, s.path)
	if err != nil {
		return fmt.Errorf("%w at %q", ErrWrongPassOrCorrupt, s.path)
	}

	records, err := recordfmt.Parse(plaintext)
	if err != nil {
		return CorruptError{Path: s.path, Err: err}
	}

	if keyID, ok := records.Get(recordfmt.SentinelRecipient); ok {
		s.recipient = keyID
		records.Delete(recordfmt.SentinelRecipient)
	} else {
		s.recipient = ""
	}
	s.records = records

	s.log.Debug("vault loaded",
		zap.Int("records", records.Len()),
		zap.Bool("recipient_mode", len(s.recipient) != 0))
	return nil
}

// Save serializes and encrypts the records over the vault file. Ciphertext
// is written to a temporary sibling first and renamed into place, so a
// failing encrypt leaves the previous vault intact.
func (s *Store) Save(ctx context.Context) error {
	out := s.records.Clone()
	mode := crypt.Symmetric()
	if len(s.recipient) != 0 {
		out.Set(recordfmt.SentinelRecipient, s.recipient)
		mode = crypt.ToRecipient(s.recipient)
	}
	payload := recordfmt.Encode(out)

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.%s.tmp", s.path, id)

	if err := s.cryptor.Encrypt(ctx, payload, tmp, mode); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to write vault file at %q: %w", s.path, err)
	}
	if err := os.Chmod(tmp, 0600); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("unable to write vault file at %q: %w", s.path, err)
	}

	s.log.Debug("vault saved", zap.Int("records", s.records.Len()))
	return nil
}

// Add sanitizes and stores a service, overwriting any previous secret for
// the same name. Returns the normalized name.
func (s *Store) Add(name, secret string) (string, error) {
	name, secret, err := recordfmt.Sanitize(name, secret)
	if err != nil {
		return "", err
	}
	s.records.Set(name, secret)
	return name, nil
}

// Delete removes a service.
func (s *Store) Delete(name string) error {
	if !s.records.Delete(name) {
		return NotFoundError(name)
	}
	return nil
}

// Secret returns the stored secret for a service, exactly as stored.
func (s *Store) Secret(name string) (string, error) {
	secret, ok := s.records.Get(name)
	if !ok {
		return "", NotFoundError(name)
	}
	return secret, nil
}

// Services returns the visible service names in insertion order. The
// recipient sentinel is never among them.
func (s *Store) Services() []string {
	return s.records.Visible()
}

// SetRecipient switches future encryption to public-key mode for keyID,
// after verifying the keyring holds a usable secret key for it. On failure
// the mode is unchanged.
func (s *Store) SetRecipient(ctx context.Context, keyID string) error {
	ok, err := s.cryptor.HasUsableKey(ctx, keyID)
	if err != nil {
		return err
	}
	if !ok {
		return RecipientNotFoundError(keyID)
	}
	s.recipient = keyID
	return nil
}

// ClearRecipient reverts to symmetric mode. No-op when already symmetric.
func (s *Store) ClearRecipient() {
	s.recipient = ""
}

// Recipient returns the current key id and whether recipient mode is active.
func (s *Store) Recipient() (string, bool) {
	return s.recipient, len(s.recipient) != 0
}
