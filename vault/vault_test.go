package vault

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammdias/tvault/crypt"
)

// fakeCryptor stands in for gpg: "ciphertext" is the plaintext behind a
// marker prefix, so tests can see exactly what would hit the disk.
type fakeCryptor struct {
	failDecrypt bool
	failEncrypt bool
	keys        map[string]bool
	lastMode    crypt.Mode
}

func (f *fakeCryptor) Encrypt(_ context.Context, plaintext []byte, outPath string, mode crypt.Mode) error {
	if f.failEncrypt {
		return errors.New("encrypt blew up")
	}
	f.lastMode = mode
	return os.WriteFile(outPath, append([]byte("enc:"), plaintext...), 0600)
}

func (f *fakeCryptor) Decrypt(_ context.Context, path string) ([]byte, error) {
	if f.failDecrypt {
		return nil, errors.New("decrypt blew up")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(data, []byte("enc:")), nil
}

func (f *fakeCryptor) HasUsableKey(_ context.Context, keyID string) (bool, error) {
	return f.keys[keyID], nil
}

func newTestStore(t *testing.T) (*Store, *fakeCryptor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tvault")
	fake := &fakeCryptor{keys: map[string]bool{"0123ABCD": true}}
	return New(path, fake, nil), fake, path
}

func TestLoadBootstrapsMissingVault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _, path := newTestStore(t)
	require.NoError(t, store.Load(ctx))

	// the empty vault must exist on disk, encrypted symmetric
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Empty(t, store.Services())
	_, recipientMode := store.Recipient()
	assert.False(t, recipientMode)

	// a second load sees the same empty vault
	again := New(path, &fakeCryptor{}, nil)
	require.NoError(t, again.Load(ctx))
	assert.Empty(t, again.Services())
}

func TestAddReadBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, fake, path := newTestStore(t)
	require.NoError(t, store.Load(ctx))

	name, err := store.Add("  github  ", "jbswy3dpehpk3pxp")
	require.NoError(t, err)
	assert.Equal(t, "github", name)
	require.NoError(t, store.Save(ctx))

	reload := New(path, fake, nil)
	require.NoError(t, reload.Load(ctx))
	secret, err := reload.Secret("github")
	require.NoError(t, err)
	// stored verbatim beyond trimming, case untouched
	assert.Equal(t, "jbswy3dpehpk3pxp", secret)
}

func TestAddRejectsInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _, _ := newTestStore(t)
	require.NoError(t, store.Load(ctx))

	_, err := store.Add("my:service", "ABC234")
	require.Error(t, err)
	assert.Empty(t, store.Services())
}

func TestDeleteMissingLeavesVaultUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _, path := newTestStore(t)
	require.NoError(t, store.Load(ctx))
	_, err := store.Add("github", "ABC234")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	err = store.Delete("nosuch")
	require.True(t, IsNotFound(err))
	var notFound NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nosuch", string(notFound))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed delete must not rewrite the vault")
}

func TestCorruptVault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, _, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("enc:good:ABC234\nbroken line\n"), 0600))

	err := store.Load(ctx)
	var corrupt CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.NotErrorIs(t, err, ErrWrongPassOrCorrupt)
}

func TestWrongPasswordOrCorrupt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, fake, path := newTestStore(t)
	require.NoError(t, store.Load(ctx))

	fake.failDecrypt = true
	err := store.Load(ctx)
	require.ErrorIs(t, err, ErrWrongPassOrCorrupt)
	assert.Contains(t, err.Error(), path)
}

func TestFailedEncryptKeepsOldVault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, fake, path := newTestStore(t)
	require.NoError(t, store.Load(ctx))
	_, err := store.Add("github", "ABC234")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = store.Add("mail", "DEF567")
	require.NoError(t, err)
	fake.failEncrypt = true
	require.Error(t, store.Save(ctx))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "old ciphertext must survive a failed write")

	// no plaintext temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecipientMode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, fake, path := newTestStore(t)
	require.NoError(t, store.Load(ctx))
	_, err := store.Add("github", "ABC234")
	require.NoError(t, err)

	require.NoError(t, store.SetRecipient(ctx, "0123ABCD"))
	require.NoError(t, store.Save(ctx))

	keyID, ok := fake.lastMode.Recipient()
	require.True(t, ok, "save should have encrypted to the recipient")
	assert.Equal(t, "0123ABCD", keyID)

	// the sentinel is persisted...
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-recipient:0123ABCD")

	// ...restored on load, and never listed
	reload := New(path, fake, nil)
	require.NoError(t, reload.Load(ctx))
	keyID, ok = reload.Recipient()
	require.True(t, ok)
	assert.Equal(t, "0123ABCD", keyID)
	assert.Equal(t, []string{"github"}, reload.Services())

	// back to symmetric
	reload.ClearRecipient()
	require.NoError(t, reload.Save(ctx))
	_, ok = fake.lastMode.Recipient()
	assert.False(t, ok)
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "-recipient")
}

func TestSetRecipientUnknownKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, fake, _ := newTestStore(t)
	require.NoError(t, store.Load(ctx))

	err := store.SetRecipient(ctx, "FEEDBEEF")
	var notFound RecipientNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "FEEDBEEF", string(notFound))

	// mode unchanged: a save still encrypts symmetric
	require.NoError(t, store.Save(ctx))
	_, ok := fake.lastMode.Recipient()
	assert.False(t, ok)
}
