// Package recordfmt implements the plaintext vault format: one name:secret
// record per line, blank lines and ';' comments ignored, with a reserved
// -recipient entry carrying the public key id in asymmetric mode.
package recordfmt

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
)

// SentinelRecipient is the reserved record name that stores the key id the
// vault is encrypted to. It starts with a dash so it can never collide with
// a sanitized service name.
const SentinelRecipient = "-recipient"

// BadLineError occurs when a decrypted vault line does not follow the
// name:secret contract. The whole parse fails, the vault is not partially
// recovered.
type BadLineError struct {
	Line int
	Text string
}

// Error interface
func (b BadLineError) Error() string {
	return fmt.Sprintf("corrupted record on line %d: %q", b.Line, b.Text)
}

// Record is a single service name / secret pair.
type Record struct {
	Name   string
	Secret string
}

// Records is an ordered name -> secret mapping. Setting an existing name
// overwrites its secret in place, new names append.
type Records struct {
	entries []Record
	index   map[string]int
}

// New creates an empty record set.
func New() *Records {
	return &Records{index: make(map[string]int)}
}

// Len returns the number of records, the sentinel included if present.
func (r *Records) Len() int {
	return len(r.entries)
}

// Set adds or overwrites the secret for name.
func (r *Records) Set(name, secret string) {
	if i, ok := r.index[name]; ok {
		r.entries[i].Secret = secret
		return
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Record{Name: name, Secret: secret})
}

// Get returns the secret for name.
func (r *Records) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.entries[i].Secret, true
}

// Delete removes name, reporting whether it was present.
func (r *Records) Delete(name string) bool {
	i, ok := r.index[name]
	if !ok {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, name)
	for n, j := range r.index {
		if j > i {
			r.index[n] = j - 1
		}
	}
	return true
}

// Names returns every record name in insertion order, sentinel included.
func (r *Records) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}

// Visible returns the service names a user should see, in insertion order.
// Anything that would fail the alnum-only name rule is filtered out, which
// by construction hides the recipient sentinel.
func (r *Records) Visible() []string {
	var names []string
	for _, e := range r.entries {
		if alnum(e.Name) {
			names = append(names, e.Name)
		}
	}
	return names
}

// Clone returns an independent copy of the record set.
func (r *Records) Clone() *Records {
	c := New()
	for _, e := range r.entries {
		c.Set(e.Name, e.Secret)
	}
	return c
}

// Encode serializes the records, one name:secret line per entry in insertion
// order. Encode(Parse(b)) reproduces b for comment-free input.
func Encode(r *Records) []byte {
	var buf bytes.Buffer
	for _, e := range r.entries {
		buf.WriteString(e.Name)
		buf.WriteByte(':')
		buf.WriteString(e.Secret)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Parse deserializes decrypted vault content. Blank lines and lines starting
// with ';' are skipped. A line without a ':' separator, or with an empty name
// or secret, fails the whole parse with a BadLineError.
func Parse(data []byte) (*Records, error) {
	records := New()
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 || strings.HasPrefix(line, ";") {
			continue
		}

		name, secret, found := strings.Cut(line, ":")
		if !found || len(name) == 0 || len(secret) == 0 {
			return nil, BadLineError{Line: n + 1, Text: line}
		}
		records.Set(name, secret)
	}
	return records, nil
}

func alnum(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
