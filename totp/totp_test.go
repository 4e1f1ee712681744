package totp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unicode"
)

func TestBuiltinCode(t *testing.T) {
	t.Parallel()

	tests := []string{
		"JBSWY3DPEHPK3PXP",
		"jbswy3dpehpk3pxp",
		"  JBSWY3DPEHPK3PXP  ",
		"MZXW6===",
	}

	for i, secret := range tests {
		code, err := Builtin{}.Code(context.Background(), secret)
		if err != nil {
			t.Errorf("%d) %v", i, err)
			continue
		}
		if len(code) != 6 {
			t.Errorf("%d) code length was %d: %q", i, len(code), code)
		}
		for _, r := range code {
			if !unicode.IsDigit(r) {
				t.Errorf("%d) code was not numeric: %q", i, code)
				break
			}
		}
	}
}

func TestBuiltinCodeBadSecret(t *testing.T) {
	t.Parallel()

	if _, err := (Builtin{}).Code(context.Background(), "not-base32!"); err == nil {
		t.Error("expected an error")
	}
}

func TestOathtool(t *testing.T) {
	t.Parallel()

	bin := filepath.Join(t.TempDir(), "oathtool")
	script := "#!/bin/sh\necho '123456'\n"
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	code, err := NewOathtool(bin, nil).Code(context.Background(), "JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatal(err)
	}
	if code != "123456" {
		t.Errorf("code was %q", code)
	}
}

func TestOathtoolFailure(t *testing.T) {
	t.Parallel()

	bin := filepath.Join(t.TempDir(), "oathtool")
	script := "#!/bin/sh\necho 'oathtool: base32 decoding failed' >&2\nexit 1\n"
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := NewOathtool(bin, nil).Code(context.Background(), "!!!")
	if err == nil {
		t.Fatal("expected an error")
	}
}
