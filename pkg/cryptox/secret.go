package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// SecretSize is the length of the server secret in bytes.
const SecretSize = 32

// LoadOrGenerateSecret reads the base64url server secret at path, creating
// the file with a fresh secret when it does not exist. Every derived key
// (OTP seeds, the at-rest sealing key) hangs off this one value, so losing
// the file invalidates outstanding challenges and stored session data.
func LoadOrGenerateSecret(path string) ([]byte, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		secret := make([]byte, SecretSize)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		enc := base64.RawURLEncoding.EncodeToString(secret)
		if err := os.WriteFile(path, []byte(enc), 0o600); err != nil {
			return nil, err
		}
		return secret, nil
	}
	if err != nil {
		return nil, err
	}

	secret, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("cryptox: decode secret %s: %w", path, err)
	}
	if len(secret) < 16 {
		return nil, fmt.Errorf("cryptox: secret %s too short", path)
	}
	return secret, nil
}

// DeriveKey expands secret into n bytes bound to info using HKDF-SHA256.
// Different info strings give independent keys.
func DeriveKey(secret []byte, info string, n int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("cryptox: empty secret")
	}
	out := make([]byte, n)
	r := hkdf.New(sha256.New, secret, nil, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}
