package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// SigningKey is an Ed25519 key pair encoded the way the service reads keys
// back: the private half as PKCS8 PEM (provider signing key, dev token key)
// and the public half as PKIX PEM (organization keys, gateway trust).
type SigningKey struct {
	PrivatePEM []byte
	PublicPEM  []byte
}

func NewSigningKey() (SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: generate signing key: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: marshal public key: %w", err)
	}

	return SigningKey{
		PrivatePEM: pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}),
		PublicPEM:  pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}),
	}, nil
}

// WriteFiles stores the pair in dir as <name>.pem, readable by the owner
// only, and <name>.pub.pem.
func (k SigningKey) WriteFiles(dir, name string) (privPath, pubPath string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", err
	}
	privPath = filepath.Join(dir, name+".pem")
	pubPath = filepath.Join(dir, name+".pub.pem")
	if err := os.WriteFile(privPath, k.PrivatePEM, 0o600); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(pubPath, k.PublicPEM, 0o644); err != nil {
		return "", "", err
	}
	return privPath, pubPath, nil
}
