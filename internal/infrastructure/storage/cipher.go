package storage

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Cipher encrypts persisted values under a runtime secret. Ciphertext is
// base64 text so any string medium can hold it.
type Cipher interface {
	Seal(plaintext string) (string, error)
	Open(ciphertext string) (string, error)
}

var errEmptySecret = errors.New("storage secret is empty")

const hkdfInfo = "adminconsole/session-storage/v1"

// XChaCha seals values with XChaCha20-Poly1305 under a key derived from the
// secret with HKDF-SHA256. Each value gets a fresh random nonce.
type XChaCha struct {
	key []byte
}

// NewXChaCha derives the storage key from secret.
func NewXChaCha(secret string) (*XChaCha, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive storage key: %w", err)
	}
	return &XChaCha{key: key}, nil
}

func (c *XChaCha) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("seal: nonce: %w", err)
	}
	out := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *XChaCha) Open(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("open: decode: %w", err)
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("open: ciphertext too short")
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plain), nil
}

// Age seals values with age's scrypt passphrase recipient.
type Age struct {
	recipient *age.ScryptRecipient
	identity  *age.ScryptIdentity
}

// NewAge builds a passphrase cipher. workFactor is scrypt's log2(N); zero
// keeps age's default.
func NewAge(secret string, workFactor int) (*Age, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	r, err := age.NewScryptRecipient(secret)
	if err != nil {
		return nil, fmt.Errorf("age recipient: %w", err)
	}
	id, err := age.NewScryptIdentity(secret)
	if err != nil {
		return nil, fmt.Errorf("age identity: %w", err)
	}
	if workFactor > 0 {
		r.SetWorkFactor(workFactor)
		id.SetMaxWorkFactor(workFactor)
	}
	return &Age{recipient: r, identity: id}, nil
}

func (c *Age) Seal(plaintext string) (string, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, c.recipient)
	if err != nil {
		return "", fmt.Errorf("age encrypt: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", fmt.Errorf("age encrypt: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("age encrypt: close: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (c *Age) Open(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("age decrypt: decode: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(raw), c.identity)
	if err != nil {
		return "", fmt.Errorf("age decrypt: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("age decrypt: read: %w", err)
	}
	return string(plain), nil
}

// NewCipher picks the cipher by name. An empty secret disables encryption
// and returns a nil Cipher.
func NewCipher(name, secret string, ageWorkFactor int) (Cipher, error) {
	if secret == "" {
		return nil, nil
	}
	switch name {
	case "", "xchacha":
		return NewXChaCha(secret)
	case "age":
		return NewAge(secret, ageWorkFactor)
	default:
		return nil, fmt.Errorf("unknown storage cipher %q", name)
	}
}
