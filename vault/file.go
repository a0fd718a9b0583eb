package vault

import (
	"context"
	"crypto/rand"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	fileMagic = "HRCV1"

	saltLength  = 16
	nonceLength = 24
	keyLength   = 32

	kdfTime        = 1
	kdfMemoryKB    = 64 * 1024
	kdfParallelism = 4
)

// File persists the credential in a single file. With a passphrase the
// content is sealed with secretbox under an argon2id-derived key; without
// one it is stored as plain bytes with 0600 permissions.
type File struct {
	path       string
	passphrase []byte
}

// NewFile returns a plaintext file slot at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// NewEncryptedFile returns a file slot that seals the credential at rest.
// The passphrase is typically a machine or install secret, not a user input.
func NewEncryptedFile(path string, passphrase []byte) *File {
	return &File{path: path, passphrase: append([]byte(nil), passphrase...)}
}

func (f *File) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoCredential
		}
		return "", err
	}
	if len(data) == 0 {
		return "", ErrNoCredential
	}

	if len(f.passphrase) == 0 {
		return string(data), nil
	}

	header := len(fileMagic) + saltLength + nonceLength
	if len(data) < header+secretbox.Overhead || string(data[:len(fileMagic)]) != fileMagic {
		return "", ErrCorrupt
	}
	salt := data[len(fileMagic) : len(fileMagic)+saltLength]
	var nonce [nonceLength]byte
	copy(nonce[:], data[len(fileMagic)+saltLength:header])

	key := f.deriveKey(salt)
	plain, ok := secretbox.Open(nil, data[header:], &nonce, key)
	if !ok {
		return "", ErrCorrupt
	}
	return string(plain), nil
}

func (f *File) Store(ctx context.Context, credential string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	payload := []byte(credential)
	if len(f.passphrase) > 0 {
		salt := make([]byte, saltLength)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return err
		}
		var nonce [nonceLength]byte
		if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
			return err
		}

		key := f.deriveKey(salt)
		sealed := secretbox.Seal(nil, payload, &nonce, key)

		out := make([]byte, 0, len(fileMagic)+saltLength+nonceLength+len(sealed))
		out = append(out, fileMagic...)
		out = append(out, salt...)
		out = append(out, nonce[:]...)
		payload = append(out, sealed...)
	}

	return os.WriteFile(f.path, payload, 0o600)
}

func (f *File) Clear(ctx context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *File) deriveKey(salt []byte) *[keyLength]byte {
	derived := argon2.IDKey(f.passphrase, salt, kdfTime, kdfMemoryKB, kdfParallelism, keyLength)
	var key [keyLength]byte
	copy(key[:], derived)
	return &key
}
