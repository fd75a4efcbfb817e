// Package cryptox holds the client-side key derivation and sealing helpers
// behind offline sign-in and the encrypted assessment cache.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/json"

	"github.com/dmitrijs2005/smehub/internal/common"
	"golang.org/x/crypto/argon2"
)

// MakeVerifier returns sha256(masterKey). Only the verifier is stored, so a
// leaked cache does not reveal the key that seals the cached payloads.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches password with argon2id into a 32-byte key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// SealJSON marshals v to JSON and encrypts it with AES-GCM under key.
// A fresh random nonce is generated per call and returned separately.
func SealJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	defer common.WipeByteArray(plaintext)

	aead, err := newAEAD(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// OpenJSON reverses SealJSON, unmarshalling the plaintext into v.
func OpenJSON(ciphertext, nonce, key []byte, v any) error {
	aead, err := newAEAD(key)
	if err != nil {
		return err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(plaintext)

	return json.Unmarshal(plaintext, v)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
