package flutterwave

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"encoding/base64"
	"errors"
)

// Encrypt is the 3DES-ECB + PKCS#7 + base64 scheme Flutterwave expects for
// direct charges. Only the first 24 bytes of key are used.
func Encrypt(key string, plain []byte) (string, error) {
	block, err := tripleDES(key)
	if err != nil {
		return "", err
	}
	bs := block.BlockSize()
	padded := pkcs7Pad(plain, bs)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += bs {
		block.Encrypt(out[i:i+bs], padded[i:i+bs])
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func Decrypt(key, encoded string) ([]byte, error) {
	block, err := tripleDES(key)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	bs := block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, errors.New("flutterwave: ciphertext is not a multiple of the block size")
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	return pkcs7Unpad(out, bs)
}

func tripleDES(key string) (cipher.Block, error) {
	if len(key) < 24 {
		return nil, errors.New("flutterwave: encryption key must be at least 24 bytes")
	}
	return des.NewTripleDESCipher([]byte(key[:24]))
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append([]byte{}, b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errors.New("flutterwave: bad padding")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("flutterwave: bad padding")
		}
	}
	return b[:len(b)-n], nil
}
