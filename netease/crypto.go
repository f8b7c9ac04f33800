package netease

import (
	"crypto/aes"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// eapiKey is the fixed AES key used by the desktop client's eapi endpoints.
var eapiKey = []byte("e82ckenh8dichen8")

// picIDMagic is the XOR pad used to derive cover image URLs from pic ids.
const picIDMagic = "3go8&$8*3*3h0k(2)2"

// EncryptParams builds the encrypted "params" form value for an eapi
// endpoint: the request path and JSON payload are combined with a salted
// md5 digest, AES-128-ECB encrypted with PKCS7 padding, and hex encoded.
func EncryptParams(rawURL string, payload []byte) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse eapi url: %w", err)
	}
	path := strings.Replace(u.Path, "/eapi/", "/api/", 1)

	digest := md5.Sum([]byte("nobody" + path + "use" + string(payload) + "md5forencrypt"))
	text := path + "-36cd479b6b5-" + string(payload) + "-36cd479b6b5-" + hex.EncodeToString(digest[:])

	enc, err := encryptECB(eapiKey, pkcs7Pad([]byte(text), aes.BlockSize))
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(enc), nil
}

func encryptECB(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(plaintext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("plaintext length %d not a multiple of the block size", len(plaintext))
	}
	out := make([]byte, len(plaintext))
	for i := 0; i < len(plaintext); i += block.BlockSize() {
		block.Encrypt(out[i:], plaintext[i:i+block.BlockSize()])
	}
	return out, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	pad := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+pad)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(pad)
	}
	return padded
}

// EncryptPicID derives the URL-safe digest that addresses a cover image.
// Each byte of the id is XORed with the magic pad, md5 hashed, and base64
// encoded with '/' and '+' replaced for URL use.
func EncryptPicID(id string) string {
	xored := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		xored[i] = id[i] ^ picIDMagic[i%len(picIDMagic)]
	}
	sum := md5.Sum(xored)
	enc := base64.StdEncoding.EncodeToString(sum[:])
	enc = strings.ReplaceAll(enc, "/", "_")
	return strings.ReplaceAll(enc, "+", "-")
}

// PicURL builds the direct cover image URL for a pic id at the given
// square size in pixels.
func PicURL(picID int64, size int) string {
	if picID <= 0 {
		return ""
	}
	id := fmt.Sprintf("%d", picID)
	return fmt.Sprintf("https://p3.music.126.net/%s/%s.jpg?param=%dy%d", EncryptPicID(id), id, size, size)
}
