package netease

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"strings"
	"testing"
)

// decryptECB reverses encryptECB so tests can inspect the params envelope.
func decryptECB(t *testing.T, key []byte, ciphertext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("aes.NewCipher: %v", err)
	}
	if len(ciphertext)%block.BlockSize() != 0 {
		t.Fatalf("ciphertext length %d not block aligned", len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += block.BlockSize() {
		block.Decrypt(out[i:], ciphertext[i:i+block.BlockSize()])
	}
	pad := int(out[len(out)-1])
	return out[:len(out)-pad]
}

func TestEncryptParams(t *testing.T) {
	payload := []byte(`{"ids":[123],"level":"lossless"}`)
	params, err := EncryptParams("https://interface3.music.163.com/eapi/song/enhance/player/url/v1", payload)
	if err != nil {
		t.Fatalf("EncryptParams: %v", err)
	}

	raw, err := hex.DecodeString(params)
	if err != nil {
		t.Fatalf("params is not hex: %v", err)
	}

	plain := string(decryptECB(t, eapiKey, raw))

	parts := strings.Split(plain, "-36cd479b6b5-")
	if len(parts) != 3 {
		t.Fatalf("expected 3 envelope segments, got %d: %q", len(parts), plain)
	}
	if parts[0] != "/api/song/enhance/player/url/v1" {
		t.Errorf("path segment = %q, want /api/ prefix", parts[0])
	}
	if !bytes.Equal([]byte(parts[1]), payload) {
		t.Errorf("payload segment = %q", parts[1])
	}
	if len(parts[2]) != 32 {
		t.Errorf("digest segment length = %d, want 32 hex chars", len(parts[2]))
	}
}

func TestEncryptParamsDeterministic(t *testing.T) {
	payload := []byte(`{"ids":[1]}`)
	a, err := EncryptParams("https://example.com/eapi/test", payload)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncryptParams("https://example.com/eapi/test", payload)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same input should encrypt to the same params")
	}
}

func TestEncryptPicID(t *testing.T) {
	enc := EncryptPicID("109951165umm")
	if enc == "" {
		t.Fatal("empty digest")
	}
	if strings.ContainsAny(enc, "/+") {
		t.Errorf("digest %q should be URL safe", enc)
	}
}

func TestPicURL(t *testing.T) {
	url := PicURL(109951165, 300)
	if !strings.HasPrefix(url, "https://p3.music.126.net/") {
		t.Errorf("unexpected host in %q", url)
	}
	if !strings.HasSuffix(url, "/109951165.jpg?param=300y300") {
		t.Errorf("unexpected path in %q", url)
	}
	if PicURL(0, 300) != "" {
		t.Error("zero pic id should produce no url")
	}
}
