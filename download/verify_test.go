package download

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"cloudsync/music"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestVerifySizeWithinTolerance(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 10000)
	path := writeTempFile(t, data)
	track := &music.Track{ID: 1, Title: "Song", Artists: []string{"Artist"}}

	v := NewVerifier()
	if !v.Verify(path, track, 10050) {
		t.Error("0.5% size difference should pass")
	}
	if v.CacheSize() != 0 {
		t.Error("an in-tolerance size match must not compute a hash")
	}
	if v.Verify(path, track, 20000) {
		t.Error("50% size difference should fail")
	}
}

func TestVerifyMissingFile(t *testing.T) {
	v := NewVerifier()
	track := &music.Track{ID: 1, Title: "Song"}
	if v.Verify(filepath.Join(t.TempDir(), "missing.mp3"), track, 100) {
		t.Error("missing file should never verify")
	}
}

func TestFileHashSmallFile(t *testing.T) {
	data := []byte("small file body")
	path := writeTempFile(t, data)

	v := NewVerifier()
	got, err := v.FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	sum := md5.Sum(data)
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("hash = %s, want %s", got, want)
	}
}

func TestFileHashLargeFileUsesBothEnds(t *testing.T) {
	// 3MiB file: the hash covers the first and last 1MiB only, so changing
	// a middle byte must not change it.
	data := bytes.Repeat([]byte{0xAB}, 3*hashChunkSize)
	path := writeTempFile(t, data)

	v := NewVerifier()
	before, err := v.FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}

	data[hashChunkSize+512] ^= 0xFF
	other := writeTempFile(t, data)
	after, err := v.FileHash(other)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	if before != after {
		t.Error("middle byte should not affect the partial hash")
	}

	data[0] ^= 0xFF
	changed := writeTempFile(t, data)
	edge, err := v.FileHash(changed)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	if edge == before {
		t.Error("first byte must affect the partial hash")
	}
}

func TestFileHashCaching(t *testing.T) {
	path := writeTempFile(t, []byte("cached body"))

	v := NewVerifier()
	first, err := v.FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	if v.CacheSize() != 1 {
		t.Errorf("CacheSize = %d, want 1", v.CacheSize())
	}

	// The cached value survives the file changing underneath.
	if err := os.WriteFile(path, []byte("different body"), 0644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}
	cached, err := v.FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	if cached != first {
		t.Error("expected the cached hash")
	}

	v.Refresh(path)
	fresh, err := v.FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	if fresh == first {
		t.Error("Refresh should recompute the hash")
	}
}

func TestSurrogateHashIsStable(t *testing.T) {
	track := &music.Track{
		ID:       123,
		Title:    "晴天",
		Artists:  []string{"周杰伦"},
		Album:    "叶惠美",
		Duration: 269,
	}
	first := SurrogateHash(track)
	second := SurrogateHash(track)
	if first != second {
		t.Error("hash must be deterministic")
	}
	track.Duration = 270
	if SurrogateHash(track) == first {
		t.Error("hash must reflect metadata changes")
	}
}
