// Package digest computes content digests used as a proxy for byte-for-byte
// file equality.
package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ChunkSize is the read size used while hashing, so memory use is independent
// of file size.
const ChunkSize = 8 << 10

// Algorithm selects the hash function.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	MD5    Algorithm = "md5"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for unsupported names.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Digest is the lowercase hex encoding of a content hash.
type Digest string

func (d Digest) String() string { return string(d) }

// Short returns the first 12 characters, enough to tell digests apart in logs.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12])
}

// ParseAlgorithm converts a user-supplied name into an Algorithm. An empty
// name selects SHA256.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", SHA256:
		return SHA256, nil
	case MD5:
		return MD5, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// HexLen returns the length of a digest produced by a.
func (a Algorithm) HexLen() int {
	if a == MD5 {
		return md5.Size * 2
	}
	return sha256.Size * 2
}

func (a Algorithm) newHash() (hash.Hash, error) {
	switch a {
	case SHA256, "":
		return sha256.New(), nil
	case MD5:
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// Reader hashes everything readable from r and returns the digest together
// with the number of bytes consumed.
func Reader(r io.Reader, alg Algorithm) (Digest, int64, error) {
	h, err := alg.newHash()
	if err != nil {
		return "", 0, err
	}
	buf := make([]byte, ChunkSize)
	n, err := io.CopyBuffer(h, r, buf)
	if err != nil {
		return "", n, err
	}
	return Digest(hex.EncodeToString(h.Sum(nil))), n, nil
}

// File hashes the file at path. Failure to open or read the file is returned
// to the caller; there is no partial digest.
func File(path string, alg Algorithm) (Digest, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	d, n, err := Reader(onlyReader{f}, alg)
	if err != nil {
		return "", n, fmt.Errorf("hash %s: %w", path, err)
	}
	return d, n, nil
}

// onlyReader hides *os.File's WriterTo so io.CopyBuffer uses the fixed-size
// buffer instead of the file's own copy path.
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }
