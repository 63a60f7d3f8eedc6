package metadata

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DigestAlgo names a content digest algorithm.
type DigestAlgo string

const (
	DigestSHA1  DigestAlgo = "sha1"
	DigestXXH64 DigestAlgo = "xxh64"
)

// digestChunk is the read size for streaming digests.
const digestChunk = 64 << 10

// Label is the report label for the algorithm.
func (a DigestAlgo) Label() string {
	if a == DigestXXH64 {
		return "xxHash64 digest"
	}
	return "SHA-1 digest"
}

func (a DigestAlgo) newHash() (hash.Hash, error) {
	switch a {
	case DigestSHA1, "":
		return sha1.New(), nil
	case DigestXXH64:
		return xxhash.New(), nil
	}
	return nil, fmt.Errorf("unknown digest algorithm %q", a)
}

// Digest is a computed content digest.
type Digest struct {
	Algo DigestAlgo
	Hex  string // Upper-case.
}

// Digest returns the content digest of the file, reading it once per
// algorithm for the lifetime of v. Concurrent callers block until the first
// computation finishes and then share its result. progress, when non-nil,
// receives a copy of every byte read (a progress bar counts them).
func (v *Video) Digest(ctx context.Context, algo DigestAlgo, progress io.Writer) (Digest, error) {
	if algo == "" {
		algo = DigestSHA1
	}
	v.digestMu.Lock()
	defer v.digestMu.Unlock()

	if hexSum, ok := v.digests[algo]; ok {
		return Digest{Algo: algo, Hex: hexSum}, nil
	}
	h, err := algo.newHash()
	if err != nil {
		return Digest{}, err
	}
	if err := hashFile(ctx, v.Path, h, progress); err != nil {
		return Digest{}, err
	}
	hexSum := strings.ToUpper(hex.EncodeToString(h.Sum(nil)))
	if v.digests == nil {
		v.digests = make(map[DigestAlgo]string)
	}
	v.digests[algo] = hexSum
	return Digest{Algo: algo, Hex: hexSum}, nil
}

func hashFile(ctx context.Context, path string, h hash.Hash, progress io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	defer f.Close()

	var dst io.Writer = h
	if progress != nil {
		dst = io.MultiWriter(h, progress)
	}
	buf := make([]byte, digestChunk)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("digest: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("digest %s: %w", path, err)
		}
	}
}
