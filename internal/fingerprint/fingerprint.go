// Package fingerprint hashes the project's configuration surface so repeated
// runs can tell whether anything changed since the last invocation.
package fingerprint

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Status describes the comparison against the stored digest.
type Status int

const (
	// StatusFirstRun means no digest was stored yet.
	StatusFirstRun Status = iota
	// StatusUnchanged means the configuration digest matches the stored one.
	StatusUnchanged
	// StatusChanged means the configuration differs from the stored digest.
	StatusChanged
)

func (s Status) String() string {
	switch s {
	case StatusFirstRun:
		return "first-run"
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// Compute hashes the given files in path order. Each file contributes its
// slash path and contents, so renames change the digest too.
func Compute(paths []string) (uint64, error) {
	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	digest := xxhash.New()
	for _, path := range sorted {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", path, err)
		}
		_, _ = digest.WriteString(filepath.ToSlash(path))
		_, _ = digest.Write([]byte{0})
		_, _ = digest.Write(data)
	}
	return digest.Sum64(), nil
}

// CachePath returns where the digest for the named project is stored.
func CachePath(project string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "confkit", project+".hash"), nil
}

// CheckAndStore compares the digest against the stored one and writes the
// new value. The returned status reflects the state before the write.
func CheckAndStore(cachePath string, digest uint64) (Status, error) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], digest)

	prev, err := os.ReadFile(cachePath)
	status := StatusFirstRun
	switch {
	case err == nil && len(prev) == 8:
		if binary.BigEndian.Uint64(prev) == digest {
			status = StatusUnchanged
		} else {
			status = StatusChanged
		}
	case err != nil && !os.IsNotExist(err):
		return 0, fmt.Errorf("read fingerprint cache: %w", err)
	}

	if status != StatusUnchanged {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
			return 0, fmt.Errorf("create cache dir: %w", err)
		}
		if err := os.WriteFile(cachePath, buf[:], 0o644); err != nil {
			return 0, fmt.Errorf("write fingerprint cache: %w", err)
		}
	}

	return status, nil
}
