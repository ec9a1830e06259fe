package stale

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/goplus/nativebuild/internal/errors"
)

// stamp records the digests an output was built from. It is stored as
// .<output-name>.stamp.json in the output's directory.
type stamp struct {
	Input      string    `json:"input"`
	Definition string    `json:"definition"`
	BuildTime  time.Time `json:"build_time"`
}

func (s *stamp) matches(o stamp) bool {
	return s.Input == o.Input && s.Definition == o.Definition
}

func stampPath(output string) string {
	return filepath.Join(filepath.Dir(output), "."+filepath.Base(output)+".stamp.json")
}

func loadStamp(output string) (*stamp, error) {
	data, err := os.ReadFile(stampPath(output))
	if err != nil {
		return nil, err
	}
	var s stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func saveStamp(output string, s stamp) error {
	s.BuildTime = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(stampPath(output), data, 0o644)
}

// digest hashes a file, or a directory tree walked in lexical order with
// .git skipped. Relative paths are hashed along with contents so renames
// change the digest.
func digest(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.MissingPath(err, path)
	}
	h := xxhash.New()
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.WriteString(filepath.ToSlash(rel))
		h.Write([]byte{0})
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			h.WriteString(target)
		} else if d.Type().IsRegular() {
			if err := hashFile(h, p); err != nil {
				return err
			}
		}
		h.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "hash %s", path)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

func hashFile(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
