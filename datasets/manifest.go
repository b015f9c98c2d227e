package datasets

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Mode names accepted by NewManifestDataset.
const (
	ModeTrain = "train"
	ModeVal   = "val"
)

// Entry is one parsed manifest line.
type Entry struct {
	// Path to the image, already resolved against the data folder.
	Path string

	// Angle is the steering label. No range is enforced.
	Angle float64
}

// maxManifestLine bounds a single manifest line; paths longer than this are
// not expected.
const maxManifestLine = 1 << 20

// ResolvePath returns p unchanged if it is absolute, otherwise p joined onto root.
func ResolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// ManifestPath returns the manifest location for mode under dataFolder.
func ManifestPath(dataFolder, mode string) string {
	return filepath.Join(dataFolder, mode+".txt")
}

// normalizeMode lowercases mode, defaults it to train and validates it.
func normalizeMode(mode string) (string, error) {
	if mode == "" {
		return ModeTrain, nil
	}
	m := strings.ToLower(mode)
	if m != ModeTrain && m != ModeVal {
		return "", errors.Wrapf(ErrInvalidMode, "mode %q must be %q or %q", mode, ModeTrain, ModeVal)
	}
	return m, nil
}

// ParseManifest reads manifest lines from r. Lines with fewer than two
// whitespace separated tokens are skipped; tokens after the second are
// ignored. Relative image paths are resolved against root.
func ParseManifest(r io.Reader, root string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxManifestLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		angle, err := parseAngle(parts[1])
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedLabel, "line %d: %q: %v", lineNum, parts[1], err)
		}
		entries = append(entries, Entry{
			Path:  ResolvePath(root, parts[0]),
			Angle: angle,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	return entries, nil
}

// ReadManifest opens the manifest at path and parses it with ParseManifest.
func ReadManifest(path, root string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open manifest %s", path)
	}
	defer file.Close()

	entries, err := ParseManifest(file, root)
	if err != nil {
		return nil, errors.WithMessagef(err, "manifest %s", path)
	}
	return entries, nil
}
