package archive

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/iox"
)

// IsArchivePath reports whether path has the archive extension.
func IsArchivePath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// WriteFile writes seq to path, replacing any existing file.
func WriteFile(path string, seq *frames.Sequence, source string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer iox.CloseInto(&err, f, "close archive")

	bw := bufio.NewWriter(f)
	if err := NewWriter(bw).WriteSequence(seq, source); err != nil {
		return err
	}
	return bw.Flush()
}

// ReadFile reads the archive at path.
func ReadFile(path string) (*frames.Sequence, *Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}
	defer iox.DiscardClose(f)

	return NewReader(bufio.NewReader(f)).ReadSequence()
}
