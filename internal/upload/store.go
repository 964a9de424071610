// Package upload stores user-submitted images behind a narrow interface so
// the rest of the application only ever holds an opaque reference.
package upload

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// Store is the file-storage collaborator. Save returns the reference under
// which the content was stored; Remove is idempotent.
type Store interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(ref string) error
}

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

var ErrUnsupportedType = errors.New("unsupported image type")

// checkExtension returns the lower-cased extension of filename if it names a
// supported image type.
func checkExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}
