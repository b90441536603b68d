// Package filex holds small filesystem helpers shared by the client (file
// selection) and the development backend (inline upload storage).
package filex

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotRegularFile = errors.New("not a regular file")

// EnsureDir creates base/dirName (base defaults to the working directory)
// and returns its absolute path.
func EnsureDir(base, dirName string) (string, error) {
	if base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		base = cwd
	}

	dir := dirName
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// Info describes a file picked for upload.
type Info struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

// Inspect stats path and guesses its MIME type, first from the extension and
// then by sniffing the leading bytes.
func Inspect(path string) (*Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	ct, err := detectContentType(path)
	if err != nil {
		return nil, err
	}

	return &Info{Path: path, Name: fi.Name(), Size: fi.Size(), MIMEType: ct}, nil
}

func detectContentType(path string) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// SafeName reduces a client-supplied file name to its last path element so it
// can be joined under a storage directory. Returns "" for names that do not
// denote a file.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(filepath.Clean("/" + name))
	switch base {
	case "/", ".", "..":
		return ""
	}
	return base
}
