// File: pkg/scanner/probe.go
package scanner

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/go-git/go-billy/v5"
)

// isVectorDrawable reports whether the root element in prefix is <vector> or
// <animated-vector>. Declarations, comments and doctypes before the root are
// skipped. A prefix that ends before the root element is not a vector.
func isVectorDrawable(prefix []byte) bool {
	d := xml.NewDecoder(bytes.NewReader(prefix))
	// Only tag names are inspected; declared charsets are not converted.
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	for {
		tok, err := d.RawToken()
		if err != nil {
			return false
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local == "vector" || start.Name.Local == "animated-vector"
		}
	}
}

// readPrefix reads up to n bytes from the start of a file. Short files are not an error.
func readPrefix(fs billy.Filesystem, path string, n int) ([]byte, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buffer := make([]byte, n)
	read, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return buffer[:read], nil
}
