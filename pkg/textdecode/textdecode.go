// Package textdecode turns raw file bytes into text by trying an ordered list
// of decoders until one accepts the input.
package textdecode

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ErrUndecodable is returned by Chain.Decode when every decoder rejected the input.
var ErrUndecodable = errors.New("no decoder accepted the input")

// Decoder converts raw bytes to a string or reports that it cannot.
type Decoder interface {
	Name() string
	Decode(data []byte) (string, error)
}

// Chain is an ordered list of decoders; the first success wins.
type Chain []Decoder

// Decode returns the decoded text and the name of the decoder that produced it.
func (c Chain) Decode(data []byte) (string, string, error) {
	var failures []string
	for _, d := range c {
		text, err := d.Decode(data)
		if err == nil {
			return text, d.Name(), nil
		}
		failures = append(failures, fmt.Sprintf("%s: %v", d.Name(), err))
	}
	return "", "", fmt.Errorf("%w (%s)", ErrUndecodable, strings.Join(failures, "; "))
}

// Default is utf-8, then utf-16, then latin-1, which never fails.
func Default() Chain {
	return Chain{UTF8{}, UTF16{}, Latin1{}}
}

// Lookup resolves a decoder by name. Names are case-insensitive and accept
// the common aliases ("utf8", "latin1", "iso-8859-1").
func Lookup(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return UTF8{}, nil
	case "utf-16", "utf16":
		return UTF16{}, nil
	case "latin-1", "latin1", "iso-8859-1":
		return Latin1{}, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

// ParseChain builds a chain from decoder names, in order. An empty list yields Default.
func ParseChain(names []string) (Chain, error) {
	if len(names) == 0 {
		return Default(), nil
	}
	chain := make(Chain, 0, len(names))
	for _, n := range names {
		d, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		chain = append(chain, d)
	}
	return chain, nil
}

// UTF8 accepts only well-formed UTF-8 without NUL bytes. The bytes are
// returned unchanged, including any byte order mark.
type UTF8 struct{}

func (UTF8) Name() string { return "utf-8" }

func (UTF8) Decode(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid utf-8 sequence")
	}
	// 16-bit text without a BOM is valid UTF-8 when it is mostly ASCII.
	if bytes.IndexByte(data, 0) >= 0 {
		return "", errors.New("NUL byte in text")
	}
	return string(data), nil
}

// UTF16 honours a byte order mark. Without one, the byte order is guessed
// from where the zero high bytes of ASCII code units fall.
type UTF16 struct{}

func (UTF16) Name() string { return "utf-16" }

func (UTF16) Decode(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errors.New("odd number of bytes")
	}
	enc := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	if !hasUTF16BOM(data) {
		order, ok := guessByteOrder(data)
		if !ok {
			return "", errors.New("no byte order mark and no 16-bit text pattern")
		}
		enc = unicode.UTF16(order, unicode.IgnoreBOM)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasUTF16BOM(data []byte) bool {
	return len(data) >= 2 &&
		((data[0] == 0xFF && data[1] == 0xFE) || (data[0] == 0xFE && data[1] == 0xFF))
}

// guessByteOrder needs at least half of the code units to have a zero byte on
// one side and at most a quarter on the other.
func guessByteOrder(data []byte) (unicode.Endianness, bool) {
	units := len(data) / 2
	if units == 0 {
		return unicode.LittleEndian, false
	}
	var evenZero, oddZero int
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 {
			evenZero++
		}
		if data[i+1] == 0 {
			oddZero++
		}
	}
	switch {
	case oddZero*2 >= units && evenZero*4 <= units:
		return unicode.LittleEndian, true
	case evenZero*2 >= units && oddZero*4 <= units:
		return unicode.BigEndian, true
	default:
		return unicode.LittleEndian, false
	}
}

// Latin1 maps every byte to the code point of the same value.
type Latin1 struct{}

func (Latin1) Name() string { return "latin-1" }

func (Latin1) Decode(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
