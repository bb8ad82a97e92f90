package treecodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/batparse/core/ast"
)

const (
	preambleLen = 12
	digestLen   = 32
	maxBodyLen  = 64 * 1024 * 1024
)

// ErrDigestMismatch is returned when the stored digest does not match the body.
var ErrDigestMismatch = errors.New("tree digest mismatch")

// Read decodes one tree envelope from r. It returns the tree and the
// verified digest of its body.
func Read(r io.Reader) (*ast.Node, [32]byte, error) {
	rd := &Reader{r: r}
	return rd.ReadTree()
}

// Reader handles decoding of trees.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader that decodes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadTree reads and verifies one tree envelope.
func (rd *Reader) ReadTree() (*ast.Node, [32]byte, error) {
	bodyLen, err := rd.readPreamble()
	if err != nil {
		return nil, [32]byte{}, err
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(rd.r, body); err != nil {
		return nil, [32]byte{}, fmt.Errorf("failed to read body: %w", err)
	}
	var stored [32]byte
	if _, err := io.ReadFull(rd.r, stored[:]); err != nil {
		return nil, [32]byte{}, fmt.Errorf("failed to read digest: %w", err)
	}

	digest := blake2b.Sum256(body)
	if !bytes.Equal(digest[:], stored[:]) {
		return nil, [32]byte{}, fmt.Errorf("%w: got %x, expected %x", ErrDigestMismatch, digest[:8], stored[:8])
	}

	var ct CanonicalTree
	if err := ct.UnmarshalBinary(body); err != nil {
		return nil, [32]byte{}, err
	}
	root, err := ct.Tree()
	if err != nil {
		return nil, [32]byte{}, fmt.Errorf("invalid tree: %w", err)
	}
	return root, digest, nil
}

func (rd *Reader) readPreamble() (uint32, error) {
	var pre [preambleLen]byte
	if _, err := io.ReadFull(rd.r, pre[:]); err != nil {
		return 0, fmt.Errorf("failed to read preamble: %w", err)
	}

	if magic := string(pre[0:4]); magic != Magic {
		return 0, fmt.Errorf("invalid magic: got %q, expected %q", magic, Magic)
	}
	if version := binary.LittleEndian.Uint16(pre[4:6]); version != Version {
		return 0, fmt.Errorf("unsupported version: got 0x%04x, expected 0x%04x", version, Version)
	}
	if flags := Flags(binary.LittleEndian.Uint16(pre[6:8])); flags != 0 {
		return 0, fmt.Errorf("unsupported flags: 0x%04x", uint16(flags))
	}

	bodyLen := binary.LittleEndian.Uint32(pre[8:12])
	if bodyLen > maxBodyLen {
		return 0, fmt.Errorf("body length %d exceeds maximum %d", bodyLen, maxBodyLen)
	}
	return bodyLen, nil
}
