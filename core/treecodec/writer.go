package treecodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/batparse/core/ast"
)

// Magic identifies an encoded tree.
const Magic = "BATP"

// Version is the envelope format version.
// Format: major.minor in a uint16 (0x0001 = v1.0).
const Version uint16 = 0x0001

// Flags is reserved for envelope features. No flags are defined yet and
// readers reject any that are set.
type Flags uint16

// Write encodes n to w and returns the BLAKE2b-256 digest of the body.
//
// Layout:
//
//	MAGIC(4) | VERSION(2) | FLAGS(2) | BODY_LEN(4) | BODY | DIGEST(32)
//
// All integers are little-endian. BODY is the canonical CBOR listing.
func Write(w io.Writer, n *ast.Node) ([32]byte, error) {
	wr := &Writer{w: w}
	return wr.WriteTree(n)
}

// Writer handles encoding of trees.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteTree writes one tree envelope.
func (wr *Writer) WriteTree(n *ast.Node) ([32]byte, error) {
	body, err := Canonicalize(n).MarshalBinary()
	if err != nil {
		return [32]byte{}, err
	}
	if len(body) > maxBodyLen {
		return [32]byte{}, fmt.Errorf("encoded tree too large: %d bytes (max %d)", len(body), maxBodyLen)
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to create hasher: %w", err)
	}
	hasher.Write(body)
	var digest [32]byte
	copy(digest[:], hasher.Sum(nil))

	var buf bytes.Buffer
	if err := wr.writePreamble(&buf, 0, uint32(len(body))); err != nil {
		return [32]byte{}, err
	}
	buf.Write(body)
	buf.Write(digest[:])

	if _, err := wr.w.Write(buf.Bytes()); err != nil {
		return [32]byte{}, fmt.Errorf("write tree: %w", err)
	}
	return digest, nil
}

func (wr *Writer) writePreamble(buf *bytes.Buffer, flags Flags, bodyLen uint32) error {
	buf.WriteString(Magic)
	if err := binary.Write(buf, binary.LittleEndian, Version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, uint16(flags)); err != nil {
		return fmt.Errorf("write flags: %w", err)
	}
	if err := binary.Write(buf, binary.LittleEndian, bodyLen); err != nil {
		return fmt.Errorf("write body length: %w", err)
	}
	return nil
}
