// Copyright 2021-2022, Offchain Labs, Inc.
// For license information, see https://github.com/nitro/blob/master/LICENSE

package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// SequenceSpan locates submitted data within a height's shares.
type SequenceSpan struct {
	Height     uint64
	StartIndex uint64
	DataLen    uint64
}

const sequenceSpanSize = 3 * 8

// MarshalBinary encodes the span as height + start + length, big endian.
func (s *SequenceSpan) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeSpan(buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SequenceSpan) UnmarshalBinary(data []byte) error {
	if len(data) != sequenceSpanSize {
		return errors.New("sequence span must be 24 bytes")
	}
	return readSpan(bytes.NewReader(data), s)
}

func writeSpan(buf *bytes.Buffer, s *SequenceSpan) error {
	for _, v := range []uint64{s.Height, s.StartIndex, s.DataLen} {
		if err := binary.Write(buf, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readSpan(r io.Reader, s *SequenceSpan) error {
	for _, v := range []*uint64{&s.Height, &s.StartIndex, &s.DataLen} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// BlobPointer contains the reference to a blob posted to Celestia
type BlobPointer struct {
	Span       SequenceSpan
	Commitment [32]byte
	DataRoot   [32]byte
}

// MarshalBinary encodes the BlobPointer to binary
// serialization format: height + start + length + commitment + data root
func (b *BlobPointer) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeSpan(buf, &b.Span); err != nil {
		return nil, err
	}
	if _, err := buf.Write(b.Commitment[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(b.DataRoot[:]); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the binary to BlobPointer
func (b *BlobPointer) UnmarshalBinary(data []byte) error {
	buf := bytes.NewReader(data)
	if err := readSpan(buf, &b.Span); err != nil {
		return err
	}
	if err := readFixedBytes(buf, b.Commitment[:]); err != nil {
		return err
	}
	return readFixedBytes(buf, b.DataRoot[:])
}

// readFixedBytes reads exactly len(data) bytes
func readFixedBytes(buf *bytes.Reader, data []byte) error {
	_, err := io.ReadFull(buf, data)
	return err
}
