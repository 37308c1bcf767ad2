// Package wire frames stored run reports.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version     byte = 1
	kindRecord  byte = 1
	kindPointer byte = 2

	headerLen  = 4 + 1 + 1 + 8
	recordLen  = headerLen + 4
	pointerLen = headerLen
)

var (
	ErrCorrupt = errors.New("jsondefaults: corrupt history entry")
	magic4     = [...]byte{'J', 'D', 'R', 'H'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

func header(buf *bytes.Buffer, kind byte, runID uint64) {
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)
	var u8 [8]byte
	binary.BigEndian.PutUint64(u8[:], runID)
	buf.Write(u8[:])
}

func checkHeader(b []byte, kind byte, minLen int) (runID uint64, ok bool) {
	if len(b) < minLen || !hasMagic(b) || b[4] != version || b[5] != kind {
		return 0, false
	}
	return binary.BigEndian.Uint64(b[6:14]), true
}

// EncodeRecord frames one stored report:
//
//	magic(4) | ver(1) | kind(1=record) | runID(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeRecord(runID uint64, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(recordLen + len(payload))
	header(&buf, kindRecord, runID)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeRecord returns the run ID and a payload slice aliasing b.
func DecodeRecord(b []byte) (runID uint64, payload []byte, err error) {
	runID, ok := checkHeader(b, kindRecord, recordLen)
	if !ok {
		return 0, nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[headerLen:recordLen]))
	if vlen != len(b)-recordLen { // also rejects trailing bytes
		return 0, nil, ErrCorrupt
	}
	return runID, b[recordLen:], nil
}

// EncodePointer frames a reference to another run:
//
//	magic(4) | ver(1) | kind(2=pointer) | runID(u64 be)
func EncodePointer(runID uint64) []byte {
	var buf bytes.Buffer
	buf.Grow(pointerLen)
	header(&buf, kindPointer, runID)
	return buf.Bytes()
}

func DecodePointer(b []byte) (uint64, error) {
	runID, ok := checkHeader(b, kindPointer, pointerLen)
	if !ok || len(b) != pointerLen {
		return 0, ErrCorrupt
	}
	return runID, nil
}
