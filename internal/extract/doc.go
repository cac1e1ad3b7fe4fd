package extract

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

const (
	fibMagic          = 0xA5EC
	fibFlagsOffset    = 0x000A
	fibWhichTblStm    = 0x0200
	fibEncrypted      = 0x0100
	fibCswOffset      = 0x0020
	fibClxPairIndex   = 33 // fcClx/lcbClx in FibRgFcLcb97
	pieceCompressed   = 0x40000000
	pieceOffsetMask   = 0x3FFFFFFF
	clxPrcMarker      = 0x01
	clxPcdtMarker     = 0x02
	pieceDescriptorSz = 8
)

// extractDOC reads a legacy Word 97-2003 binary document: it locates the
// WordDocument and table streams in the compound file, then decodes the text
// pieces listed in the piece table in character-position order.
func extractDOC(data []byte) (string, error) {
	streams, err := readCompoundStreams(data, "WordDocument", "0Table", "1Table")
	if err != nil {
		return "", corrupt(FormatDOC, "failed to open compound file", err)
	}

	wordDoc := streams["WordDocument"]
	if len(wordDoc) == 0 {
		return "", corrupt(FormatDOC, "missing WordDocument stream", nil)
	}

	clx, err := clxFromFIB(wordDoc, streams)
	if err != nil {
		return "", corrupt(FormatDOC, "invalid file information block", err)
	}

	text, err := decodePieceTable(wordDoc, clx)
	if err != nil {
		return "", corrupt(FormatDOC, "invalid piece table", err)
	}

	return cleanText(stripWordControls(text)), nil
}

func readCompoundStreams(data []byte, names ...string) (map[string][]byte, error) {
	reader, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	streams := make(map[string][]byte)
	for entry, err := reader.Next(); err == nil; entry, err = reader.Next() {
		if !wanted[entry.Name] || len(entry.Path) > 0 {
			continue
		}
		buf, readErr := io.ReadAll(entry)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read stream %s: %w", entry.Name, readErr)
		}
		streams[entry.Name] = buf
	}
	return streams, nil
}

// clxFromFIB returns the Clx structure referenced by the FIB.
func clxFromFIB(wordDoc []byte, streams map[string][]byte) ([]byte, error) {
	if len(wordDoc) < fibCswOffset+2 {
		return nil, errors.New("stream too short")
	}
	if binary.LittleEndian.Uint16(wordDoc[0:2]) != fibMagic {
		return nil, errors.New("not a Word binary document")
	}

	flags := binary.LittleEndian.Uint16(wordDoc[fibFlagsOffset:])
	if flags&fibEncrypted != 0 {
		return nil, errors.New("encrypted documents are not supported")
	}

	tableName := "0Table"
	if flags&fibWhichTblStm != 0 {
		tableName = "1Table"
	}
	table := streams[tableName]
	if len(table) == 0 {
		return nil, fmt.Errorf("missing %s stream", tableName)
	}

	// FibBase (32) | csw | fibRgW | cslw | fibRgLw | cbRgFcLcb | fibRgFcLcb
	pos := fibCswOffset
	csw := int(readU16(wordDoc, pos))
	pos += 2 + csw*2
	cslw := int(readU16(wordDoc, pos))
	pos += 2 + cslw*4
	cbRgFcLcb := int(readU16(wordDoc, pos))
	pos += 2
	if cbRgFcLcb <= fibClxPairIndex {
		return nil, errors.New("fibRgFcLcb too short")
	}

	pairOffset := pos + fibClxPairIndex*8
	if pairOffset+8 > len(wordDoc) {
		return nil, errors.New("fcClx out of range")
	}
	fcClx := int(binary.LittleEndian.Uint32(wordDoc[pairOffset:]))
	lcbClx := int(binary.LittleEndian.Uint32(wordDoc[pairOffset+4:]))
	if lcbClx == 0 || fcClx < 0 || fcClx+lcbClx > len(table) {
		return nil, errors.New("clx out of range")
	}
	return table[fcClx : fcClx+lcbClx], nil
}

// decodePieceTable skips the Prc entries of a Clx and decodes each text piece of the Pcdt.
func decodePieceTable(wordDoc, clx []byte) (string, error) {
	i := 0
	for i < len(clx) && clx[i] == clxPrcMarker {
		if i+3 > len(clx) {
			return "", errors.New("truncated Prc")
		}
		cb := int(int16(binary.LittleEndian.Uint16(clx[i+1:])))
		if cb < 0 {
			return "", errors.New("negative Prc size")
		}
		i += 3 + cb
	}
	if i+5 > len(clx) || clx[i] != clxPcdtMarker {
		return "", errors.New("missing Pcdt")
	}

	lcb := int(binary.LittleEndian.Uint32(clx[i+1:]))
	plc := clx[i+5:]
	if lcb > len(plc) || lcb < 4 {
		return "", errors.New("PlcPcd out of range")
	}
	plc = plc[:lcb]

	// n+1 character positions followed by n 8-byte piece descriptors.
	n := (lcb - 4) / (4 + pieceDescriptorSz)
	if 4*(n+1)+n*pieceDescriptorSz != lcb {
		return "", errors.New("PlcPcd size mismatch")
	}

	var sb strings.Builder
	decoder := charmap.Windows1252.NewDecoder()
	for k := 0; k < n; k++ {
		cpStart := binary.LittleEndian.Uint32(plc[4*k:])
		cpEnd := binary.LittleEndian.Uint32(plc[4*(k+1):])
		if cpEnd <= cpStart {
			continue
		}
		count := int(cpEnd - cpStart)

		pcd := plc[4*(n+1)+k*pieceDescriptorSz:]
		fc := binary.LittleEndian.Uint32(pcd[2:])
		offset := int(fc & pieceOffsetMask)

		if fc&pieceCompressed != 0 {
			offset /= 2
			if offset+count > len(wordDoc) {
				continue
			}
			decoded, err := decoder.Bytes(wordDoc[offset : offset+count])
			if err != nil {
				continue
			}
			sb.Write(decoded)
			continue
		}

		if offset+2*count > len(wordDoc) {
			continue
		}
		units := make([]uint16, count)
		for j := range units {
			units[j] = binary.LittleEndian.Uint16(wordDoc[offset+2*j:])
		}
		sb.WriteString(string(utf16.Decode(units)))
	}

	return sb.String(), nil
}

// stripWordControls maps Word's in-band control characters to plain text:
// paragraph marks and breaks become newlines, cell marks tabs, and field
// instructions (between 0x13 and 0x14) are dropped while field results are kept.
func stripWordControls(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	depth := 0
	inInstruction := make([]bool, 0, 4)

	for _, r := range s {
		switch r {
		case 0x13:
			depth++
			inInstruction = append(inInstruction, true)
			continue
		case 0x14:
			if depth > 0 {
				inInstruction[depth-1] = false
			}
			continue
		case 0x15:
			if depth > 0 {
				depth--
				inInstruction = inInstruction[:depth]
			}
			continue
		}
		if insideInstruction(inInstruction) {
			continue
		}

		switch r {
		case '\r', 0x0B, 0x0C:
			sb.WriteByte('\n')
		case 0x07:
			sb.WriteByte('\t')
		case 0x01, 0x08, 0x1E, 0x1F:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func insideInstruction(levels []bool) bool {
	for _, instr := range levels {
		if instr {
			return true
		}
	}
	return false
}

func readU16(b []byte, pos int) uint16 {
	if pos+2 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[pos:])
}
