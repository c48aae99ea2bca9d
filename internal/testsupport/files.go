package testsupport

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile writes content to path, creating parent directories, and sets
// its modification time when mtime is non-zero.
func WriteFile(t testing.TB, path string, content []byte, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}
}

// EXIFJPEG returns a minimal JPEG stream carrying an EXIF block. Either date
// may be empty to omit the tag; dates use the EXIF "YYYY:MM:DD HH:MM:SS"
// form. payload is stored in a comment segment so callers can make files
// with identical tags differ in content.
func EXIFJPEG(dateTimeOriginal, dateTime string, payload []byte) []byte {
	tiff := buildTIFF(dateTimeOriginal, dateTime)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8})
	out.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&out, binary.BigEndian, uint16(2+6+len(tiff)))
	out.WriteString("Exif\x00\x00")
	out.Write(tiff)
	if len(payload) > 0 {
		out.Write([]byte{0xFF, 0xFE})
		_ = binary.Write(&out, binary.BigEndian, uint16(2+len(payload)))
		out.Write(payload)
	}
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}

// EXIFPNG returns a minimal PNG stream whose eXIf chunk carries the same
// TIFF block EXIFJPEG embeds. payload goes into a tEXt chunk.
func EXIFPNG(dateTimeOriginal, dateTime string, payload []byte) []byte {
	var out bytes.Buffer
	out.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	var ihdr bytes.Buffer
	_ = binary.Write(&ihdr, binary.BigEndian, uint32(1))
	_ = binary.Write(&ihdr, binary.BigEndian, uint32(1))
	ihdr.Write([]byte{8, 0, 0, 0, 0})
	writePNGChunk(&out, "IHDR", ihdr.Bytes())
	if len(payload) > 0 {
		writePNGChunk(&out, "tEXt", append([]byte("Comment\x00"), payload...))
	}
	writePNGChunk(&out, "eXIf", buildTIFF(dateTimeOriginal, dateTime))
	writePNGChunk(&out, "IEND", nil)
	return out.Bytes()
}

func writePNGChunk(out *bytes.Buffer, kind string, data []byte) {
	_ = binary.Write(out, binary.BigEndian, uint32(len(data)))
	crc := crc32.NewIEEE()
	crc.Write([]byte(kind))
	crc.Write(data)
	out.WriteString(kind)
	out.Write(data)
	_ = binary.Write(out, binary.BigEndian, crc.Sum32())
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

const (
	tagDateTime       = 0x0132
	tagExifIFDPointer = 0x8769
	tagDateTimeOrig   = 0x9003
	typeASCII         = 2
	typeLong          = 4
)

func buildTIFF(dateTimeOriginal, dateTime string) []byte {
	n0 := 0
	if dateTime != "" {
		n0++
	}
	if dateTimeOriginal != "" {
		n0++
	}
	ifd0Size := 2 + 12*n0 + 4
	exifOffset := 8 + ifd0Size
	exifSize := 0
	if dateTimeOriginal != "" {
		exifSize = 2 + 12 + 4
	}
	dataOffset := exifOffset + exifSize

	var data bytes.Buffer
	var ifd0 []ifdEntry
	if dateTime != "" {
		ifd0 = append(ifd0, ifdEntry{tagDateTime, typeASCII, uint32(len(dateTime) + 1), uint32(dataOffset + data.Len())})
		data.WriteString(dateTime)
		data.WriteByte(0)
	}
	var exifIFD []ifdEntry
	if dateTimeOriginal != "" {
		ifd0 = append(ifd0, ifdEntry{tagExifIFDPointer, typeLong, 1, uint32(exifOffset)})
		exifIFD = append(exifIFD, ifdEntry{tagDateTimeOrig, typeASCII, uint32(len(dateTimeOriginal) + 1), uint32(dataOffset + data.Len())})
		data.WriteString(dateTimeOriginal)
		data.WriteByte(0)
	}

	var out bytes.Buffer
	out.WriteString("MM")
	_ = binary.Write(&out, binary.BigEndian, uint16(42))
	_ = binary.Write(&out, binary.BigEndian, uint32(8))
	writeIFD(&out, ifd0)
	if len(exifIFD) > 0 {
		writeIFD(&out, exifIFD)
	}
	out.Write(data.Bytes())
	return out.Bytes()
}

func writeIFD(out *bytes.Buffer, entries []ifdEntry) {
	_ = binary.Write(out, binary.BigEndian, uint16(len(entries)))
	for _, e := range entries {
		_ = binary.Write(out, binary.BigEndian, e.tag)
		_ = binary.Write(out, binary.BigEndian, e.typ)
		_ = binary.Write(out, binary.BigEndian, e.count)
		_ = binary.Write(out, binary.BigEndian, e.value)
	}
	_ = binary.Write(out, binary.BigEndian, uint32(0))
}
