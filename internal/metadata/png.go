package metadata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const maxEXIFChunk = 16 << 20

var errNoPNGEXIF = errors.New("png: no eXIf chunk")

// pngEXIF walks the chunks of a PNG stream and returns the payload of its
// eXIf chunk. Some writers keep the JPEG "Exif\0\0" preamble; it is dropped.
func pngEXIF(r io.Reader) ([]byte, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return nil, fmt.Errorf("png: read signature: %w", err)
	}
	if !bytes.Equal(sig, pngSignature) {
		return nil, errors.New("png: bad signature")
	}

	var header [8]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errNoPNGEXIF
			}
			return nil, fmt.Errorf("png: read chunk header: %w", err)
		}
		length := binary.BigEndian.Uint32(header[:4])
		kind := string(header[4:])

		switch kind {
		case "eXIf":
			if length > maxEXIFChunk {
				return nil, fmt.Errorf("png: eXIf chunk of %d bytes", length)
			}
			payload := make([]byte, length)
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, fmt.Errorf("png: read eXIf: %w", err)
			}
			return bytes.TrimPrefix(payload, []byte("Exif\x00\x00")), nil
		case "IEND":
			return nil, errNoPNGEXIF
		}
		// Skip data and CRC.
		if _, err := io.CopyN(io.Discard, r, int64(length)+4); err != nil {
			return nil, fmt.Errorf("png: skip %s chunk: %w", kind, err)
		}
	}
}
