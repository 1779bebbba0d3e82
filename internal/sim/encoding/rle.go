// Package encoding holds the run-length codec used for persisted tile
// grids. Chunks are long runs of identical tiles, so palette indices
// compress far below the dense form even before zstd sees them.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeRLE encodes palette indices as base64(varint pairs), each pair
// being (index, run_len).
func EncodeRLE(ids []uint16) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(ids) {
		id := ids[i]
		run := 1
		for j := i + 1; j < len(ids) && ids[j] == id; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(id))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeRLE reverses EncodeRLE. want is the expected total run length
// (the chunk's tile count); any mismatch means a corrupt or mis-sized
// payload and is rejected rather than silently misapplied.
func DecodeRLE(b64 string, want int) ([]uint16, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, 0, want)
	for i := 0; i < len(raw); {
		id, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at byte %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at byte %d", i)
		}
		i += n
		if id > 0xFFFF {
			return nil, fmt.Errorf("palette index too large: %d", id)
		}
		if len(out)+int(run) > want {
			return nil, fmt.Errorf("run length overflows grid: %d > %d", len(out)+int(run), want)
		}
		for k := 0; k < int(run); k++ {
			out = append(out, uint16(id))
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("decoded %d ids, want %d", len(out), want)
	}
	return out, nil
}
