package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic ID from text content using BLAKE2b
// hashing. Identical content always produces the identical ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}
