package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

const (
	// Nonce is appended to the payload as 8 little-endian bytes
	NonceLen = 8

	// SHA-256 output: 32 bytes, 64 hex characters
	DigestLen = sha256.Size
	HexLen    = DigestLen * 2
)

// HashNonce computes the lowercase hex digest of payload ‖ nonce.
// The nonce is encoded as 8 little-endian bytes so digests are bit-exact
// with external verifiers regardless of host byte order.
func HashNonce(payload []byte, nonce uint64) string {
	var nonceBuf [NonceLen]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], nonce)

	h := sha256.New()
	h.Write(payload)
	h.Write(nonceBuf[:])
	return hex.EncodeToString(h.Sum(nil))
}

// HashNonceInto computes the digest of payload ‖ nonce without allocating.
// Reuses the provided hasher and writes into the caller's buffers.
// sumBuf must be at least DigestLen bytes, hexBuf at least HexLen bytes.
// Returns the hex digest as a slice of hexBuf.
func HashNonceInto(hasher hash.Hash, payload []byte, nonce uint64, sumBuf, hexBuf []byte) []byte {
	var nonceBuf [NonceLen]byte
	binary.LittleEndian.PutUint64(nonceBuf[:], nonce)

	hasher.Reset()
	hasher.Write(payload)
	hasher.Write(nonceBuf[:])
	sum := hasher.Sum(sumBuf[:0])
	n := hex.Encode(hexBuf, sum)
	return hexBuf[:n]
}

// MeetsDifficulty reports whether the first difficulty characters of the
// digest are all '0'. Difficulty 0 is trivially satisfied. A digest shorter
// than difficulty characters never satisfies it.
func MeetsDifficulty(digest string, difficulty uint32) bool {
	if difficulty == 0 {
		return true
	}
	if uint64(len(digest)) < uint64(difficulty) {
		return false
	}
	for i := uint32(0); i < difficulty; i++ {
		if digest[i] != '0' {
			return false
		}
	}
	return true
}

// MeetsDifficultyBytes is MeetsDifficulty over a raw hex buffer (hot path).
func MeetsDifficultyBytes(digest []byte, difficulty uint32) bool {
	if difficulty == 0 {
		return true
	}
	if uint64(len(digest)) < uint64(difficulty) {
		return false
	}
	for i := uint32(0); i < difficulty; i++ {
		if digest[i] != '0' {
			return false
		}
	}
	return true
}
