package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

// ByteGenerator streams HMAC-SHA256(server, "client:nonce:round") output,
// 32 bytes per round.
type ByteGenerator struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewByteGenerator starts the stream at byte offset cursor.
func NewByteGenerator(serverSeed, clientSeed string, nonce uint64, cursor uint64) *ByteGenerator {
	bg := &ByteGenerator{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		nonce:        nonce,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}
	bg.generateRound()
	return bg
}

// Next returns the next byte from the generator
func (bg *ByteGenerator) Next() byte {
	if bg.currentPos >= 32 {
		bg.currentRound++
		bg.currentPos = 0
		bg.generateRound()
	}

	b := bg.buffer[bg.currentPos]
	bg.currentPos++
	return b
}

// NextFloat consumes exactly 4 bytes and returns a float in [0, 1).
func (bg *ByteGenerator) NextFloat() float64 {
	return bytesToFloat([4]byte{bg.Next(), bg.Next(), bg.Next(), bg.Next()})
}

func (bg *ByteGenerator) generateRound() {
	h := hmac.New(sha256.New, []byte(bg.serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", bg.clientSeed, bg.nonce, bg.currentRound)
	copy(bg.buffer[:], h.Sum(nil))
}

func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		result += float64(b) / math.Pow(256, float64(i+1))
	}
	return result
}

// Floats generates count floats starting from the given byte cursor.
func Floats(serverSeed, clientSeed string, nonce uint64, cursor uint64, count int) []float64 {
	return FloatsInto(nil, serverSeed, clientSeed, nonce, cursor, count)
}

// FloatsInto fills dst with floats, allocating only when dst is too short.
func FloatsInto(dst []float64, serverSeed, clientSeed string, nonce uint64, cursor uint64, count int) []float64 {
	if len(dst) < count {
		dst = make([]float64, count)
	}

	bg := NewByteGenerator(serverSeed, clientSeed, nonce, cursor)
	for i := 0; i < count; i++ {
		dst[i] = bg.NextFloat()
	}
	return dst[:count]
}
