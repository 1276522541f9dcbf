package engine

import "github.com/google/uuid"

// Seeds key every random stream. Server is used as the raw HMAC key.
type Seeds struct {
	Server string `json:"server"`
	Client string `json:"client"`
}

// RandomSeeds returns a fresh, unpredictable pair.
func RandomSeeds() Seeds {
	return Seeds{Server: uuid.NewString(), Client: uuid.NewString()}
}

// Stream is a stateful float source over one (seeds, nonce) pair.
type Stream struct {
	bytes *ByteGenerator
}

// NewStream opens the stream at cursor zero.
func NewStream(seeds Seeds, nonce uint64) *Stream {
	return &Stream{bytes: NewByteGenerator(seeds.Server, seeds.Client, nonce, 0)}
}

// Float64 returns the next float in [0, 1).
func (s *Stream) Float64() float64 {
	return s.bytes.NextFloat()
}

// Intn returns the next integer in [0, n). It panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	return scale(s.Float64(), n)
}

func scale(f float64, n int) int {
	idx := int(f * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
