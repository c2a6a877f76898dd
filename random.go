package main

import (
	"time"

	"golang.org/x/exp/rand"
)

// faceSource supplies the local randomness used for dice spin frames and the
// kind of decorative tiles. The authoritative dice value always comes from
// the server; these faces are visual filler while the spin runs.
type faceSource struct {
	rng *rand.Rand
}

func newFaceSource(seed uint64) *faceSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &faceSource{rng: rand.New(rand.NewSource(seed))}
}

// SpinFace returns a die face 1..6 for one animation frame.
func (f *faceSource) SpinFace() int {
	return f.rng.Intn(6) + 1
}

// DecorativeKind picks the kind of a freshly expanded tile. Roughly one in
// three expansions produces a special tile, matching the board's flavor mix.
func (f *faceSource) DecorativeKind() TileKind {
	if f.rng.Float64() > 0.7 {
		return TileSpecial
	}
	return TileNormal
}
