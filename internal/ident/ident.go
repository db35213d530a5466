// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ident generates the identifiers attached to sections and tests.
// Identifiers only need to be unlikely to collide within a single run.
package ident

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/pdiddy/qaparse/pkg/types"
)

// Generator produces a fresh identifier on each call.
type Generator interface {
	NewID() string
}

// Hex generates 8-character lowercase hexadecimal tokens. It is not safe for
// concurrent use.
type Hex struct {
	rng *rand.Rand
}

// NewHex returns a Hex generator seeded from the runtime's random source.
func NewHex() *Hex {
	return &Hex{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededHex returns a Hex generator whose sequence is fully determined by seed.
func NewSeededHex(seed uint64) *Hex {
	return &Hex{rng: rand.New(rand.NewPCG(seed, seed))}
}

// NewID returns the next token.
func (h *Hex) NewID() string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], h.rng.Uint32())
	return hex.EncodeToString(b[:])
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.NewString()
}

// ForStyle returns the generator for style. A non-zero seed makes the hex
// generator deterministic; it has no effect on UUIDs. An empty style means hex.
func ForStyle(style types.IDStyle, seed uint64) (Generator, error) {
	switch style {
	case types.IDHex, "":
		if seed != 0 {
			return NewSeededHex(seed), nil
		}
		return NewHex(), nil
	case types.IDUUID:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unsupported id style %q: use hex or uuid", style)
	}
}
