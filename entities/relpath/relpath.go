//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package relpath provides the interned relative-path type used throughout
// the mount. Paths are relative to the mount root and never begin or end
// with a separator.
package relpath

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// Piece is a borrowed, unowned view of a relative path. Use it for
// arguments; convert to a RelativePath with Intern to hold on to it.
type Piece string

// RelativePath is an interned relative path. Two RelativePaths obtained from
// Intern compare equal with == iff they denote the same path, which also
// makes RelativePath usable as a map key.
//
// The zero value denotes the empty path (the mount root).
type RelativePath struct {
	s *string
}

var intern = struct {
	sync.Mutex
	paths map[Piece]*string
}{
	paths: make(map[Piece]*string),
}

// Intern returns the canonical RelativePath for p, deduplicating the backing
// string through a process-wide table.
func Intern(p Piece) RelativePath {
	if p == "" {
		return RelativePath{}
	}

	intern.Lock()
	defer intern.Unlock()

	if s, ok := intern.paths[p]; ok {
		return RelativePath{s: s}
	}

	s := string(p)
	intern.paths[p] = &s
	return RelativePath{s: &s}
}

// Piece returns a borrowed view of the path.
func (p RelativePath) Piece() Piece {
	if p.s == nil {
		return ""
	}
	return Piece(*p.s)
}

func (p RelativePath) String() string {
	if p.s == nil {
		return ""
	}
	return *p.s
}

// IsRoot reports whether p is the empty path.
func (p RelativePath) IsRoot() bool {
	return p.s == nil || *p.s == ""
}

// Hash64 returns a murmur3 digest of the path bytes.
func (p RelativePath) Hash64() uint64 {
	d := murmur3.New64()
	d.Write([]byte(p.String()))
	return d.Sum64()
}

// stringHeaderSize approximates the fixed cost of one stored path on 64-bit
// platforms (pointer + length).
const stringHeaderSize = 16

// Size returns the estimated number of bytes p occupies, for memory
// accounting.
func (p RelativePath) Size() uint64 {
	return stringHeaderSize + uint64(len(p.String()))
}
