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

// Package revision contains the opaque identifiers a mount exchanges with
// its source-control backend.
package revision

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
)

// Size is the width in bytes of a source-control hash.
const Size = 20

// Hash identifies a commit or manifest in the backing source-control
// repository. It is a value type, comparable with ==.
type Hash [Size]byte

// ZeroHash is the designated "unknown/initial" hash. A mount that has never
// observed a checkout position reports ZeroHash.
var ZeroHash = Hash{}

// IsZero reports whether h is the designated zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Hash64 returns a murmur3 digest of the hash bytes, for callers that bucket
// hashes themselves.
func (h Hash) Hash64() uint64 {
	d := murmur3.New64()
	d.Write(h[:])
	return d.Sum64()
}

// Parse converts a 40-character hex string into a Hash.
func Parse(in string) (Hash, error) {
	var h Hash
	if len(in) != 2*Size {
		return ZeroHash, errors.Errorf("hash %q: expected %d hex characters, got %d",
			in, 2*Size, len(in))
	}

	if _, err := hex.Decode(h[:], []byte(in)); err != nil {
		return ZeroHash, errors.Wrapf(err, "hash %q", in)
	}

	return h, nil
}

// MustParse is like Parse, but panics on malformed input. Intended for
// constants and tests.
func MustParse(in string) Hash {
	h, err := Parse(in)
	if err != nil {
		panic(err)
	}

	return h
}
