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

package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/sproutfs/entities/relpath"
)

func TestGetDebugRawJournalInfo(t *testing.T) {
	j := newTestJournal(t)

	j.RecordCreated("a")                                       // seq 1
	j.RecordRenamed("a", "b")                                  // seq 2
	j.RecordUncleanPaths(hash1, hash2, []relpath.Piece{"y", "x"}) // seq 3

	t.Run("dumps newest to oldest", func(t *testing.T) {
		dump := j.GetDebugRawJournalInfo(0, -1, 7)
		require.Len(t, dump, 3)

		assert.Equal(t, HashUpdateKind, dump[0].Kind)
		assert.Equal(t, SequenceNumber(3), dump[0].SequenceID)
		assert.Equal(t, hash1, dump[0].FromHash)
		assert.Equal(t, hash2, dump[0].ToHash)
		assert.Equal(t, []relpath.RelativePath{
			relpath.Intern("x"), relpath.Intern("y"),
		}, dump[0].UncleanPaths)

		assert.Equal(t, "renamed", dump[1].Kind)
		assert.Equal(t, SequenceNumber(2), dump[1].SequenceID)
		assert.Equal(t, relpath.Intern("a"), dump[1].Path1)
		assert.Equal(t, relpath.Intern("b"), dump[1].Path2)

		assert.Equal(t, "created", dump[2].Kind)
		assert.Equal(t, SequenceNumber(1), dump[2].SequenceID)
		assert.Equal(t, relpath.Intern("a"), dump[2].Path1)
	})

	t.Run("annotates every entry with the mount generation", func(t *testing.T) {
		for _, entry := range j.GetDebugRawJournalInfo(0, -1, 7) {
			assert.Equal(t, int64(7), entry.MountGeneration)
		}
	})

	t.Run("honors the length limit", func(t *testing.T) {
		dump := j.GetDebugRawJournalInfo(0, 2, 0)
		require.Len(t, dump, 2)
		assert.Equal(t, SequenceNumber(3), dump[0].SequenceID)
		assert.Equal(t, SequenceNumber(2), dump[1].SequenceID)
	})

	t.Run("honors the lower bound", func(t *testing.T) {
		dump := j.GetDebugRawJournalInfo(3, -1, 0)
		require.Len(t, dump, 1)
		assert.Equal(t, SequenceNumber(3), dump[0].SequenceID)
	})

	t.Run("empty journal dumps nothing", func(t *testing.T) {
		empty := newTestJournal(t)
		assert.Empty(t, empty.GetDebugRawJournalInfo(0, -1, 0))
	})
}
