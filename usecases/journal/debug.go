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
	"sort"
	"time"

	"github.com/weaviate/sproutfs/entities/relpath"
	"github.com/weaviate/sproutfs/entities/revision"
)

// HashUpdateKind is the kind tag a DebugDelta carries for hash-update
// entries; file-change entries carry their FileChangeKind string.
const HashUpdateKind = "hash_update"

// DebugDelta is a raw dump of one stored delta, for diagnostics. Its fields
// mirror the stored delta's fields verbatim; MountGeneration is passed
// through from the caller unchanged.
type DebugDelta struct {
	Kind            string
	SequenceID      SequenceNumber
	Time            time.Time
	MountGeneration int64

	// File-change fields. Path2 is set for renames and replaces only.
	Path1 relpath.RelativePath
	Path2 relpath.RelativePath

	// Hash-update fields.
	FromHash     revision.Hash
	ToHash       revision.Hash
	UncleanPaths []relpath.RelativePath
}

// GetDebugRawJournalInfo walks the journal newest to oldest, dumping up to
// limit entries with sequence numbers >= from. A negative limit means no
// limit. If the beginning of the journal is reached first, the walk just
// returns what it found.
func (j *Journal) GetDebugRawJournalInfo(from SequenceNumber, limit int,
	mountGeneration int64,
) []DebugDelta {
	j.deltaMu.Lock()
	defer j.deltaMu.Unlock()

	var out []DebugDelta
	forEachDelta(&j.deltaState, from, limit,
		func(delta *FileChangeDelta) {
			out = append(out, DebugDelta{
				Kind:            delta.Kind.String(),
				SequenceID:      delta.SequenceID,
				Time:            delta.Time,
				MountGeneration: mountGeneration,
				Path1:           delta.Path1,
				Path2:           delta.Path2,
			})
		},
		func(delta *HashUpdateDelta) {
			entry := DebugDelta{
				Kind:            HashUpdateKind,
				SequenceID:      delta.SequenceID,
				Time:            delta.Time,
				MountGeneration: mountGeneration,
				FromHash:        delta.FromHash,
				ToHash:          delta.ToHash,
			}
			if len(delta.UncleanPaths) > 0 {
				entry.UncleanPaths = make([]relpath.RelativePath, 0, len(delta.UncleanPaths))
				for path := range delta.UncleanPaths {
					entry.UncleanPaths = append(entry.UncleanPaths, path)
				}
				sort.Slice(entry.UncleanPaths, func(a, b int) bool {
					return entry.UncleanPaths[a].String() < entry.UncleanPaths[b].String()
				})
			}
			out = append(out, entry)
		})

	return out
}
