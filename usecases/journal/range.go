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
	"time"

	"github.com/weaviate/sproutfs/entities/relpath"
	"github.com/weaviate/sproutfs/entities/revision"
)

// PathChangeInfo describes the net effect of a delta range on one path.
type PathChangeInfo struct {
	ExistedBefore bool
	ExistedAfter  bool
}

// DeltaRange is the sum of the modifications done by a contiguous range of
// deltas.
type DeltaRange struct {
	// FromSequence and ToSequence are the inclusive bounds of the range
	// actually summarized.
	FromSequence SequenceNumber
	ToSequence   SequenceNumber

	FromTime time.Time
	ToTime   time.Time

	// FromHash is the starting checkout position of the range; ToHash the
	// ending one. If the range contains no hash updates both equal the
	// journal's current hash.
	FromHash revision.Hash
	ToHash   revision.Hash

	// ChangedFilesInOverlay maps each touched path to whether it existed
	// before the range and whether it exists after it.
	ChangedFilesInOverlay map[relpath.RelativePath]PathChangeInfo

	// UncleanPaths is the union of the unclean-path sets of every hash
	// update in the range.
	UncleanPaths map[relpath.RelativePath]struct{}

	// IsTruncated is set when the requested lower bound is older than the
	// oldest delta the journal still remembers; the summary then covers
	// only the retained portion.
	IsTruncated bool
}

// forEachDelta walks the merged sequence order of both deques from the
// newest delta down to the delta with sequence number from, visiting at
// most lengthLimit entries if lengthLimit is non-negative.
func forEachDelta(state *deltaState, from SequenceNumber, lengthLimit int,
	fileChangeFn func(*FileChangeDelta), hashUpdateFn func(*HashUpdateDelta),
) {
	fileIdx := len(state.fileChangeDeltas) - 1
	hashIdx := len(state.hashUpdateDeltas) - 1

	visited := 0
	for fileIdx >= 0 || hashIdx >= 0 {
		if lengthLimit >= 0 && visited >= lengthLimit {
			return
		}

		pickFileChange := hashIdx < 0 ||
			(fileIdx >= 0 &&
				state.fileChangeDeltas[fileIdx].SequenceID > state.hashUpdateDeltas[hashIdx].SequenceID)

		if pickFileChange {
			delta := &state.fileChangeDeltas[fileIdx]
			if delta.SequenceID < from {
				return
			}
			fileChangeFn(delta)
			fileIdx--
		} else {
			delta := &state.hashUpdateDeltas[hashIdx]
			if delta.SequenceID < from {
				return
			}
			hashUpdateFn(delta)
			hashIdx--
		}
		visited++
	}
}

// AccumulateRange sums the modifications done by every delta with a
// sequence number >= limitSequence. limitSequence 0 is never assigned by
// the journal and means "everything". Returns nil if no delta matches.
func (j *Journal) AccumulateRange(limitSequence SequenceNumber) *DeltaRange {
	var result *DeltaRange

	j.deltaMu.Lock()
	state := &j.deltaState

	// The fold runs newest to oldest: the newest delta touching a path
	// decides ExistedAfter, and every older delta overrides ExistedBefore
	// with its own view of the world before it ran.
	hashSeen := false
	fold := func(seq SequenceNumber, t time.Time) {
		if result == nil {
			result = &DeltaRange{
				ToSequence:            seq,
				ToTime:                t,
				ChangedFilesInOverlay: map[relpath.RelativePath]PathChangeInfo{},
				UncleanPaths:          map[relpath.RelativePath]struct{}{},
			}
		}
		result.FromSequence = seq
		result.FromTime = t
	}

	foldPath := func(delta *FileChangeDelta, path relpath.RelativePath) {
		existedBefore := !delta.wasCreated(path)
		if info, ok := result.ChangedFilesInOverlay[path]; ok {
			info.ExistedBefore = existedBefore
			result.ChangedFilesInOverlay[path] = info
			return
		}
		result.ChangedFilesInOverlay[path] = PathChangeInfo{
			ExistedBefore: existedBefore,
			ExistedAfter:  !delta.wasRemoved(path),
		}
	}

	forEachDelta(state, limitSequence, -1,
		func(delta *FileChangeDelta) {
			fold(delta.SequenceID, delta.Time)
			foldPath(delta, delta.Path1)
			if delta.isTwoPath() {
				foldPath(delta, delta.Path2)
			}
		},
		func(delta *HashUpdateDelta) {
			fold(delta.SequenceID, delta.Time)
			if !hashSeen {
				hashSeen = true
				result.ToHash = delta.ToHash
			}
			result.FromHash = delta.FromHash
			for path := range delta.UncleanPaths {
				result.UncleanPaths[path] = struct{}{}
			}
		})

	if result == nil {
		j.deltaMu.Unlock()
		return nil
	}

	if !hashSeen {
		result.FromHash = state.currentHash
		result.ToHash = state.currentHash
	}

	result.IsTruncated = limitSequence > 0 && limitSequence < state.frontSequenceID()

	if state.stats != nil && len(result.ChangedFilesInOverlay) > state.stats.MaxFilesAccumulated {
		state.stats.MaxFilesAccumulated = len(result.ChangedFilesInOverlay)
	}
	j.deltaMu.Unlock()

	if result.IsTruncated {
		j.metrics.TruncatedRead()
	}

	return result
}

// AccumulateAll sums the modifications done by every delta the journal
// still remembers.
func (j *Journal) AccumulateAll() *DeltaRange {
	return j.AccumulateRange(0)
}
