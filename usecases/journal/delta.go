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

// SequenceNumber tags every delta at append time. Zero is never assigned; it
// doubles as the "no lower bound" sentinel in range queries. The first
// assigned sequence number is 1.
type SequenceNumber uint64

// FileChangeKind discriminates the five file-change events the overlay
// dispatch layer reports.
type FileChangeKind uint8

const (
	FileCreated FileChangeKind = iota
	FileRemoved
	FileChanged
	FileRenamed
	FileReplaced
)

func (k FileChangeKind) String() string {
	switch k {
	case FileCreated:
		return "created"
	case FileRemoved:
		return "removed"
	case FileChanged:
		return "changed"
	case FileRenamed:
		return "renamed"
	case FileReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// FileChangeDelta records one file-change event. For FileRenamed and
// FileReplaced, Path1 is the old name and Path2 the new name; the other
// kinds set Path1 only.
type FileChangeDelta struct {
	SequenceID SequenceNumber
	Time       time.Time
	Path1      relpath.RelativePath
	Path2      relpath.RelativePath
	Kind       FileChangeKind
}

// isModification reports whether the delta describes a single-path event.
// Only such deltas take part in compaction.
func (d *FileChangeDelta) isModification() bool {
	switch d.Kind {
	case FileCreated, FileRemoved, FileChanged:
		return true
	default:
		return false
	}
}

// isSameAction reports whether other describes the exact same single-path
// event, in which case the two deltas represent the same state transition
// and can be compacted.
func (d *FileChangeDelta) isSameAction(other *FileChangeDelta) bool {
	return d.isModification() && d.Kind == other.Kind && d.Path1 == other.Path1
}

// isTwoPath reports whether Path2 carries the new name.
func (d *FileChangeDelta) isTwoPath() bool {
	return d.Kind == FileRenamed || d.Kind == FileReplaced
}

// wasCreated reports whether this delta brought path into existence.
func (d *FileChangeDelta) wasCreated(path relpath.RelativePath) bool {
	return (d.Kind == FileCreated && d.Path1 == path) ||
		(d.Kind == FileRenamed && d.Path2 == path)
}

// wasRemoved reports whether this delta removed path. The old name of a
// rename or replace counts as removed.
func (d *FileChangeDelta) wasRemoved(path relpath.RelativePath) bool {
	return (d.Kind == FileRemoved && d.Path1 == path) ||
		(d.isTwoPath() && d.Path1 == path)
}

// wasChanged reports whether this delta modified an already existing path.
// The target of a replace counts as changed, since it existed before being
// overwritten.
func (d *FileChangeDelta) wasChanged(path relpath.RelativePath) bool {
	return (d.Kind == FileChanged && d.Path1 == path) ||
		(d.Kind == FileReplaced && d.Path2 == path)
}

// fileChangeDeltaBaseSize approximates the fixed per-delta cost of a stored
// FileChangeDelta (struct plus deque slot).
const fileChangeDeltaBaseSize = 64

func (d *FileChangeDelta) estimateMemoryUsage() uint64 {
	size := uint64(fileChangeDeltaBaseSize) + d.Path1.Size()
	if d.isTwoPath() {
		size += d.Path2.Size()
	}
	return size
}

// HashUpdateDelta records a transition of the mount's source-control
// position. UncleanPaths holds the paths the checkout reported dirty
// relative to ToHash; it is empty for clean transitions.
type HashUpdateDelta struct {
	SequenceID   SequenceNumber
	Time         time.Time
	FromHash     revision.Hash
	ToHash       revision.Hash
	UncleanPaths map[relpath.RelativePath]struct{}
}

const (
	hashUpdateDeltaBaseSize = 96
	uncleanPathSlotSize     = 48
)

func (d *HashUpdateDelta) estimateMemoryUsage() uint64 {
	size := uint64(hashUpdateDeltaBaseSize)
	for path := range d.UncleanPaths {
		size += uncleanPathSlotSize + path.Size()
	}
	return size
}
