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

// Package journal answers questions about how the files of a mount are
// changing over time.
//
// The journal contains metadata only; it is not a snapshot of the
// filesystem at a point in time. The intent is to be able to query things
// like "which set of files changed between time A and time B?". It records
// file-change events from the overlay and hash transitions of the
// underlying checkout, bounded in memory by evicting the oldest entries.
//
// The Journal type is safe for concurrent use. Subscribers are called on
// the goroutine that recorded the triggering delta.
package journal

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/sproutfs/entities/relpath"
	"github.com/weaviate/sproutfs/entities/revision"
	"github.com/weaviate/sproutfs/usecases/monitoring"
)

// DefaultMemoryLimit caps the bytes spent on stored deltas unless
// WithMemoryLimit overrides it.
const DefaultMemoryLimit = 1000000000

// journalStaticOverhead approximates the bookkeeping cost of an empty
// Journal, on top of the per-delta usage.
const journalStaticOverhead = 512

// Stats describes the current state of the journal. It exists only while
// the journal holds at least one delta.
type Stats struct {
	EntryCount          uint64
	EarliestTimestamp   time.Time
	LatestTimestamp     time.Time
	MaxFilesAccumulated int
}

// Duration returns how much history the journal covers as of now.
func (s Stats) Duration(now time.Time) time.Duration {
	return now.Sub(s.EarliestTimestamp)
}

// DeltaInfo is a copy of the tip of the journal.
type DeltaInfo struct {
	FromHash   revision.Hash
	ToHash     revision.Hash
	SequenceID SequenceNumber
	Time       time.Time
}

// deltaState is everything the delta mutex protects. Newer deltas are
// appended to the back of the appropriate deque; both deques share one
// sequence counter, so merging them by sequence number recovers the global
// order.
type deltaState struct {
	// nextSequence is the sequence number the next recorded delta gets.
	nextSequence     SequenceNumber
	fileChangeDeltas []FileChangeDelta
	hashUpdateDeltas []HashUpdateDelta
	// currentHash is the toHash of the most recent hash update ever
	// recorded, surviving both eviction and Flush.
	currentHash      revision.Hash
	stats            *Stats
	memoryLimit      uint64
	deltaMemoryUsage uint64
}

func (s *deltaState) empty() bool {
	return len(s.fileChangeDeltas) == 0 && len(s.hashUpdateDeltas) == 0
}

func (s *deltaState) storedDeltas() int {
	return len(s.fileChangeDeltas) + len(s.hashUpdateDeltas)
}

func (s *deltaState) isFileChangeInFront() bool {
	fileChangeEmpty := len(s.fileChangeDeltas) == 0
	hashUpdateEmpty := len(s.hashUpdateDeltas) == 0
	if !fileChangeEmpty && !hashUpdateEmpty {
		return s.fileChangeDeltas[0].SequenceID < s.hashUpdateDeltas[0].SequenceID
	}
	return !fileChangeEmpty && hashUpdateEmpty
}

func (s *deltaState) isFileChangeInBack() bool {
	fileChangeEmpty := len(s.fileChangeDeltas) == 0
	hashUpdateEmpty := len(s.hashUpdateDeltas) == 0
	if !fileChangeEmpty && !hashUpdateEmpty {
		back := len(s.fileChangeDeltas) - 1
		return s.fileChangeDeltas[back].SequenceID > s.hashUpdateDeltas[len(s.hashUpdateDeltas)-1].SequenceID
	}
	return !fileChangeEmpty && hashUpdateEmpty
}

// frontSequenceID returns the oldest stored sequence number. Only valid on
// a non-empty state.
func (s *deltaState) frontSequenceID() SequenceNumber {
	if s.isFileChangeInFront() {
		return s.fileChangeDeltas[0].SequenceID
	}
	return s.hashUpdateDeltas[0].SequenceID
}

func (s *deltaState) frontTime() time.Time {
	if s.isFileChangeInFront() {
		return s.fileChangeDeltas[0].Time
	}
	return s.hashUpdateDeltas[0].Time
}

// popFront drops the globally oldest delta and adjusts usage and stats.
func (s *deltaState) popFront() {
	if s.isFileChangeInFront() {
		s.deltaMemoryUsage -= s.fileChangeDeltas[0].estimateMemoryUsage()
		s.fileChangeDeltas[0] = FileChangeDelta{}
		s.fileChangeDeltas = s.fileChangeDeltas[1:]
		if len(s.fileChangeDeltas) == 0 {
			s.fileChangeDeltas = nil
		}
	} else {
		s.deltaMemoryUsage -= s.hashUpdateDeltas[0].estimateMemoryUsage()
		s.hashUpdateDeltas[0] = HashUpdateDelta{}
		s.hashUpdateDeltas = s.hashUpdateDeltas[1:]
		if len(s.hashUpdateDeltas) == 0 {
			s.hashUpdateDeltas = nil
		}
	}

	if s.empty() {
		s.stats = nil
		return
	}

	s.stats.EntryCount--
	s.stats.EarliestTimestamp = s.frontTime()
}

// noteAppend updates stats for a freshly appended delta.
func (s *deltaState) noteAppend(t time.Time) {
	if s.stats == nil {
		s.stats = &Stats{
			EntryCount:        1,
			EarliestTimestamp: t,
			LatestTimestamp:   t,
		}
		return
	}

	s.stats.EntryCount++
	s.stats.LatestTimestamp = t
}

// Journal is the append-only change log of one mount. It is created empty;
// producers feed it through the Record methods and readers query it through
// GetLatest, GetStats, AccumulateRange and GetDebugRawJournalInfo.
type Journal struct {
	// deltaMu guards deltaState and nothing else. It is never held while
	// subscriber callbacks run.
	deltaMu    sync.Mutex
	deltaState deltaState

	subscriberState subscriberState

	metrics *Metrics
	logger  logrus.FieldLogger
	clock   func() time.Time
}

// Option configures a Journal at construction time.
type Option func(j *Journal) error

// WithMemoryLimit overrides the default cap on stored-delta bytes.
func WithMemoryLimit(limit uint64) Option {
	return func(j *Journal) error {
		j.deltaState.memoryLimit = limit
		return nil
	}
}

// WithClock substitutes the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(j *Journal) error {
		if clock == nil {
			return errors.New("journal clock must not be nil")
		}

		j.clock = clock
		return nil
	}
}

// New builds an empty Journal. promMetrics may be nil to disable metrics.
func New(promMetrics *monitoring.PrometheusMetrics, logger logrus.FieldLogger,
	opts ...Option,
) (*Journal, error) {
	metrics, err := NewMetrics(promMetrics)
	if err != nil {
		return nil, errors.Wrap(err, "init journal metrics")
	}

	j := &Journal{
		deltaState: deltaState{
			nextSequence: 1,
			currentHash:  revision.ZeroHash,
			memoryLimit:  DefaultMemoryLimit,
		},
		subscriberState: subscriberState{
			nextSubscriberID: 1,
			subscribers:      map[SubscriberID]SubscriberCallback{},
		},
		metrics: metrics,
		logger:  logger,
		clock:   time.Now,
	}

	for _, opt := range opts {
		if err := opt(j); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// RecordCreated records that fileName came into existence.
func (j *Journal) RecordCreated(fileName relpath.Piece) {
	j.addFileChange(FileChangeDelta{
		Path1: relpath.Intern(fileName),
		Kind:  FileCreated,
	})
}

// RecordRemoved records that fileName was deleted.
func (j *Journal) RecordRemoved(fileName relpath.Piece) {
	j.addFileChange(FileChangeDelta{
		Path1: relpath.Intern(fileName),
		Kind:  FileRemoved,
	})
}

// RecordChanged records that the contents of fileName changed.
func (j *Journal) RecordChanged(fileName relpath.Piece) {
	j.addFileChange(FileChangeDelta{
		Path1: relpath.Intern(fileName),
		Kind:  FileChanged,
	})
}

// RecordRenamed records that newName was created as a result of the mv(1).
func (j *Journal) RecordRenamed(oldName, newName relpath.Piece) {
	j.addFileChange(FileChangeDelta{
		Path1: relpath.Intern(oldName),
		Path2: relpath.Intern(newName),
		Kind:  FileRenamed,
	})
}

// RecordReplaced records that newName was overwritten by oldName as a
// result of the mv(1).
func (j *Journal) RecordReplaced(oldName, newName relpath.Piece) {
	j.addFileChange(FileChangeDelta{
		Path1: relpath.Intern(oldName),
		Path2: relpath.Intern(newName),
		Kind:  FileReplaced,
	})
}

// RecordHashUpdate records that the checkout moved to toHash, starting from
// whatever hash the journal currently knows.
func (j *Journal) RecordHashUpdate(toHash revision.Hash) {
	j.deltaMu.Lock()
	delta := HashUpdateDelta{
		FromHash: j.deltaState.currentHash,
		ToHash:   toHash,
	}
	j.addHashUpdateLocked(&delta)
	j.deltaMu.Unlock()

	j.notifySubscribers()
}

// RecordHashTransition records that the checkout moved from fromHash to
// toHash.
func (j *Journal) RecordHashTransition(fromHash, toHash revision.Hash) {
	j.deltaMu.Lock()
	delta := HashUpdateDelta{
		FromHash: fromHash,
		ToHash:   toHash,
	}
	j.addHashUpdateLocked(&delta)
	j.deltaMu.Unlock()

	j.notifySubscribers()
}

// RecordUncleanPaths records a hash transition together with the paths the
// checkout reported dirty relative to toHash.
func (j *Journal) RecordUncleanPaths(fromHash, toHash revision.Hash,
	uncleanPaths []relpath.Piece,
) {
	delta := HashUpdateDelta{
		FromHash: fromHash,
		ToHash:   toHash,
	}
	if len(uncleanPaths) > 0 {
		delta.UncleanPaths = make(map[relpath.RelativePath]struct{}, len(uncleanPaths))
		for _, path := range uncleanPaths {
			delta.UncleanPaths[relpath.Intern(path)] = struct{}{}
		}
	}

	j.deltaMu.Lock()
	j.addHashUpdateLocked(&delta)
	j.deltaMu.Unlock()

	j.notifySubscribers()
}

func (j *Journal) addFileChange(delta FileChangeDelta) {
	j.deltaMu.Lock()
	state := &j.deltaState

	delta.SequenceID = state.nextSequence
	state.nextSequence++
	delta.Time = j.clock()

	if !compactFileChange(state, &delta) {
		state.deltaMemoryUsage += delta.estimateMemoryUsage()
		state.fileChangeDeltas = append(state.fileChangeDeltas, delta)
		state.noteAppend(delta.Time)
	}
	truncateIfNecessary(state)
	j.deltaMu.Unlock()

	j.notifySubscribers()
}

// addHashUpdateLocked stamps and stores a hash-update delta. The delta
// mutex must be held.
func (j *Journal) addHashUpdateLocked(delta *HashUpdateDelta) {
	state := &j.deltaState

	delta.SequenceID = state.nextSequence
	state.nextSequence++
	delta.Time = j.clock()
	state.currentHash = delta.ToHash

	if !compactHashUpdate(state, delta) {
		state.deltaMemoryUsage += delta.estimateMemoryUsage()
		state.hashUpdateDeltas = append(state.hashUpdateDeltas, *delta)
		state.noteAppend(delta.Time)
	}
	truncateIfNecessary(state)
}

// compactFileChange merges delta into the deque's tail when both describe
// the exact same single-path event. The merged entry takes the incoming
// sequence number and timestamp, so the tail always carries the newest
// sequence number and observers see forward motion. The tail's previous
// number is no longer stored, so a compaction can leave a gap between the
// tail and the delta stored before it.
func compactFileChange(state *deltaState, delta *FileChangeDelta) bool {
	n := len(state.fileChangeDeltas)
	if n == 0 {
		return false
	}

	tail := &state.fileChangeDeltas[n-1]
	if !tail.isSameAction(delta) {
		return false
	}

	state.deltaMemoryUsage -= tail.estimateMemoryUsage()
	*tail = *delta
	state.deltaMemoryUsage += tail.estimateMemoryUsage()
	state.stats.LatestTimestamp = delta.Time
	return true
}

// compactHashUpdate collapses two back-to-back clean hash transitions. The
// merged entry keeps the tail's fromHash and takes everything else from the
// incoming delta. Transitions carrying unclean paths never merge; their
// path sets must remain individually queryable.
func compactHashUpdate(state *deltaState, delta *HashUpdateDelta) bool {
	n := len(state.hashUpdateDeltas)
	if n == 0 {
		return false
	}

	tail := &state.hashUpdateDeltas[n-1]
	if len(tail.UncleanPaths) != 0 || len(delta.UncleanPaths) != 0 {
		return false
	}

	tail.SequenceID = delta.SequenceID
	tail.Time = delta.Time
	tail.ToHash = delta.ToHash
	state.stats.LatestTimestamp = delta.Time
	return true
}

// truncateIfNecessary evicts the oldest deltas until usage fits the limit.
// A single delta larger than the limit is retained; eviction never empties
// the journal.
func truncateIfNecessary(state *deltaState) {
	for state.deltaMemoryUsage > state.memoryLimit && state.storedDeltas() > 1 {
		state.popFront()
	}
}

// GetLatest returns a copy of the tip of the journal, or nil if the journal
// is empty.
func (j *Journal) GetLatest() *DeltaInfo {
	j.deltaMu.Lock()
	defer j.deltaMu.Unlock()

	state := &j.deltaState
	if state.empty() {
		return nil
	}

	if state.isFileChangeInBack() {
		tail := &state.fileChangeDeltas[len(state.fileChangeDeltas)-1]
		return &DeltaInfo{
			FromHash:   state.currentHash,
			ToHash:     state.currentHash,
			SequenceID: tail.SequenceID,
			Time:       tail.Time,
		}
	}

	tail := &state.hashUpdateDeltas[len(state.hashUpdateDeltas)-1]
	return &DeltaInfo{
		FromHash:   tail.FromHash,
		ToHash:     tail.ToHash,
		SequenceID: tail.SequenceID,
		Time:       tail.Time,
	}
}

// GetStats returns a copy of the journal's stats, or nil if the journal is
// empty.
func (j *Journal) GetStats() *Stats {
	j.deltaMu.Lock()
	defer j.deltaMu.Unlock()

	if j.deltaState.stats == nil {
		return nil
	}

	stats := *j.deltaState.stats
	return &stats
}

// Flush removes all prior contents from the journal. The sequence counter
// and current hash survive, so range queries whose lower bound predates the
// flush report truncation once new deltas arrive.
func (j *Journal) Flush() {
	j.deltaMu.Lock()
	j.deltaState.fileChangeDeltas = nil
	j.deltaState.hashUpdateDeltas = nil
	j.deltaState.stats = nil
	j.deltaState.deltaMemoryUsage = 0
	j.deltaMu.Unlock()

	if j.logger != nil {
		j.logger.WithField("action", "journal_flush").Debug("journal flushed")
	}

	j.notifySubscribers()
}

// SetMemoryLimit adjusts the byte cap on stored deltas. Shrinking below the
// current usage evicts immediately.
func (j *Journal) SetMemoryLimit(limit uint64) {
	j.deltaMu.Lock()
	defer j.deltaMu.Unlock()

	j.deltaState.memoryLimit = limit
	truncateIfNecessary(&j.deltaState)
}

func (j *Journal) GetMemoryLimit() uint64 {
	j.deltaMu.Lock()
	defer j.deltaMu.Unlock()

	return j.deltaState.memoryLimit
}

// EstimateMemoryUsage returns the bytes attributed to stored deltas plus a
// fixed bookkeeping overhead.
func (j *Journal) EstimateMemoryUsage() uint64 {
	j.deltaMu.Lock()
	defer j.deltaMu.Unlock()

	return journalStaticOverhead + j.deltaState.deltaMemoryUsage
}
