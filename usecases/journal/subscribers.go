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
	"sync"
)

// SubscriberID identifies one registered subscriber. IDs are assigned
// monotonically starting at 1 and are never reused.
type SubscriberID uint64

// SubscriberCallback is invoked whenever the journal has changed. Callbacks
// run on the goroutine that recorded the triggering delta, often in the
// middle of a filesystem mutation, so they should do the minimal amount of
// work needed to schedule the real work in some other context.
//
// No journal lock is held during the call, so a callback may query the
// journal. It must not assume it will still observe the delta that caused
// the notification; eviction may already have dropped it.
type SubscriberCallback func()

// subscriberState has its own mutex, strictly separate from the delta
// mutex. Never hold both at once.
type subscriberState struct {
	sync.Mutex
	nextSubscriberID SubscriberID
	subscribers      map[SubscriberID]SubscriberCallback
}

// RegisterSubscriber stores callback and returns an identifier that can
// later be passed to CancelSubscriber.
func (j *Journal) RegisterSubscriber(callback SubscriberCallback) SubscriberID {
	state := &j.subscriberState
	state.Lock()
	defer state.Unlock()

	id := state.nextSubscriberID
	state.nextSubscriberID++
	state.subscribers[id] = callback
	return id
}

// CancelSubscriber removes the registration. Unknown ids are a no-op.
func (j *Journal) CancelSubscriber(id SubscriberID) {
	state := &j.subscriberState
	state.Lock()
	defer state.Unlock()

	delete(state.subscribers, id)
}

func (j *Journal) CancelAllSubscribers() {
	state := &j.subscriberState
	state.Lock()
	defer state.Unlock()

	state.subscribers = map[SubscriberID]SubscriberCallback{}
}

func (j *Journal) IsSubscriberValid(id SubscriberID) bool {
	state := &j.subscriberState
	state.Lock()
	defer state.Unlock()

	_, ok := state.subscribers[id]
	return ok
}

// notifySubscribers invokes every registered callback on a snapshot of the
// subscriber set. Must be called with no journal locks held. A panicking
// subscriber does not prevent the remaining ones from running; the first
// panic value is re-raised afterwards so the recording caller still sees
// the failure.
func (j *Journal) notifySubscribers() {
	type subscriber struct {
		id       SubscriberID
		callback SubscriberCallback
	}

	state := &j.subscriberState
	state.Lock()
	snapshot := make([]subscriber, 0, len(state.subscribers))
	for id, callback := range state.subscribers {
		snapshot = append(snapshot, subscriber{id: id, callback: callback})
	}
	state.Unlock()

	sort.Slice(snapshot, func(a, b int) bool {
		return snapshot[a].id < snapshot[b].id
	})

	var firstPanic interface{}
	panicked := false
	for _, sub := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if j.logger != nil {
						j.logger.WithField("subscriber_id", sub.id).
							Errorf("recovered from panic in journal subscriber: %v", r)
					}
					if !panicked {
						panicked = true
						firstPanic = r
					}
				}
			}()
			sub.callback()
		}()
	}

	if panicked {
		panic(firstPanic)
	}
}
