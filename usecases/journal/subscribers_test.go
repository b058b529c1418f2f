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
)

func TestSubscriberRegistration(t *testing.T) {
	j := newTestJournal(t)

	id1 := j.RegisterSubscriber(func() {})
	id2 := j.RegisterSubscriber(func() {})

	assert.Equal(t, SubscriberID(1), id1)
	assert.Equal(t, SubscriberID(2), id2)
	assert.True(t, j.IsSubscriberValid(id1))
	assert.True(t, j.IsSubscriberValid(id2))

	t.Run("cancel removes only the given id", func(t *testing.T) {
		j.CancelSubscriber(id1)
		assert.False(t, j.IsSubscriberValid(id1))
		assert.True(t, j.IsSubscriberValid(id2))
	})

	t.Run("cancel of an unknown id is a no-op", func(t *testing.T) {
		j.CancelSubscriber(SubscriberID(999))
		assert.True(t, j.IsSubscriberValid(id2))
	})

	t.Run("cancel all", func(t *testing.T) {
		j.CancelAllSubscribers()
		assert.False(t, j.IsSubscriberValid(id2))
	})

	t.Run("ids are not reused after cancellation", func(t *testing.T) {
		id3 := j.RegisterSubscriber(func() {})
		assert.Equal(t, SubscriberID(3), id3)
	})
}

func TestNotificationFiresOncePerRecord(t *testing.T) {
	j := newTestJournal(t)

	notified := 0
	j.RegisterSubscriber(func() { notified++ })

	j.RecordChanged("a")
	j.RecordChanged("a") // compacts, still notifies
	j.RecordHashUpdate(hash1)
	assert.Equal(t, 3, notified)

	j.Flush()
	assert.Equal(t, 4, notified)
}

func TestCancelledSubscriberIsNotNotified(t *testing.T) {
	j := newTestJournal(t)

	notified := 0
	id := j.RegisterSubscriber(func() { notified++ })

	j.RecordChanged("a")
	j.CancelSubscriber(id)
	j.RecordChanged("b")

	assert.Equal(t, 1, notified)
}

func TestSubscriberMayReenterJournal(t *testing.T) {
	j := newTestJournal(t)

	var seen []SequenceNumber
	j.RegisterSubscriber(func() {
		if latest := j.GetLatest(); latest != nil {
			seen = append(seen, latest.SequenceID)
		}
	})

	j.RecordChanged("a")
	j.RecordChanged("b")

	assert.Equal(t, []SequenceNumber{1, 2}, seen)
}

func TestPanickingSubscriberDoesNotStarveOthers(t *testing.T) {
	j := newTestJournal(t)

	j.RegisterSubscriber(func() { panic("boom") })

	notified := 0
	j.RegisterSubscriber(func() { notified++ })

	require.PanicsWithValue(t, "boom", func() {
		j.RecordChanged("a")
	})
	assert.Equal(t, 1, notified, "the second subscriber must still run")

	t.Run("the delta was recorded despite the panic", func(t *testing.T) {
		latest := j.GetLatest()
		require.NotNil(t, latest)
		assert.Equal(t, SequenceNumber(1), latest.SequenceID)
	})

	t.Run("the first panic wins when several subscribers fail", func(t *testing.T) {
		j.RegisterSubscriber(func() { panic("later") })

		require.PanicsWithValue(t, "boom", func() {
			j.RecordChanged("b")
		})
		assert.Equal(t, 2, notified)
	})
}
