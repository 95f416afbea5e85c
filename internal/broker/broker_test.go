package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("job_abc")

	b.Publish("job_abc", ProgressEvent{JobID: "abc", Stage: "researching", Percent: 25})

	select {
	case msg := <-ch:
		event, ok := msg.(ProgressEvent)
		require.True(t, ok)
		assert.Equal(t, "researching", event.Stage)
	case <-time.After(time.Second):
		t.Fatal("expected event on subscriber channel")
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("job_abc")
	b.Unsubscribe("job_abc", ch)

	_, open := <-ch
	assert.False(t, open)
}

func TestBrokerPublishToOtherTopicIsIgnored(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("job_abc")
	b.Publish("job_other", ProgressEvent{JobID: "other"})

	select {
	case <-ch:
		t.Fatal("event leaked across topics")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerDropsWhenSubscriberSaturated(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("job_abc")

	// Channel buffer is 8; publishing more must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			b.Publish("job_abc", ProgressEvent{JobID: "abc", Percent: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on saturated subscriber")
	}
	assert.NotEmpty(t, ch)
}
