package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/serolight/walletdash/internal/domain"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster[domain.DashboardView](4)
	a := b.Subscribe()
	c := b.Subscribe()
	defer b.Unsubscribe(a)
	defer b.Unsubscribe(c)

	b.Publish(domain.DashboardView{BlockHeight: 7})

	require.Equal(t, uint64(7), (<-a).BlockHeight)
	require.Equal(t, uint64(7), (<-c).BlockHeight)
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroadcaster[domain.DashboardView](1)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(domain.DashboardView{BlockHeight: 1})
	b.Publish(domain.DashboardView{BlockHeight: 2}) // buffer full, dropped

	require.Equal(t, uint64(1), (<-ch).BlockHeight)
	select {
	case v := <-ch:
		t.Fatalf("unexpected second value: %+v", v)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster[domain.HistoryView](4)
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)
}
