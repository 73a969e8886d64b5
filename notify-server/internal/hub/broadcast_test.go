package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wrxx97/chat/notify-server/internal/domain"
	"github.com/wrxx97/chat/pkg/model"
)

func msgEvent(id int64) domain.ChangeEvent {
	return &domain.NewMessage{Message: &model.Message{ID: id}}
}

func msgID(t *testing.T, evt domain.ChangeEvent) int64 {
	t.Helper()
	m, ok := evt.(*domain.NewMessage)
	require.True(t, ok)
	return m.Message.ID
}

func TestBroadcast_InOrder(t *testing.T) {
	req := require.New(t)

	// Given a receiver subscribed before three sends
	b := NewBroadcast(8)
	rx := b.Subscribe()
	for i := int64(1); i <= 3; i++ {
		req.Equal(1, b.Send(msgEvent(i)))
	}

	// Then it reads them in send order and is then caught up
	for i := int64(1); i <= 3; i++ {
		evt, err := rx.TryRecv()
		req.NoError(err)
		req.Equal(i, msgID(t, evt))
	}
	_, err := rx.TryRecv()
	req.ErrorIs(err, ErrEmpty)
}

func TestBroadcast_NewReceiverStartsAtNow(t *testing.T) {
	req := require.New(t)

	b := NewBroadcast(8)
	b.Send(msgEvent(1))
	rx := b.Subscribe()
	b.Send(msgEvent(2))

	evt, err := rx.TryRecv()
	req.NoError(err)
	req.Equal(int64(2), msgID(t, evt))
}

func TestBroadcast_LagDrop(t *testing.T) {
	req := require.New(t)

	// Given a receiver that reads nothing while capacity+3 events are sent
	b := NewBroadcast(4)
	rx := b.Subscribe()
	for i := int64(1); i <= 7; i++ {
		b.Send(msgEvent(i))
	}

	// When it reads
	_, err := rx.TryRecv()

	// Then it learns how many it missed and resumes at the oldest retained event
	var lagged *LaggedError
	req.True(errors.As(err, &lagged))
	req.Equal(uint64(3), lagged.Missed)

	for i := int64(4); i <= 7; i++ {
		evt, err := rx.TryRecv()
		req.NoError(err)
		req.Equal(i, msgID(t, evt))
	}
	_, err = rx.TryRecv()
	req.ErrorIs(err, ErrEmpty)
}

func TestBroadcast_SlowReceiverDoesNotAffectOthers(t *testing.T) {
	req := require.New(t)

	b := NewBroadcast(2)
	slow := b.Subscribe()
	fast := b.Subscribe()

	for i := int64(1); i <= 5; i++ {
		b.Send(msgEvent(i))
		evt, err := fast.TryRecv()
		req.NoError(err)
		req.Equal(i, msgID(t, evt))
	}

	_, err := slow.TryRecv()
	var lagged *LaggedError
	req.True(errors.As(err, &lagged))
	req.Equal(uint64(3), lagged.Missed)
}

func TestReceiver_RecvWakesOnSend(t *testing.T) {
	req := require.New(t)

	b := NewBroadcast(4)
	rx := b.Subscribe()

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Send(msgEvent(42))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	evt, err := rx.Recv(ctx)
	req.NoError(err)
	req.Equal(int64(42), msgID(t, evt))
}

func TestReceiver_RecvHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewBroadcast(4).Subscribe().Recv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReceiver_Close(t *testing.T) {
	req := require.New(t)

	b := NewBroadcast(4)
	rx1 := b.Subscribe()
	rx2 := b.Subscribe()
	req.Equal(2, b.ReceiverCount())

	rx1.Close()
	rx1.Close()
	req.Equal(1, b.ReceiverCount())
	_, err := rx1.TryRecv()
	req.ErrorIs(err, ErrClosed)

	req.Equal(1, b.Send(msgEvent(1)))
	_, err = rx2.TryRecv()
	req.NoError(err)
}

func TestBroadcast_ConcurrentSendersAndReceivers(t *testing.T) {
	req := require.New(t)

	const senders, perSender = 4, 50
	b := NewBroadcast(senders * perSender)

	receivers := make([]*Receiver, 3)
	for i := range receivers {
		receivers[i] = b.Subscribe()
	}

	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func(s int) {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				b.Send(msgEvent(int64(s*perSender + i)))
			}
		}(s)
	}

	counts := make([]int, len(receivers))
	var rwg sync.WaitGroup
	for i, rx := range receivers {
		rwg.Add(1)
		go func(i int, rx *Receiver) {
			defer rwg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for counts[i] < senders*perSender {
				if _, err := rx.Recv(ctx); err != nil {
					return
				}
				counts[i]++
			}
		}(i, rx)
	}

	wg.Wait()
	rwg.Wait()
	for _, c := range counts {
		req.Equal(senders*perSender, c)
	}
}
