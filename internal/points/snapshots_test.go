package points_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/model/user"
	"github.com/talx-hub/loyalty-ledger/internal/points"
	"github.com/talx-hub/loyalty-ledger/internal/repo/memory"
)

func TestSnapshotter_RunDrainsOnShutdown(t *testing.T) {
	store := memory.New(time.Second)
	store.AddUser(user.User{ID: alice})

	snaps := points.NewSnapshotter(store, discardLogger(), nil, 8)
	for i := range 3 {
		// equal timestamps must still be stored strictly increasing
		snaps.Record(alice, int64(i), now)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snaps.Run(ctx)

	got := store.Snapshots(alice)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].TakenAt.After(got[i-1].TakenAt))
		assert.Equal(t, int64(i), got[i].Balance)
	}
}

func TestSnapshotter_DropsWhenFull(t *testing.T) {
	store := memory.New(time.Second)
	store.AddUser(user.User{ID: alice})

	snaps := points.NewSnapshotter(store, discardLogger(), nil, 2)
	for i := range 5 {
		snaps.Record(alice, int64(i), now.Add(time.Duration(i)*time.Second))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snaps.Run(ctx)

	got := store.Snapshots(alice)
	require.Len(t, got, 2)
	assert.Equal(t, int64(0), got[0].Balance)
	assert.Equal(t, int64(1), got[1].Balance)
}

func TestSnapshotter_FailedWriteDoesNotStop(t *testing.T) {
	store := memory.New(time.Second)
	store.AddUser(user.User{ID: alice})

	snaps := points.NewSnapshotter(store, discardLogger(), nil, 4)
	snaps.Record(404, 1, now)
	snaps.Record(alice, 2, now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snaps.Run(ctx)

	got := store.Snapshots(alice)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Balance)
}

func TestService_RecordsSnapshotsAfterCommit(t *testing.T) {
	store := memory.New(time.Second)
	store.AddUser(user.User{ID: cashier})
	store.AddUser(user.User{ID: alice, Points: 10})
	store.AddUser(user.User{ID: bob})

	snaps := points.NewSnapshotter(store, discardLogger(), nil, 16)
	s := points.New(store, discardLogger(),
		points.WithSnapshots(snaps),
		points.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := s.CreateTransfer(ctx, points.Transfer{SenderID: alice, RecipientID: bob, Amount: 4})
	require.NoError(t, err)
	_, err = s.CreateTransfer(ctx, points.Transfer{SenderID: alice, RecipientID: bob, Amount: 40})
	require.Error(t, err)
	_, err = s.CreatePurchase(ctx, points.Purchase{
		UserID: alice, CreatedBy: cashier, Spent: decimal.NewFromInt(1),
	})
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	cancel()
	snaps.Run(runCtx)

	aliceSnaps := store.Snapshots(alice)
	require.Len(t, aliceSnaps, 2)
	assert.Equal(t, int64(6), aliceSnaps[0].Balance)
	assert.Equal(t, int64(7), aliceSnaps[1].Balance)
	bobSnaps := store.Snapshots(bob)
	require.Len(t, bobSnaps, 1)
	assert.Equal(t, int64(4), bobSnaps[0].Balance)
}
