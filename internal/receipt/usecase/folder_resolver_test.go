package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	receiptdomain "receipt-backend/internal/receipt/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	r := NewFolderResolver(time.Second)
	ctx := context.Background()

	first, err := r.Resolve(ctx, store, "user-1", "Food", "parent-1")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, store, "user-1", "Food", "parent-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.creates)
}

func TestResolve_ReturnsExistingFolder(t *testing.T) {
	store := newFakeStore()
	store.folders["root/ReceiptManagerUploads"] = "existing"
	r := NewFolderResolver(time.Second)

	id, err := r.Resolve(context.Background(), store, "user-1", "ReceiptManagerUploads", "root")
	require.NoError(t, err)
	assert.Equal(t, "existing", id)
	assert.Equal(t, 0, store.creates)
}

func TestResolve_SameNameUnderDifferentParents(t *testing.T) {
	store := newFakeStore()
	r := NewFolderResolver(time.Second)
	ctx := context.Background()

	a, err := r.Resolve(ctx, store, "user-1", "Food", "parent-a")
	require.NoError(t, err)
	b, err := r.Resolve(ctx, store, "user-1", "Food", "parent-b")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, store.creates)
}

func TestResolve_ConcurrentCallsCreateOnce(t *testing.T) {
	store := newFakeStore()
	r := NewFolderResolver(time.Second)

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Resolve(context.Background(), store, "user-1", "Food", "parent-1")
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.creates)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestResolve_Failures(t *testing.T) {
	t.Run("lookup fails", func(t *testing.T) {
		store := newFakeStore()
		store.findErr["Food"] = errRemote
		r := NewFolderResolver(time.Second)

		id, err := r.Resolve(context.Background(), store, "user-1", "Food", "root")
		assert.Empty(t, id)
		assert.True(t, errors.Is(err, receiptdomain.ErrFolderUnavailable))
		assert.Equal(t, 0, store.creates)
	})

	t.Run("create fails", func(t *testing.T) {
		store := newFakeStore()
		store.createEr = errRemote
		r := NewFolderResolver(time.Second)

		_, err := r.Resolve(context.Background(), store, "user-1", "Food", "root")
		assert.True(t, errors.Is(err, receiptdomain.ErrFolderUnavailable))
	})
}

// blockingStore holds FindFolder until release is closed or the call's ctx ends.
type blockingStore struct {
	*fakeStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) FindFolder(ctx context.Context, name, parentID string) (string, bool, error) {
	s.entered <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
	return s.fakeStore.FindFolder(ctx, name, parentID)
}

func TestResolve_CancelledCallerDoesNotFailOthers(t *testing.T) {
	store := &blockingStore{fakeStore: newFakeStore(), entered: make(chan struct{}, 1), release: make(chan struct{})}
	r := NewFolderResolver(5 * time.Second)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.Resolve(ctxA, store, "user-1", "Food", "parent-1")
		errA <- err
	}()
	<-store.entered

	type result struct {
		id  string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		id, err := r.Resolve(context.Background(), store, "user-1", "Food", "parent-1")
		resB <- result{id, err}
	}()

	cancelA()
	err := <-errA
	assert.True(t, errors.Is(err, receiptdomain.ErrFolderUnavailable))
	assert.Contains(t, err.Error(), context.Canceled.Error())

	close(store.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.NotEmpty(t, b.id)
	assert.Equal(t, 1, store.creates)

	// The shared call finished, so the folder is now found without a new create.
	again, err := r.Resolve(context.Background(), store, "user-1", "Food", "parent-1")
	require.NoError(t, err)
	assert.Equal(t, b.id, again)
	assert.Equal(t, 1, store.creates)
}
