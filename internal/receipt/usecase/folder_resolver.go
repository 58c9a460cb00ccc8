package usecase

import (
	"context"
	"fmt"
	"time"

	receiptdomain "receipt-backend/internal/receipt/domain"
	"receipt-backend/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// FolderResolver finds a folder by name under a parent and creates it when missing.
//
// Lookup-before-create leaves a window in which two processes can both create
// the same folder. Inside one process, concurrent resolutions of the same
// (scope, parent, name) share a single lookup and create.
type FolderResolver struct {
	group       singleflight.Group
	callTimeout time.Duration
}

func NewFolderResolver(callTimeout time.Duration) *FolderResolver {
	return &FolderResolver{callTimeout: callTimeout}
}

// Resolve returns the id of the folder called name under parentID. scope
// identifies whose store is being used. Any remote error is logged and returned
// wrapped in ErrFolderUnavailable.
func (r *FolderResolver) Resolve(ctx context.Context, store ObjectStore, scope, name, parentID string) (string, error) {
	key := scope + "\x00" + parentID + "\x00" + name
	// The shared call outlives any single caller; each caller only stops waiting.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.findOrCreate(shared, store, name, parentID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			logger.Sugar.Errorw("error finding or creating folder", "folder", name, "parent", parentID, "error", res.Err)
			return "", fmt.Errorf("%w: %s: %v", receiptdomain.ErrFolderUnavailable, name, res.Err)
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %s: %v", receiptdomain.ErrFolderUnavailable, name, ctx.Err())
	}
}

func (r *FolderResolver) findOrCreate(ctx context.Context, store ObjectStore, name, parentID string) (string, error) {
	callCtx, cancel := withTimeout(ctx, r.callTimeout)
	id, found, err := store.FindFolder(callCtx, name, parentID)
	cancel()
	if err != nil {
		return "", err
	}
	if found {
		return id, nil
	}

	logger.Sugar.Infow("folder not found, creating", "folder", name, "parent", parentID)
	callCtx, cancel = withTimeout(ctx, r.callTimeout)
	defer cancel()
	id, err = store.CreateFolder(callCtx, name, parentID)
	if err != nil {
		return "", err
	}
	logger.Sugar.Infow("folder created", "folder", name, "id", id)
	return id, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
