package indexer

import "sync/atomic"

// indexLock serializes batch index runs. At most one batch runs per
// Indexer; a second caller gets an immediate error instead of queueing
// behind a long batch.
type indexLock struct {
	state atomic.Int32 // 0 = unlocked, 1 = locked
}

// TryAcquire takes the lock if it is free and reports whether it did.
// It never blocks.
func (l *indexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock. Only the caller that acquired it may release.
func (l *indexLock) Release() {
	l.state.Store(0)
}
