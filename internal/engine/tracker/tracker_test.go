package tracker_test

import (
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"

	"github.com/calder-build/calder/internal/adapters/logger"
	"github.com/calder-build/calder/internal/core/domain"
	"github.com/calder-build/calder/internal/engine/tracker"
)

type countingHandle struct {
	closed atomic.Int32
}

func (h *countingHandle) Close() error {
	h.closed.Add(1)
	return nil
}

func TestTracker_SingleBuildClosesOnRelease(t *testing.T) {
	tr := tracker.New(logger.New(domain.LogSilent))
	h := &countingHandle{}

	tr.Acquire()
	tr.Register(h)
	assert.Equal(t, int32(0), h.closed.Load())

	tr.Release()
	assert.Equal(t, int32(1), h.closed.Load())
	assert.Equal(t, 0, tr.InFlight())
}

func TestTracker_TeardownWaitsForAllBuilds(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		tr := tracker.New(logger.New(domain.LogSilent))
		first := &countingHandle{}
		second := &countingHandle{}

		firstDone := make(chan struct{})
		release := make(chan struct{})

		tr.Acquire()
		tr.Acquire()

		go func() {
			tr.Register(first)
			tr.Release()
			close(firstDone)
		}()

		go func() {
			tr.Register(second)
			<-release
			tr.Release()
		}()

		<-firstDone
		synctest.Wait()

		// One build is still in flight: nothing may be closed yet, not
		// even the handle registered by the finished build.
		assert.Equal(t, int32(0), first.closed.Load())
		assert.Equal(t, int32(0), second.closed.Load())

		close(release)
		synctest.Wait()

		assert.Equal(t, int32(1), first.closed.Load())
		assert.Equal(t, int32(1), second.closed.Load())
		assert.Equal(t, 0, tr.InFlight())
	})
}

func TestTracker_RegistryClearedAfterTeardown(t *testing.T) {
	tr := tracker.New(logger.New(domain.LogSilent))
	h := &countingHandle{}

	tr.Acquire()
	tr.Register(h)
	tr.Release()

	// A later build cycle must not close the old handle again.
	tr.Acquire()
	tr.Release()
	assert.Equal(t, int32(1), h.closed.Load())
}
