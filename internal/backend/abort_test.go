package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbortControllerIdempotent(t *testing.T) {
	a := NewAbortController(context.Background())
	assert.False(t, a.Aborted())

	a.Abort()
	a.Abort() // must not panic or misbehave when called twice
	assert.True(t, a.Aborted())
}

func TestAbortControllerSignalSharedAcrossClones(t *testing.T) {
	a := NewAbortController(context.Background())
	sig1 := a.Signal()
	sig2 := a.Signal()

	a.Abort()

	select {
	case <-sig1.Done():
	default:
		t.Fatal("sig1 should be done after Abort")
	}
	select {
	case <-sig2.Done():
	default:
		t.Fatal("sig2 should be done after Abort")
	}
}
