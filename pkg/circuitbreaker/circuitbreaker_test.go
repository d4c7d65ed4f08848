package circuitbreaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pustakalaya/bookstore-service/pkg/circuitbreaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error {
		return nil
	}
	failingService := func() error {
		return errors.New("service error")
	}

	cb := circuitbreaker.New(10, 50*time.Millisecond, 0.30, 3)

	for i := 0; i < 20; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// enough failures to open the breaker
	for i := 0; i < 10; i++ {
		_ = cb.Call(failingService)
	}
	require.ErrorIs(t, cb.Call(successfulService), circuitbreaker.ErrOpenCB)

	// after the timeout the breaker probes in half-open state
	time.Sleep(60 * time.Millisecond)
	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(successfulService))
	}

	// closed again: a single failure is tolerated
	cb.Reset()
	require.Error(t, cb.Call(failingService))
	require.NoError(t, cb.Call(successfulService))
}
