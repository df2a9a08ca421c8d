package app

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppShutdownRunsCleanup(t *testing.T) {
	cleanupErr := errors.New("close failed")
	calls := 0

	a := &App{
		httpServer: &http.Server{Addr: ":0"},
		cleanup: func() error {
			calls++
			return cleanupErr
		},
	}

	err := a.Shutdown(context.Background())
	require.ErrorIs(t, err, cleanupErr)
	require.Equal(t, 1, calls)
}

func TestAppShutdownWithoutCleanup(t *testing.T) {
	a := &App{httpServer: &http.Server{Addr: ":0"}}
	require.NoError(t, a.Shutdown(context.Background()))
}
