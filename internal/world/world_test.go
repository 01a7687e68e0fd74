package world_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/biocore/pipeclust/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLocalSendRecvRoundTrip(t *testing.T) {
	worlds := world.NewLocalWorld(context.Background(), 2)
	require.Equal(t, 0, worlds[0].Rank())
	require.Equal(t, 2, worlds[0].Size())

	var g errgroup.Group
	g.Go(func() error {
		return worlds[0].Send(1, []byte("hello"))
	})
	g.Go(func() error {
		data, err := worlds[1].Recv(0)
		if err != nil {
			return err
		}
		if string(data) != "hello" {
			return fmt.Errorf("got %q", data)
		}
		return nil
	})
	require.NoError(t, g.Wait())
}

func TestLocalPreservesFIFOOrderPerPair(t *testing.T) {
	worlds := world.NewLocalWorld(context.Background(), 2)

	var g errgroup.Group
	g.Go(func() error {
		if err := worlds[0].Send(1, []byte{1}); err != nil {
			return err
		}
		return worlds[0].Send(1, []byte{2})
	})
	var got []byte
	g.Go(func() error {
		for i := 0; i < 2; i++ {
			d, err := worlds[1].Recv(0)
			if err != nil {
				return err
			}
			got = append(got, d...)
		}
		return nil
	})
	require.NoError(t, g.Wait())
	assert.Equal(t, []byte{1, 2}, got)
}

func TestLocalAbortUnblocksAllRanks(t *testing.T) {
	worlds := world.NewLocalWorld(context.Background(), 3)

	var g errgroup.Group
	for _, w := range worlds[1:] {
		w := w
		g.Go(func() error {
			_, err := w.Recv(0)
			return err
		})
	}
	worlds[0].Abort(fmt.Errorf("boom"))
	err := g.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
