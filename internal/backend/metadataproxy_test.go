package backend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataProxy_RefreshTracksDefaults(t *testing.T) {
	em, idx := newTestEventManager(
		[]DeviceNode{
			{ID: 1, Name: "Speakers", IsDefault: true},
			{ID: 2, Name: "Mic", IsCapture: true, IsDefault: true},
		},
		[]DeviceNode{
			{ID: 2, Name: "Mic", IsCapture: true, IsDefault: true},
		},
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, em.Start(ctx))
	defer em.Stop()
	require.NoError(t, em.WaitForInit(ctx))

	meta := NewMetadataProxy(em)
	meta.Refresh()
	assert.Equal(t, "Speakers", meta.DefaultSinkDev())
	assert.Equal(t, "Mic", meta.DefaultSourceDev())

	// the sink disappears from the registry; a Refresh should clear its
	// name exactly as a native null metadata update would (spec §4.4).
	*idx = 1
	em.TriggerRescan()
	require.Eventually(t, func() bool {
		_, ok := em.Device(1)
		return !ok
	}, time.Second, 5*time.Millisecond)

	meta.Refresh()
	assert.Equal(t, "", meta.DefaultSinkDev())
	assert.Equal(t, "Mic", meta.DefaultSourceDev())
}
