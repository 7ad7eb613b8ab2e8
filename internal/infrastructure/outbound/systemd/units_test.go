package systemd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophialabs/catapult/internal/infrastructure/outbound/systemd"
)

func TestRenderService(t *testing.T) {
	unit, err := systemd.RenderService("/usr/local/bin/catapult")
	require.NoError(t, err)

	assert.Contains(t, unit, "Requires=shortcut-catapult.socket\n")
	assert.Contains(t, unit, "Type=notify\n")
	assert.Contains(t, unit, "ExecStart=/usr/local/bin/catapult daemon --systemd\n")
	assert.Contains(t, unit, "WantedBy=default.target\n")
}

func TestRenderSocket(t *testing.T) {
	unit, err := systemd.RenderSocket(9000)
	require.NoError(t, err)

	assert.Contains(t, unit, "PartOf=shortcut-catapult.service\n")
	assert.Contains(t, unit, "ListenStream=127.0.0.1:9000\n")
	assert.Contains(t, unit, "Accept=false\n")
	assert.Contains(t, unit, "WantedBy=sockets.target\n")
}
