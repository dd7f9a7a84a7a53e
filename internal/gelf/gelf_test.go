package gelf

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	e := &logrus.Entry{
		Time:    time.Unix(1700000000, 0),
		Level:   logrus.WarnLevel,
		Message: "location options unavailable",
		Data:    logrus.Fields{"component": "formctl", "error": errors.New("timeout"), "id": "f1"},
	}
	m := Message("host-1", "materai", e)
	require.Equal(t, "1.1", m["version"])
	require.Equal(t, "host-1", m["host"])
	require.Equal(t, 4, m["level"])
	require.Equal(t, float64(1700000000), m["timestamp"])
	require.Equal(t, "formctl", m["_component"])
	require.Equal(t, "timeout", m["_error"])
	require.Equal(t, "f1", m["_field_id"])
	require.NotContains(t, m, "_id")
}

func TestHook_SendsUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	hook, err := New(pc.LocalAddr().String(), "materai")
	require.NoError(t, err)
	defer hook.Close()

	log := logrus.New()
	log.AddHook(hook)
	log.WithField("branch", "JKT01").Error("document submission failed")

	buf := make([]byte, 8192)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &got))
	require.Equal(t, "document submission failed", got["short_message"])
	require.Equal(t, float64(3), got["level"])
	require.Equal(t, "JKT01", got["_branch"])
	require.Equal(t, "materai", got["_service"])
}
