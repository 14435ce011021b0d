package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listenUDP binds an ephemeral UDP port and returns the address plus a
// receive function with a short deadline.
func listenUDP(t *testing.T) (string, func() string) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	recv := func() string {
		buf := make([]byte, 1024)
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, readErr := conn.ReadFrom(buf)
		require.NoError(t, readErr)
		return string(buf[:n])
	}
	return conn.LocalAddr().String(), recv
}

func TestClient_Count_LineFormat(t *testing.T) {
	addr, recv := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "hrportal"})
	require.NoError(t, err)
	defer client.Close()

	client.Count("auth.login", 1, map[string]string{"result": "ok"})

	assert.Equal(t, "hrportal.auth.login:1|c|#result:ok", recv())
}

func TestClient_Timing_LineFormat(t *testing.T) {
	addr, recv := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "hrportal"})
	require.NoError(t, err)
	defer client.Close()

	client.Timing("auth.verify.duration", 250*time.Millisecond, nil)

	assert.Equal(t, "hrportal.auth.verify.duration:250|ms", recv())
}

func TestClient_TagsAreSorted(t *testing.T) {
	addr, recv := listenUDP(t)

	client, err := NewClient(Config{Enabled: true, Address: addr, Prefix: "p"})
	require.NoError(t, err)
	defer client.Close()

	client.Count("m", 2, map[string]string{"zeta": "1", "alpha": "2"})

	assert.Equal(t, "p.m:2|c|#alpha:2,zeta:1", recv())
}

func TestDisabledClient_IsSafe(t *testing.T) {
	client := Disabled()
	client.Count("auth.login", 1, nil)
	client.Timing("auth.verify.duration", time.Second, nil)
	assert.NoError(t, client.Close())

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	nilClient.Timing("x", time.Second, nil)
	assert.NoError(t, nilClient.Close())
}

func TestNewClient_DisabledWithoutAddress(t *testing.T) {
	client, err := NewClient(Config{Enabled: true, Address: "  "})
	require.NoError(t, err)

	// No connection was dialed; writes are dropped silently.
	client.Count("x", 1, nil)
	assert.NoError(t, client.Close())
}
