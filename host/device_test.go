package host_test

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kankiry/stm32-usb-cli/commands"
	"github.com/kankiry/stm32-usb-cli/device"
	"github.com/kankiry/stm32-usb-cli/host"
	"github.com/kankiry/stm32-usb-cli/shell"
)

// serve runs an interpreter on one end of an in-memory pipe and returns a
// client connected to the other end.
func serve(t *testing.T) *host.Client {
	t.Helper()
	deviceEnd, hostEnd := net.Pipe()

	shellConfig, err := shell.NewConfigBuilder().
		WithRegistry(commands.Default()).
		Build()
	require.NoError(t, err)

	config, err := device.NewConfigBuilder().
		WithDialer(device.DialerFunc(func(ctx context.Context) (device.Transport, error) {
			return deviceEnd, nil
		})).
		WithShell(shellConfig).
		Build()
	require.NoError(t, err)

	d, err := device.New(context.Background(), config)
	require.NoError(t, err)

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- d.Loop(context.Background())
	}()

	client, err := host.New(host.Config{Transport: hostEnd, Timeout: 5 * time.Second})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		_ = d.Close()
		<-loopDone
	})
	return client
}

func TestClientAgainstDevice(t *testing.T) {
	ctx := context.Background()
	client := serve(t)

	require.NoError(t, client.Sync(ctx))

	reply, err := client.Exec(ctx, "GET_LOG")
	require.NoError(t, err)
	assert.Equal(t, "GET_LOG", reply.Echo)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", reply.Text())

	reply, err = client.Exec(ctx, "HELP")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET_LOG", "HELP"}, reply.Lines)

	reply, err = client.Exec(ctx, "  GET_LOG  ")
	require.NoError(t, err)
	assert.Equal(t, "  GET_LOG  ", reply.Echo)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", reply.Text())

	_, err = client.Exec(ctx, "GET_LOG now")
	assert.ErrorIs(t, err, shell.ErrInvalidArgument)

	_, err = client.Exec(ctx, "get_log")
	assert.ErrorIs(t, err, shell.ErrCommandNotFound)

	reply, err = client.Exec(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, reply.Lines)

	// 62 characters and the terminator fill the line buffer exactly.
	reply, err = client.Exec(ctx, strings.Repeat("A", shell.DefaultLineCapacity-2))
	assert.ErrorIs(t, err, shell.ErrOverflow)
	assert.Empty(t, reply.Echo)

	reply, err = client.Exec(ctx, "GET_LOG")
	require.NoError(t, err, "the session must recover after overflow")
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", reply.Text())
}
