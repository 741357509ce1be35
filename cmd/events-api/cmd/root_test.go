package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/deppfellow/events-api/internal/config"
	"github.com/deppfellow/events-api/internal/server"
	"github.com/deppfellow/events-api/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "routes", "email-preview", "version"})

	for _, flag := range []string{"log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCommandUnknownFlag(t *testing.T) {
	out, err := execute(t, "--invalid-flag")
	require.Error(t, err)
	assert.Contains(t, out, "unknown flag: --invalid-flag")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Events API")
	assert.Contains(t, out, "Version:")
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, "routes")
	require.NoError(t, err)

	var routes []routeInfo
	require.NoError(t, json.Unmarshal([]byte(out), &routes))

	for _, want := range []routeInfo{
		{Method: "GET", Path: "/events"},
		{Method: "POST", Path: "/events"},
		{Method: "GET", Path: "/events/:eventId"},
		{Method: "PATCH", Path: "/events/:eventId"},
		{Method: "DELETE", Path: "/events/:eventId"},
		{Method: "GET", Path: "/events/:eventId/tickets"},
		{Method: "GET", Path: "/status"},
		{Method: "GET", Path: "/metrics"},
	} {
		assert.Contains(t, routes, want)
	}
}

func TestEmailPreviewCommand(t *testing.T) {
	out, err := execute(t, "email-preview")
	require.NoError(t, err)
	assert.Contains(t, out, "Jazz in the Park")

	_, err = execute(t, "email-preview", "no_such_template")
	assert.Error(t, err)
}

func TestWireServerReleasesResourcesOnFailure(t *testing.T) {
	original := buildServices
	t.Cleanup(func() { buildServices = original })

	boom := errors.New("services unavailable")
	buildServices = func(*server.Server) (*service.Services, error) {
		return nil, boom
	}

	logger := zerolog.New(io.Discard)
	srv := &server.Server{
		Config: &config.Config{},
		Logger: &logger,
		Redis:  redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}),
	}

	err := wireServer(srv)
	require.ErrorIs(t, err, boom)
	assert.ErrorIs(t, srv.Redis.Ping(context.Background()).Err(), redis.ErrClosed)
}
