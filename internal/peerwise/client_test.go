package peerwise

import (
	"botwise/internal/components/telemetry"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEndpoints(t *testing.T) {
	endpoints, err := NewEndpoints("https://peerwise.cs.auckland.ac.nz/", "uoa", "12345")
	require.NoError(t, err)
	require.Equal(t, Endpoints{
		Login:    "https://peerwise.cs.auckland.ac.nz/at/?uoa",
		Home:     "https://peerwise.cs.auckland.ac.nz/home/",
		Course:   "https://peerwise.cs.auckland.ac.nz/course/main.php?course_id=12345",
		Question: "https://peerwise.cs.auckland.ac.nz/course/main.php",
	}, endpoints)

	_, err = NewEndpoints("peerwise.cs.auckland.ac.nz", "uoa", "1")
	require.Error(t, err)
}

func TestLogIn(t *testing.T) {
	platform := newFakePlatform()
	client, rec := setupClient(t, platform)

	err := client.LogIn(context.Background())
	require.NoError(t, err)

	require.Equal(t, "alice", platform.loginForm.Get("user"))
	require.Equal(t, "hunter2", platform.loginForm.Get("pass"))
	require.Equal(t, "uoa", platform.loginForm.Get("inst_shortcode"))
	require.Equal(t, "login", platform.loginForm.Get("cmd"))
	require.Empty(t, rec.Find(telemetry.LevelBroken, report_client_log_in))

	require.GreaterOrEqual(t, platform.loginPostAt.Sub(platform.loginPageAt), loginThrottle)
}

func TestLogInDeviations(t *testing.T) {
	table := []struct {
		name     string
		modify   func(p *fakePlatform)
		expected error
	}{
		{
			name:     "login page error",
			modify:   func(p *fakePlatform) { p.loginPageStatus = http.StatusInternalServerError },
			expected: ErrUnexpectedStatus,
		},
		{
			name:     "login page redirect",
			modify:   func(p *fakePlatform) { p.loginPageStatus = http.StatusFound },
			expected: ErrUnexpectedStatus,
		},
		{
			name:     "login not redirected",
			modify:   func(p *fakePlatform) { p.loginStatus = http.StatusOK },
			expected: ErrLoginRejected,
		},
		{
			name:     "login redirected elsewhere",
			modify:   func(p *fakePlatform) { p.loginLocation = "../at/?error=1" },
			expected: ErrLoginRejected,
		},
		{
			name: "login with wrong redirect status",
			modify: func(p *fakePlatform) {
				p.loginStatus = http.StatusSeeOther
			},
			expected: ErrLoginRejected,
		},
		{
			name:     "home unavailable",
			modify:   func(p *fakePlatform) { p.homeStatus = http.StatusServiceUnavailable },
			expected: ErrPostLoginCheckFailed,
		},
		{
			name:     "course forbidden",
			modify:   func(p *fakePlatform) { p.courseStatus = http.StatusForbidden },
			expected: ErrPostLoginCheckFailed,
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			platform := newFakePlatform()
			test.modify(platform)
			client, _ := setupClient(t, platform)

			err := client.LogIn(context.Background())
			require.ErrorIs(t, err, test.expected)

			var authErr *AuthError
			require.True(t, errors.As(err, &authErr))
		})
	}
}

func TestLogInCancelled(t *testing.T) {
	client, _ := setupClient(t, newFakePlatform())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := client.LogIn(ctx)
	require.Error(t, err)
}
