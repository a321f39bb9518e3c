package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/forumclient/internal/domain"
	"github.com/pscheid92/forumclient/internal/platform/config"
)

func init() {
	color.NoColor = true
}

const adaJSON = `{"id":"7","username":"ada","email":"ada@example.com","firstName":"Ada","lastName":"Lovelace"}`

type cliEnv struct {
	mux *http.ServeMux
	cfg *config.Config
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	env := &cliEnv{mux: http.NewServeMux()}
	srv := httptest.NewServer(env.mux)
	t.Cleanup(srv.Close)

	env.cfg = &config.Config{
		AppEnv:         config.EnvProduction,
		APIBaseURL:     srv.URL + "/api",
		SessionBackend: config.BackendFile,
		Home:           t.TempDir(),
		LogLevel:       "error",
		ProxyAddr:      "127.0.0.1:0",
		ProxyRateLimit: 20,
	}
	return env
}

func (e *cliEnv) reply(pattern string, status int, body string) {
	e.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	deps := Deps{LoadConfig: func() (*config.Config, error) { return e.cfg, nil }}
	err := Run(context.Background(), deps, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) login(t *testing.T) {
	t.Helper()
	e.reply("GET /api/users", http.StatusOK, `{"success":true,"data":`+adaJSON+`}`)
	_, _, err := e.run("login", "ada@example.com")
	require.NoError(t, err)
}

func TestVersion_DoesNotLoadConfig(t *testing.T) {
	var stdout bytes.Buffer
	deps := Deps{LoadConfig: func() (*config.Config, error) {
		t.Fatal("config must not be loaded")
		return nil, nil
	}}

	err := Run(context.Background(), deps, []string{"version"}, &stdout, io.Discard)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "forumclient")
}

func TestLogin_PersistsSessionAcrossInvocations(t *testing.T) {
	env := newCLIEnv(t)
	env.reply("GET /api/users", http.StatusOK, `{"success":true,"data":`+adaJSON+`}`)

	stdout, stderr, err := env.run("login", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as ada")
	assert.Contains(t, stderr, "[success] welcome back, Ada Lovelace")

	stdout, _, err = env.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ada Lovelace <ada@example.com>")
	assert.Contains(t, stdout, "id:       7")
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newCLIEnv(t)
	env.reply("GET /api/users", http.StatusOK, `{"success":true}`)

	_, _, err := env.run("login", "ghost@example.com")

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("whoami")

	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestLogout(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	_, stderr, err := env.run("logout")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[info]")

	_, _, err = env.run("whoami")
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
	assert.FileExists(t, env.cfg.SessionFile())
}

func TestLogout_PurgeRemovesRecord(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	_, _, err := env.run("logout", "--purge")
	require.NoError(t, err)

	data, err := os.ReadFile(env.cfg.SessionFile())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "user-storage")
}

func TestLogout_PurgeRecoversFromCorruptSessionFile(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.WriteFile(env.cfg.SessionFile(), []byte(`{"user-storage": {"state"`), 0o600))

	_, _, err := env.run("logout", "--purge")
	require.NoError(t, err)

	data, err := os.ReadFile(env.cfg.SessionFile())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestRegister_GeneratesPassword(t *testing.T) {
	env := newCLIEnv(t)
	var got domain.Registration
	env.mux.HandleFunc("POST /api/users/new", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":`+adaJSON+`}`)
	})

	stdout, _, err := env.run("register", "--username", "ada", "--email", "ada@example.com")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Registered as ada (ada@example.com)")
	assert.Contains(t, stdout, "Generated password: "+got.Password)
	assert.Len(t, got.Password, 8)

	stdout, _, err = env.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "username: ada")
}

func TestRegister_InvalidInputNeverReachesServer(t *testing.T) {
	env := newCLIEnv(t)
	called := false
	env.mux.HandleFunc("/api/users/new", func(http.ResponseWriter, *http.Request) { called = true })

	_, stderr, err := env.run("register", "--username", "a", "--email", "not-an-email")

	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, stderr, "[error]")
}

func TestRegister_RequiresFlags(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("register")

	assert.ErrorContains(t, err, "required flag")
}

func TestProfile_SendsOnlyChangedFields(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	var body map[string]any
	var userID string
	env.mux.HandleFunc("POST /api/users/edit/", func(w http.ResponseWriter, r *http.Request) {
		userID = r.URL.Query().Get("userId")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":"7","username":"ada","email":"ada@example.com","firstName":"Augusta","lastName":"Lovelace"}}`)
	})

	stdout, _, err := env.run("profile", "--first-name", "Augusta")

	require.NoError(t, err)
	assert.Equal(t, "7", userID)
	assert.Equal(t, map[string]any{"firstName": "Augusta"}, body)
	assert.Contains(t, stdout, "Profile of ada updated")

	stdout, _, err = env.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Augusta Lovelace")
}

func TestProfile_NothingToUpdate(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	_, _, err := env.run("profile")

	assert.ErrorIs(t, err, errNothingToUpdate)
}

func TestProfile_RejectedByServer(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)
	env.reply("POST /api/users/edit/", http.StatusOK, `{"success":false,"error":"username taken"}`)

	_, stderr, err := env.run("profile", "--username", "grace")

	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Contains(t, stderr, "username taken")
}

func TestProfile_ExpiredSessionRedirectsToLogin(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)
	env.reply("POST /api/users/edit/", http.StatusUnauthorized, `{"message":"token expired"}`)

	_, stderr, err := env.run("profile", "--last-name", "King")

	require.Error(t, err)
	assert.Contains(t, stderr, "forum login <email>")

	_, _, err = env.run("whoami")
	assert.ErrorIs(t, err, domain.ErrNotLoggedIn)
}

func TestAvatar_UploadsImageAndUpdatesProfile(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	env.mux.HandleFunc("POST /api/users/avatar/", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("avatar"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"data":"https://cdn.example.com/ada.png"}`)
	})
	env.reply("POST /api/users/edit/", http.StatusOK,
		`{"success":true,"data":{"id":"7","username":"ada","email":"ada@example.com","avatar":"https://cdn.example.com/ada.png"}}`)

	path := filepath.Join(t.TempDir(), "ada.png")
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	require.NoError(t, os.WriteFile(path, png, 0o600))

	stdout, _, err := env.run("avatar", path)

	require.NoError(t, err)
	assert.Contains(t, stdout, "Avatar set to https://cdn.example.com/ada.png")
}

func TestAvatar_RejectsNonImage(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a picture"), 0o600))

	_, stderr, err := env.run("avatar", path)

	assert.ErrorIs(t, err, domain.ErrNotImage)
	assert.Contains(t, stderr, "[warning]")
}

func TestAvatar_MissingFile(t *testing.T) {
	env := newCLIEnv(t)
	env.login(t)

	_, _, err := env.run("avatar", filepath.Join(t.TempDir(), "missing.png"))

	assert.ErrorContains(t, err, "open avatar")
}

func TestPosts_RendersFeed(t *testing.T) {
	env := newCLIEnv(t)
	env.reply("GET /api/posts", http.StatusOK, `{"success":true,"data":{"posts":[{
		"id":1,"title":"Hello forum","content":"first!","dateCreated":"2026-01-02T15:04:00Z",
		"memberPostedBy":{"user":{"username":"ada"}},
		"comments":[{"id":1,"text":"welcome"}],
		"votes":[{"voteType":"Upvote"},{"voteType":"Upvote"},{"voteType":"Downvote"}]}]}}`)

	stdout, _, err := env.run("posts", "--comments")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Hello forum")
	assert.Contains(t, stdout, "by ada on")
	assert.Contains(t, stdout, "+2  -1  1 comments")
	assert.Contains(t, stdout, "  > welcome")
}

func TestPosts_FailureRendersEmptyFeed(t *testing.T) {
	env := newCLIEnv(t)
	env.reply("GET /api/posts", http.StatusBadGateway, `{}`)

	stdout, stderr, err := env.run("posts")

	require.NoError(t, err)
	assert.Contains(t, stdout, "No posts yet.")
	assert.Contains(t, stderr, "[warning] no posts available yet")
}

func TestPosts_Suggestions(t *testing.T) {
	env := newCLIEnv(t)
	env.reply("GET /api/posts", http.StatusOK, `{"success":true,"data":{"posts":[]}}`)

	stdout, _, err := env.run("posts", "--suggest")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Need inspiration?")
}

func TestProxy_RequiresTarget(t *testing.T) {
	env := newCLIEnv(t)

	_, _, err := env.run("proxy")

	assert.ErrorContains(t, err, "PROXY_TARGET")
}

func TestConfigError(t *testing.T) {
	deps := Deps{LoadConfig: func() (*config.Config, error) { return nil, assert.AnError }}

	err := Run(context.Background(), deps, []string{"whoami"}, io.Discard, io.Discard)

	assert.ErrorIs(t, err, assert.AnError)
}
