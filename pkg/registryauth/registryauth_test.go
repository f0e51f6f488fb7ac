package registryauth

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator() *Authenticator {
	httpUtil := common.NewHttpUtil(time.Second, 0)
	return NewAuthenticator(slog.Default(), httpUtil)
}

func TestParseChallenge(t *testing.T) {
	assert := assert.New(t)

	challenge, ok := ParseChallenge(`Bearer realm="https://auth.example/token",service="registry.example",scope="repository:org/repo:pull"`)
	assert.True(ok)
	assert.Equal("https://auth.example/token", challenge.Realm)
	assert.Equal("registry.example", challenge.Service)
	assert.Equal("repository:org/repo:pull", challenge.Scope)

	_, ok = ParseChallenge(`Basic realm="Registry"`)
	assert.False(ok)
}

func TestGetTokenQueryAndScope(t *testing.T) {
	assert := assert.New(t)

	var tokenQuery map[string][]string
	var basicUser string
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/v2/org/repo/tags/list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s/token",service="registry.example"`, server.URL))
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenQuery = r.URL.Query()
		basicUser, _, _ = r.BasicAuth()
		fmt.Fprint(w, `{"access_token":"abc"}`)
	})

	token, err := newTestAuthenticator().GetToken(t.Context(), server.URL, "org/repo", &common.Credentials{Username: "user", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal("abc", token.Value)
	assert.Equal("repository:org/repo:pull", token.Scope)
	assert.Equal([]string{"registry.example"}, tokenQuery["service"])
	assert.Equal([]string{"repository:org/repo:pull"}, tokenQuery["scope"])
	assert.Equal("user", basicUser)
}

func TestGetTokenAnonymous(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"org/repo","tags":["1.0.0"]}`)
	}))
	defer server.Close()

	token, err := newTestAuthenticator().GetToken(t.Context(), server.URL, "org/repo", nil)
	assert.NoError(err)
	assert.Nil(token)
}

func TestGetTokenFailure(t *testing.T) {
	assert := assert.New(t)

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()
	mux.HandleFunc("/v2/org/repo/tags/list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="%s/token",service="registry.example",scope="repository:org/repo:pull"`, server.URL))
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	token, err := newTestAuthenticator().GetToken(t.Context(), server.URL, "org/repo", nil)
	assert.Nil(token)
	var authErr *common.AuthError
	assert.ErrorAs(err, &authErr)
	assert.Equal(common.FAILURE_CATEGORY_AUTH, common.CategoryOf(err))
}
