package credentials

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const secretName = "projects/demo/secrets/GEMINI_API_KEY/versions/latest"

func secretServer(t *testing.T, status int, payload string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, secretName+":access"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"denied"}}`, status)
			return
		}
		_, _ = fmt.Fprintf(w, `{"name":%q,"payload":{"data":%q}}`, secretName, payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(srv *httptest.Server) []option.ClientOption {
	return []option.ClientOption{option.WithEndpoint(srv.URL + "/"), option.WithoutAuthentication()}
}

func TestResolveDirect(t *testing.T) {
	v, err := Resolve(context.Background(), Source{Value: " abc \n"})
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
}

func TestResolveNone(t *testing.T) {
	v, err := Resolve(context.Background(), Source{})
	require.NoError(t, err)
	assert.Empty(t, v)
	assert.Equal(t, "none", Source{}.Mechanism())
}

func TestResolveAmbiguous(t *testing.T) {
	_, err := Resolve(context.Background(), Source{Value: "a", SecretName: secretName})
	assert.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestResolveSecret(t *testing.T) {
	srv := secretServer(t, http.StatusOK, base64.StdEncoding.EncodeToString([]byte("s3cret\n")))

	v, err := Resolve(context.Background(), Source{SecretName: secretName}, testOptions(srv)...)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)
	assert.Equal(t, "secret_manager", Source{SecretName: secretName}.Mechanism())
}

func TestResolveSecretFailures(t *testing.T) {
	denied := secretServer(t, http.StatusForbidden, "")
	_, err := Resolve(context.Background(), Source{SecretName: secretName}, testOptions(denied)...)
	assert.Error(t, err)

	empty := secretServer(t, http.StatusOK, base64.StdEncoding.EncodeToString([]byte("  ")))
	_, err = Resolve(context.Background(), Source{SecretName: secretName}, testOptions(empty)...)
	assert.Error(t, err)

	garbage := secretServer(t, http.StatusOK, "%%%")
	_, err = Resolve(context.Background(), Source{SecretName: secretName}, testOptions(garbage)...)
	assert.Error(t, err)
}
