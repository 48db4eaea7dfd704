package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/pms/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *TwilioClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.WhatsAppConfig{
		BaseURL:    srv.URL,
		AccountSID: "AC123",
		AuthToken:  "token",
		From:       "+14155238886",
		Timeout:    5 * time.Second,
	}
	return NewTwilioClient(cfg, zap.NewNop())
}

func TestSendSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+14155238886", r.PostFormValue("From"))
		assert.Equal(t, "whatsapp:+233201234567", r.PostFormValue("To"))
		assert.Equal(t, "hello", r.PostFormValue("Body"))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	})

	require.NoError(t, client.Send(context.Background(), "+233201234567", "hello"))
}

func TestSendPreservesExistingPrefix(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+233201234567", r.PostFormValue("To"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Send(context.Background(), "whatsapp:+233201234567", "hello"))
}

func TestSendKnownErrorCodes(t *testing.T) {
	cases := []struct {
		code int
		want string
	}{
		{21211, "invalid 'To' number"},
		{21608, "unverified recipient"},
		{21610, "opted out"},
		{21212, "invalid 'From' number"},
		{63016, "outside allowed window"},
		{21614, "not a valid mobile number"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"code":` + strconv.Itoa(tc.code) + `,"message":"twilio says no"}`))
			})

			err := client.Send(context.Background(), "+233201234567", "hello")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSendUnknownErrorCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":99999,"message":"something else"}`))
	})

	err := client.Send(context.Background(), "+233201234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "something else")
}

func TestSendNonJSONFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("service down"))
	})

	err := client.Send(context.Background(), "+233201234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestSendValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("api must not be called")
	})

	assert.Error(t, client.Send(context.Background(), "", "hello"))
	assert.Error(t, client.Send(context.Background(), "+233201234567", ""))
}
