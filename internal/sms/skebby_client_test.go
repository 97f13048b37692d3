package sms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oggyb/skebby-gateway/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const restPath = "/API/v1.0/REST/"

// fakeSkebby is an httptest stand-in for the provider that records how
// often each endpoint was hit.
type fakeSkebby struct {
	srv *httptest.Server

	logins   atomic.Int32
	sends    atomic.Int32
	statuses atomic.Int32

	mu          sync.Mutex
	loginStatus int
	loginBody   string
	loginDelay  time.Duration
	smsStatus   int
	smsBody     string
	infoStatus  int
	infoBody    string
	lastSMS     request.SkebbySMSRequest
	lastHeader  http.Header
	lastQuery   map[string]string
}

func newFakeSkebby(t *testing.T) *fakeSkebby {
	t.Helper()

	f := &fakeSkebby{
		loginStatus: http.StatusOK,
		loginBody:   "user123;session456",
		smsStatus:   http.StatusCreated,
		smsBody:     `{"result":"OK","order_id":"ord-1","total_sent":1,"remaining_credits":41}`,
		infoStatus:  http.StatusOK,
		infoBody:    `{"money":null,"sms":[{"type":"GP","quantity":5},{"type":"TI","quantity":10},{"type":"SI","quantity":0},{"type":"EE","quantity":1},{"type":"AD","quantity":2}]}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+restPath+"login", func(w http.ResponseWriter, r *http.Request) {
		f.logins.Add(1)
		f.mu.Lock()
		f.lastQuery = map[string]string{
			"username": r.URL.Query().Get("username"),
			"password": r.URL.Query().Get("password"),
		}
		status, body, delay := f.loginStatus, f.loginBody, f.loginDelay
		f.mu.Unlock()

		time.Sleep(delay)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("POST "+restPath+"sms", func(w http.ResponseWriter, r *http.Request) {
		f.sends.Add(1)
		var body request.SkebbySMSRequest
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.lastSMS = body
		f.lastHeader = r.Header.Clone()
		status, resp := f.smsStatus, f.smsBody
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	})
	mux.HandleFunc("GET "+restPath+"status", func(w http.ResponseWriter, r *http.Request) {
		f.statuses.Add(1)
		f.mu.Lock()
		f.lastHeader = r.Header.Clone()
		status, resp := f.infoStatus, f.infoBody
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSkebby) set(fn func(f *fakeSkebby)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeSkebby) sent() request.SkebbySMSRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSMS
}

func (f *fakeSkebby) header() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastHeader
}

func (f *fakeSkebby) query() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *fakeSkebby) requests() int32 {
	return f.logins.Load() + f.sends.Load() + f.statuses.Load()
}

func newTestClient(t *testing.T, f *fakeSkebby, mutate ...func(*SkebbyConfig)) *SkebbyClient {
	t.Helper()

	cfg := SkebbyConfig{
		Username: "alice",
		Password: "s3cret",
		Alias:    "ACME",
		Quality:  QualityClassic,
		BaseURL:  f.srv.URL + restPath,
		Timeout:  2 * time.Second,
	}
	for _, m := range mutate {
		m(&cfg)
	}

	c, err := NewSkebbyClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewSkebbyClient(t *testing.T) {
	base := SkebbyConfig{Username: "alice", Password: "s3cret"}

	for _, q := range Qualities {
		t.Run("accepts "+string(q), func(t *testing.T) {
			cfg := base
			cfg.Quality = q
			c, err := NewSkebbyClient(cfg)
			require.NoError(t, err)
			assert.Equal(t, q, c.Quality())
		})
	}

	for _, q := range []Quality{"", "XX", "ti", "GP ", "TIX"} {
		t.Run("rejects quality "+string(q), func(t *testing.T) {
			cfg := base
			cfg.Quality = q
			_, err := NewSkebbyClient(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
		})
	}

	t.Run("rejects missing username", func(t *testing.T) {
		_, err := NewSkebbyClient(SkebbyConfig{Password: "x", Quality: QualityClassic})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejects missing password", func(t *testing.T) {
		_, err := NewSkebbyClient(SkebbyConfig{Username: "x", Quality: QualityClassic})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestLogin_ReusesCachedSession(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)
	ctx := context.Background()

	first, err := c.Login(ctx)
	require.NoError(t, err)
	second, err := c.Login(ctx)
	require.NoError(t, err)

	assert.Equal(t, Session{UserKey: "user123", SessionKey: "session456"}, first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, f.logins.Load())
	assert.Equal(t, map[string]string{"username": "alice", "password": "s3cret"}, f.query())
}

func TestLogin_ResponseFormat(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Session
		wantErr bool
	}{
		{name: "pair", body: "abc;def", want: Session{UserKey: "abc", SessionKey: "def"}},
		{name: "surrounding whitespace", body: "  abc;def\n", want: Session{UserKey: "abc", SessionKey: "def"}},
		{name: "no separator", body: "abc", wantErr: true},
		{name: "empty body", body: "", wantErr: true},
		{name: "blank body", body: "   \n", wantErr: true},
		{name: "empty session key", body: "abc;", wantErr: true},
		{name: "empty user key", body: ";def", wantErr: true},
		{name: "three segments", body: "a;b;c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeSkebby(t)
			f.set(func(f *fakeSkebby) { f.loginBody = tt.body })
			c := newTestClient(t, f)

			got, err := c.Login(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrAuthentication)
				assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

				_, cached := c.cached()
				assert.False(t, cached, "failed login must not populate the cache")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogin_NonSuccessStatus(t *testing.T) {
	f := newFakeSkebby(t)
	f.set(func(f *fakeSkebby) {
		f.loginStatus = http.StatusForbidden
		f.loginBody = "forbidden"
	})
	c := newTestClient(t, f)

	_, err := c.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.Contains(t, err.Error(), "HTTP 403")
}

func TestLogin_TransportFailure(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)
	f.srv.Close()

	_, err := c.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))

	var clientErr *Error
	require.True(t, errors.As(err, &clientErr))
	assert.NotNil(t, clientErr.Err)
}

func TestLogin_TransportFailureHidesCredentials(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)
	f.srv.Close()

	_, err := c.Send(context.Background(), "+393471234567", "hi", "")
	require.ErrorIs(t, err, ErrAuthentication)
	assert.NotContains(t, err.Error(), "s3cret")
	assert.NotContains(t, err.Error(), "password=")
	assert.Contains(t, err.Error(), "Login failed")
}

func TestLogin_CancelledCallerDoesNotFailOthers(t *testing.T) {
	f := newFakeSkebby(t)
	f.set(func(f *fakeSkebby) { f.loginDelay = 200 * time.Millisecond })
	c := newTestClient(t, f)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Login(first)
		firstErr <- err
	}()

	require.Eventually(t, func() bool { return f.logins.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		s   Session
		err error
	}
	second := make(chan result, 1)
	go func() {
		s, err := c.Login(context.Background())
		second <- result{s, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	err := <-firstErr
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.ErrorIs(t, err, context.Canceled)

	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "session456", res.s.SessionKey)
	assert.EqualValues(t, 1, f.logins.Load())

	_, ok := c.cached()
	assert.True(t, ok)
}

func TestClearAuthCache_DuringLoginWins(t *testing.T) {
	f := newFakeSkebby(t)
	f.set(func(f *fakeSkebby) { f.loginDelay = 100 * time.Millisecond })
	c := newTestClient(t, f)

	done := make(chan error, 1)
	go func() {
		_, err := c.Login(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return f.logins.Load() == 1 }, time.Second, 5*time.Millisecond)
	c.ClearAuthCache()
	require.NoError(t, <-done)

	_, ok := c.cached()
	assert.False(t, ok)

	f.set(func(f *fakeSkebby) { f.loginDelay = 0 })
	_, err := c.Login(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.logins.Load())
}

func TestLogin_ConcurrentCallersShareOneLogin(t *testing.T) {
	f := newFakeSkebby(t)
	f.set(func(f *fakeSkebby) { f.loginDelay = 50 * time.Millisecond })
	c := newTestClient(t, f)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Login(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "session456", s.SessionKey)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, f.logins.Load())
}

func TestClearAuthCache_ForcesNewLogin(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)
	ctx := context.Background()

	_, err := c.Info(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.logins.Load())

	c.ClearAuthCache()
	c.ClearAuthCache()

	_, err = c.Info(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, f.logins.Load())
	assert.EqualValues(t, 2, f.statuses.Load())
}

func TestSend_Validation(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		message string
		quality Quality
	}{
		{name: "empty phone", phone: "", message: "hello"},
		{name: "empty message", phone: "+391234567", message: ""},
		{name: "message too long", phone: "+391234567", message: strings.Repeat("a", MaxMessageLength+1)},
		{name: "unknown quality", phone: "+391234567", message: "hello", quality: "ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeSkebby(t)
			c := newTestClient(t, f)

			_, err := c.Send(context.Background(), tt.phone, tt.message, tt.quality)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, f.requests(), "validation must happen before any network call")
		})
	}
}

func TestSend_MaxLengthBoundary(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)

	_, err := c.Send(context.Background(), "+391234567", strings.Repeat("a", MaxMessageLength), "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.sends.Load())
}

func TestSend_CountsCharactersNotBytes(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)

	// 1600 two-byte runes.
	_, err := c.Send(context.Background(), "+391234567", strings.Repeat("è", MaxMessageLength), "")
	require.NoError(t, err)
}

func TestSend_RequestAndResponse(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)

	out, err := c.Send(context.Background(), "+391234567", "hello", "")
	require.NoError(t, err)

	assert.Equal(t, "OK", out["result"])
	assert.Equal(t, "ord-1", out.OrderID())

	assert.Equal(t, request.SkebbySMSRequest{
		Message:         "hello",
		MessageType:     "TI",
		ReturnRemaining: true,
		Recipient:       []string{"+391234567"},
		Sender:          "ACME",
	}, f.sent())
	assert.Equal(t, "user123", f.header().Get("user_key"))
	assert.Equal(t, "session456", f.header().Get("Session_key"))
	assert.Contains(t, f.header().Get("Content-Type"), "application/json")
}

func TestSend_QualityOverride(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)

	_, err := c.Send(context.Background(), "+391234567", "hello", QualityAdvertising)
	require.NoError(t, err)
	assert.Equal(t, "AD", f.sent().MessageType)
}

func TestSend_WithoutAlias(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f, func(cfg *SkebbyConfig) { cfg.Alias = "" })

	_, err := c.Send(context.Background(), "+391234567", "hello", "")
	require.NoError(t, err)
	assert.Empty(t, f.sent().Sender)
}

func TestSend_ReusesSession(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Send(ctx, "+391234567", "hello", "")
		require.NoError(t, err)
	}

	assert.EqualValues(t, 1, f.logins.Load())
	assert.EqualValues(t, 3, f.sends.Load())
}

func TestSend_NonSuccessStatus(t *testing.T) {
	f := newFakeSkebby(t)
	f.set(func(f *fakeSkebby) {
		f.smsStatus = http.StatusBadRequest
		f.smsBody = `{"error":"bad recipient"}`
	})
	c := newTestClient(t, f)

	_, err := c.Send(context.Background(), "+391234567", "hello", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIRequest)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))

	var clientErr *Error
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, `{"error":"bad recipient"}`, clientErr.Body)
}

func TestSend_LoginFailureStopsSend(t *testing.T) {
	f := newFakeSkebby(t)
	f.set(func(f *fakeSkebby) { f.loginStatus = http.StatusUnauthorized })
	c := newTestClient(t, f)

	_, err := c.Send(context.Background(), "+391234567", "hello", "")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Zero(t, f.sends.Load())
}

func TestSend_ExpiredSessionIsNotRefreshed(t *testing.T) {
	f := newFakeSkebby(t)
	c := newTestClient(t, f)
	ctx := context.Background()

	_, err := c.Send(ctx, "+391234567", "hello", "")
	require.NoError(t, err)

	f.set(func(f *fakeSkebby) { f.smsStatus = http.StatusUnauthorized })
	_, err = c.Send(ctx, "+391234567", "hello", "")
	assert.ErrorIs(t, err, ErrAPIRequest)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.EqualValues(t, 1, f.logins.Load())
}

func TestInfo(t *testing.T) {
	t.Run("returns payload", func(t *testing.T) {
		f := newFakeSkebby(t)
		c := newTestClient(t, f)

		info, err := c.Info(context.Background())
		require.NoError(t, err)
		assert.Contains(t, info, "sms")
		assert.Equal(t, "user123", f.header().Get("user_key"))
		assert.Equal(t, "session456", f.header().Get("Session_key"))
	})

	t.Run("non-success status", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) {
			f.infoStatus = http.StatusServiceUnavailable
			f.infoBody = "maintenance"
		})
		c := newTestClient(t, f)

		_, err := c.Info(context.Background())
		assert.ErrorIs(t, err, ErrAPIRequest)
		assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	})

	t.Run("invalid json", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) { f.infoBody = "<html>" })
		c := newTestClient(t, f)

		_, err := c.Info(context.Background())
		assert.ErrorIs(t, err, ErrAPIRequest)
	})
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit quality", func(t *testing.T) {
		f := newFakeSkebby(t)
		c := newTestClient(t, f)

		n, err := c.Remaining(ctx, QualityClassic)
		require.NoError(t, err)
		assert.Equal(t, 10, n)
	})

	t.Run("default quality", func(t *testing.T) {
		f := newFakeSkebby(t)
		c := newTestClient(t, f, func(cfg *SkebbyConfig) { cfg.Quality = QualityAdvertising })

		n, err := c.Remaining(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("is not cached", func(t *testing.T) {
		f := newFakeSkebby(t)
		c := newTestClient(t, f)

		_, err := c.Remaining(ctx, QualityBasic)
		require.NoError(t, err)
		_, err = c.Remaining(ctx, QualityBasic)
		require.NoError(t, err)
		assert.EqualValues(t, 2, f.statuses.Load())
	})

	t.Run("unknown quality", func(t *testing.T) {
		f := newFakeSkebby(t)
		c := newTestClient(t, f)

		_, err := c.Remaining(ctx, "XX")
		assert.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, f.requests())
	})

	t.Run("missing credits array", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) { f.infoBody = `{"money":12.5}` })
		c := newTestClient(t, f)

		_, err := c.Remaining(ctx, QualityClassic)
		assert.ErrorIs(t, err, ErrAPIRequest)
	})

	t.Run("missing entry", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) { f.infoBody = `{"sms":[{"quantity":1},{"quantity":2}]}` })
		c := newTestClient(t, f)

		_, err := c.Remaining(ctx, QualityExport)
		assert.ErrorIs(t, err, ErrAPIRequest)
	})

	t.Run("missing quantity", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) { f.infoBody = `{"sms":[{"quantity":1},{"type":"TI"}]}` })
		c := newTestClient(t, f)

		_, err := c.Remaining(ctx, QualityClassic)
		assert.ErrorIs(t, err, ErrAPIRequest)
	})
}

func TestAllRemainingCredits(t *testing.T) {
	ctx := context.Background()

	t.Run("all qualities", func(t *testing.T) {
		f := newFakeSkebby(t)
		c := newTestClient(t, f)

		credits, err := c.AllRemainingCredits(ctx)
		require.NoError(t, err)
		assert.Equal(t, Credits{
			QualityClassicPlus: 5,
			QualityClassic:     10,
			QualityBasic:       0,
			QualityExport:      1,
			QualityAdvertising: 2,
		}, credits)
		assert.EqualValues(t, 1, f.statuses.Load())
	})

	t.Run("omits qualities the provider does not report", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) {
			f.infoBody = `{"sms":[{"quantity":7},{"quantity":8},{"quantity":9}]}`
		})
		c := newTestClient(t, f)

		credits, err := c.AllRemainingCredits(ctx)
		require.NoError(t, err)
		assert.Equal(t, Credits{
			QualityClassicPlus: 7,
			QualityClassic:     8,
			QualityBasic:       9,
		}, credits)
	})

	t.Run("missing credits array", func(t *testing.T) {
		f := newFakeSkebby(t)
		f.set(func(f *fakeSkebby) { f.infoBody = `{}` })
		c := newTestClient(t, f)

		_, err := c.AllRemainingCredits(ctx)
		assert.ErrorIs(t, err, ErrAPIRequest)
	})
}
