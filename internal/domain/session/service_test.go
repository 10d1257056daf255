package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-storefront/internal/config"
	"github.com/your-org/grocery-storefront/internal/pkg/auth"
	"github.com/your-org/grocery-storefront/internal/pkg/logger"
	"github.com/your-org/grocery-storefront/internal/testutil"
)

const storageKey = "storefront:session"

func newState(t *testing.T) (*State, *testutil.FakeAPI, *testutil.MemoryStore) {
	t.Helper()
	fake := testutil.NewFakeAPI()
	store := testutil.NewMemoryStore()
	return NewState(fake, store, storageKey, logger.Discard()), fake, store
}

func signedToken(t *testing.T, expiry time.Duration) string {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: expiry}}
	token, err := auth.NewJWTManager(cfg).GenerateAccessToken("u1", "9876543210", "user")
	require.NoError(t, err)
	return token
}

func loginReply(token string) testutil.Responder {
	return testutil.Reply(map[string]interface{}{
		"user":  map[string]interface{}{"id": "u1", "name": "Asha", "phone": "9876543210", "role": "user"},
		"token": token,
	})
}

func TestRestore_NoPersistedSession(t *testing.T) {
	s, fake, _ := newState(t)
	assert.True(t, s.Loading())

	s.Restore(context.Background())

	assert.False(t, s.Loading())
	assert.Nil(t, s.Current())
	assert.False(t, s.IsAuthenticated())
	assert.Zero(t, fake.CallCount())
}

func TestRestore_LoadsPersistedIdentityAndNotifies(t *testing.T) {
	s, _, store := newState(t)
	data, _ := json.Marshal(Identity{ID: "u1", Name: "Asha", Phone: "9876543210", Role: RoleUser, Token: signedToken(t, time.Hour)})
	require.NoError(t, store.Set(context.Background(), storageKey, data))

	var changes []Change
	s.Subscribe(func(_ context.Context, c Change) { changes = append(changes, c) })

	s.Restore(context.Background())

	require.NotNil(t, s.Current())
	assert.Equal(t, "u1", s.Current().ID)
	assert.NotEmpty(t, s.Token())
	require.Len(t, changes, 1)
	assert.True(t, changes[0].LoggedIn())
}

func TestRestore_FailsOpenToGuest(t *testing.T) {
	tests := []struct {
		name  string
		setup func(store *testutil.MemoryStore)
	}{
		{name: "read error", setup: func(store *testutil.MemoryStore) { store.FailGet = true }},
		{name: "corrupt json", setup: func(store *testutil.MemoryStore) {
			_ = store.Set(context.Background(), storageKey, []byte("{oops"))
		}},
		{name: "missing id", setup: func(store *testutil.MemoryStore) {
			_ = store.Set(context.Background(), storageKey, []byte(`{"name":"Asha"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, store := newState(t)
			tt.setup(store)

			assert.NotPanics(t, func() { s.Restore(context.Background()) })
			assert.Nil(t, s.Current())
			assert.False(t, s.Loading())
		})
	}
}

func TestRestore_ExpiredTokenIsDropped(t *testing.T) {
	s, _, store := newState(t)
	data, _ := json.Marshal(Identity{ID: "u1", Token: signedToken(t, time.Hour)})
	require.NoError(t, store.Set(context.Background(), storageKey, data))
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	s.Restore(context.Background())

	assert.Nil(t, s.Current())
	assert.False(t, store.Has(storageKey))
}

func TestRestore_RunsOnce(t *testing.T) {
	s, _, store := newState(t)
	s.Restore(context.Background())

	data, _ := json.Marshal(Identity{ID: "u1"})
	require.NoError(t, store.Set(context.Background(), storageKey, data))
	s.Restore(context.Background())

	assert.Nil(t, s.Current())
}

func TestLogin_PersistsAndNotifies(t *testing.T) {
	s, fake, store := newState(t)
	token := signedToken(t, time.Hour)
	fake.On("POST", "/api/auth/login", loginReply(token))

	var changes []Change
	s.Subscribe(func(_ context.Context, c Change) { changes = append(changes, c) })

	identity, err := s.Login(context.Background(), " 9876543210 ", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, token, identity.Token)
	assert.Equal(t, token, s.Token())
	assert.True(t, store.Has(storageKey))

	calls := fake.CallsTo("POST", "/api/auth/login")
	require.Len(t, calls, 1)
	assert.Equal(t, "9876543210", calls[0].Body["phone"])

	require.Len(t, changes, 1)
	assert.Nil(t, changes[0].Previous)
	assert.Equal(t, "u1", changes[0].Current.ID)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	s, fake, store := newState(t)
	fake.On("POST", "/api/auth/login", testutil.Reject("Invalid phone or password"))

	_, err := s.Login(context.Background(), "9876543210", "wrong-pass")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid phone or password", authErr.Error())
	assert.Nil(t, s.Current())
	assert.False(t, store.Has(storageKey))
}

func TestLogin_TransportFailure(t *testing.T) {
	s, fake, _ := newState(t)
	fake.On("POST", "/api/auth/login", testutil.Fail())

	_, err := s.Login(context.Background(), "9876543210", "secret1")
	require.Error(t, err)

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
	assert.Contains(t, err.Error(), "login failed")
}

func TestLogin_MissingCredentialsMakesNoRequest(t *testing.T) {
	s, fake, _ := newState(t)

	_, err := s.Login(context.Background(), "", "secret1")
	require.Error(t, err)
	assert.Zero(t, fake.CallCount())
}

func TestLogin_PersistFailureIsNotFatal(t *testing.T) {
	s, fake, store := newState(t)
	store.FailSet = true
	fake.On("POST", "/api/auth/login", loginReply(""))

	identity, err := s.Login(context.Background(), "9876543210", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.True(t, s.IsAuthenticated())
}

func TestSignup(t *testing.T) {
	s, fake, store := newState(t)
	fake.On("POST", "/api/auth/signup", loginReply(""))

	identity, err := s.Signup(context.Background(), SignupRequest{
		Name:        "Asha",
		Phone:       "9876543210",
		Password:    "secret1",
		DateOfBirth: "1995-04-12",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.True(t, store.Has(storageKey))

	calls := fake.CallsTo("POST", "/api/auth/signup")
	require.Len(t, calls, 1)
	assert.Equal(t, "user", calls[0].Body["role"])
	assert.Equal(t, "1995-04-12", calls[0].Body["dob"])
}

func TestSignup_ValidationMakesNoRequest(t *testing.T) {
	tests := []struct {
		name string
		req  SignupRequest
	}{
		{name: "no name", req: SignupRequest{Phone: "9876543210", Password: "secret1"}},
		{name: "short phone", req: SignupRequest{Name: "A", Phone: "98765", Password: "secret1"}},
		{name: "short password", req: SignupRequest{Name: "A", Phone: "9876543210", Password: "abc"}},
		{name: "bad role", req: SignupRequest{Name: "A", Phone: "9876543210", Password: "secret1", Role: "root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fake, _ := newState(t)
			_, err := s.Signup(context.Background(), tt.req)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Zero(t, fake.CallCount())
		})
	}
}

func TestLogout_ClearsEverythingSynchronously(t *testing.T) {
	s, fake, store := newState(t)
	fake.On("POST", "/api/auth/login", loginReply(""))
	_, err := s.Login(context.Background(), "9876543210", "secret1")
	require.NoError(t, err)
	fake.Reset()

	var changes []Change
	s.Subscribe(func(_ context.Context, c Change) {
		// listeners already observe the guest state
		assert.Nil(t, s.Current())
		changes = append(changes, c)
	})

	s.Logout(context.Background())

	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
	assert.False(t, store.Has(storageKey))
	assert.Zero(t, fake.CallCount())
	require.Len(t, changes, 1)
	assert.True(t, changes[0].LoggedOut())
}

func TestLogout_AsGuestDoesNotNotify(t *testing.T) {
	s, _, _ := newState(t)
	notified := false
	s.Subscribe(func(context.Context, Change) { notified = true })

	s.Logout(context.Background())
	assert.False(t, notified)
}

func TestLogout_WaitsForLoginNotifications(t *testing.T) {
	s, fake, _ := newState(t)
	fake.On("POST", "/api/auth/login", loginReply(""))

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu      sync.Mutex
		changes []Change
	)
	s.Subscribe(func(_ context.Context, c Change) {
		mu.Lock()
		changes = append(changes, c)
		first := len(changes) == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
	})

	loginDone := make(chan struct{})
	go func() {
		defer close(loginDone)
		_, err := s.Login(context.Background(), "9876543210", "secret1")
		assert.NoError(t, err)
	}()
	<-entered

	logoutDone := make(chan struct{})
	go func() {
		defer close(logoutDone)
		s.Logout(context.Background())
	}()

	select {
	case <-logoutDone:
		t.Fatal("logout finished while the login notification was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-loginDone
	<-logoutDone

	assert.Nil(t, s.Current())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, changes, 2)
	assert.True(t, changes[0].LoggedIn())
	assert.True(t, changes[1].LoggedOut())
}

func TestChange(t *testing.T) {
	u1 := &Identity{ID: "u1"}
	u2 := &Identity{ID: "u2"}

	assert.True(t, Change{Current: u1}.LoggedIn())
	assert.True(t, Change{Previous: u1, Current: u2}.LoggedIn())
	assert.False(t, Change{Previous: u1, Current: &Identity{ID: "u1"}}.LoggedIn())
	assert.True(t, Change{Previous: u1}.LoggedOut())
	assert.False(t, Change{}.LoggedOut())
}
