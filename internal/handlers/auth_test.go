package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brgarcias/apartment-gift-list/internal/auth"
	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/session"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type fakeUserStore struct {
	users  map[int]*store.User
	nextID int
}

func (f *fakeUserStore) FindUserByNameAndBirthDate(ctx context.Context, name, birthDate string) (*store.User, error) {
	for _, u := range f.users {
		if u.Name == name && u.BirthDate == birthDate {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) CreateUser(ctx context.Context, payload store.UserPayload) (*store.User, error) {
	f.nextID++
	u := &store.User{
		ID:        f.nextID,
		Name:      payload.Name,
		BirthDate: payload.BirthDate,
		Email:     payload.Email,
		CreatedAt: time.Now().UTC(),
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) UserByID(ctx context.Context, id int) (*store.User, error) {
	return f.users[id], nil
}

func authFixture(t *testing.T) (*AuthHandler, *fakeUserStore, *session.RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := session.NewRedisStore(client, time.Hour)
	users := &fakeUserStore{users: map[int]*store.User{}}
	checker := auth.NewChecker(sessions, users)

	h := NewAuthHandler(users, sessions, sessions, checker, time.Hour, "")
	return h, users, sessions
}

func setCookieToken(t *testing.T, resp bff.Response) string {
	t.Helper()

	header := resp.Headers["Set-Cookie"]
	require.True(t, strings.HasPrefix(header, session.CookieName+"="))

	value := strings.TrimPrefix(header, session.CookieName+"=")
	if i := strings.IndexByte(value, ';'); i >= 0 {
		value = value[:i]
	}
	return value
}

func TestSigninCreatesSession(t *testing.T) {
	t.Parallel()

	h, users, sessions := authFixture(t)

	resp, err := h.Signin(context.Background(), bff.Request{
		Method: http.MethodPost,
		Path:   "/auth/signin",
		Headers: map[string]string{
			"user-agent": "Mozilla/5.0",
			"client-ip":  "203.0.113.9",
		},
		Body: `{"name":"Amanda","birthDate":"1994-03-02"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	// An unknown visitor is registered on first sign-in.
	require.Len(t, users.users, 1)

	token := setCookieToken(t, resp)
	rec, err := sessions.Get(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.UserID)
	assert.Equal(t, "Mozilla/5.0", rec.UserAgent)
	assert.Equal(t, "203.0.113.9", rec.IP)
}

func TestSigninExistingUser(t *testing.T) {
	t.Parallel()

	h, users, _ := authFixture(t)
	users.users[5] = &store.User{ID: 5, Name: "Bruno", BirthDate: "1990-07-20"}
	users.nextID = 5

	resp, err := h.Signin(context.Background(), bff.Request{
		Body: `{"name":"Bruno","birthDate":"1990-07-20"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Len(t, users.users, 1)

	var body struct {
		User struct {
			ID int `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, 5, body.User.ID)
}

func TestSigninNoData(t *testing.T) {
	t.Parallel()

	h, _, _ := authFixture(t)

	resp, err := h.Signin(context.Background(), bff.Request{Body: `{}`})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "No data provided", errorMessage(t, resp))
}

func TestSignupDuplicate(t *testing.T) {
	t.Parallel()

	h, users, _ := authFixture(t)
	users.users[1] = &store.User{ID: 1, Name: "Amanda", BirthDate: "1994-03-02"}

	resp, err := h.Signup(context.Background(), bff.Request{
		Body: `{"name":"Amanda","birthDate":"1994-03-02"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "User already exists", errorMessage(t, resp))
}

func TestSigninSignoutRoundTrip(t *testing.T) {
	t.Parallel()

	h, _, _ := authFixture(t)

	signin, err := h.Signin(context.Background(), bff.Request{
		Body: `{"name":"Amanda","birthDate":"1994-03-02"}`,
	})
	require.NoError(t, err)
	token := setCookieToken(t, signin)
	cookie := map[string]string{"cookie": session.CookieName + "=" + token}

	check, err := h.Check(context.Background(), bff.Request{Headers: cookie})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, check.Status)

	signout, err := h.Signout(context.Background(), bff.Request{Headers: cookie})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, signout.Status)
	assert.Contains(t, signout.Headers["Set-Cookie"], "Max-Age=0")

	// The token is gone from the cache, so the next check fails with the
	// expired message rather than the missing-cookie one.
	check, err = h.Check(context.Background(), bff.Request{Headers: cookie})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, check.Status)
	assert.Equal(t, "Session expired", errorMessage(t, check))
}

func TestCheckWithoutCookie(t *testing.T) {
	t.Parallel()

	h, _, _ := authFixture(t)

	resp, err := h.Check(context.Background(), bff.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Unauthorized", errorMessage(t, resp))
}

func TestSignoutWithoutCookie(t *testing.T) {
	t.Parallel()

	h, _, _ := authFixture(t)

	resp, err := h.Signout(context.Background(), bff.Request{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "No session token provided", errorMessage(t, resp))
}

func TestAuthenticatedUser(t *testing.T) {
	t.Parallel()

	h, _, _ := authFixture(t)

	signin, err := h.Signin(context.Background(), bff.Request{
		Body: `{"name":"Amanda","birthDate":"1994-03-02"}`,
	})
	require.NoError(t, err)
	token := setCookieToken(t, signin)

	resp, err := h.AuthenticatedUser(context.Background(), bff.Request{
		Headers: map[string]string{"cookie": session.CookieName + "=" + token},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	var body struct {
		User *store.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.NotNil(t, body.User)
	assert.Equal(t, "Amanda", body.User.Name)
}
