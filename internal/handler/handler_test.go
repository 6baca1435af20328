package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamDu1981/angular2club/internal/account"
	"github.com/WilliamDu1981/angular2club/internal/account/accounttest"
	"github.com/WilliamDu1981/angular2club/internal/credentials"
	"github.com/WilliamDu1981/angular2club/internal/federation"
	"github.com/WilliamDu1981/angular2club/internal/handler"
	"github.com/WilliamDu1981/angular2club/internal/middleware"
	"github.com/WilliamDu1981/angular2club/internal/provider"
	"github.com/WilliamDu1981/angular2club/internal/provider/providertest"
	"github.com/WilliamDu1981/angular2club/internal/session"
)

type noopMailer struct{}

func (noopMailer) SendActivationMail(ctx context.Context, a *account.Account) error { return nil }

type env struct {
	router   *gin.Engine
	store    *accounttest.FakeStore
	sessions session.Store
	provider *providertest.FakeClient
	hasher   *credentials.Hasher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := accounttest.NewFakeStore()
	hasher := credentials.NewHasher("test-pepper")
	accounts := account.NewService(store, hasher, noopMailer{})

	sessions := session.NewRedisStore(client)
	issuer := session.NewIssuer(sessions, time.Hour)

	fake := &providertest.FakeClient{
		AccessToken: "tok-1",
		OpenID:      "oq1",
		Profile: provider.Profile{
			NickName: "Quin",
			Gender:   "male",
			Avatar:   "https://q.example/a.png",
			Province: "Guangdong",
			City:     "Shenzhen",
		},
	}
	registry := provider.NewRegistry(fake)
	flow := federation.New(registry, store)

	h := handler.NewHandler(accounts, registry, flow, issuer, sessions)

	router := gin.New()
	h.RegisterRoutes(router, middleware.RequireSession(sessions))

	return &env{router: router, store: store, sessions: sessions, provider: fake, hasher: hasher}
}

func (e *env) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (e *env) signinCookie(t *testing.T, handle, password string) *http.Cookie {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/users/signin",
		`{"account":"`+handle+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := cookieNamed(rec, session.CookieName)
	require.NotNil(t, cookie)
	return cookie
}

func TestSignupThenActivateThenSignin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/api/users/signup",
		`{"account":"a@b.com","nickName":"Al","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "a@b.com", body["account"])
	assert.Equal(t, false, body["isActive"])
	assert.NotContains(t, rec.Body.String(), e.hasher.Hash("secret1"))

	// not yet activated
	rec = e.do(http.MethodPost, "/api/users/signin",
		`{"account":"a@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "USER_IS_NOT_ACTIVE", rec.Header().Get("X-Error"))

	id := body["id"].(string)
	rec = e.do(http.MethodGet, "/api/users/active/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ACTIVE_USER_SUCCESS", decode(t, rec)["msg"])

	rec = e.do(http.MethodPost, "/api/users/signin",
		`{"account":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body = decode(t, rec)
	assert.Equal(t, true, body["result"])
	assert.NotNil(t, body["session"])
	assert.NotNil(t, body["account"])
	assert.NotNil(t, cookieNamed(rec, session.CookieName))
}

func TestSignupValidation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "bad email",
			body: `{"account":"not-an-email","nickName":"Al","password":"secret1"}`,
			want: map[string]string{"account": "ACCOUNT_INCORRECT"},
		},
		{
			name: "short password",
			body: `{"account":"a@b.com","nickName":"Al","password":"abc"}`,
			want: map[string]string{"password": "PASSWORD_LENGTH_INCORRECT"},
		},
		{
			name: "all fields bad",
			body: `{"account":"nope","nickName":"A","password":"abc"}`,
			want: map[string]string{
				"account":  "ACCOUNT_INCORRECT",
				"nickName": "NICKNAME_INCORRECT",
				"password": "PASSWORD_LENGTH_INCORRECT",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := e.do(http.MethodPost, "/api/users/signup", test.body)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "REGISTER_ERROR", rec.Header().Get("X-Error"))

			msg := decode(t, rec)["msg"].(map[string]any)
			for field, code := range test.want {
				assert.Equal(t, code, msg[field])
			}
			assert.Len(t, msg, len(test.want))
		})
	}

	assert.Equal(t, 0, e.store.Len())
}

func TestSignupDuplicate(t *testing.T) {
	e := newEnv(t)
	e.store.Seed(&account.Account{Account: "a@b.com", Type: account.TypeLocal})

	rec := e.do(http.MethodPost, "/api/users/signup",
		`{"account":"a@b.com","nickName":"Al","password":"secret1"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ACCOUNT_IS_EXIST", rec.Header().Get("X-Error"))
	assert.Equal(t, 1, e.store.Len())
}

func TestUniqueProbe(t *testing.T) {
	e := newEnv(t)
	e.store.Seed(&account.Account{Account: "taken@b.com"})

	rec := e.do(http.MethodGet, "/api/users/unique?account=free@b.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ACCOUNT_IS_NOT_EXIST", decode(t, rec)["msg"])

	rec = e.do(http.MethodGet, "/api/users/unique?account=taken@b.com", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ACCOUNT_IS_EXIST", rec.Header().Get("X-Error"))

	rec = e.do(http.MethodGet, "/api/users/unique", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "REGISTER_ERROR", rec.Header().Get("X-Error"))
}

func TestActivateTwice(t *testing.T) {
	e := newEnv(t)
	seeded := e.store.Seed(&account.Account{Account: "a@b.com", IsActive: false})

	rec := e.do(http.MethodGet, "/api/users/active/"+seeded.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodGet, "/api/users/active/"+seeded.ID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "USER_IS_ACTIVED", decode(t, rec)["msg"])
}

func TestActivateUnknown(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/api/users/active/no-such-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decode(t, rec)["msg"])
}

func TestSigninFailures(t *testing.T) {
	e := newEnv(t)
	e.store.Seed(&account.Account{
		Account:        "a@b.com",
		HashedPassword: e.hasher.Hash("secret1"),
		IsActive:       true,
		Type:           account.TypeLocal,
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/api/users/signin",
			`{"account":"a@b.com","password":"wrong"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "PASSWORD_INCORRECT", decode(t, rec)["msg"])
		// no cookie, no digest in the body
		assert.Nil(t, cookieNamed(rec, session.CookieName))
		assert.NotContains(t, rec.Body.String(), e.hasher.Hash("secret1"))
	})

	t.Run("unknown handle", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/api/users/signin",
			`{"account":"ghost@b.com","password":"secret1"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "USER_NOT_FOUND", decode(t, rec)["msg"])
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := e.do(http.MethodPost, "/api/users/signin", `{"account":"a@b.com"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "LOGIN_ERROR", rec.Header().Get("X-Error"))
		msg := decode(t, rec)["msg"].(map[string]any)
		assert.Equal(t, "PASSWORD_REQUIRED", msg["password"])
	})
}

func TestUpdateProfile(t *testing.T) {
	e := newEnv(t)
	e.store.Seed(&account.Account{
		Account:        "a@b.com",
		NickName:       "Old",
		HashedPassword: e.hasher.Hash("secret1"),
		IsActive:       true,
		Type:           account.TypeLocal,
	})
	cookie := e.signinCookie(t, "a@b.com", "secret1")

	t.Run("without session", func(t *testing.T) {
		rec := e.do(http.MethodPut, "/api/users", `{"nickName":"New Nick"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("handle change rejected", func(t *testing.T) {
		rec := e.do(http.MethodPut, "/api/users",
			`{"account":"other@b.com","nickName":"New Nick"}`, cookie)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FIELD_NOT_ALLOWED", rec.Header().Get("X-Error"))
	})

	t.Run("password change rejected", func(t *testing.T) {
		rec := e.do(http.MethodPut, "/api/users", `{"password":"hunter22"}`, cookie)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FIELD_NOT_ALLOWED", rec.Header().Get("X-Error"))
	})

	t.Run("profile fields updated", func(t *testing.T) {
		rec := e.do(http.MethodPut, "/api/users",
			`{"nickName":"New Nick","city":"Shenzhen"}`, cookie)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "New Nick", body["nickName"])
		assert.Equal(t, "Shenzhen", body["city"])
		// untouched fields survive
		assert.Equal(t, "a@b.com", body["account"])
	})
}

func TestOAuthLoginRedirect(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/oauth/login/qq", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Location"))

	state := cookieNamed(rec, "__oauth_state")
	require.NotNil(t, state)
	assert.Contains(t, rec.Header().Get("Location"), state.Value)
}

func TestOAuthLoginUnknownProvider(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/oauth/login/wechat", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOAuthCallback(t *testing.T) {
	state := &http.Cookie{Name: "__oauth_state", Value: "s1"}

	t.Run("first login creates the account", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(http.MethodGet, "/oauth/callback/qq?code=c1&state=s1", "", state)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.NotNil(t, cookieNamed(rec, session.CookieName))

		stored, err := e.store.FindByOpenID(context.Background(), "oq1")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, account.TypeQQ, stored.Type)
		assert.True(t, stored.IsActive)
		assert.Equal(t, "Quin", stored.NickName)
	})

	t.Run("returning login updates in place", func(t *testing.T) {
		e := newEnv(t)
		e.store.Seed(&account.Account{
			Account: "oq1", OpenID: "oq1", NickName: "Old", Type: account.TypeQQ, IsActive: true,
		})

		rec := e.do(http.MethodGet, "/oauth/callback/qq?code=c1&state=s1", "", state)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, 1, e.store.Len())

		stored, err := e.store.FindByOpenID(context.Background(), "oq1")
		require.NoError(t, err)
		assert.Equal(t, "Quin", stored.NickName)
	})

	t.Run("state mismatch", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(http.MethodGet, "/oauth/callback/qq?code=c1&state=tampered", "", state)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, 0, e.provider.ExchangeCalls())
		assert.Equal(t, 0, e.store.Len())
	})

	t.Run("missing code", func(t *testing.T) {
		e := newEnv(t)

		rec := e.do(http.MethodGet, "/oauth/callback/qq?state=s1", "", state)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		e := newEnv(t)
		e.provider.ExchangeErr = errors.New("code rejected")

		rec := e.do(http.MethodGet, "/oauth/callback/qq?code=bad&state=s1", "", state)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "PROVIDER_ERROR", rec.Header().Get("X-Error"))
		assert.Equal(t, 0, e.store.Len())
		assert.Nil(t, cookieNamed(rec, session.CookieName))
	})
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	e.store.Seed(&account.Account{
		Account:        "a@b.com",
		HashedPassword: e.hasher.Hash("secret1"),
		IsActive:       true,
		Type:           account.TypeLocal,
	})
	cookie := e.signinCookie(t, "a@b.com", "secret1")

	rec := e.do(http.MethodPost, "/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	cleared := cookieNamed(rec, session.CookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	sess, err := e.sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, sess)

	// the old cookie no longer authenticates
	rec = e.do(http.MethodPut, "/api/users", `{"nickName":"New Nick"}`, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
