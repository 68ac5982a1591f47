package auth

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

const testSecret = "test-secret-with-enough-entropy"

var alice = domain.Identity{UserID: "u1", Email: "alice@example.com"}

func TestTokenManager_IssueVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.Issue(domain.Identity{UserID: "u1", Email: "a@b.c", IsAdmin: true})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "u1", Email: "a@b.c", IsAdmin: true}, claims.Identity())
	assert.Equal(t, "u1", claims.Subject)
}

func TestTokenManager_EmptySecretIsSigningError(t *testing.T) {
	tm := NewTokenManager("", time.Hour)

	_, _, err := tm.Issue(alice)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindSigning))
}

func TestTokenManager_RejectsBadTokens(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	expired, _, err := tm.IssueWithTTL(alice, -time.Minute)
	require.NoError(t, err)

	other := NewTokenManager("another-secret", time.Hour)
	foreign, _, err := other.Issue(alice)
	require.NoError(t, err)

	valid, _, err := tm.Issue(alice)
	require.NoError(t, err)
	tampered := valid[:len(valid)-2] + "xx"

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":  expired,
		"foreign":  foreign,
		"tampered": tampered,
		"none":     unsigned,
		"garbage":  "not-a-token",
	} {
		_, err := tm.Verify(token)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidToken), name)
	}
}

func newGateApp(tm *TokenManager, admin bool) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperrors.ToAppError(err)
			return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"message": appErr.Message})
		},
	})
	mw := NewAuthMiddleware(tm)
	handlers := []fiber.Handler{mw.Authenticate}
	if admin {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(identity.UserID)
	})
	app.All("/protected", handlers...)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthenticate_FailuresShareOneResponse(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newGateApp(tm, false)
	expired, _, err := tm.IssueWithTTL(alice, -time.Minute)
	require.NoError(t, err)

	headers := []string{"", "Bearer", "Bearer ", "Basic abc", "Bearer garbage", "Bearer " + expired}
	for _, h := range headers {
		status, body := doRequest(t, app, "GET", h)
		assert.Equal(t, fiber.StatusForbidden, status, h)
		assert.JSONEq(t, `{"message":"Authentication failed"}`, body, h)
	}
}

func TestAuthenticate_StoresIdentity(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newGateApp(tm, false)
	token, _, err := tm.Issue(alice)
	require.NoError(t, err)

	status, body := doRequest(t, app, "GET", "bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "u1", body)
}

func TestAuthenticate_OptionsPassesThrough(t *testing.T) {
	app := newGateApp(NewTokenManager(testSecret, time.Hour), false)

	status, body := doRequest(t, app, "OPTIONS", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "anonymous", body)
}

func TestRequireAdmin(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	app := newGateApp(tm, true)

	userToken, _, err := tm.Issue(alice)
	require.NoError(t, err)
	status, body := doRequest(t, app, "GET", "Bearer "+userToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.JSONEq(t, `{"message":"Admin required"}`, body)

	adminToken, _, err := tm.Issue(domain.Identity{UserID: "admin", Email: "root@example.com", IsAdmin: true})
	require.NoError(t, err)
	status, body = doRequest(t, app, "GET", "Bearer "+adminToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin", body)
}

func TestPassword_HashCompare(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotContains(t, hash, "correct horse")
	assert.NoError(t, ComparePassword(hash, "correct horse battery"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

type fakeCounters struct {
	values  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{values: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeCounters) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(strconv.FormatInt(v, 10), nil)
}

func (f *fakeCounters) Incr(ctx context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.values[key]++
	return redis.NewIntResult(f.values[key], nil)
}

func (f *fakeCounters) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCounters) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.values, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisLoginLimiter_BlocksAfterMaxAttempts(t *testing.T) {
	store := newFakeCounters()
	limiter := NewRedisLoginLimiter(store, 3, time.Minute)
	ctx := context.Background()
	key := LoginKey("Alice@Example.com", "10.0.0.1")

	for i := 0; i < 3; i++ {
		blocked, err := limiter.Blocked(ctx, key)
		require.NoError(t, err)
		assert.False(t, blocked)
		require.NoError(t, limiter.RecordFailure(ctx, key))
	}
	blocked, err := limiter.Blocked(ctx, key)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, time.Minute, store.expires[key])

	require.NoError(t, limiter.Reset(ctx, key))
	blocked, err = limiter.Blocked(ctx, key)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginKey_NormalizesEmail(t *testing.T) {
	assert.Equal(t, "login:failures:alice@example.com:1.2.3.4", LoginKey("ALICE@example.com", "1.2.3.4"))
}
