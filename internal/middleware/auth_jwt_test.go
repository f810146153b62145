package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"
	"storefront/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

// =====================
// helper
// =====================

func mustMakeJWT(t *testing.T, secret string, claims jwt.MapClaims, signingMethod jwt.SigningMethod) string {
	t.Helper()

	if _, ok := claims["exp"]; !ok {
		claims["exp"] = 9999999999
	}
	token := jwt.NewWithClaims(signingMethod, claims)

	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return s
}

func runRequest(t *testing.T, e *echo.Echo, method string, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
}

func sessionHandler(c echo.Context) error {
	sess, _ := middleware.SessionFrom(c)
	return c.JSON(http.StatusOK, mwOKResponse{UserID: sess.UserID, Role: string(sess.Role), Name: sess.Name})
}

var cfg = config.Config{JWTSecret: "test-secret"}

// =====================
// AuthJWT
// =====================

func TestAuthJWT_Unauthorized(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "bad scheme", header: "Token abc.def.ghi"},
		{name: "empty token", header: "Bearer "},
		{name: "bad signature", header: "Bearer " + mustMakeJWT(t, "wrong-secret", jwt.MapClaims{"sub": 1, "role": "customer"}, jwt.SigningMethodHS256)},
		// HS256以外は受けない
		{name: "wrong alg", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 1, "role": "customer"}, jwt.SigningMethodHS512)},
		{name: "expired", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 1, "role": "customer", "exp": 1}, jwt.SigningMethodHS256)},
		{name: "missing role", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 1}, jwt.SigningMethodHS256)},
		{name: "non numeric sub", header: "Bearer " + mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "abc", "role": "customer"}, jwt.SigningMethodHS256)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

			rec := runRequest(t, e, http.MethodGet, "/protected", tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
		})
	}
}

// 正常：セッションが入る
func TestAuthJWT_SetsSession(t *testing.T) {
	e := echo.New()
	e.GET("/protected", sessionHandler, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 123, "role": "Customer"}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "customer", body.Role)
	assert.Empty(t, body.Name)
}

func TestAuthJWT_NameClaim(t *testing.T) {
	e := echo.New()
	e.GET("/protected", sessionHandler, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 5, "role": "customer", "name": " Hana "}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, "Hana", body.Name)
}

func TestAuthJWT_StringSubject(t *testing.T) {
	e := echo.New()
	e.GET("/protected", sessionHandler, middleware.AuthJWT(cfg))

	raw := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": "77", "role": "seller"}, jwt.SigningMethodHS256)
	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	assert.Equal(t, int64(77), body.UserID)
	assert.Equal(t, "seller", body.Role)
}

// =====================
// CustomerOnly
// =====================

// AuthJWT無しでGuardだけ => 401
func TestCustomerOnly_MissingSession(t *testing.T) {
	e := echo.New()
	e.GET("/cart", okHandler, middleware.CustomerOnly())

	rec := runRequest(t, e, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCustomerOnly_Roles(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{role: "customer", want: http.StatusOK},
		{role: "seller", want: http.StatusForbidden},
		{role: "admin", want: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			e := echo.New()
			e.GET("/cart", okHandler, middleware.AuthJWT(cfg), middleware.CustomerOnly())

			raw := mustMakeJWT(t, cfg.JWTSecret, jwt.MapClaims{"sub": 1, "role": tc.role}, jwt.SigningMethodHS256)
			rec := runRequest(t, e, http.MethodGet, "/cart", "Bearer "+raw)
			assert.Equal(t, tc.want, rec.Code)
			if tc.want == http.StatusForbidden {
				assert.Equal(t, "customers only", decodeMWError(t, rec).Error)
			}
		})
	}
}
