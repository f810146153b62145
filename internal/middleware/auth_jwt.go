package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const CtxSessionKey = "session" // model.Session

var errInvalidToken = errors.New("invalid token")

// AuthJWT は Authorization: Bearer <jwt> を検証して model.Session を context に入れる。
// sub（数値か数字の文字列）と role が必須、name は任意。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			sess, err := sessionFromToken(raw, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxSessionKey, sess)
			return next(c)
		}
	}
}

// AuthJWTが入れたセッションを取り出す
func SessionFrom(c echo.Context) (model.Session, bool) {
	sess, ok := c.Get(CtxSessionKey).(model.Session)
	if !ok || sess.UserID <= 0 {
		return model.Session{}, false
	}
	return sess, true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// HS256以外は受けない
func sessionFromToken(raw string, secret []byte) (model.Session, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return model.Session{}, errInvalidToken
	}

	userID, err := claimInt64(claims["sub"])
	if err != nil || userID <= 0 {
		return model.Session{}, errInvalidToken
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return model.Session{}, errInvalidToken
	}
	name, _ := claims["name"].(string)

	return model.Session{
		UserID: userID,
		Role:   model.Role(strings.ToLower(role)),
		Name:   strings.TrimSpace(name),
	}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func claimInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errInvalidToken
	}
}
