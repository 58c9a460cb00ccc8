package delivery

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie that carries the signed session id.
const SessionCookieName = "receipt.sid"

var errInvalidCookie = errors.New("invalid session cookie")

// cookieCodec signs session ids so a client cannot pick one.
type cookieCodec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func (c cookieCodec) encode(sessionID string) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(c.maxAge).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c cookieCodec) decode(value string) (string, error) {
	token, err := jwt.Parse(value, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return "", errInvalidCookie
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidCookie
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", errInvalidCookie
	}
	return sid, nil
}
