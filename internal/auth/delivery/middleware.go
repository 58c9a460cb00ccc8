package delivery

import (
	"net/http"
	"time"

	authdomain "receipt-backend/internal/auth/domain"
	"receipt-backend/internal/auth/repository"
	"receipt-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionContextKey = "session"
	managerContextKey = "sessionManager"
)

// SessionManager loads the server-side session named by the request cookie
// and writes the cookie back when the session changed.
type SessionManager struct {
	sessions repository.SessionRepository
	codec    cookieCodec
	secure   bool
}

func NewSessionManager(sessions repository.SessionRepository, secret string, maxAge time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		codec:    cookieCodec{secret: []byte(secret), maxAge: maxAge, now: time.Now},
		secure:   secure,
	}
}

// Middleware attaches a session to every request. Unknown, expired or forged
// cookies get a new, unsaved session; nothing is stored until a handler saves it.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(managerContextKey, m)
		c.Set(sessionContextKey, m.load(c))
		c.Next()
	}
}

func (m *SessionManager) load(c *gin.Context) *authdomain.Session {
	value, err := c.Cookie(SessionCookieName)
	if err != nil || value == "" {
		return authdomain.NewSession(uuid.NewString())
	}

	sid, err := m.codec.decode(value)
	if err != nil {
		logger.Sugar.Debugw("ignoring session cookie", "error", err)
		return authdomain.NewSession(uuid.NewString())
	}

	sess, err := m.sessions.Find(c.Request.Context(), sid)
	if err != nil {
		logger.Sugar.Errorw("failed to load session", "session", sid, "error", err)
		return authdomain.NewSession(uuid.NewString())
	}
	if sess == nil {
		return authdomain.NewSession(uuid.NewString())
	}
	return sess
}

// commit sets or clears the cookie to match what happened to sess.
func (m *SessionManager) commit(c *gin.Context, sess *authdomain.Session) {
	switch {
	case sess.Destroyed():
		m.writeCookie(c, "", -1)
	case sess.Saved():
		value, err := m.codec.encode(sess.ID)
		if err != nil {
			logger.Sugar.Errorw("failed to sign session cookie", "session", sess.ID, "error", err)
			return
		}
		m.writeCookie(c, value, int(m.codec.maxAge/time.Second))
	}
}

func (m *SessionManager) writeCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", m.secure, true)
}

// CurrentSession returns the session attached by Middleware.
func CurrentSession(c *gin.Context) *authdomain.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(*authdomain.Session); ok {
			return sess
		}
	}
	sess := authdomain.NewSession(uuid.NewString())
	c.Set(sessionContextKey, sess)
	return sess
}

// CommitSession must be called before the response is written.
func CommitSession(c *gin.Context) {
	v, ok := c.Get(managerContextKey)
	if !ok {
		return
	}
	m, ok := v.(*SessionManager)
	if !ok {
		return
	}
	m.commit(c, CurrentSession(c))
}

// SetSession replaces the session attached to the request.
func SetSession(c *gin.Context, sess *authdomain.Session) {
	c.Set(sessionContextKey, sess)
}
