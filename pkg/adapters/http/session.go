package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// CookieName carries the signed session token.
const CookieName = "pairs_session"

var errInvalidSession = errors.New("invalid session token")

// SessionCodec issues and verifies the HS256 tokens that bind a browser to a session id.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewSessionCodec creates a codec. A zero ttl issues tokens without expiry and
// session-scoped cookies.
func NewSessionCodec(secret string, ttl time.Duration, clock clockwork.Clock) *SessionCodec {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Issue signs a token whose subject is sessionID.
func (c *SessionCodec) Issue(sessionID string) (string, error) {
	now := c.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Parse verifies the token and returns its session id.
func (c *SessionCodec) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidSession, err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(c.clock.Now()) {
		return "", fmt.Errorf("%w: expired", errInvalidSession)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a session id", errInvalidSession)
	}
	return claims.Subject, nil
}

// SessionID reads the session id from the request cookie.
func (c *SessionCodec) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", errInvalidSession
	}
	return c.Parse(cookie.Value)
}

// SetCookie writes a fresh token for sessionID.
func (c *SessionCodec) SetCookie(w http.ResponseWriter, sessionID string) error {
	token, err := c.Issue(sessionID)
	if err != nil {
		return err
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.ttl > 0 {
		cookie.MaxAge = int(c.ttl.Seconds())
	}
	http.SetCookie(w, cookie)
	return nil
}

// ClearCookie expires the session cookie.
func (c *SessionCodec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// NewSessionID mints a random session id.
func NewSessionID() string {
	return uuid.NewString()
}
