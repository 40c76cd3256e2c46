package demo

import (
	"context"
	"net/http"
	"strings"
)

// SessionCookie holds the signed-in user's name. The demo does not
// authenticate; any name is accepted.
const SessionCookie = "pagewire_session"

type sessionKey struct{}

// Session is the signed-in user, or the zero value for a guest.
type Session struct {
	Name string
}

// Props returns the user prop. Guests get an empty object so clients can
// test fields without a null check.
func (s Session) Props() map[string]any {
	if s.Name == "" {
		return map[string]any{}
	}
	return map[string]any{"name": s.Name}
}

// withSession reads the session cookie into the request context.
func withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var s Session
		if c, err := r.Cookie(SessionCookie); err == nil {
			s.Name = strings.TrimSpace(c.Value)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, s)))
	})
}

func sessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

func setSession(w http.ResponseWriter, name string) {
	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if name == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}
