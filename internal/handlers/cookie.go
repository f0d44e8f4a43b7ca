package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Jean-Jawed/4Films/internal/env"
)

const sessionCookieName = "carousel_session"
const sessionCookieHours = 12

// sessionToken returns the caller's session token, minting a fresh one
// when the cookie is absent or empty.
func sessionToken(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int((time.Hour * sessionCookieHours).Seconds()),
		HttpOnly: true,
		SameSite: sameSite(),
		Secure:   secure(),
	})
	return token
}

func sameSite() http.SameSite {
	if env.IsProduction() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func secure() bool {
	return env.IsProduction()
}
