package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie that binds a browser to an installed shop
const SessionCookieName = "shopify_app_session"

// SessionCookie issues and verifies the signed cookie naming the shop whose
// session a browser may use. The value is "<shop>.<hex hmac-sha256(shop)>".
type SessionCookie struct {
	secret []byte
	secure bool
}

// NewSessionCookie creates a cookie signer keyed with the app secret
func NewSessionCookie(secret string, secure bool) *SessionCookie {
	return &SessionCookie{secret: []byte(secret), secure: secure}
}

// Set writes the signed cookie for the shop
func (c *SessionCookie) Set(w http.ResponseWriter, shop string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    shop + "." + c.sign(shop),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	// the admin loads embedded apps in a cross-site iframe
	if c.secure {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

// Shop returns the shop named by a valid cookie, or "" when the cookie is absent or forged
func (c *SessionCookie) Shop(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	i := strings.LastIndex(cookie.Value, ".")
	if i <= 0 {
		return ""
	}
	shop, sig := cookie.Value[:i], cookie.Value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(shop))) {
		return ""
	}
	return shop
}

func (c *SessionCookie) sign(shop string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(shop))
	return hex.EncodeToString(mac.Sum(nil))
}
