package controllers

import (
	"strings"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"

	"golang.org/x/crypto/bcrypt"
)

const BCryptCost int = 12

// DefaultPasswordHash is the bcrypt hash of the documented default password
// `admin123`. Only meant to let you in right after install, set
// MONETARIAT_PASSWORD_HASH before exposing the server.
const DefaultPasswordHash = "$2b$12$HPiI9EX3bPAB5n1GrjglRO1RfH095ybG2OEpiI2zB6S08RPdjHD92"

// PasswordHash returns the configured bcrypt hash of the gate password
func PasswordHash() string {
	return lib.Env("MONETARIAT_PASSWORD_HASH", DefaultPasswordHash)
}

// SessionToken returns the signed cookie value for a session id
func SessionToken(sessionID string) string {
	return lib.CreateToken(sessionID, lib.Env("SESSION_SECRET_KEY", ""), 14*24*60)
}

func AuthLogin(c *lib.Ctx) {
	session := c.Data["session"].(*models.Session)
	if session != nil {
		c.Redirect("/monetariat/")
		return
	}

	errors := []string{}
	if c.Req.Method == "POST" {
		if err := bcrypt.CompareHashAndPassword([]byte(PasswordHash()), []byte(c.Param("password", ""))); err != nil {
			errors = append(errors, "Invalid credentials")
		} else {
			session := &models.Session{
				ID:      lib.NewID(),
				Data:    lib.J{},
				Expires: time.Now().UTC().Add(14 * 24 * time.Hour),
				Created: time.Now().UTC(),
				Updated: time.Now().UTC(),
			}
			c.DB.Put(session)
			c.SetCookie(lib.SessionCookieName, SessionToken(session.ID))
			c.Redirect(c.Param("return", "/monetariat/"))
			return
		}
	}

	c.Render(200, "auth/login", lib.J{
		"title":  "Monétariat — Connexion",
		"errors": errors,
	})
}

func AuthLogout(c *lib.Ctx) {
	session := c.Data["session"].(*models.Session)
	if session != nil {
		c.DB.Delete(session)
	}
	c.SetCookie(lib.SessionCookieName, "")
	c.Redirect("/monetariat/login")
}

// AuthRequired guards the Monétariat routes. Pages bounce to the login
// form, API calls get a 401.
func AuthRequired(c *lib.Ctx) {
	session := c.Data["session"].(*models.Session)
	if session == nil {
		if strings.Contains(c.Req.URL.Path, "/api/") {
			c.JSON(401, lib.J{"error": "authentication required"})
			return
		}
		c.Redirect("/monetariat/login?return=" + c.Req.URL.Path)
	}
}
