package main

import (
	"time"

	"github.com/AdamDubois/home-serveur/controllers"
	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"
)

func midSession(c *lib.Ctx) {
	var session *models.Session
	c.Data["session"] = session

	token := c.GetCookie(lib.SessionCookieName)
	if token != "" {
		sessionID, ok := lib.ValidateToken(token, lib.Env("SESSION_SECRET_KEY", ""))
		if !ok {
			c.SetCookie(lib.SessionCookieName, "")
			return
		}
		found := &models.Session{}
		c.DB.FirstWhere(found, "id = ?", sessionID)
		if found.ID == "" {
			c.SetCookie(lib.SessionCookieName, "")
			return
		}
		if found.Expires.Before(time.Now().UTC()) {
			c.DB.Delete(found)
			c.SetCookie(lib.SessionCookieName, "")
			return
		}
		// Refresh expiry if < 12 days left
		if found.Expires.Sub(time.Now().UTC()).Hours()/24 <= 12 {
			found.Expires = time.Now().UTC().Add(14 * 24 * time.Hour)
			found.Updated = time.Now().UTC()
			c.DB.Put(found)
			c.SetCookie(lib.SessionCookieName, controllers.SessionToken(found.ID))
		}
		session = found
		c.Data["session"] = session
	}
}
