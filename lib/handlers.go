package lib

import (
	"time"
)

func handleAdminRunJob(c *Ctx) {
	if c.Param("secret", "") != Env("ADMIN_SECRET", NewID()) {
		c.Text(403, "Missing valid admin secret")
		return
	}
	c.Queue.RunJob(c.Param("name", ""), J{})
	c.Text(200, c.tracingTraceID)
}

func handleAdminSignInAs(c *Ctx) {
	if c.Param("secret", "") != Env("ADMIN_SECRET", NewID()) {
		c.Text(403, "Missing valid admin secret")
		return
	}
	sessionID := NewID()
	c.DB.Execute(`insert into sessions (id, data, expires, created, updated) values (?, '{}', ?, ?, ?)`,
		sessionID, time.Now().UTC().Add(14*24*time.Hour), time.Now().UTC(), time.Now().UTC())
	c.SetCookie(SessionCookieName, CreateToken(sessionID, Env("SESSION_SECRET_KEY", ""), 14*24*60))
	c.Redirect(SessionSigninRedirect)
}
