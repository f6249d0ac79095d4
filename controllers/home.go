package controllers

import (
	"github.com/AdamDubois/home-serveur/lib"
)

func HomeIndex(c *lib.Ctx) {
	c.Render(200, "home/index", lib.J{
		"title": "Home Serveur",
	})
}
