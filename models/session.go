package models

import (
	"time"

	"github.com/AdamDubois/home-serveur/lib"
)

type Session struct {
	ID      string    `json:"id"`
	Data    lib.J     `json:"data"`
	Expires time.Time `json:"expires"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}
