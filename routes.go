package main

import (
	. "github.com/AdamDubois/home-serveur/controllers"
	"github.com/AdamDubois/home-serveur/lib"
)

func setupRoutes(s *lib.Server) {
	lib.SessionSigninRedirect = "/monetariat/"
	s.Middleware(midSession)

	s.Handle("/", HomeIndex)

	s.Handle("/wifi/", WifiDashboard)
	s.Handle("/wifi/api/stats", WifiStats)
	s.Handle("/wifi/api/summary", WifiSummary)
	s.Handle("/wifi/api/history/:hours", WifiHistory)
	s.Handle("/wifi/api/outages/:hours", WifiOutages)

	s.Handle("/monetariat/login", AuthLogin)
	s.Handle("/monetariat/logout", AuthLogout)
	s.Handle("/monetariat/", AuthRequired, MonetariatForm)
	s.Handle("/monetariat/dashboard", AuthRequired, MonetariatDashboard)
	s.Handle("/monetariat/api/expenses", AuthRequired, MonetariatExpenses)
	s.Handle("/monetariat/api/expenses/stats", AuthRequired, MonetariatStats)

	s.HandleNotFound(func(c *lib.Ctx) {
		c.Render(404, "other/404", lib.J{})
	})
}
