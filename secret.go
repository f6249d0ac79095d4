package main

var secrets = map[string]map[string]string{
	"development": map[string]string{
		"ENV":          "development",
		"PORT":         "5000",
		"BASE_URL":     "http://localhost:5000",
		"APP_NAME":     "homeserver",
		"COMPANY_NAME": "Home Serveur",
		"EMAIL_FROM":   "noreply@localhost",
		"WIFI_HOSTS":   "192.168.2.1,8.8.8.8",
	},
	"production": map[string]string{
		"PORT":         "5000",
		"BASE_URL":     "http://192.168.2.42:5000",
		"APP_NAME":     "homeserver",
		"COMPANY_NAME": "Home Serveur",
		"EMAIL_FROM":   "noreply@localhost",
		"WIFI_HOSTS":   "192.168.2.1,8.8.8.8,1.1.1.1",
	},
}
