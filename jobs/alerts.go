package jobs

import (
	"fmt"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"
)

var _ = lib.RegisterSchedule("wifi-alerts", 15*time.Minute)

var _ = lib.RegisterJob("wifi-alerts", func(c *lib.Ctx, args lib.J) {
	to := lib.Env("ALERT_EMAIL", "")
	if to == "" {
		return
	}

	since := time.Now().UTC().Add(-time.Hour)
	down := []*models.Ping{}
	c.DB.All(&down, `select * from pings where timestamp > ? and (status = ? or packet_loss >= 100) order by timestamp desc`,
		since, models.PingStatusTimeout)

	for _, o := range models.GroupOutages(down, time.Now().UTC(), models.OutageGap) {
		if o.Status != "ongoing" {
			continue
		}
		// One email per outage, not one per run
		key := "alerted-" + o.Host + "-" + o.Start.UTC().Format(time.RFC3339)
		sent := false
		if c.Cache.Get(key, &sent) {
			continue
		}
		c.Cache.Set(key, true, 24*time.Hour)
		lib.LogInfo("wifi-alerts: sending outage alert", lib.J{"host": o.Host, "start": o.Start})
		c.SendEmail(to,
			fmt.Sprintf("WiFi Monitor: %s is down", o.Host),
			fmt.Sprintf("Host %s stopped answering pings at %s and is still down (%s so far).", o.Host, o.Start.Format("2006-01-02 15:04"), o.Duration),
			"Open the dashboard",
			lib.Env("BASE_URL", "http://localhost:"+lib.Env("PORT", "5000"))+"/wifi/")
	}
})
