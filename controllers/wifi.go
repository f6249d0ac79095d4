package controllers

import (
	"time"

	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"
)

var wifiHistoryChart = lib.RegisterToggle(&lib.Toggle{
	Name:        "wifi-history-chart",
	Description: "Latency history chart on the wifi dashboard",
	Default:     true,
})

func WifiDashboard(c *lib.Ctx) {
	wanIP := ""
	c.Cache.Get("wan-ip", &wanIP)
	c.Render(200, "wifi/dashboard", lib.J{
		"title":     "WiFi Monitor",
		"hosts":     models.MonitoredHosts(),
		"wanIp":     wanIP,
		"showChart": c.Toggle(wifiHistoryChart),
	})
}

// WifiStats answers with per host aggregates keyed by host, the format the
// dashboard's top cards consume
func WifiStats(c *lib.Ctx) {
	stats := wifiHostStats(c, c.ParamInt("hours", 24))
	byHost := lib.J{}
	for _, s := range stats {
		byHost[s.Host] = s
	}
	c.JSON(200, byHost)
}

func WifiSummary(c *lib.Ctx) {
	c.JSON(200, wifiHostStats(c, c.ParamInt("hours", 24)))
}

func WifiHistory(c *lib.Ctx) {
	since := time.Now().UTC().Add(-time.Duration(c.ParamInt("hours", 24)) * time.Hour)
	history := []*models.Ping{}
	c.DB.All(&history, `select * from pings where timestamp > ? order by timestamp asc`, since)
	c.JSON(200, history)
}

func WifiOutages(c *lib.Ctx) {
	since := time.Now().UTC().Add(-time.Duration(c.ParamInt("hours", 24)) * time.Hour)
	down := []*models.Ping{}
	c.DB.All(&down, `select * from pings where timestamp > ? and (status = ? or packet_loss >= 100) order by timestamp desc`,
		since, models.PingStatusTimeout)
	c.JSON(200, models.GroupOutages(down, time.Now().UTC(), models.OutageGap))
}

func wifiHostStats(c *lib.Ctx, hours int64) []*models.HostStats {
	stats := []*models.HostStats{}
	key := "wifi-stats-" + lib.IntToString(hours)
	c.Cache.Try(key, &stats, 30*time.Second, func() interface{} {
		since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
		rows := []*models.HostStats{}
		c.DB.All(&rows, `
			select
				host,
				count(*) as total_pings,
				coalesce(avg(avg_latency), 0) as avg_latency,
				coalesce(min(min_latency), 0) as min_latency,
				coalesce(max(max_latency), 0) as max_latency,
				avg(packet_loss) as avg_loss,
				sum(case when status = ? then 1 else 0 end) as timeouts,
				100.0 * sum(case when status = ? then 1 else 0 end) / count(*) as uptime
			from pings
			where timestamp > ?
			group by host
			order by host`,
			models.PingStatusTimeout, models.PingStatusSuccess, since)
		return rows
	})
	return stats
}
