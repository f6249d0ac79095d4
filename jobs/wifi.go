package jobs

import (
	"context"
	"os/exec"
	"regexp"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
	"github.com/AdamDubois/home-serveur/models"
)

const pingCount = 4
const pingTimeout = 2 * time.Second

var _ = lib.RegisterSchedule("wifi-scan", models.ScanInterval)

var _ = lib.RegisterJob("wifi-scan", func(c *lib.Ctx, args lib.J) {
	for _, host := range models.MonitoredHosts() {
		ping := scanHost(host)
		c.DB.Put(ping)
		c.TraceEvent("wifi-scan", lib.J{"host": host, "status": ping.Status})
		lib.LogInfo("wifi: scanned host", lib.J{"host": host, "status": ping.Status, "loss": ping.PacketLoss})
	}
})

var _ = lib.RegisterSchedule("wan-check", 15*time.Minute)

var _ = lib.RegisterJob("wan-check", func(c *lib.Ctx, args lib.J) {
	resp := struct {
		IP string `json:"ip"`
	}{}
	err := lib.GetJSONErr("https://api.ipify.org?format=json", &resp, map[string]string{})
	if err != nil {
		lib.LogError("wan-check: can't reach the internet", lib.J{"error": err.Error()})
		c.Cache.Delete("wan-ip")
		return
	}
	c.Cache.Set("wan-ip", resp.IP, 24*time.Hour)
})

// scanHost shells out to the system ping, the same way the cron version of
// this monitor always did
func scanHost(host string) *models.Ping {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(pingCount)*pingTimeout+5*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "ping", "-c", lib.IntToString(pingCount), "-W", "2", host)
	out, err := cmd.Output()

	ping := &models.Ping{
		ID:                 lib.NewID(),
		Timestamp:          time.Now().UTC(),
		Host:               host,
		PacketsTransmitted: pingCount,
		PacketLoss:         100,
		Status:             models.PingStatusTimeout,
	}
	if ctx.Err() == context.DeadlineExceeded {
		return ping
	}
	exitCode := 0
	if err != nil {
		ee, ok := err.(*exec.ExitError)
		if !ok {
			lib.LogError("wifi: can't run ping", lib.J{"host": host, "error": err.Error()})
			ping.Status = models.PingStatusFailed
			return ping
		}
		exitCode = ee.ExitCode()
	}
	parsePingOutput(ping, string(out), exitCode)
	return ping
}

var pingPacketsRegexp = regexp.MustCompile(`(\d+) packets transmitted, (\d+) received, ([\d.]+)% packet loss`)
var pingRttRegexp = regexp.MustCompile(`rtt min/avg/max/[a-z]+ = ([\d.]+)/([\d.]+)/([\d.]+)(?:/([\d.]+))?`)

func parsePingOutput(ping *models.Ping, output string, exitCode int) {
	ping.Status = models.PingStatusSuccess
	if exitCode != 0 {
		ping.Status = models.PingStatusFailed
	}

	if m := pingPacketsRegexp.FindStringSubmatch(output); m != nil {
		ping.PacketsTransmitted = lib.StringToInt(m[1])
		ping.PacketsReceived = lib.StringToInt(m[2])
		ping.PacketLoss = lib.StringToFloat(m[3])
	}
	if m := pingRttRegexp.FindStringSubmatch(output); m != nil {
		min, avg, max := lib.StringToFloat(m[1]), lib.StringToFloat(m[2]), lib.StringToFloat(m[3])
		ping.MinLatency = &min
		ping.AvgLatency = &avg
		ping.MaxLatency = &max
		if m[4] != "" {
			stddev := lib.StringToFloat(m[4])
			ping.StddevLatency = &stddev
		}
	}
	if ping.PacketsReceived == 0 {
		ping.Status = models.PingStatusTimeout
	}
}
