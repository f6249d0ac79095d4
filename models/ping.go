package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdamDubois/home-serveur/lib"
)

const (
	PingStatusSuccess = "success"
	PingStatusFailed  = "failed"
	PingStatusTimeout = "timeout"
)

// ScanInterval is how often each host gets pinged
const ScanInterval = time.Minute

// OutageGap is the largest hole between two down samples that still counts
// as the same outage (scans can skip a beat under load)
const OutageGap = 3 * ScanInterval

// MonitoredHosts returns the hosts the scanner pings, router first
func MonitoredHosts() []string {
	hosts := []string{}
	for _, h := range strings.Split(lib.Env("WIFI_HOSTS", "192.168.2.1,8.8.8.8"), ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Ping is the result of one scan of a monitored host.
// Latencies are nil when the host never answered.
type Ping struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Host               string    `json:"host"`
	PacketsTransmitted int64     `json:"packets_transmitted"`
	PacketsReceived    int64     `json:"packets_received"`
	PacketLoss         float64   `json:"packet_loss"`
	MinLatency         *float64  `json:"min_latency"`
	AvgLatency         *float64  `json:"avg_latency"`
	MaxLatency         *float64  `json:"max_latency"`
	StddevLatency      *float64  `json:"stddev_latency"`
	Status             string    `json:"status"`
}

// Down reports whether this sample counts as an outage sample
func (p *Ping) Down() bool {
	return p.Status == PingStatusTimeout || p.PacketLoss >= 100
}

// HostStats is one monitored host's aggregates over a time window
type HostStats struct {
	Host       string  `json:"host"`
	TotalPings int64   `json:"total_pings"`
	AvgLatency float64 `json:"avg_latency"`
	MinLatency float64 `json:"min_latency"`
	MaxLatency float64 `json:"max_latency"`
	AvgLoss    float64 `json:"avg_packet_loss"`
	Timeouts   int64   `json:"timeouts"`
	Uptime     float64 `json:"uptime"`
}

// Outage is a run of consecutive down samples for one host
type Outage struct {
	Host     string    `json:"host"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
	Duration string    `json:"duration"`
}

// GroupOutages folds down samples (newest first) into per-host outages.
// Samples further apart than gap belong to separate outages; an outage
// whose newest sample is within gap of now is still ongoing.
func GroupOutages(pings []*Ping, now time.Time, gap time.Duration) []*Outage {
	outages := []*Outage{}
	current := map[string]*Outage{}
	for _, p := range pings {
		if !p.Down() {
			continue
		}
		o := current[p.Host]
		if o != nil && o.Start.Sub(p.Timestamp) <= gap {
			o.Start = p.Timestamp
			continue
		}
		o = &Outage{Host: p.Host, Start: p.Timestamp, End: p.Timestamp, Status: "resolved"}
		if now.Sub(p.Timestamp) <= gap {
			o.Status = "ongoing"
		}
		current[p.Host] = o
		outages = append(outages, o)
	}
	for _, o := range outages {
		d := o.End.Sub(o.Start)
		o.Duration = fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return outages
}
