package models

import (
	"testing"
	"time"
)

func downPing(host string, at time.Time) *Ping {
	return &Ping{Host: host, Timestamp: at, PacketLoss: 100, Status: PingStatusTimeout}
}

func TestPingDown(t *testing.T) {
	if !(&Ping{Status: PingStatusTimeout}).Down() {
		t.Fatal("timeout should count as down")
	}
	if !(&Ping{Status: PingStatusSuccess, PacketLoss: 100}).Down() {
		t.Fatal("total packet loss should count as down")
	}
	if (&Ping{Status: PingStatusSuccess, PacketLoss: 25}).Down() {
		t.Fatal("partial loss should not count as down")
	}
}

func TestGroupOutages(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	at := func(minsAgo int) time.Time { return now.Add(-time.Duration(minsAgo) * time.Minute) }

	// Newest first, the way the queries order them
	pings := []*Ping{
		// Ongoing outage on the router, 3 consecutive samples
		downPing("192.168.2.1", at(1)),
		downPing("192.168.2.1", at(2)),
		downPing("192.168.2.1", at(3)),
		// Healthy sample in between is ignored
		{Host: "8.8.8.8", Timestamp: at(2), Status: PingStatusSuccess},
		// Old resolved outage on the router, separated by > gap
		downPing("192.168.2.1", at(30)),
		downPing("192.168.2.1", at(31)),
		// Single sample outage on another host
		downPing("8.8.8.8", at(45)),
	}

	outages := GroupOutages(pings, now, OutageGap)
	if len(outages) != 3 {
		t.Fatalf("expected 3 outages, got %d", len(outages))
	}

	first := outages[0]
	if first.Host != "192.168.2.1" || first.Status != "ongoing" {
		t.Fatalf("expected ongoing router outage first, got %+v", first)
	}
	if !first.Start.Equal(at(3)) || !first.End.Equal(at(1)) {
		t.Fatalf("expected outage from t-3m to t-1m, got %+v", first)
	}
	if first.Duration != "2m 0s" {
		t.Fatalf("expected duration 2m 0s, got %q", first.Duration)
	}

	second := outages[1]
	if second.Host != "192.168.2.1" || second.Status != "resolved" {
		t.Fatalf("expected resolved router outage, got %+v", second)
	}
	if !second.Start.Equal(at(31)) || !second.End.Equal(at(30)) {
		t.Fatalf("expected outage from t-31m to t-30m, got %+v", second)
	}

	third := outages[2]
	if third.Host != "8.8.8.8" || third.Status != "resolved" || third.Duration != "0m 0s" {
		t.Fatalf("expected single sample outage, got %+v", third)
	}
}

func TestGroupOutagesEmpty(t *testing.T) {
	if got := GroupOutages([]*Ping{}, time.Now(), OutageGap); len(got) != 0 {
		t.Fatalf("expected no outages, got %d", len(got))
	}
}

func TestMonitoredHosts(t *testing.T) {
	t.Setenv("WIFI_HOSTS", " 192.168.2.1, 8.8.8.8 ,,1.1.1.1")
	hosts := MonitoredHosts()
	if len(hosts) != 3 || hosts[0] != "192.168.2.1" || hosts[1] != "8.8.8.8" || hosts[2] != "1.1.1.1" {
		t.Fatalf("expected trimmed hosts, got %v", hosts)
	}
}
