package jobs

import (
	"testing"

	"github.com/AdamDubois/home-serveur/models"
)

const pingOutputSuccess = `PING 8.8.8.8 (8.8.8.8) 56(84) bytes of data.
64 bytes from 8.8.8.8: icmp_seq=1 ttl=118 time=11.8 ms
64 bytes from 8.8.8.8: icmp_seq=2 ttl=118 time=12.1 ms
64 bytes from 8.8.8.8: icmp_seq=3 ttl=118 time=11.6 ms
64 bytes from 8.8.8.8: icmp_seq=4 ttl=118 time=12.4 ms

--- 8.8.8.8 ping statistics ---
4 packets transmitted, 4 received, 0% packet loss, time 3005ms
rtt min/avg/max/mdev = 11.632/11.971/12.403/0.291 ms
`

const pingOutputPartialLoss = `PING 192.168.2.50 (192.168.2.50) 56(84) bytes of data.
64 bytes from 192.168.2.50: icmp_seq=1 ttl=64 time=3.2 ms
64 bytes from 192.168.2.50: icmp_seq=4 ttl=64 time=5.0 ms

--- 192.168.2.50 ping statistics ---
4 packets transmitted, 2 received, 50% packet loss, time 3010ms
rtt min/avg/max/mdev = 3.201/4.100/5.000/0.899 ms
`

const pingOutputTotalLoss = `PING 192.168.2.99 (192.168.2.99) 56(84) bytes of data.

--- 192.168.2.99 ping statistics ---
4 packets transmitted, 0 received, 100% packet loss, time 3062ms
`

func TestParsePingOutputSuccess(t *testing.T) {
	ping := &models.Ping{}
	parsePingOutput(ping, pingOutputSuccess, 0)

	if ping.Status != models.PingStatusSuccess {
		t.Fatalf("expected success, got %q", ping.Status)
	}
	if ping.PacketsTransmitted != 4 || ping.PacketsReceived != 4 || ping.PacketLoss != 0 {
		t.Fatalf("expected 4/4 packets, got %+v", ping)
	}
	if ping.AvgLatency == nil || *ping.AvgLatency != 11.971 {
		t.Fatalf("expected avg latency 11.971, got %+v", ping.AvgLatency)
	}
	if ping.MinLatency == nil || *ping.MinLatency != 11.632 {
		t.Fatalf("expected min latency 11.632, got %+v", ping.MinLatency)
	}
	if ping.MaxLatency == nil || *ping.MaxLatency != 12.403 {
		t.Fatalf("expected max latency 12.403, got %+v", ping.MaxLatency)
	}
	if ping.StddevLatency == nil || *ping.StddevLatency != 0.291 {
		t.Fatalf("expected stddev 0.291, got %+v", ping.StddevLatency)
	}
}

func TestParsePingOutputPartialLoss(t *testing.T) {
	ping := &models.Ping{}
	parsePingOutput(ping, pingOutputPartialLoss, 1)

	// Some answers came back, the host is degraded but reachable
	if ping.Status != models.PingStatusFailed {
		t.Fatalf("expected failed, got %q", ping.Status)
	}
	if ping.PacketsReceived != 2 || ping.PacketLoss != 50 {
		t.Fatalf("expected 50%% loss, got %+v", ping)
	}
	if ping.AvgLatency == nil {
		t.Fatal("expected latencies for the packets that made it")
	}
}

func TestParsePingOutputTotalLoss(t *testing.T) {
	ping := &models.Ping{}
	parsePingOutput(ping, pingOutputTotalLoss, 1)

	if ping.Status != models.PingStatusTimeout {
		t.Fatalf("expected timeout, got %q", ping.Status)
	}
	if ping.PacketsReceived != 0 || ping.PacketLoss != 100 {
		t.Fatalf("expected total loss, got %+v", ping)
	}
	if ping.AvgLatency != nil {
		t.Fatal("expected no latencies when nothing answered")
	}
	if !ping.Down() {
		t.Fatal("expected the sample to count as down")
	}
}
