package gateway

import (
	"fmt"
	"strings"
	"time"

	"github.com/tcnksm/go-httpstat"
)

// Latency breaks down the time spent on a single request, including the time
// to first byte (TTFB) and the time to last byte (TTLB).
type Latency struct {
	FirstByte        time.Duration `json:"ttfb"`
	LastByte         time.Duration `json:"ttlb"`
	DNSLookup        time.Duration `json:"dns_lookup"`
	TCPConnection    time.Duration `json:"tcp_connection"`
	TLSHandshake     time.Duration `json:"tls_handshake"`
	ServerProcessing time.Duration `json:"server_processing"`
}

func (lat *Latency) Unassigned() time.Duration {
	return lat.LastByte - lat.DNSLookup - lat.TCPConnection - lat.TLSHandshake - lat.ServerProcessing
}

// Milliseconds returns the breakdown keyed the way reports print it.
func (lat *Latency) Milliseconds() map[string]float64 {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return map[string]float64{
		"dns":  ms(lat.DNSLookup),
		"tcp":  ms(lat.TCPConnection),
		"tls":  ms(lat.TLSHandshake),
		"srv":  ms(lat.ServerProcessing),
		"rest": ms(lat.Unassigned()),
		"ttfb": ms(lat.FirstByte),
		"ttlb": ms(lat.LastByte),
	}
}

func (lat *Latency) String() string {
	lines := []string{
		fmt.Sprintf("DNS lookup: %d ms", lat.DNSLookup.Milliseconds()),
		fmt.Sprintf("TCP connection: %d ms", lat.TCPConnection.Milliseconds()),
		fmt.Sprintf("TLS handshake: %d ms", lat.TLSHandshake.Milliseconds()),
		fmt.Sprintf("Server processing: %d ms", lat.ServerProcessing.Milliseconds()),
		fmt.Sprintf("Unassigned: %d ms", lat.Unassigned().Milliseconds()),
		fmt.Sprintf("TTFB: %d ms", lat.FirstByte.Milliseconds()),
		fmt.Sprintf("TTLB: %d ms", lat.LastByte.Milliseconds()),
	}
	return strings.Join(lines, "\n")
}

// latency converts the trace of the last request made with the traced context.
func latency(result *httpstat.Result, elapsed time.Duration) Latency {
	lat := Latency{
		DNSLookup:        result.DNSLookup,
		TCPConnection:    result.TCPConnection,
		TLSHandshake:     result.TLSHandshake,
		ServerProcessing: result.ServerProcessing,
		LastByte:         elapsed,
	}
	lat.FirstByte = lat.DNSLookup + lat.TCPConnection + lat.TLSHandshake + lat.ServerProcessing
	return lat
}
