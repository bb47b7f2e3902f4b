// Package probe implements the two connectivity probes: a bounded HTTP
// request against a public endpoint and a single ICMP echo against the
// drone's fixed address. Probes never fail hard; every outcome is reduced
// to a ProbeResult.
package probe

import (
	"context"
	"errors"
	"net/http"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"tellocheck/internal/models"
)

// Internet issues a single GET against url and reports whether any response
// arrived within the timeout. The status code does not matter: a captive
// portal answering 511 still proves the link is up. No retries.
func Internet(ctx context.Context, url string, timeout time.Duration) models.ProbeResult {
	res := models.ProbeResult{
		Target:    url,
		CheckedAt: time.Now().UTC(),
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	response, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			res.Error = "request timed out"
		} else {
			res.Error = err.Error()
		}
		return res
	}
	defer response.Body.Close()

	res.OK = true
	res.LatencyMs = time.Since(start).Milliseconds()
	return res
}

// Device sends exactly one ICMP echo request to ip and reports whether the
// reply arrived within the timeout. No retries. Socket setup failures (for
// example raw-socket permission) count as unreachable rather than erroring
// out, so the caller can always finish the report.
func Device(ip string, timeout time.Duration, privileged bool) models.ProbeResult {
	res := models.ProbeResult{
		Target:    ip,
		CheckedAt: time.Now().UTC(),
	}

	pinger, err := probing.NewPinger(ip)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(privileged)

	start := time.Now()
	if err := pinger.Run(); err != nil {
		res.Error = err.Error()
		return res
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv < 1 {
		res.Error = "no echo reply"
		return res
	}

	res.OK = true
	if len(stats.Rtts) > 0 {
		res.LatencyMs = stats.Rtts[0].Milliseconds()
	} else {
		res.LatencyMs = time.Since(start).Milliseconds()
	}
	return res
}
