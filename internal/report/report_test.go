package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tellocheck/internal/models"
)

func TestSummarizeBothOK(t *testing.T) {
	text, code := Summarize(true, true)

	assert.Equal(t, 0, code)
	assert.Contains(t, text, "ALL CHECKS PASSED")
	assert.Contains(t, text, "--vision-only --camera-source tello")
	assert.NotContains(t, text, "INTERNET TROUBLESHOOTING")
	assert.NotContains(t, text, "TELLO NETWORK SETUP REQUIRED")
}

func TestSummarizeInternetDown(t *testing.T) {
	text, code := Summarize(false, true)

	assert.Equal(t, 1, code)
	assert.Contains(t, text, "INTERNET TROUBLESHOOTING")
	assert.NotContains(t, text, "TELLO NETWORK SETUP REQUIRED")
	assert.NotContains(t, text, "mobile hotspot")
	assert.Contains(t, text, "docs/TROUBLESHOOTING.md")
}

func TestSummarizeDeviceDown(t *testing.T) {
	text, code := Summarize(true, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, text, "TELLO NETWORK SETUP REQUIRED")
	assert.Contains(t, text, "Power on your Tello drone")
	assert.Contains(t, text, "TELLO-XXXXXX")
	assert.Contains(t, text, "LED")
	assert.NotContains(t, text, "INTERNET TROUBLESHOOTING")
	assert.NotContains(t, text, "ALL CHECKS PASSED")
}

func TestSummarizeBothDown(t *testing.T) {
	text, code := Summarize(false, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, text, "INTERNET TROUBLESHOOTING")
	assert.Contains(t, text, "TELLO NETWORK SETUP REQUIRED")
	assert.Contains(t, text, "mobile hotspot")
}

func TestSummarizeIsPure(t *testing.T) {
	for _, internetOK := range []bool{true, false} {
		for _, deviceOK := range []bool{true, false} {
			first, firstCode := Summarize(internetOK, deviceOK)
			second, secondCode := Summarize(internetOK, deviceOK)
			require.Equal(t, first, second)
			require.Equal(t, firstCode, secondCode)

			wantCode := 1
			if internetOK && deviceOK {
				wantCode = 0
			}
			assert.Equal(t, wantCode, firstCode)
		}
	}
}

func TestRenderIncludesProbeDetail(t *testing.T) {
	snap := models.Snapshot{
		Timestamp: time.Now().UTC(),
		Internet: models.ProbeResult{
			Target:    "https://connectivitycheck.gstatic.com/generate_204",
			OK:        true,
			LatencyMs: 42,
		},
		Device: models.ProbeResult{
			Target: "192.168.10.1",
			Error:  "no echo reply",
		},
	}

	text, code := Render(snap)

	assert.Equal(t, 1, code)
	assert.Contains(t, text, "Tello preflight check")
	assert.Contains(t, text, "42 ms")
	assert.Contains(t, text, "no echo reply")
	assert.Contains(t, text, "TELLO NETWORK SETUP REQUIRED")
}

func TestRenderHandshakeIsAdvisory(t *testing.T) {
	snap := models.Snapshot{
		Internet: models.ProbeResult{Target: "https://example.com", OK: true},
		Device:   models.ProbeResult{Target: "192.168.10.1", OK: true},
		Handshake: &models.HandshakeResult{
			Connected: false,
			Error:     "command \"command\" timed out after 15s",
		},
	}

	text, code := Render(snap)

	// A failed handshake never flips the exit code; the probes both passed.
	assert.Equal(t, 0, code)
	assert.Contains(t, text, "Command mode failed")
	assert.Contains(t, text, "ALL CHECKS PASSED")
}

func TestRenderHandshakeDetails(t *testing.T) {
	snap := models.Snapshot{
		Internet: models.ProbeResult{Target: "https://example.com", OK: true},
		Device:   models.ProbeResult{Target: "192.168.10.1", OK: true},
		Handshake: &models.HandshakeResult{
			Connected: true,
			Battery:   87,
			StreamOK:  true,
		},
	}

	text, code := Render(snap)

	assert.Equal(t, 0, code)
	assert.Contains(t, text, "Battery level: 87%")
	assert.Contains(t, text, "Video stream ok")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(true, true))
	assert.Equal(t, 1, ExitCode(true, false))
	assert.Equal(t, 1, ExitCode(false, true))
	assert.Equal(t, 1, ExitCode(false, false))
}
