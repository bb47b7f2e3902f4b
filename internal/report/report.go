// Package report turns probe outcomes into the human-readable diagnostic
// text. Summarize is a pure mapping from the two probe booleans to a fixed
// report body and exit code; Render adds per-run detail around it.
package report

import (
	"fmt"
	"strings"

	"tellocheck/internal/models"
)

const (
	internetOKLine   = "✅ Internet reachable"
	internetFailLine = "❌ Internet unreachable"
	deviceOKLine     = "✅ Connected to Tello network"
	deviceFailLine   = "❌ Not connected to Tello network"

	successBlock = `🎉 ALL CHECKS PASSED!
You can now launch the drone agent:
   tello-agent --vision-only --camera-source tello
`

	internetAdvice = `🌐 INTERNET TROUBLESHOOTING:
   1. Check your router and WiFi connection
   2. Reconnect or move closer to the access point
   3. Disable VPN or proxy software and try again
`

	deviceAdvice = `🔧 TELLO NETWORK SETUP REQUIRED:
   1. Power on your Tello drone (LED should be solid)
   2. Connect your computer to the TELLO-XXXXXX WiFi network (check drone sticker)
   3. Close other Tello apps (DJI GO, etc.)
   4. Run this check again
`

	hotspotTip = "💡 TIP: Use a mobile hotspot for internet access while your WiFi card is connected to the Tello.\n"

	docsPointer = "📖 More help: docs/TROUBLESHOOTING.md\n"
)

// ExitCode maps probe outcomes to the process exit code: 0 only when both
// probes succeeded.
func ExitCode(internetOK, deviceOK bool) int {
	if internetOK && deviceOK {
		return 0
	}
	return 1
}

// Summarize maps the two probe outcomes to the report body and exit code.
// It is pure: identical inputs always produce identical text.
func Summarize(internetOK, deviceOK bool) (string, int) {
	var b strings.Builder

	writeStatus(&b, internetOK, internetOKLine, internetFailLine)
	writeStatus(&b, deviceOK, deviceOKLine, deviceFailLine)
	b.WriteString("\n")

	if internetOK && deviceOK {
		b.WriteString(successBlock)
		return b.String(), 0
	}

	if !internetOK {
		b.WriteString(internetAdvice)
		b.WriteString("\n")
	}
	if !deviceOK {
		b.WriteString(deviceAdvice)
		b.WriteString("\n")
	}
	if !internetOK && !deviceOK {
		b.WriteString(hotspotTip)
		b.WriteString("\n")
	}
	b.WriteString(docsPointer)
	return b.String(), 1
}

// Render produces the full report for a diagnostic run: header, per-probe
// detail, the optional handshake section, then the Summarize body. The exit
// code depends only on the two probes; the handshake is advisory.
func Render(snap models.Snapshot) (string, int) {
	var b strings.Builder

	b.WriteString("🔍 Tello preflight check\n\n")
	b.WriteString(probeLine("🌐 Internet", snap.Internet))
	b.WriteString(probeLine("📡 Tello network", snap.Device))
	if snap.Handshake != nil {
		b.WriteString("\n")
		writeHandshake(&b, *snap.Handshake)
	}
	b.WriteString("\n")

	body, code := Summarize(snap.Internet.OK, snap.Device.OK)
	b.WriteString(body)
	return b.String(), code
}

func writeStatus(b *strings.Builder, ok bool, okLine, failLine string) {
	if ok {
		b.WriteString(okLine)
	} else {
		b.WriteString(failLine)
	}
	b.WriteString("\n")
}

func probeLine(label string, res models.ProbeResult) string {
	if res.OK {
		return fmt.Sprintf("%s: ✅ %s reachable (%d ms)\n", label, res.Target, res.LatencyMs)
	}
	if res.Error != "" {
		return fmt.Sprintf("%s: ❌ %s unreachable (%s)\n", label, res.Target, res.Error)
	}
	return fmt.Sprintf("%s: ❌ %s unreachable\n", label, res.Target)
}

func writeHandshake(b *strings.Builder, h models.HandshakeResult) {
	b.WriteString("🔌 SDK handshake:\n")
	if !h.Connected {
		if h.Error != "" {
			fmt.Fprintf(b, "   ❌ Command mode failed: %s\n", h.Error)
		} else {
			b.WriteString("   ❌ Command mode failed\n")
		}
		return
	}
	b.WriteString("   ✅ Command mode ok\n")
	fmt.Fprintf(b, "   🔋 Battery level: %d%%\n", h.Battery)
	if h.StreamOK {
		b.WriteString("   📹 Video stream ok\n")
	} else {
		b.WriteString("   ❌ Video stream failed\n")
	}
	if h.Error != "" {
		fmt.Fprintf(b, "   ⚠️  %s\n", h.Error)
	}
}
