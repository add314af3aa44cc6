package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/truthsignal-device/internal/logic"
	"github.com/sweeney/truthsignal-device/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateClass": func(s logic.ConnectivityState) string {
		switch s {
		case logic.StateConnected:
			return "connected"
		case logic.StateBrokerDown:
			return "pending"
		default:
			return "disconnected"
		}
	},
	"stateOrUnknown": func(s logic.ConnectivityState) string {
		if s == "" {
			return "UNKNOWN"
		}
		return string(s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>TruthSignal Device</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; font-weight: bold; }
.pending { color: blue; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>TruthSignal Device</h1>

<h2>State</h2>
<table>
<tr><th>Connectivity</th><td id="state" class="{{stateClass .State}}">{{stateOrUnknown .State}}</td></tr>
<tr><th>Self-test</th><td>{{if .SelfTestDone}}done{{else}}pending{{end}}</td></tr>
<tr><th>Last alert</th><td>{{if .LastAlert.IsZero}}never{{else}}{{.LastAlert.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Network</th><td>{{.Config.Interface}}{{if .Config.SSID}} ({{.Config.SSID}}){{end}}</td></tr>
<tr><th>IP</th><td>{{if .LocalAddr}}{{.LocalAddr}}{{else}}none{{end}}</td></tr>
<tr><th>Network recoveries</th><td>{{.Recoveries}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected (rc={{.MQTTState}}){{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic</th><td>{{.Config.Topic}}</td></tr>
<tr><th>Phase</th><td>{{.Phase}}</td></tr>
<tr><th>Retries</th><td>{{.Retries}}</td></tr>
</table>

<h2>Messages</h2>
<table>
<tr><th>Received</th><td>{{.Counts.Messages}}</td></tr>
<tr><th>Alerts</th><td>{{.Counts.Alerts}}</td></tr>
<tr><th>Ignored</th><td>{{.Counts.Ignored}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
