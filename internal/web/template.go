package web

import (
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/temp-indicator/internal/logic"
	"github.com/sweeney/temp-indicator/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": humanDuration,
	"temp":   logic.FormatTemperature,
}).Parse(indexHTML))

// humanDuration renders d to the second, largest unit first, omitting
// leading zero units: "3d 0h 4m 5s", "12m 0s", "7s".
func humanDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	units := []struct {
		size   int64
		suffix string
	}{{86400, "d"}, {3600, "h"}, {60, "m"}, {1, "s"}}

	var parts []string
	for _, u := range units {
		n := secs / u.size
		secs %= u.size
		if n == 0 && len(parts) == 0 && u.size > 1 {
			continue
		}
		parts = append(parts, strconv.FormatInt(n, 10)+u.suffix)
	}
	return strings.Join(parts, " ")
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>Temperature</title>
<style>
:root { --ink: #222; --rule: #e3e3e3; }
body { font: 15px/1.4 system-ui, sans-serif; color: var(--ink); max-width: 40rem; margin: 1.5rem auto; padding: 0 1rem; }
h1 { font-size: 1.3rem; margin-bottom: .5rem; }
h2 { font-size: 1rem; margin: 1.2rem 0 .3rem; text-transform: uppercase; letter-spacing: .05em; }
table { width: 100%; border-spacing: 0; }
th, td { padding: .25rem .5rem; border-top: 1px solid var(--rule); text-align: left; vertical-align: middle; }
th { font-weight: normal; color: #666; width: 45%; }
pre.lcd { font: 1.2rem monospace; background: #9c3; color: #123; padding: .5rem .75rem; display: inline-block; border-radius: 4px; }
.led { display: inline-block; width: .9rem; height: .9rem; border-radius: 50%; margin-right: .4rem; background: #ccc; vertical-align: -2px; }
.led.green.on { background: #2a2; }
.led.yellow.on { background: #eb0; }
.led.red.on { background: #d22; }
.up { color: #2a2; }
.down { color: #d22; }
</style>
</head>
<body>
<h1>Temperature</h1>

{{if .HasReading}}
<pre class="lcd">{{index .Lines 0}}
{{index .Lines 1}}</pre>

<h2>Reading</h2>
<table>
<tr><th>Celsius</th><td>{{temp .Reading.Celsius}}</td></tr>
<tr><th>Fahrenheit</th><td>{{temp .Reading.Fahrenheit}}</td></tr>
<tr><th>Raw</th><td>{{.Reading.Raw}}</td></tr>
</table>
{{else}}
<p>Waiting for the first reading.</p>
{{end}}

<h2>Indicators</h2>
<table>
{{range .Indicators}}<tr><th>&ge; {{.Threshold}} &deg;C</th><td><span class="led {{.Color}}{{if .On}} on{{end}}"></span>{{if .On}}on{{else}}off{{end}}</td></tr>
{{end}}</table>

<h2>Counters</h2>
<table>
<tr><th>Samples</th><td>{{.Counts.Samples}}</td></tr>
<tr><th>Rises</th><td>{{.Counts.Rise}}</td></tr>
<tr><th>Falls</th><td>{{.Counts.Fall}}</td></tr>
<tr><th>Errors</th><td>{{.Errors}}{{if .LastError}} (last: {{.LastError}}){{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}up{{else}}down{{end}}">{{if .Config.Broker}}{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}}){{else}}disabled{{end}}</td></tr>
<tr><th>Sampler</th><td>{{.Config.Sampler}} channel {{.Config.Channel}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02 15:04:05"}} UTC</td></tr>
<tr><th>Delay</th><td>{{.Config.DelayMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{with .Config.HeartbeatMs}}{{.}}ms{{else}}off{{end}}</td></tr>
</table>

<p><a href="/index.json">index.json</a> &middot; <a href="/display">display</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	refresh := snap.Config.DelayMs / 1000
	if refresh < 1 {
		refresh = 1
	}
	page := struct {
		status.Snapshot
		Uptime         time.Duration
		Lines          [2]string
		Indicators     []status.IndicatorJSON
		RefreshSeconds int64
	}{
		Snapshot:       snap,
		Uptime:         snap.Uptime(),
		Lines:          [2]string{snap.Config.Label, logic.FormatReading(snap.Reading)},
		Indicators:     snap.Indicators(),
		RefreshSeconds: refresh,
	}
	indexTmpl.Execute(w, page)
}
