package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/taiko-sensor/internal/status"
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
	"padName": func(i int) string {
		names := []string{"Left rim", "Left head", "Right head", "Right rim"}
		if i >= 0 && i < len(names) {
			return names[i]
		}
		return fmt.Sprintf("Pad %d", i)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Taiko Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.down { color: green; font-weight: bold; }
.up { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Taiko Sensor<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>

<h2>Pads</h2>
<table>
<tr><th>Pad</th><th>Key</th><th>State</th><th>Hits</th></tr>
{{range .Pads}}<tr id="pad-{{.Index}}"><td>{{padName .Index}}</td><td>{{.Key}}</td><td class="{{if .Pressed}}down{{else}}up{{end}}">{{if .Pressed}}DOWN{{else}}up{{end}}</td><td class="hits">{{.Hits}}</td></tr>
{{end}}</table>

<h2>Last hit</h2>
<table>
{{if .LastHit}}<tr><th>Pad</th><td id="last-pad">{{padName .LastHit.Button}} ({{.LastHit.Key}})</td></tr>
<tr><th>Magnitude</th><td id="last-value">{{printf "%.0f" .LastHit.Value}}</td></tr>
<tr><th>At</th><td id="last-at">{{.LastHit.Timestamp}}</td></tr>
{{else}}<tr><td colspan="2">none yet</td></tr>
{{end}}</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Total hits</th><td>{{.TotalHits}}</td></tr>
<tr><th>LEDs</th><td>{{if .Muted}}muted{{else}}on{{end}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTT.Connected}}connected{{else}}disconnected{{end}}">{{if .MQTT.Connected}}connected{{else}}disconnected{{end}} ({{.MQTT.Broker}})</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Type}} {{.Network.IP}} ({{.Network.Status}})</td></tr>{{end}}
</table>

<h2>Config</h2>
<table>
<tr><th>Sensor device</th><td>{{.Config.Device}}</td></tr>
<tr><th>Active window</th><td>{{.Config.WindowMs}} ms</td></tr>
<tr><th>Hold</th><td>{{.Config.HoldMs}} ms</td></tr>
<tr><th>Trigger threshold</th><td>{{.Config.Threshold}}</td></tr>
<tr><th>MIDI</th><td>{{if .Config.MIDI}}enabled{{else}}disabled{{end}}</td></tr>
</table>

<script>
(function () {
	var dot = document.getElementById('live-dot');
	var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
	var ws;
	function connect() {
		ws = new WebSocket(proto + location.host + '/live');
		ws.onopen = function () { dot.className = 'live-dot ok'; dot.title = 'live'; };
		ws.onclose = function () {
			dot.className = 'live-dot err'; dot.title = 'disconnected';
			setTimeout(connect, 2000);
		};
		ws.onmessage = function (ev) {
			var msg = JSON.parse(ev.data);
			if (!msg.data || msg.data.button === undefined) return;
			var row = document.getElementById('pad-' + msg.data.button);
			if (!row) return;
			var state = row.cells[2], hits = row.cells[3];
			if (msg.type === 'hit') {
				state.textContent = 'DOWN';
				state.className = 'down';
				hits.textContent = (parseInt(hits.textContent, 10) || 0) + 1;
			} else if (msg.type === 'release') {
				state.textContent = 'up';
				state.className = 'up';
			}
		};
	}
	connect();
})();
</script>
</body>
</html>
`

// viewModel is the template input: the flattened JSON view plus the
// snapshot's uptime, which the template formats itself.
type viewModel struct {
	status.StatusInner
	Uptime time.Duration
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	vm := viewModel{
		StatusInner: status.Build(snap, "", "").Status,
		Uptime:      snap.Uptime(),
	}
	// Render errors surface as a truncated page; nothing useful to do here.
	_ = indexTmpl.Execute(w, vm)
}
