package health

import (
	"bytes"
	"html/template"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Service}} · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { font-family: Arial, Helvetica, sans-serif; background: #F8F9FA; color: #1F2937; margin: 0; padding: 40px; }
    h1 { font-size: 40px; margin: 0 0 24px 0; color: {{if eq .Health.Status "ok"}}#1F4E79{{else}}#B91C1C{{end}}; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
    .card { background: #FFFFFF; border: 1px solid #E5E7EB; border-radius: 12px; padding: 24px; }
    .label { text-transform: uppercase; font-size: 11px; letter-spacing: 2px; color: #6B7280; margin-bottom: 12px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-size: 14px; }
    .ok { color: #047857; font-weight: bold; }
    .err { color: #B91C1C; font-weight: bold; }
    .footer { margin-top: 16px; font-family: monospace; font-size: 13px; color: #6B7280; }
    a { color: #1F4E79; }
    @media (max-width: 900px) { .grid { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <h1>{{if eq .Health.Status "ok"}}All Systems Operational{{else}}System Issues Detected{{end}}</h1>
  <div class="grid">
    <div class="card">
      <div class="label">Traffic</div>
      <div class="row"><span>Total</span><span>{{.Health.Traffic.TotalRequests}}</span></div>
      <div class="row"><span>Successful</span><span>{{.Health.Traffic.SuccessCount}}</span></div>
      <div class="row"><span>Failed</span><span>{{.Health.Traffic.FailedCount}}</span></div>
      <div class="row"><span>Success Rate</span><span>{{.Health.Traffic.SuccessRate}}%</span></div>
      <div class="row"><span>Avg Latency</span><span>{{.Health.Traffic.AvgResponseTime}}ms</span></div>
    </div>
    <div class="card">
      <div class="label">Runtime</div>
      <div class="row"><span>Uptime</span><span>{{.Health.Runtime.UptimeSeconds}}s</span></div>
      <div class="row"><span>Heap Used</span><span>{{.Health.Runtime.Memory.HeapUsedMB}} MB</span></div>
      <div class="row"><span>Goroutines</span><span>{{.Health.Runtime.Goroutines}}</span></div>
      <div class="row"><span>Go</span><span>{{.Health.Runtime.GoVersion}} · {{.Health.Runtime.Platform}}</span></div>
    </div>
    <div class="card">
      <div class="label">Dependencies</div>
      {{range $name, $dep := .Health.Dependencies}}
      <div class="row"><span>{{$name}}</span><span class="{{if or (eq $dep.Status "connected") (eq $dep.Status "reachable")}}ok{{else}}err{{end}}">{{$dep.Status}}{{with $dep.PingMs}} · {{.}} ms{{end}}</span></div>
      {{end}}
    </div>
  </div>
  <div class="footer">
    {{with .Health.Traffic.LastRequest}}Last request: {{index . "method"}} {{index . "path"}}{{else}}No requests recorded{{end}}
    · <a href="/health/json">/health/json</a> · <a href="/health/errors">/health/errors</a> · <a href="/metrics">/metrics</a>
  </div>
</body>
</html>
`))

// RenderDashboardHTML returns the HTML status page for GET /.
func RenderDashboardHTML(service string, health CollectResult) (string, error) {
	var buf bytes.Buffer
	err := dashboardTemplate.Execute(&buf, struct {
		Service string
		Health  CollectResult
	}{service, health})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
