package views

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

// PageData feeds the dashboard shell
type PageData struct {
	TeamName  string
	Season    int
	Seasons   []SeasonOption
	Theme     string
	Record    string
	NextGame  *NextGameView
	Countdown string
	Banner    string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.TeamName}} Basketball</title>
</head>
<body class="theme-{{.Theme}}">
<header>
<h1>{{.TeamName}} Basketball</h1>
<select id="seasonSelect" name="season">
{{- range .Seasons}}
<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>
<span id="record">{{.Record}}</span>
</header>
{{- if .Banner}}
<div class="banner" role="alert">{{.Banner}}</div>
{{- end}}
<section id="nextGame">
{{- with .NextGame}}
<div id="nextGameOpponent">{{.Matchup}}</div>
<div id="nextGameDate">{{.Date}}</div>
{{- else}}
<div id="nextGameOpponent">No upcoming games</div>
{{- end}}
<div id="countdown" data-ws="/ws">{{.Countdown}}</div>
</section>
<nav>
<a href="#schedule" data-src="/api/v1/schedule">Schedule</a>
<a href="#roster" data-src="/api/v1/roster">Roster</a>
<a href="#stats" data-src="/api/v1/stats">Stats</a>
<a href="#analytics" data-src="/api/v1/analytics">Analytics</a>
<a href="#tickets" data-src="/api/v1/tickets">Tickets</a>
<a href="#fans" data-src="/api/v1/widgets/mvp-vote">Fan Hub</a>
</nav>
<main id="tab"></main>
</body>
</html>
`))

// Page is the dashboard shell component
func Page(data PageData) templ.Component {
	if data.Theme == "" {
		data.Theme = "light"
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTemplate.Execute(w, data)
	})
}
