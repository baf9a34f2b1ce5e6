package server

import (
	"html/template"
	"net/http"
	"sort"
)

// indexTmpl is the single-page viewer: one section per sheet with the
// rendered contact sheet inline. An EventSource per sheet listens for
// rescan events and cache-busts the image so new frames show up while
// the producing run is still going.
var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>framegrid</title>
<style>
body { font-family: monospace; background: #181818; color: #ddd; margin: 2em; }
h1 { font-size: 1.4em; }
.sheet { margin-bottom: 3em; }
.sheet img { max-width: 100%; border: 1px solid #444; }
.meta { color: #999; margin-bottom: 0.5em; }
</style>
</head>
<body>
<h1>framegrid</h1>
{{if not .}}<p>No sheets. POST /api/v1/sheets with {"dir": "...", "cols": 5} to add one.</p>{{end}}
{{range .}}
<div class="sheet">
  <div class="meta">
    {{.Config.Dir}} - {{.FrameCount}} frames{{if .BestLoss}}, best loss {{.BestLossString}}{{end}}
    {{if .Error}}<span style="color:#e66">({{.Error}})</span>{{end}}
  </div>
  <img id="img-{{.ID}}" src="/api/v1/sheets/{{.ID}}/sheet.png">
  <script>
    new EventSource("/api/v1/sheets/{{.ID}}/events").onmessage = function () {
      var img = document.getElementById("img-{{.ID}}");
      img.src = "/api/v1/sheets/{{.ID}}/sheet.png?t=" + Date.now();
    };
  </script>
</div>
{{end}}
</body>
</html>
`))

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sheets := s.sheetManager.ListSheets()
	sort.Slice(sheets, func(i, j int) bool {
		return sheets[i].CreatedAt.Before(sheets[j].CreatedAt)
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, sheets); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
