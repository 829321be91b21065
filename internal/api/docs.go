// ABOUTME: Rendered API reference served at /docs
// ABOUTME: Embedded markdown converted to HTML with goldmark

package api

import (
	"bytes"
	_ "embed"
	"net/http"

	"github.com/yuin/goldmark"
)

//go:embed docs/api.md
var apiReference []byte

const docsShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>cortex-api reference</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
code, pre { background: #f4f4f4; padding: 0.1rem 0.3rem; border-radius: 3px; }
pre { padding: 0.75rem; overflow-x: auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
</style>
</head>
<body>
`

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	var htmlBuf bytes.Buffer
	if err := goldmark.Convert(apiReference, &htmlBuf); err != nil {
		s.logger.Error("failed to convert markdown", "error", err)
		htmlBuf.Reset()
		htmlBuf.WriteString("<p>Failed to render documentation.</p>")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(docsShell))
	w.Write(htmlBuf.Bytes())
	w.Write([]byte("</body>\n</html>\n"))
}
