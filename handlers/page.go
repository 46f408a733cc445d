/*
# Module: handlers/page.go
Directory page with the fetch trigger and the results container.

## Linked Modules
- [services/container](../services/container.go) - Results container

## Tags
http, html, ui

## Exports
Page, NewPage, TriggerID

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/page.go" ;
    code:description "Directory page with the fetch trigger and the results container" ;
    code:linksTo [
        code:name "services/container" ;
        code:path "../services/container.go" ;
        code:relationship "Results container"
    ] ;
    code:exports :Page, :NewPage, :TriggerID ;
    code:tags "http", "html", "ui" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/FallThunder/hack-at-davidson25/services"
)

// TriggerID is the element id of the button that starts a fetch
const TriggerID = "fetch-data"

type pageView struct {
	TriggerID   string
	ContainerID string
	Blocks      template.HTML
}

// Page serves the directory page for one container
type Page struct {
	tmpl      *template.Template
	container *services.Container
}

// NewPage parses the page template and checks that both the trigger and
// the container element are present. A page missing either cannot work,
// so this fails at startup rather than on the first click.
func NewPage(container *services.Container) (*Page, error) {
	return newPage(indexHTML, container)
}

func newPage(source string, container *services.Container) (*Page, error) {
	tmpl, err := template.New("index").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageView{TriggerID: TriggerID, ContainerID: container.ID()}); err != nil {
		return nil, fmt.Errorf("failed to render page template: %w", err)
	}
	for _, id := range []string{TriggerID, container.ID()} {
		if !strings.Contains(buf.String(), fmt.Sprintf(`id="%s"`, id)) {
			return nil, fmt.Errorf("page template has no element with id %q", id)
		}
	}

	return &Page{tmpl: tmpl, container: container}, nil
}

// ServeHTTP handles GET /
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := p.tmpl.Execute(w, pageView{
		TriggerID:   TriggerID,
		ContainerID: p.container.ID(),
		Blocks:      p.container.HTML(),
	})
	if err != nil {
		log.Error().Err(err).Msg("❌ Error rendering page")
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>🏪 Business Directory</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            background: #f4f5f7;
            color: #1f2933;
            padding: 20px;
        }
        .container { max-width: 800px; margin: 0 auto; }
        h1 { margin-bottom: 16px; }
        .controls { display: flex; gap: 8px; margin-bottom: 16px; }
        .controls input {
            flex: 1;
            padding: 10px;
            border: 1px solid #cbd2d9;
            border-radius: 6px;
        }
        button {
            padding: 10px 18px;
            border: none;
            border-radius: 6px;
            background: #3b82f6;
            color: white;
            cursor: pointer;
        }
        button:disabled { opacity: 0.6; cursor: wait; }
        .business-item {
            background: white;
            border-radius: 8px;
            padding: 16px;
            margin-bottom: 12px;
            box-shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }
        .business-item h2 { font-size: 1.2em; margin-bottom: 6px; }
        .business-item p { margin-bottom: 4px; }
        .best-match { border-left: 4px solid #10b981; }
        .match-reason { color: #047857; font-style: italic; }
        .description { color: #52606d; }
        .business-error {
            background: #fee2e2;
            color: #991b1b;
            border-radius: 6px;
            padding: 10px;
            margin-bottom: 12px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>🏪 Business Directory</h1>
        <div class="controls">
            <input type="text" id="prompt" placeholder="What are you looking for? (optional)">
            <button id="{{.TriggerID}}">Fetch businesses</button>
        </div>
        <div id="fetch-status"></div>
        <div id="{{.ContainerID}}">{{.Blocks}}</div>
    </div>

    <script>
        const trigger = document.getElementById('{{.TriggerID}}');
        const businessList = document.getElementById('{{.ContainerID}}');
        const statusBox = document.getElementById('fetch-status');

        let latest = 0;

        trigger.addEventListener('click', () => {
            fetchBusinesses();
        });

        async function fetchBusinesses() {
            const prompt = document.getElementById('prompt').value.trim();
            const url = prompt ? '/api/businesses?q=' + encodeURIComponent(prompt) : '/api/businesses';
            const seq = ++latest;
            statusBox.innerHTML = '';
            try {
                const response = await fetch(url);
                if (seq !== latest) {
                    return;
                }
                if (response.status === 200) {
                    businessList.innerHTML = await response.text();
                } else if (response.status !== 204) {
                    statusBox.innerHTML = await response.text();
                }
            } catch (error) {
                console.error('Error fetching businesses:', error);
            }
        }
    </script>
</body>
</html>
`
