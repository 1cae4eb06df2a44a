package ui

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ddsjoberg/gt/adapters/htmldoc"
	"github.com/ddsjoberg/gt/app"
	"github.com/ddsjoberg/gt/domain/table"
	"github.com/ddsjoberg/gt/internal/testkit"
	"github.com/ddsjoberg/gt/ports"
)

// App is the table preview server: it renders the synthetic demo
// cohort's tables as HTML so layout changes can be eyeballed quickly.
type App struct {
	router    *chi.Mux
	tables    *app.TableService
	kit       *testkit.TrialGenerator
	writer    ports.TableWriter
	markStyle table.MarkStyle
}

// Config holds preview server configuration
type Config struct {
	MarkStyle table.MarkStyle
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; margin: 2rem auto; max-width: 60rem; }
table.gt-table { border-collapse: collapse; }
table.gt-table th, table.gt-table td { padding: 0.3rem 0.8rem; }
table.gt-table thead { border-top: 2px solid #333; border-bottom: 1px solid #333; }
table.gt-table tbody { border-bottom: 2px solid #333; }
td.gt-group { font-weight: bold; }
td.gt-indent-1 { padding-left: 2rem; }
td.gt-indent-2 { padding-left: 3.2rem; }
tfoot td { font-size: 0.85rem; color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<nav>{{range .Links}}<a href="{{.Href}}">{{.Label}}</a> | {{end}}</nav>
{{.Table}}
</body>
</html>
`))

type pageData struct {
	Title string
	Links []pageLink
	Table template.HTML
}

type pageLink struct {
	Href  string
	Label string
}

var navLinks = []pageLink{
	{Href: "/tables/demographics", Label: "Demographics"},
	{Href: "/tables/response", Label: "Response"},
}

// NewApp creates the preview application
func NewApp(config Config) *App {
	a := &App{
		router:    chi.NewRouter(),
		tables:    app.NewTableService(app.NewAggregator(4)),
		kit:       testkit.NewTrialGenerator(testkit.DefaultTrialConfig()),
		writer:    htmldoc.NewWriter(),
		markStyle: config.MarkStyle,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/tables/{name}", a.handleTable)
}

// Router returns the HTTP handler
func (a *App) Router() http.Handler {
	return a.router
}

// Run starts the preview server
func (a *App) Run(port string) error {
	log.Printf("[ui] preview server listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/tables/demographics", http.StatusFound)
}

func (a *App) handleTable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	model, title, err := a.buildTable(r, name)
	if err != nil {
		log.Printf("[handleTable] FAILED - building %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var b strings.Builder
	if err := a.writer.Write(model.Render(), &b); err != nil {
		log.Printf("[handleTable] FAILED - writing %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{Title: title, Links: navLinks, Table: template.HTML(b.String())}
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("[handleTable] FAILED - template: %v", err)
	}
}

func (a *App) buildTable(r *http.Request, name string) (*table.Model, string, error) {
	records := a.kit.Generate()
	switch name {
	case "demographics":
		model, err := a.tables.BuildDemographicTable(r.Context(), app.DemographicRequest{
			Records:   records,
			Variables: a.kit.Variables(),
			Spanner:   "Treatment Arm",
			MarkStyle: a.markStyle,
		})
		return model, "Subject Demographics", err
	case "response":
		subgroup := a.kit.SubgroupVariable()
		model, err := a.tables.BuildResponseTable(r.Context(), app.ResponseRequest{
			Records:     records,
			ResponseVar: a.kit.ResponseVariable(),
			SubgroupVar: &subgroup,
			MarkStyle:   a.markStyle,
		})
		return model, "Tumor Response by Disease Stage", err
	default:
		return nil, "", fmt.Errorf("unknown table %q", name)
	}
}
