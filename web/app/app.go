// Package app is the browser interface to the research library. Pages are
// rendered on the server from a library.View; every action is a form post
// that redirects back to the page it came from.
package app

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/JaimeStill/research-library/internal/backend"
	"github.com/JaimeStill/research-library/internal/library"
	"github.com/JaimeStill/research-library/pkg/routes"
	"github.com/JaimeStill/research-library/pkg/web"
)

//go:embed server
var serverFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "app.html"

var (
	libraryPage  = web.PageDef{Template: "library.html", Title: "Library"}
	queryPage    = web.PageDef{Template: "query.html", Title: "Ask"}
	notFoundPage = web.PageDef{Template: "404.html", Title: "Not Found"}
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006")
	},
	"pathEscape": url.PathEscape,
	"page": func(base string, m library.LibraryModel) map[string]any {
		return map[string]any{"BasePath": base, "Model": m}
	},
}

// Handler serves the library page and the query page. The two views share one
// store; the picker view selects on behalf of the composer.
type Handler struct {
	browse    *library.View
	picker    *library.View
	composer  *library.Composer
	pages     *web.TemplateSet
	logger    *slog.Logger
	maxUpload int64
}

// QueryModel is the data behind the query page.
type QueryModel struct {
	Library library.LibraryModel
	Text    string
	Result  *backend.QueryResult
}

// NewHandler parses the embedded templates and binds them to the views.
// picker must be in select mode with composer as its owner.
func NewHandler(browse, picker *library.View, composer *library.Composer, basePath string, maxUpload int64, logger *slog.Logger) (*Handler, error) {
	pages, err := web.NewTemplateSet(
		serverFS,
		"server/layouts/*.html",
		"server/views",
		basePath,
		funcs,
		[]web.PageDef{libraryPage, queryPage, notFoundPage},
	)
	if err != nil {
		return nil, err
	}

	return &Handler{
		browse:    browse,
		picker:    picker,
		composer:  composer,
		pages:     pages,
		logger:    logger.With("handler", "app"),
		maxUpload: maxUpload,
	}, nil
}

// Routes returns the page and form routes.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: h.pages.BasePath(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.Library},
			{Method: "POST", Pattern: "/refresh", Handler: h.Refresh},
			{Method: "POST", Pattern: "/documents", Handler: h.Upload},
			{Method: "POST", Pattern: "/documents/{id}/edit", Handler: h.Edit},
			{Method: "POST", Pattern: "/documents/{id}/delete", Handler: h.RequestDelete},
			{Method: "GET", Pattern: "/documents/{id}/download", Handler: h.Download},
			{Method: "POST", Pattern: "/draft", Handler: h.SaveDraft},
			{Method: "POST", Pattern: "/draft/cancel", Handler: h.CancelDraft},
			{Method: "POST", Pattern: "/delete/confirm", Handler: h.ConfirmDelete},
			{Method: "POST", Pattern: "/delete/cancel", Handler: h.CancelDelete},
			{Method: "GET", Pattern: "/query", Handler: h.Query},
			{Method: "POST", Pattern: "/query", Handler: h.Ask},
			{Method: "POST", Pattern: "/query/select/{id}", Handler: h.Toggle},
			{Method: "POST", Pattern: "/query/reset", Handler: h.ResetQuery},
			{Method: "GET", Pattern: "/static/", Handler: http.StripPrefix(h.pages.BasePath(), http.FileServerFS(staticFS)).ServeHTTP},
			{Method: "GET", Pattern: "/", Handler: h.NotFound()},
		},
	}
}

// NotFound renders the not found page.
func (h *Handler) NotFound() http.HandlerFunc {
	return h.pages.ErrorHandler(layout, notFoundPage, http.StatusNotFound)
}

func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	store := h.browse.Store()

	switch q := r.URL.Query(); {
	case q.Has("tag") && q.Get("tag") != store.TagFilter():
		h.browse.SetTagFilter(r.Context(), q.Get("tag"))
	case !store.Loaded() && store.Status() != library.StatusLoading:
		h.browse.Load(r.Context())
	}

	h.render(w, libraryPage, h.browse.Model())
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.browse.Refresh(r.Context())
	h.back(w, r, "/")
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))

	file, err := h.readFile(r)
	if err != nil {
		h.browse.Report("select file", err)
		h.back(w, r, "/")
		return
	}

	h.browse.SelectFile(file)
	h.back(w, r, "/")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	h.browse.BeginEdit(r.PathValue("id"))
	h.back(w, r, "/")
}

func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	draft := library.Draft{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		TagsRaw:     r.PostFormValue("tags"),
	}

	if err := h.browse.UpdateDraft(draft); err == nil {
		h.browse.CommitDraft(r.Context())
	}
	h.back(w, r, "/")
}

func (h *Handler) CancelDraft(w http.ResponseWriter, r *http.Request) {
	h.browse.CancelDraft()
	h.back(w, r, "/")
}

func (h *Handler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	h.browse.RequestDelete(r.PathValue("id"))
	h.back(w, r, "/")
}

func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	h.browse.ConfirmDelete(r.Context())
	h.back(w, r, "/")
}

func (h *Handler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.browse.CancelDelete()
	h.back(w, r, "/")
}

// Download sends the browser to the backend's download endpoint.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	target, err := h.browse.DownloadURL(r.PathValue("id"))
	if err != nil {
		h.back(w, r, "/")
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	store := h.picker.Store()
	if !store.Loaded() && store.Status() != library.StatusLoading {
		h.picker.Load(r.Context())
	}

	h.render(w, queryPage, QueryModel{
		Library: h.picker.Model(),
		Text:    h.composer.Text(),
		Result:  h.composer.Result(),
	})
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	h.composer.SetText(r.PostFormValue("query"))

	if _, err := h.composer.Submit(r.Context()); err != nil {
		h.picker.Report("run query", err)
	}
	h.back(w, r, "/query")
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.picker.Toggle(r.PathValue("id"))
	h.back(w, r, "/query")
}

func (h *Handler) ResetQuery(w http.ResponseWriter, r *http.Request) {
	h.composer.Reset()
	h.back(w, r, "/query")
}

func (h *Handler) readFile(r *http.Request) (library.FileSelection, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return library.FileSelection{}, &library.ValidationError{Field: "file", Message: "file exceeds the upload limit"}
		}
		return library.FileSelection{}, &library.ValidationError{Field: "file", Message: "no file selected"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return library.FileSelection{}, &library.ValidationError{Field: "file", Message: "no file selected"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return library.FileSelection{}, err
	}

	return library.FileSelection{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) render(w http.ResponseWriter, page web.PageDef, data any) {
	pd := web.PageData{Title: page.Title, Data: data}
	if err := h.pages.Render(w, http.StatusOK, layout, page.Template, pd); err != nil {
		h.logger.Error("render failed", "page", page.Template, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// back completes a form post with a redirect so reloading never resubmits.
func (h *Handler) back(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, h.pages.BasePath()+path, http.StatusSeeOther)
}
