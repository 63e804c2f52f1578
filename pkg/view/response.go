package view

import (
	"encoding/json"
	"maps"
	"net/http"

	"github.com/a-h/templ"
)

// HeaderHybrid marks requests issued by the client runtime; such requests get
// the page object as JSON instead of the HTML shell.
const HeaderHybrid = "X-Hybrid"

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// PageObject is the payload handed to the client runtime.
type PageObject struct {
	Component string         `json:"component"`
	Props     map[string]any `json:"props"`
	URL       string         `json:"url"`
	Version   string         `json:"version,omitempty"`
}

// Layout renders the HTML document embedding the serialized page object.
type Layout func(page PageObject, pageJSON string) templ.Component

// PageOption configures a page response.
type PageOption func(*pageResponse)

// WithVersion sets the asset version reported to the client.
func WithVersion(version string) PageOption {
	return func(p *pageResponse) {
		p.version = version
	}
}

// WithStatus overrides the 200 status code.
func WithStatus(code int) PageOption {
	return func(p *pageResponse) {
		p.status = code
	}
}

// WithLayout replaces the default HTML shell.
func WithLayout(l Layout) PageOption {
	return func(p *pageResponse) {
		if l != nil {
			p.layout = l
		}
	}
}

type pageResponse struct {
	component string
	props     map[string]any
	version   string
	status    int
	layout    Layout
}

// Page renders component with props merged over the request's shared props.
func Page(component string, props map[string]any, opts ...PageOption) Response {
	p := &pageResponse{
		component: component,
		props:     props,
		status:    http.StatusOK,
		layout:    DefaultLayout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	shared, ok := FromContext(ctx)
	if !ok {
		shared = NewProps()
	}
	if err := shared.RunHooks(ctx); err != nil {
		return err
	}

	merged := shared.All()
	maps.Copy(merged, p.props)

	resolved, err := Resolve(ctx, merged)
	if err != nil {
		return err
	}

	page := PageObject{
		Component: p.component,
		Props:     resolved.(map[string]any),
		URL:       r.URL.RequestURI(),
		Version:   p.version,
	}

	if IsHybrid(r) {
		w.Header().Set(HeaderHybrid, "true")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Vary", HeaderHybrid)
		w.WriteHeader(p.status)
		return json.NewEncoder(w).Encode(page)
	}

	data, err := json.Marshal(page)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", HeaderHybrid)
	w.WriteHeader(p.status)
	return p.layout(page, string(data)).Render(ctx, w)
}

// IsHybrid reports whether the request was issued by the client runtime.
func IsHybrid(r *http.Request) bool {
	return r.Header.Get(HeaderHybrid) == "true"
}

type redirectResponse struct {
	url  string
	code int
}

func (rr redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	code := rr.code
	// Client runtimes replay 302 with the original method; force GET.
	if IsHybrid(r) && code == http.StatusFound {
		switch r.Method {
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			code = http.StatusSeeOther
		}
	}
	http.Redirect(w, r, rr.url, code)
	return nil
}

// Redirect responds with 303 See Other.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}

// RedirectWithCode responds with the given redirect status code.
func RedirectWithCode(url string, code int) Response {
	return redirectResponse{url: url, code: code}
}
