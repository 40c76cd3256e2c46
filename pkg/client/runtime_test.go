package client

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vango-dev/pagewire/pkg/page"
	"github.com/vango-dev/pagewire/pkg/protocol"
)

type recordingAdapter struct {
	modules *Modules

	mu    sync.Mutex
	swaps []page.Page
}

func newRecordingAdapter(names ...string) *recordingAdapter {
	mods := NewModules(nil)
	for _, n := range names {
		mods.Add(n, n)
	}
	return &recordingAdapter{modules: mods}
}

func (a *recordingAdapter) Name() string { return "recording" }

func (a *recordingAdapter) Resolve(component string) (Component, error) {
	return a.modules.Lookup(component)
}

func (a *recordingAdapter) Swap(_ Component, p page.Page) error {
	a.mu.Lock()
	a.swaps = append(a.swaps, p)
	a.mu.Unlock()
	return nil
}

func (a *recordingAdapter) swapCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.swaps)
}

func writePage(t *testing.T, w http.ResponseWriter, p page.Page) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(protocol.HeaderVisit, protocol.MarkerValue)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		t.Errorf("encode page: %v", err)
	}
}

func writeShell(t *testing.T, w http.ResponseWriter, p page.Page) {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, `<!DOCTYPE html><html><head><title>t</title></head><body><div id="app" data-page="`+
		html.EscapeString(string(data))+`"></div></body></html>`)
}

func TestVisitCommitsPage(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		writePage(t, w, page.New("Users/Index", page.Props{"users": []any{"ada"}}, "/users", "v1"))
	}))
	defer srv.Close()

	a := newRecordingAdapter("Users/Index")
	rt := New(a, WithBaseURL(srv.URL))

	p, err := rt.Visit(context.Background(), "/users")
	if err != nil {
		t.Fatalf("Visit error: %v", err)
	}
	if p.Component() != "Users/Index" {
		t.Errorf("Component = %q, want Users/Index", p.Component())
	}
	if got.Get(protocol.HeaderVisit) != "true" {
		t.Errorf("request %s = %q, want true", protocol.HeaderVisit, got.Get(protocol.HeaderVisit))
	}
	if got.Get(protocol.HeaderVersion) != "" {
		t.Errorf("first visit sent version %q, want none", got.Get(protocol.HeaderVersion))
	}
	if rt.State() != Idle {
		t.Errorf("State = %v, want idle", rt.State())
	}
	if rt.Version() != "v1" {
		t.Errorf("Version = %q, want v1", rt.Version())
	}
	_, u := rt.Current()
	if u != srv.URL+"/users" {
		t.Errorf("current url = %q, want %q", u, srv.URL+"/users")
	}
	if len(rt.History()) != 0 {
		t.Errorf("History len = %d, want 0", len(rt.History()))
	}
	if a.swapCount() != 1 {
		t.Errorf("swaps = %d, want 1", a.swapCount())
	}
}

func TestVisitSendsLearnedVersion(t *testing.T) {
	var version string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version = r.Header.Get(protocol.HeaderVersion)
		writePage(t, w, page.New("Home", nil, r.URL.Path, "abc"))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Home"), WithBaseURL(srv.URL))
	if err := rt.Mount(page.New("Home", nil, "/", "abc")); err != nil {
		t.Fatalf("Mount error: %v", err)
	}
	if _, err := rt.Visit(context.Background(), "/about"); err != nil {
		t.Fatalf("Visit error: %v", err)
	}
	if version != "abc" {
		t.Errorf("asserted version = %q, want abc", version)
	}
}

func TestVisitHistoryAndBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, page.New("Page", page.Props{"path": r.URL.Path}, r.URL.Path, "v1"))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Page"), WithBaseURL(srv.URL))
	ctx := context.Background()

	if _, err := rt.Visit(ctx, "/a"); err != nil {
		t.Fatal(err)
	}
	rt.SetScroll(Scroll{Y: 120})
	if _, err := rt.Visit(ctx, "/b"); err != nil {
		t.Fatal(err)
	}
	if rt.Scroll() != (Scroll{}) {
		t.Errorf("Scroll after visit = %+v, want zero", rt.Scroll())
	}
	if _, err := rt.Visit(ctx, "/c", Replace()); err != nil {
		t.Fatal(err)
	}

	h := rt.History()
	if len(h) != 1 {
		t.Fatalf("History len = %d, want 1", len(h))
	}
	if h[0].URL != srv.URL+"/a" || h[0].Scroll.Y != 120 {
		t.Errorf("History[0] = %s %+v, want /a with Y=120", h[0].URL, h[0].Scroll)
	}

	p, err := rt.Back()
	if err != nil {
		t.Fatalf("Back error: %v", err)
	}
	if v, _ := p.Prop("path"); v != "/a" {
		t.Errorf("Back page path = %v, want /a", v)
	}
	if rt.Scroll().Y != 120 {
		t.Errorf("Scroll after Back = %+v, want Y=120", rt.Scroll())
	}
	if _, err := rt.Back(); !errors.Is(err, ErrNoHistory) {
		t.Errorf("second Back error = %v, want ErrNoHistory", err)
	}
}

func TestVisitPreserveScroll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, page.New("Page", nil, r.URL.Path, ""))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Page"), WithBaseURL(srv.URL))
	rt.SetScroll(Scroll{X: 3, Y: 40})
	if _, err := rt.Visit(context.Background(), "/", PreserveScroll()); err != nil {
		t.Fatal(err)
	}
	if rt.Scroll() != (Scroll{X: 3, Y: 40}) {
		t.Errorf("Scroll = %+v, want {3 40}", rt.Scroll())
	}
}

func TestReloadPartialMergesProps(t *testing.T) {
	var component, data string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		component = r.Header.Get(protocol.HeaderPartialComponent)
		data = r.Header.Get(protocol.HeaderPartialData)
		writePage(t, w, page.New("Users/Index", page.Props{"users": "fresh", "flash": "hi"}, "/users", "v1"))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Users/Index"), WithBaseURL(srv.URL))
	if err := rt.Mount(page.New("Users/Index", page.Props{"users": "stale", "filters": "active"}, srv.URL+"/users", "v1")); err != nil {
		t.Fatal(err)
	}
	rt.SetScroll(Scroll{Y: 7})

	p, err := rt.Reload(context.Background(), "users")
	if err != nil {
		t.Fatalf("Reload error: %v", err)
	}
	if component != "Users/Index" || data != "users" {
		t.Errorf("partial headers = %q/%q, want Users/Index/users", component, data)
	}
	want := map[string]any{"users": "fresh", "filters": "active", "flash": "hi"}
	for k, v := range want {
		if got, _ := p.Prop(k); got != v {
			t.Errorf("prop %s = %v, want %v", k, got, v)
		}
	}
	if p.Mode() != page.Partial {
		t.Errorf("Mode = %v, want partial", p.Mode())
	}
	if len(rt.History()) != 0 {
		t.Errorf("History len = %d, want 0 (replace)", len(rt.History()))
	}
	if rt.Scroll().Y != 7 {
		t.Errorf("Scroll = %+v, want Y=7", rt.Scroll())
	}
}

func TestPartialForOtherComponentReplaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, page.New("Login", page.Props{"errors": "none"}, "/login", "v1"))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Users/Index", "Login"), WithBaseURL(srv.URL))
	if err := rt.Mount(page.New("Users/Index", page.Props{"users": "x"}, srv.URL+"/users", "v1")); err != nil {
		t.Fatal(err)
	}
	p, err := rt.Visit(context.Background(), "/users", Only("users"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Props().Has("users") {
		t.Error("props of a different component were merged")
	}
	if p.Mode() != page.Full {
		t.Errorf("Mode = %v, want full", p.Mode())
	}
}

func TestReloadNotMounted(t *testing.T) {
	rt := New(newRecordingAdapter(), WithBaseURL("http://example.test"))
	if _, err := rt.Reload(context.Background()); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Reload error = %v, want ErrNotMounted", err)
	}
}

func TestRedirectAfterPostUsesGet(t *testing.T) {
	var mu sync.Mutex
	var methods []string
	var form string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/users":
			r.ParseForm()
			form = r.PostForm.Get("name")
			http.Redirect(w, r, "/users/1", http.StatusSeeOther)
		case "/users/1":
			writePage(t, w, page.New("Users/Show", page.Props{"id": 1}, "/users/1", "v1"))
		}
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Users/Show"), WithBaseURL(srv.URL))
	p, err := rt.Visit(context.Background(), "/users", Post(url.Values{"name": {"ada"}}))
	if err != nil {
		t.Fatalf("Visit error: %v", err)
	}
	if p.Component() != "Users/Show" {
		t.Errorf("Component = %q, want Users/Show", p.Component())
	}
	want := []string{"POST /users", "GET /users/1"}
	if strings.Join(methods, ",") != strings.Join(want, ",") {
		t.Errorf("requests = %v, want %v", methods, want)
	}
	if form != "ada" {
		t.Errorf("form name = %q, want ada", form)
	}
}

func TestRedirectTemporaryKeepsMethod(t *testing.T) {
	var second string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusTemporaryRedirect)
			return
		}
		second = r.Method
		writePage(t, w, page.New("Page", nil, "/new", ""))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Page"), WithBaseURL(srv.URL))
	if _, err := rt.Visit(context.Background(), "/old", WithMethod(http.MethodPut)); err != nil {
		t.Fatal(err)
	}
	if second != http.MethodPut {
		t.Errorf("method after 307 = %s, want PUT", second)
	}
}

func TestTooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Home"), WithBaseURL(srv.URL), WithMaxRedirects(3))
	home := page.New("Home", nil, srv.URL+"/", "")
	if err := rt.Mount(home); err != nil {
		t.Fatal(err)
	}

	_, err := rt.Visit(context.Background(), "/loop")
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Fatalf("Visit error = %v, want ErrTooManyRedirects", err)
	}
	if cur, _ := rt.Current(); cur.Component() != "Home" {
		t.Errorf("current = %q, want Home kept", cur.Component())
	}
}

func TestUnknownComponentFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, page.New("Missing", nil, "/x", ""))
	}))
	defer srv.Close()

	a := newRecordingAdapter("Home")
	rt := New(a, WithBaseURL(srv.URL))
	if err := rt.Mount(page.New("Home", nil, "/", "")); err != nil {
		t.Fatal(err)
	}

	var observed error
	rt.OnError(func(_ *Visit, err error) { observed = err })

	_, err := rt.Visit(context.Background(), "/x")
	if !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("Visit error = %v, want ErrUnknownComponent", err)
	}
	if !errors.Is(observed, ErrUnknownComponent) {
		t.Errorf("observer error = %v, want ErrUnknownComponent", observed)
	}
	if cur, _ := rt.Current(); cur.Component() != "Home" {
		t.Errorf("current = %q, want Home", cur.Component())
	}
	if rt.State() != Idle {
		t.Errorf("State = %v, want idle", rt.State())
	}
	if a.swapCount() != 1 {
		t.Errorf("swaps = %d, want 1", a.swapCount())
	}
}

func TestNetworkFailureKeepsPage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	rt := New(newRecordingAdapter("Home"), WithBaseURL(base))
	if err := rt.Mount(page.New("Home", nil, "/", "")); err != nil {
		t.Fatal(err)
	}

	_, err := rt.Visit(context.Background(), "/anything")
	var ve *VisitError
	if !errors.As(err, &ve) {
		t.Fatalf("Visit error = %v, want *VisitError", err)
	}
	if ve.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for a transport error", ve.StatusCode)
	}
	if cur, _ := rt.Current(); cur.Component() != "Home" {
		t.Errorf("current = %q, want Home", cur.Component())
	}
}

func TestHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter(), WithBaseURL(srv.URL))
	_, err := rt.Visit(context.Background(), "/")
	var ve *VisitError
	if !errors.As(err, &ve) || ve.StatusCode != http.StatusInternalServerError {
		t.Fatalf("Visit error = %v, want VisitError with status 500", err)
	}
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("error does not wrap ErrHTTPStatus: %v", err)
	}
}

func TestNonProtocolResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html></html>")
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter(), WithBaseURL(srv.URL))
	if _, err := rt.Visit(context.Background(), "/"); !errors.Is(err, ErrNotProtocol) {
		t.Errorf("Visit error = %v, want ErrNotProtocol", err)
	}
}

func TestVersionMismatchBootsFromShell(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if protocol.Negotiate(r.Header).IsVisit() && r.Header.Get(protocol.HeaderVersion) != "v2" {
			w.Header().Set("Location", r.URL.String())
			w.Header().Set(protocol.HeaderLocation, r.URL.String())
			w.WriteHeader(http.StatusSeeOther)
			return
		}
		writeShell(t, w, page.New("Users/Index", page.Props{"users": []any{}}, r.URL.Path, "v2"))
	}))
	defer srv.Close()

	a := newRecordingAdapter("Home", "Users/Index")
	rt := New(a, WithBaseURL(srv.URL))
	if err := rt.Mount(page.New("Home", nil, srv.URL+"/", "v1")); err != nil {
		t.Fatal(err)
	}

	p, err := rt.Visit(context.Background(), "/users")
	if err != nil {
		t.Fatalf("Visit error: %v", err)
	}
	if p.Component() != "Users/Index" || p.Version() != "v2" {
		t.Errorf("page = %s@%s, want Users/Index@v2", p.Component(), p.Version())
	}
	if rt.Version() != "v2" {
		t.Errorf("Version = %q, want v2", rt.Version())
	}
}

func TestHardNavigatorCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(protocol.HeaderLocation, "https://accounts.example.test/login")
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	var target string
	a := newRecordingAdapter("Home")
	rt := New(a, WithBaseURL(srv.URL), WithHardNavigator(func(_ context.Context, loc string) error {
		target = loc
		return nil
	}))
	if err := rt.Mount(page.New("Home", nil, "/", "")); err != nil {
		t.Fatal(err)
	}

	if _, err := rt.Visit(context.Background(), "/logout", WithMethod(http.MethodDelete)); err != nil {
		t.Fatalf("Visit error: %v", err)
	}
	if target != "https://accounts.example.test/login" {
		t.Errorf("hard navigation target = %q", target)
	}
	if a.swapCount() != 1 {
		t.Errorf("swaps = %d, want 1 (no commit on hard navigation)", a.swapCount())
	}
	if rt.State() != Idle {
		t.Errorf("State = %v, want idle", rt.State())
	}
}

func TestLastVisitWins(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			close(arrived)
			select {
			case <-r.Context().Done():
			case <-release:
			}
			writePage(t, w, page.New("Slow", nil, "/slow", ""))
			return
		}
		writePage(t, w, page.New("Fast", nil, "/fast", ""))
	}))
	defer srv.Close()
	defer close(release)

	rt := New(newRecordingAdapter("Slow", "Fast"), WithBaseURL(srv.URL))

	var states []State
	var mu sync.Mutex
	rt.OnStart(func(*Visit) {
		mu.Lock()
		states = append(states, rt.State())
		mu.Unlock()
	})

	slowErr := make(chan error, 1)
	go func() {
		_, err := rt.Visit(context.Background(), "/slow")
		slowErr <- err
	}()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("slow visit never reached the server")
	}

	p, err := rt.Visit(context.Background(), "/fast")
	if err != nil {
		t.Fatalf("fast Visit error: %v", err)
	}
	if p.Component() != "Fast" {
		t.Errorf("Component = %q, want Fast", p.Component())
	}

	select {
	case err := <-slowErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("slow Visit error = %v, want ErrSuperseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("slow visit did not return")
	}

	if cur, _ := rt.Current(); cur.Component() != "Fast" {
		t.Errorf("current = %q, want Fast", cur.Component())
	}
	mu.Lock()
	defer mu.Unlock()
	for i, s := range states {
		if s != Visiting {
			t.Errorf("state at start %d = %v, want visiting", i, s)
		}
	}
}

func TestObserversOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, page.New("Home", nil, "/", ""))
	}))
	defer srv.Close()

	rt := New(newRecordingAdapter("Home"), WithBaseURL(srv.URL))
	var events []string
	rt.OnStart(func(*Visit) { events = append(events, "start") })
	rt.OnNavigate(func(page.Page) { events = append(events, "navigate") })
	rt.OnFinish(func(*Visit) { events = append(events, "finish") })

	if _, err := rt.Visit(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(events, ","); got != "start,navigate,finish" {
		t.Errorf("events = %s, want start,navigate,finish", got)
	}
}

func TestVisitRequiresAbsoluteURL(t *testing.T) {
	rt := New(newRecordingAdapter())
	if _, err := rt.Visit(context.Background(), "/relative"); err == nil {
		t.Error("Visit with relative url and no base succeeded")
	}
}

func TestParseShell(t *testing.T) {
	p, err := ParseShell(strings.NewReader(`<html><body><div id="app" data-page="{&#34;component&#34;:&#34;Home&#34;,&#34;props&#34;:{},&#34;url&#34;:&#34;/&#34;,&#34;version&#34;:&#34;1&#34;}"></div></body></html>`))
	if err != nil {
		t.Fatalf("ParseShell error: %v", err)
	}
	if p.Component() != "Home" || p.Version() != "1" {
		t.Errorf("page = %s@%s, want Home@1", p.Component(), p.Version())
	}

	if _, err := ParseShell(strings.NewReader(`<html><body></body></html>`)); !errors.Is(err, ErrNoPageData) {
		t.Errorf("ParseShell without data-page error = %v, want ErrNoPageData", err)
	}
}
