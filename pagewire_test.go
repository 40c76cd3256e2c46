package pagewire_test

import (
	"context"
	"net/http"
	"reflect"
	"testing"

	"github.com/vango-dev/pagewire"
	_ "github.com/vango-dev/pagewire/pkg/adapter/vue"
	"github.com/vango-dev/pagewire/pkg/assets"
	"github.com/vango-dev/pagewire/pkg/pagewiretest"
)

func TestFacade(t *testing.T) {
	cfg := pagewire.DefaultConfig("vue")
	cfg.Version = assets.StaticVersion("v1")
	pages, err := pagewire.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	pages.Share("user", pagewire.Func(func(context.Context) (any, error) {
		return map[string]any{}, nil
	}))

	kit := pagewire.NewKit(nil)
	h := pages.Handler(kit.Handle(func(w http.ResponseWriter, r *http.Request) error {
		return kit.Render(w, r, "users/index", pagewire.Props{
			"users": []string{"ada"},
			"stats": pagewire.Lazy(func(context.Context) (any, error) { return 1, nil }),
		})
	}))

	rec := pagewiretest.Serve(h, pagewiretest.NewRequest(http.MethodGet, "/users").Version("v1").Build())
	p := pagewiretest.DecodePage(t, rec)
	if got, want := p.Props().Keys(), []string{"user", "users"}; !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}
