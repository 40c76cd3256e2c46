package page

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestPageJSONShape(t *testing.T) {
	p := New("landing", Props{"user": map[string]any{}}, "/", "v1")

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"component":"landing","props":{"user":{}},"url":"/","version":"v1"}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestPageJSONNilProps(t *testing.T) {
	data, err := json.Marshal(New("empty", nil, "/e", ""))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.Contains(data, []byte(`"props":{}`)) {
		t.Errorf("nil props should encode as {}, got %s", data)
	}
}

func TestPageJSONDeterministic(t *testing.T) {
	props := Props{"z": 1, "a": 2, "m": []string{"x"}, "b": map[string]int{"q": 1, "c": 2}}

	first, _ := json.Marshal(New("c", props, "/x", "v"))
	for i := 0; i < 20; i++ {
		again, _ := json.Marshal(New("c", props, "/x", "v"))
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding not deterministic:\n%s\n%s", first, again)
		}
	}
}

func TestPageRoundTrip(t *testing.T) {
	in := []byte(`{"component":"users/index","props":{"count":3},"url":"/users","version":"abc"}`)

	var p Page
	if err := json.Unmarshal(in, &p); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if p.Component() != "users/index" || p.URL() != "/users" || p.Version() != "abc" {
		t.Errorf("decoded page = %+v", p)
	}
	if p.Mode() != Full {
		t.Errorf("Mode() = %v, want full", p.Mode())
	}
	if v, _ := p.Prop("count"); v != float64(3) {
		t.Errorf("Prop(count) = %v, want 3", v)
	}
}

func TestPageUnmarshalRequiresComponent(t *testing.T) {
	var p Page
	err := json.Unmarshal([]byte(`{"props":{},"url":"/"}`), &p)
	if !errors.Is(err, ErrNoComponent) {
		t.Fatalf("Unmarshal() error = %v, want ErrNoComponent", err)
	}
}

func TestPageImmutable(t *testing.T) {
	src := Props{"a": 1}
	p := New("c", src, "/", "v")

	src["a"] = 2
	if v, _ := p.Prop("a"); v != 1 {
		t.Error("page must copy props on construction")
	}

	got := p.Props()
	got["a"] = 3
	if v, _ := p.Prop("a"); v != 1 {
		t.Error("Props() must return a copy")
	}
}

func TestPageNestedPropsImmutable(t *testing.T) {
	user := map[string]any{"name": "ada", "roles": []any{"admin"}}
	p := New("c", Props{"user": user}, "/", "v")

	user["name"] = "grace"
	v, _ := p.Prop("user")
	got := v.(map[string]any)
	if got["name"] != "ada" {
		t.Errorf("name = %v after mutating the source map", got["name"])
	}

	got["name"] = "grace"
	got["roles"].([]any)[0] = "guest"
	p.Props()["user"].(map[string]any)["name"] = "grace"

	v, _ = p.Prop("user")
	again := v.(map[string]any)
	if again["name"] != "ada" || again["roles"].([]any)[0] != "admin" {
		t.Errorf("user = %v, want the constructed value", again)
	}
}

func TestPageMerge(t *testing.T) {
	current := New("users/show", Props{"user": "ann", "posts": 1}, "/users/1", "v1")
	partial := NewWithMode("users/show", Props{"posts": 2}, "/users/1", "v1", Partial)

	merged := current.Merge(partial)
	if v, _ := merged.Prop("user"); v != "ann" {
		t.Errorf("merged user = %v, want ann", v)
	}
	if v, _ := merged.Prop("posts"); v != 2 {
		t.Errorf("merged posts = %v, want 2", v)
	}
	if merged.Mode() != Partial {
		t.Errorf("merged mode = %v, want partial", merged.Mode())
	}
	if v, _ := current.Prop("posts"); v != 1 {
		t.Error("Merge must not mutate the receiver")
	}
}

func TestModeString(t *testing.T) {
	if Full.String() != "full" || Partial.String() != "partial" || Mode(9).String() != "unknown" {
		t.Error("unexpected Mode.String output")
	}
}
