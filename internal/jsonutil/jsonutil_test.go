package jsonutil

import (
	"testing"
)

func TestMarshalNoEscape(t *testing.T) {
	b, err := MarshalNoEscape(map[string]string{"k": "<a> & <b>"})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"k":"<a> & <b>"}` {
		t.Fatalf("got %s", got)
	}
}

func TestUnmarshalFlex_Direct(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	if err := UnmarshalFlex([]byte(`{"name":"ok"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Name != "ok" {
		t.Fatalf("got %q", v.Name)
	}
}

func TestUnmarshalFlex_QuotedPayload(t *testing.T) {
	// Some models return the whole JSON object wrapped in a string.
	var v struct {
		Name string `json:"name"`
	}
	if err := UnmarshalFlex([]byte(`"{\"name\":\"ok\"}"`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Name != "ok" {
		t.Fatalf("got %q", v.Name)
	}
}

func TestNormalizeJSONUnicode_DoubleEscaped(t *testing.T) {
	out, err := NormalizeJSONUnicode([]byte(`{"msg":"a \\u003e b"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); got != `{"msg":"a > b"}` {
		t.Fatalf("got %s", got)
	}
}
