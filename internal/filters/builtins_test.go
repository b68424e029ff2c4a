package filters

import "testing"

func TestJSONFilterExtractsPath(t *testing.T) {
	r := Builtins()
	fn := r.Filter("json")
	got := fn(`{"user":{"name":"ada"}}`, "user.name")
	if got != "ada" {
		t.Errorf("got %v, want %q", got, "ada")
	}
}

func TestJSONFilterMissingPathIsNil(t *testing.T) {
	r := Builtins()
	fn := r.Filter("json")
	if got := fn(`{"a":1}`, "missing.path"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestJSONFilterNonStringInputIsNil(t *testing.T) {
	r := Builtins()
	fn := r.Filter("json")
	if got := fn(42.0, "a"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestJSONFilterDecodesNumberAndBool(t *testing.T) {
	r := Builtins()
	fn := r.Filter("json")
	if got := fn(`{"n":3.5,"ok":true}`, "n"); got != 3.5 {
		t.Errorf("n: got %v, want 3.5", got)
	}
	if got := fn(`{"n":3.5,"ok":true}`, "ok"); got != true {
		t.Errorf("ok: got %v, want true", got)
	}
}

func TestJSONSetFilterWritesPath(t *testing.T) {
	r := Builtins()
	fn := r.Filter("jsonSet")
	got := fn(`{"a":1}`, "new-value", "a")
	if got != `{"a":"new-value"}` {
		t.Errorf("got %v, want %q", got, `{"a":"new-value"}`)
	}
}

func TestJSONSetFilterFallsBackToInputWhenPathArgMissing(t *testing.T) {
	r := Builtins()
	fn := r.Filter("jsonSet")
	input := `{"a":1}`
	got := fn(input, "x")
	if got != input {
		t.Errorf("got %v, want the unmodified input back", got)
	}
}

func TestJSONSetFilterFallsBackToInputOnNonStringInput(t *testing.T) {
	r := Builtins()
	fn := r.Filter("jsonSet")
	got := fn(42.0, "x", "a")
	if got != 42.0 {
		t.Errorf("got %v, want the unmodified input back", got)
	}
}

func TestBuiltinsAreStateless(t *testing.T) {
	r := Builtins()
	if r.IsStateful("json") || r.IsStateful("jsonSet") {
		t.Error("json/jsonSet should be registered stateless")
	}
}
