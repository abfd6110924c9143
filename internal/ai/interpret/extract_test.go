package interpret

import "testing"

func TestExtractObject(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		raw    string
		ok     bool
		expect string
	}{
		{name: "fenced", raw: "```json\n{\"k\": \"v\"}\n```", ok: true, expect: "v"},
		{name: "surrounded", raw: "Mana javob: {\"k\": \"v\"} umid qilamanki foydali", ok: true, expect: "v"},
		{name: "two objects", raw: `first {"k": "v"} then {"k": "w"}`, ok: true, expect: "v"},
		{name: "brace in string", raw: `{"k": "a } b"} trailing }`, ok: true, expect: "a } b"},
		{name: "escaped quote", raw: `x {"k": "say \"}\""} y }`, ok: true, expect: `say "}"`},
		{name: "nested", raw: `{"k": "v", "inner": {"x": 1}}`, ok: true, expect: "v"},
		{name: "unbalanced", raw: `{"k": "v"`, ok: false},
		{name: "array only", raw: `["a", "b"]`, ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			obj, ok := ExtractObject(tc.raw)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v (%v)", tc.ok, ok, obj)
			}
			if ok && obj["k"] != tc.expect {
				t.Fatalf("expected k=%q, got %v", tc.expect, obj["k"])
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	if got := StripFences("```\nTuyg'unov Aziz\n```"); got != "Tuyg'unov Aziz" {
		t.Fatalf("unexpected result: %q", got)
	}
}
