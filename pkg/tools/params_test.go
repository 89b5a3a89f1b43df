package tools

import "testing"

func TestReadString(t *testing.T) {
	params := map[string]any{
		"name":   "  value  ",
		"number": 42,
		"empty":  "",
	}
	if got := ReadString(params, "name"); got != "value" {
		t.Fatalf("ReadString trimmed = %q", got)
	}
	if got := ReadString(params, "number"); got != "" {
		t.Fatalf("non-string should be empty, got %q", got)
	}
	if got := ReadString(params, "missing"); got != "" {
		t.Fatalf("missing should be empty, got %q", got)
	}
	if got := ReadString(params, "empty"); got != "" {
		t.Fatalf("empty should stay empty, got %q", got)
	}
}

func TestReadBool(t *testing.T) {
	tests := []struct {
		name string
		val  any
		def  bool
		want bool
	}{
		{"true bool", true, false, true},
		{"false bool", false, true, false},
		{"string true", "true", false, true},
		{"string yes", "yes", false, true},
		{"string no", "no", true, false},
		{"number one", float64(1), false, true},
		{"number zero", float64(0), true, false},
		{"missing uses default", nil, true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := map[string]any{}
			if tc.val != nil {
				params["flag"] = tc.val
			}
			if got := ReadBool(params, "flag", tc.def); got != tc.want {
				t.Fatalf("ReadBool = %v, want %v", got, tc.want)
			}
		})
	}
}
