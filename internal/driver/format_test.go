package driver

import (
	"strings"
	"testing"

	"github.com/tsg-lang/tsg/internal/diag"
	"github.com/tsg-lang/tsg/internal/token"
)

func TestMarshalYAMLIncludesDiagnosticsAndResult(t *testing.T) {
	diags := []diag.Diagnostic{{Pos: token.Position{Line: 1, Column: 5}, Message: "undeclared 'foo'"}}
	result := int32(7)

	out, err := MarshalYAML(diags, &result)
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "undeclared 'foo'") || !strings.Contains(s, "result: 7") {
		t.Fatalf("unexpected yaml:\n%s", s)
	}
}
