package driver

import (
	"gopkg.in/yaml.v3"

	"github.com/tsg-lang/tsg/internal/diag"
)

// yamlDiagnostic is the serializable shape of one diagnostic for
// --format yaml output, kept separate from
// diag.Diagnostic so the diag package stays free of a yaml dependency.
type yamlDiagnostic struct {
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
	Message string `yaml:"message"`
}

// yamlReport is the top-level document --format yaml emits.
type yamlReport struct {
	Diagnostics []yamlDiagnostic `yaml:"diagnostics"`
	Result      *int32           `yaml:"result,omitempty"`
}

// MarshalYAML renders diagnostics (and, on a successful run, result)
// as a YAML document, alongside the driver's default plain-text
// `line:column: message` contract.
func MarshalYAML(diags []diag.Diagnostic, result *int32) ([]byte, error) {
	report := yamlReport{Result: result}
	report.Diagnostics = make([]yamlDiagnostic, len(diags))
	for i, d := range diags {
		report.Diagnostics[i] = yamlDiagnostic{Line: d.Pos.Line, Column: d.Pos.Column, Message: d.Message}
	}
	return yaml.Marshal(report)
}
