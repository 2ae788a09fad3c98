// golangcilintabortif package provides a plugin for golangci-lint to
// integrate the abortif analyzer. To build a custom golangci-lint binary
// with this plugin, use the following command at this package's
// directory:
//
//	golangci-lint custom
//
// Now you will have a golangci-lint-abortif binary that you can use to
// lint your Go code with the abortif analyzer.
package golangcilintabortif

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/blyxyas/abort-if/pkg/abortifanalysis"
)

func init() {
	register.Plugin("abortif", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return AbortifLinter{}, nil
}

type AbortifLinter struct{}

func (AbortifLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{abortifanalysis.Analyzer}, nil
}

func (AbortifLinter) GetLoadMode() string {
	return register.LoadModeSyntax
}
