package engine

import (
	"fmt"
	"sort"

	"github.com/Kamar-Folarin/repo-vetter/internal/analyzer"
	apperrors "github.com/Kamar-Folarin/repo-vetter/internal/errors"
	"github.com/Kamar-Folarin/repo-vetter/internal/models"
)

// Module is one pluggable analyzer. Run must return the result type that
// matches Name (*models.OriginalityResult for "originality" and so on).
type Module struct {
	Name string
	Run  func(in *models.AnalysisInput) (interface{}, error)
}

// DefaultModules returns the four built-in analyzers in report order
func DefaultModules() []Module {
	return []Module{
		{Name: models.ModuleOriginality, Run: func(in *models.AnalysisInput) (interface{}, error) {
			return analyzer.Originality(in)
		}},
		{Name: models.ModuleActivity, Run: func(in *models.AnalysisInput) (interface{}, error) {
			return analyzer.Activity(in)
		}},
		{Name: models.ModuleSecurity, Run: func(in *models.AnalysisInput) (interface{}, error) {
			return analyzer.Security(in)
		}},
		{Name: models.ModulePow, Run: func(in *models.AnalysisInput) (interface{}, error) {
			return analyzer.Pow(in)
		}},
	}
}

// ResolveModules validates a module selection and returns it in report order.
// An empty selection means every module.
func ResolveModules(selected []string) ([]string, error) {
	if len(selected) == 0 {
		return append([]string{}, models.AllModules...), nil
	}

	order := make(map[string]int, len(models.AllModules))
	for i, name := range models.AllModules {
		order[name] = i
	}

	seen := make(map[string]bool, len(selected))
	modules := make([]string, 0, len(selected))
	for _, name := range selected {
		if _, ok := order[name]; !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("unknown module %q, expected one of %v", name, models.AllModules), nil)
		}
		if !seen[name] {
			seen[name] = true
			modules = append(modules, name)
		}
	}
	sort.Slice(modules, func(i, j int) bool {
		return order[modules[i]] < order[modules[j]]
	})
	return modules, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
