package api

import (
	"github.com/Kamar-Folarin/repo-vetter/internal/signatures"
)

// AnalyzeRequest asks for the report of one repository
// @Description Single repository analysis request
type AnalyzeRequest struct {
	// Repository identifier: owner/repo, GitHub URL or SSH remote
	Repo string `json:"repo" binding:"required" example:"bitcoin/bitcoin"`
	// Modules to run; empty runs all of them
	Modules []string `json:"modules,omitempty" example:"originality,activity"`
	// Scoring strategy name
	Scoring string `json:"scoring,omitempty" example:"weighted" enums:"weighted,pow-scan"`
}

// BatchAnalyzeRequest asks for the reports of several repositories
// @Description Batch analysis request
type BatchAnalyzeRequest struct {
	Repos   []string `json:"repos" binding:"required" example:"bitcoin/bitcoin,litecoin-project/litecoin"`
	Modules []string `json:"modules,omitempty"`
	Scoring string   `json:"scoring,omitempty" example:"pow-scan"`
}

// ErrorResponse represents an API error
// @Description Error response from the API
type ErrorResponse struct {
	// Error message
	Error string `json:"error" example:"repository not found: acme/ghost"`
	// Error category
	Type string `json:"type,omitempty" example:"NOT_FOUND"`
}

// AlgorithmSummary describes one catalog entry without its rules
type AlgorithmSummary struct {
	ID            string   `json:"id" example:"scrypt"`
	Name          string   `json:"name" example:"Scrypt"`
	Description   string   `json:"description"`
	KnownProjects []string `json:"known_projects"`
	RuleCount     int      `json:"rule_count" example:"3"`
}

// SignaturesResponse lists the proof-of-work catalog
type SignaturesResponse struct {
	Algorithms      []AlgorithmSummary `json:"algorithms"`
	TemplateMarkers []string           `json:"template_markers"`
}

// StrategiesResponse lists the scoring strategies
type StrategiesResponse struct {
	Strategies []string `json:"strategies" example:"pow-scan,weighted"`
	Default    string   `json:"default" example:"weighted"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

func summarizeCatalog() SignaturesResponse {
	catalog := signatures.Catalog()
	resp := SignaturesResponse{
		Algorithms:      make([]AlgorithmSummary, 0, len(catalog)),
		TemplateMarkers: signatures.TemplateMarkers(),
	}
	for _, alg := range catalog {
		resp.Algorithms = append(resp.Algorithms, AlgorithmSummary{
			ID:            alg.ID,
			Name:          alg.Name,
			Description:   alg.Description,
			KnownProjects: alg.KnownProjects,
			RuleCount:     len(alg.Rules),
		})
	}
	return resp
}
