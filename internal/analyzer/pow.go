package analyzer

import (
	"fmt"
	"strings"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
	"github.com/Kamar-Folarin/repo-vetter/internal/scanner"
)

var defaultScanner = scanner.New()

// Pow detects proof-of-work algorithms and boilerplate templates in the sampled files
func Pow(in *models.AnalysisInput) (*models.PowResult, error) {
	return PowWith(defaultScanner, in)
}

// PowWith is Pow over a custom scanner
func PowWith(s *scanner.Scanner, in *models.AnalysisInput) (*models.PowResult, error) {
	if in == nil || in.Snapshot == nil {
		return nil, ErrMissingInput
	}
	if in.FilesErr != nil {
		return nil, inputError("file sample", in.FilesErr)
	}

	scan := s.Scan(in.Files)
	res := &models.PowResult{
		Algorithms:             scan.Matches,
		FilesScanned:           scan.FilesScanned,
		TruncatedFiles:         scan.TruncatedFiles,
		SampledPaths:           scan.SampledPaths,
		TemplateMarkers:        scan.TemplateMarkers,
		TemplateSimilarity:     scan.TemplateSimilarity,
		HighTemplateSimilarity: scan.HighTemplateSimilarity,
		CorpusDigest:           scanner.FormatDigest(scan.CorpusDigest),
		AIML:                   scan.AIML,
		Flags:                  []string{},
		Recommendations:        []string{},
	}

	if res.HighTemplateSimilarity {
		res.Flags = append(res.Flags, fmt.Sprintf(
			"High similarity to common token templates (%s) - possible copy-paste project",
			strings.Join(res.TemplateMarkers, ", ")))
	}
	if len(res.Algorithms) > 0 {
		top := res.Algorithms[0]
		rec := fmt.Sprintf("Detected %s proof-of-work", top.Name)
		if len(top.KnownProjects) > 0 {
			rec += fmt.Sprintf(" (also used by %s)", strings.Join(top.KnownProjects, ", "))
		}
		res.Recommendations = append(res.Recommendations, rec)
	}
	if res.AIML.FilesWithSignals > 0 {
		res.Recommendations = append(res.Recommendations, AIMLSummary(res.AIML))
	}
	return res, nil
}

// AIMLSummary describes the machine-learning signatures found, listing at most ten
func AIMLSummary(scan models.AIMLScan) string {
	sigs := scan.Signatures
	if len(sigs) > 10 {
		sigs = sigs[:10]
	}
	list := strings.Join(sigs, ", ")
	if list == "" {
		list = "none"
	}
	return fmt.Sprintf("AI/ML signatures in %d/%d sampled files: %s", scan.FilesWithSignals, scan.FilesScanned, list)
}
