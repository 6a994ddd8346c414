package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/repo-vetter/internal/models"
	"github.com/Kamar-Folarin/repo-vetter/internal/signatures"
)

func samples(contents ...string) []models.FileSample {
	files := make([]models.FileSample, len(contents))
	for i, c := range contents {
		files[i] = models.FileSample{Path: "file" + string(rune('a'+i)) + ".go", Content: c}
	}
	return files
}

func TestScryptLiteralCountsOnce(t *testing.T) {
	res := New().Scan(samples("scrypt", "scrypt", "scrypt"))

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "scrypt", res.Matches[0].ID)
	assert.Equal(t, 3, res.Matches[0].Score)
}

func TestMatchAlgorithmsOrdering(t *testing.T) {
	catalog := []signatures.Algorithm{
		{ID: "first", Name: "First", Rules: []signatures.Rule{signatures.NewLiteral("alpha", 2)}},
		{ID: "second", Name: "Second", Rules: []signatures.Rule{signatures.NewLiteral("beta", 5)}},
		{ID: "third", Name: "Third", Rules: []signatures.Rule{signatures.NewLiteral("gamma", 2)}},
		{ID: "absent", Name: "Absent", Rules: []signatures.Rule{signatures.NewLiteral("delta", 9)}},
	}
	s := NewWithCatalog(catalog, nil)

	for i := 0; i < 20; i++ {
		matches := s.MatchAlgorithms("gamma alpha beta")
		require.Len(t, matches, 3)
		assert.Equal(t, "second", matches[0].ID)
		assert.Equal(t, "first", matches[1].ID)
		assert.Equal(t, "third", matches[2].ID)
	}
}

func TestPatternRuleCapped(t *testing.T) {
	catalog := []signatures.Algorithm{
		{ID: "re", Name: "Re", Rules: []signatures.Rule{signatures.NewPattern(`hash\(`, 4)}},
	}
	matches := NewWithCatalog(catalog, nil).MatchAlgorithms(strings.Repeat("hash(x)\n", 50))

	require.Len(t, matches, 1)
	assert.Equal(t, 12, matches[0].Score)
}

func TestTemplateSimilarity(t *testing.T) {
	s := NewWithCatalog(nil, []string{"SafeMath", "Ownable", "ERC20", "Pausable"})

	_, ratio := s.TemplateSimilarity("SafeMath Ownable ERC20", 0)
	assert.Zero(t, ratio)

	found, ratio := s.TemplateSimilarity("SafeMath Ownable ERC20", 1)
	assert.Equal(t, []string{"SafeMath", "Ownable", "ERC20"}, found)
	assert.Equal(t, 1.0, ratio)

	_, ratio = s.TemplateSimilarity("SafeMath Ownable ERC20 Pausable", 1)
	assert.Equal(t, 1.0, ratio, "ratio is clamped")

	_, ratio = s.TemplateSimilarity("SafeMath", 2)
	assert.InDelta(t, 1.0/6.0, ratio, 1e-9)
}

func TestTemplateSimilarityMonotonic(t *testing.T) {
	markers := signatures.TemplateMarkers()
	s := New()
	prev := -1.0
	for n := 0; n <= len(markers); n++ {
		_, ratio := s.TemplateSimilarity(strings.Join(markers[:n], "\n"), 10)
		assert.GreaterOrEqual(t, ratio, prev)
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)
		prev = ratio
	}
}

func TestScanHighTemplate(t *testing.T) {
	res := New().Scan(samples("import \"@openzeppelin/contracts/token/ERC20/ERC20.sol\";\ncontract T is ERC20, Ownable {}"))

	assert.Equal(t, 1, res.FilesScanned)
	assert.True(t, res.HighTemplateSimilarity)
	assert.Contains(t, res.TemplateMarkers, "Ownable")
	assert.Empty(t, res.Matches)
}

func TestScanDeterministicDigest(t *testing.T) {
	files := samples("package main", "func main() {}")
	files[1].Truncated = true

	a := New().Scan(files)
	b := New().Scan(files)

	assert.Equal(t, a.CorpusDigest, b.CorpusDigest)
	assert.Equal(t, 1, a.TruncatedFiles)
	assert.Equal(t, []string{"filea.go", "fileb.go"}, a.SampledPaths)
	assert.Len(t, FormatDigest(a.CorpusDigest), 16)

	c := New().Scan(samples("package other"))
	assert.NotEqual(t, a.CorpusDigest, c.CorpusDigest)
}

func TestScanAIML(t *testing.T) {
	files := samples(
		"import torch\nimport torch.nn as nn",
		"from transformers import AutoModel",
		"// Torch relay, unrelated",
	)

	res := New().Scan(files)

	assert.Equal(t, 3, res.AIML.FilesScanned)
	assert.Equal(t, 2, res.AIML.FilesWithSignals)
	assert.Equal(t, []string{"torch", "torch.nn", "import torch", "transformers", "from transformers"}, res.AIML.Signatures)
	assert.Equal(t, 0.6667, res.AIML.Ratio)
}

func TestScanAIMLEmpty(t *testing.T) {
	res := New().ScanAIML(nil)
	assert.Zero(t, res.Ratio)
	assert.Empty(t, res.Signatures)
	assert.NotNil(t, res.Signatures)
}
