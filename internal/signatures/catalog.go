// Package signatures holds the static table of proof-of-work algorithm
// signatures and boilerplate template markers used by the pattern scanner.
package signatures

import (
	"regexp"
	"strings"
)

// RuleKind distinguishes literal substring rules from regular expression rules
type RuleKind int

const (
	Literal RuleKind = iota
	Pattern
)

func (k RuleKind) String() string {
	if k == Pattern {
		return "regex"
	}
	return "literal"
}

// MaxPatternMatches caps how many regex matches count toward a rule's score
const MaxPatternMatches = 3

// Rule is one weighted signature of an algorithm
type Rule struct {
	Kind   RuleKind
	Text   string
	Weight int
	re     *regexp.Regexp
}

// Score returns the rule's contribution for the given corpus.
// Literal rules add their weight once; regex rules add weight per match, up to MaxPatternMatches.
func (r Rule) Score(corpus string) int {
	switch r.Kind {
	case Pattern:
		return r.Weight * len(r.re.FindAllStringIndex(corpus, MaxPatternMatches))
	default:
		if strings.Contains(corpus, r.Text) {
			return r.Weight
		}
		return 0
	}
}

// Algorithm is a proof-of-work algorithm definition
type Algorithm struct {
	ID            string
	Name          string
	Description   string
	KnownProjects []string
	Rules         []Rule
}

// NewLiteral returns a literal substring rule
func NewLiteral(text string, weight int) Rule {
	return Rule{Kind: Literal, Text: text, Weight: weight}
}

// NewPattern returns a regex rule; it panics if expr does not compile
func NewPattern(expr string, weight int) Rule {
	return Rule{Kind: Pattern, Text: expr, Weight: weight, re: regexp.MustCompile(expr)}
}

var catalog = []Algorithm{
	{
		ID:            "sha256d",
		Name:          "SHA-256d",
		Description:   "Double SHA-256 as used by Bitcoin and most of its forks",
		KnownProjects: []string{"Bitcoin", "Bitcoin Cash", "Bitcoin SV"},
		Rules: []Rule{
			NewLiteral("SHA256d", 3),
			NewLiteral("CHash256", 3),
			NewPattern(`(?i)sha256\s*\(\s*sha256\s*\(`, 2),
			NewPattern(`(?i)double_?sha256`, 2),
		},
	},
	{
		ID:            "scrypt",
		Name:          "Scrypt",
		Description:   "Memory-hard key derivation function used as PoW",
		KnownProjects: []string{"Litecoin", "Dogecoin"},
		Rules: []Rule{
			NewLiteral("scrypt", 3),
			NewPattern(`(?i)\bscrypt\s*\(`, 2),
			NewPattern(`scrypt_1024_1_1`, 3),
		},
	},
	{
		ID:            "ethash",
		Name:          "Ethash",
		Description:   "DAG-based memory-hard PoW (Dagger-Hashimoto)",
		KnownProjects: []string{"Ethereum Classic", "Ethereum (pre-merge)"},
		Rules: []Rule{
			NewLiteral("ethash", 3),
			NewLiteral("hashimoto", 2),
			NewPattern(`(?i)dagger[-_ ]?hashimoto`, 2),
		},
	},
	{
		ID:            "equihash",
		Name:          "Equihash",
		Description:   "Memory-hard generalized birthday problem PoW",
		KnownProjects: []string{"Zcash", "Horizen", "Komodo"},
		Rules: []Rule{
			NewLiteral("equihash", 3),
			NewPattern(`\bEh(Initialise|Solve|BasicSolve|OptimisedSolve)\w*`, 2),
		},
	},
	{
		ID:            "randomx",
		Name:          "RandomX",
		Description:   "CPU-oriented PoW based on random code execution",
		KnownProjects: []string{"Monero", "Wownero"},
		Rules: []Rule{
			NewLiteral("randomx", 3),
			NewPattern(`randomx_(create|alloc|calculate|init)_\w+`, 2),
		},
	},
	{
		ID:            "cryptonight",
		Name:          "CryptoNight",
		Description:   "CryptoNote family memory-hard PoW",
		KnownProjects: []string{"Monero (legacy)", "Electroneum", "Bytecoin"},
		Rules: []Rule{
			NewLiteral("cryptonight", 3),
			NewPattern(`\bcn_(slow|fast)_hash\s*\(`, 2),
		},
	},
	{
		ID:            "x11",
		Name:          "X11",
		Description:   "Chain of eleven hash functions",
		KnownProjects: []string{"Dash"},
		Rules: []Rule{
			NewPattern(`\bHashX11\b`, 3),
			NewLiteral("sph_echo512", 1),
			NewLiteral("sph_shavite512", 1),
		},
	},
	{
		ID:            "kawpow",
		Name:          "KawPoW",
		Description:   "ProgPoW variant tuned for GPUs",
		KnownProjects: []string{"Ravencoin"},
		Rules: []Rule{
			NewLiteral("kawpow", 3),
			NewLiteral("progpow", 2),
		},
	},
	{
		ID:            "kheavyhash",
		Name:          "kHeavyHash",
		Description:   "Matrix multiplication sandwiched between Keccak hashes",
		KnownProjects: []string{"Kaspa"},
		Rules: []Rule{
			NewLiteral("kheavyhash", 3),
			NewPattern(`(?i)\bheavy_?hash\s*\(`, 2),
		},
	},
	{
		ID:            "autolykos",
		Name:          "Autolykos",
		Description:   "Memory-hard PoW of the Ergo platform",
		KnownProjects: []string{"Ergo"},
		Rules: []Rule{
			NewLiteral("autolykos", 3),
		},
	},
	{
		ID:            "cuckoo",
		Name:          "Cuckoo Cycle",
		Description:   "Graph-theoretic PoW (Cuckaroo/Cuckatoo)",
		KnownProjects: []string{"Grin", "Aeternity"},
		Rules: []Rule{
			NewLiteral("cuckatoo", 3),
			NewPattern(`(?i)\bcuck(oo|aroo)\w*`, 2),
		},
	},
}

var templateMarkers = []string{
	"openzeppelin",
	"OpenZeppelin",
	"@openzeppelin/contracts",
	"zeppelin-solidity",
	"ERC-20",
	"ERC20",
	"erc20",
	"ERC-721",
	"ERC721",
	"erc721",
	"IERC20",
	"IERC721",
	"SafeMath",
	"ReentrancyGuard",
	"Ownable",
	"Pausable",
	"UniswapV2",
	"pancakeswap",
	"sushiswap",
	"token template",
	"BEP-20",
	"BEP20",
}

// aimlSignatures are case-sensitive substrings that indicate machine-learning libraries
var aimlSignatures = []string{
	"transformers", "torch", "tensorflow", "keras", "pytorch",
	"openai", "langchain", "huggingface", "sentence_transformers",
	"tiktoken", "openai-api", "anthropic", "langchain-core",
	"tensorflow.", "torch.nn", "from transformers", "import torch",
	"StableBaselines", "reinforcement", "mlflow", "wandb ",
}

// Catalog returns the algorithm table in catalog order. Callers must not modify it.
func Catalog() []Algorithm {
	return catalog
}

// Lookup returns the algorithm with the given id
func Lookup(id string) (Algorithm, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Algorithm{}, false
}

// TemplateMarkers returns the boilerplate markers. Callers must not modify it.
func TemplateMarkers() []string {
	return templateMarkers
}

// AIMLSignatures returns the machine-learning library signatures. Callers must not modify it.
func AIMLSignatures() []string {
	return aimlSignatures
}
