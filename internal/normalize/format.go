package normalize

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInvalidFormat is returned when an export format definition is
// incomplete or contains an uncompilable noise pattern. Formats are
// validated when registered, never during row parsing.
var ErrInvalidFormat = errors.New("invalid export format")

// SignConvention describes how an export encodes debits, so that canonical
// amounts always come out with debits negative and credits positive.
type SignConvention string

const (
	// SignAsIs means the export already writes debits as negative amounts
	// (Chase statement exports do this).
	SignAsIs SignConvention = "as-is"
	// SignInverted means the export writes debits as positive amounts and
	// credits as negative, so the parsed value must be negated.
	SignInverted SignConvention = "inverted"
)

// NoisePattern is one merchant cleanup substitution, applied to the
// uppercased description before whitespace collapsing.
type NoisePattern struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// Format describes the column layout and parsing conventions of one
// statement export source. Supporting a new bank is adding a Format, not
// writing parser code.
type Format struct {
	Name string `yaml:"name"`

	PostedDateCol string `yaml:"posted_date_col"`
	// TransactionDateCol may be empty when the export carries a single
	// date column; the posted date is used for both.
	TransactionDateCol string `yaml:"transaction_date_col"`
	MerchantCol        string `yaml:"merchant_col"`
	AmountCol          string `yaml:"amount_col"`
	// CategoryCol is the export's own categorization, kept verbatim as
	// reference data. Optional.
	CategoryCol string `yaml:"category_col"`

	DateLayouts []string       `yaml:"date_layouts"`
	Sign        SignConvention `yaml:"sign"`
	Noise       []NoisePattern `yaml:"noise"`
}

// requiredCols returns the columns that must be present in an export's
// header for this format to parse it.
func (f Format) requiredCols() []string {
	cols := []string{f.PostedDateCol, f.MerchantCol, f.AmountCol}
	if f.TransactionDateCol != "" {
		cols = append(cols, f.TransactionDateCol)
	}

	if f.CategoryCol != "" {
		cols = append(cols, f.CategoryCol)
	}

	return cols
}

func (f Format) validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidFormat)
	}

	if f.PostedDateCol == "" || f.MerchantCol == "" || f.AmountCol == "" {
		return fmt.Errorf("%w: format %q needs posted date, merchant and amount columns", ErrInvalidFormat, f.Name)
	}

	if len(f.DateLayouts) == 0 {
		return fmt.Errorf("%w: format %q has no date layouts", ErrInvalidFormat, f.Name)
	}

	switch f.Sign {
	case SignAsIs, SignInverted:
	default:
		return fmt.Errorf("%w: format %q has unknown sign convention %q", ErrInvalidFormat, f.Name, f.Sign)
	}

	return nil
}

// ChaseFormat is the built-in profile for Chase credit-card statement CSV
// exports. Chase writes debits negative, so amounts pass through as-is.
func ChaseFormat() Format {
	return Format{
		Name:               "chase",
		PostedDateCol:      "Post Date",
		TransactionDateCol: "Transaction Date",
		MerchantCol:        "Description",
		AmountCol:          "Amount",
		CategoryCol:        "Category",
		DateLayouts:        []string{"01/02/2006", "2006-01-02"},
		Sign:               SignAsIs,
		Noise: []NoisePattern{
			// Trailing processor reference numbers ("UBER TRIP 8005928996").
			{Pattern: `\s+#?\d{6,}$`, Replacement: ""},
			// Trailing store numbers ("TRADER JOE'S #552").
			{Pattern: `\s+#\d+$`, Replacement: ""},
			// Card-payment processor prefixes ("SQ *COFFEE HOUSE").
			{Pattern: `^(SQ|TST|PY|PP)\s*\*\s*`, Replacement: ""},
		},
	}
}

// Registry holds the normalizers for every supported export format.
type Registry struct {
	normalizers map[string]*Normalizer
}

// NewRegistry returns a registry preloaded with the built-in formats.
func NewRegistry() *Registry {
	r := &Registry{normalizers: make(map[string]*Normalizer)}

	// Built-ins are code-defined and must always validate.
	if err := r.Register(ChaseFormat()); err != nil {
		panic(err)
	}

	return r
}

// Register validates the format and makes it available for ingestion.
func (r *Registry) Register(f Format) error {
	n, err := New(f)
	if err != nil {
		return err
	}

	r.normalizers[f.Name] = n

	return nil
}

// Get returns the normalizer for a format name.
func (r *Registry) Get(name string) (*Normalizer, error) {
	n, ok := r.normalizers[name]
	if !ok {
		return nil, fmt.Errorf("unknown export format: %s", name)
	}

	return n, nil
}

// Names lists the registered format names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.normalizers))
	for name := range r.normalizers {
		names = append(names, name)
	}

	return names
}

// LoadFile registers additional formats from a YAML file. Each entry is
// validated on load; a broken format aborts before any ingestion can use it.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading formats file: %w", err)
	}

	var doc struct {
		Formats []Format `yaml:"formats"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing formats file: %w", err)
	}

	for _, f := range doc.Formats {
		if err := r.Register(f); err != nil {
			return err
		}
	}

	return nil
}

// compileNoise compiles the format's noise patterns, surfacing bad regexes
// at registration time.
func compileNoise(f Format) ([]noiseRule, error) {
	rules := make([]noiseRule, 0, len(f.Noise))

	for _, n := range f.Noise {
		re, err := regexp.Compile(n.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: format %q noise pattern %q: %v", ErrInvalidFormat, f.Name, n.Pattern, err)
		}

		rules = append(rules, noiseRule{re: re, replacement: n.Replacement})
	}

	return rules, nil
}

type noiseRule struct {
	re          *regexp.Regexp
	replacement string
}
