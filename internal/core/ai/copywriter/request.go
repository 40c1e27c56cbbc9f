package copywriter

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

const (
	MinCount     = 1
	MaxCount     = 20
	DefaultCount = 3
)

// Language is the output language of the copy.
type Language string

const (
	Indonesian Language = "Indonesian"
	Malay      Language = "Malay"
	English    Language = "English"
)

// Languages lists the supported output languages in display order.
var Languages = []Language{Indonesian, Malay, English}

// PromptLabel is how the language is named inside the instruction.
func (l Language) PromptLabel() string {
	switch l {
	case Indonesian:
		return "Indonesia"
	case Malay:
		return "Malaysia"
	case English:
		return "Inggris"
	}
	return string(l)
}

// Tag returns the BCP-47 tag of the language.
func (l Language) Tag() language.Tag {
	switch l {
	case Malay:
		return language.Malay
	case English:
		return language.English
	}
	return language.Indonesian
}

var languageNames = map[string]Language{
	"indonesian":       Indonesian,
	"indonesia":        Indonesian,
	"bahasa indonesia": Indonesian,
	"malay":            Malay,
	"malaysia":         Malay,
	"melayu":           Malay,
	"bahasa melayu":    Malay,
	"bahasa malaysia":  Malay,
	"english":          English,
	"inggris":          English,
	"bahasa inggris":   English,
}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.Indonesian,
	language.Malay,
	language.English,
})

// ParseLanguage accepts language names in English or Malay/Indonesian and
// BCP-47 tags such as "id", "ms-MY" or "en-US".
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if key == "" {
		return "", &ValidationError{Field: "language", Reason: "is required"}
	}
	if l, ok := languageNames[key]; ok {
		return l, nil
	}

	if tag, err := language.Parse(key); err == nil {
		_, idx, conf := languageMatcher.Match(tag)
		if conf >= language.High {
			return Languages[idx], nil
		}
	}
	return "", &ValidationError{Field: "language", Reason: fmt.Sprintf("unsupported language %q", s)}
}

// RequestInput is the raw form of a request as it arrives from a surface.
type RequestInput struct {
	ProductName       string `json:"product_name" yaml:"product_name"`
	Features          string `json:"features,omitempty" yaml:"features,omitempty"`
	ExtraInstructions string `json:"extra_instructions,omitempty" yaml:"extra_instructions,omitempty"`
	Language          string `json:"language,omitempty" yaml:"language,omitempty"`
	Count             int    `json:"count,omitempty" yaml:"count,omitempty"`
	Model             string `json:"model,omitempty" yaml:"model,omitempty"`
}

// Request is a validated product request. It has no setters; copies are
// independent.
type Request struct {
	productName       string
	features          string
	extraInstructions string
	language          Language
	count             int
	modelID           string
}

// NewRequest normalizes in and validates the result. An empty language
// means Indonesian, an empty model means defaultModel. Count is never
// clamped.
func NewRequest(in RequestInput, defaultModel string) (Request, error) {
	lang := Indonesian
	if strings.TrimSpace(in.Language) != "" {
		var err error
		if lang, err = ParseLanguage(in.Language); err != nil {
			return Request{}, err
		}
	}

	model := strings.TrimSpace(in.Model)
	if model == "" {
		model = defaultModel
	}

	req := Request{
		productName:       cleanField(in.ProductName),
		features:          cleanField(in.Features),
		extraInstructions: cleanField(in.ExtraInstructions),
		language:          lang,
		count:             in.Count,
		modelID:           model,
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// cleanField drops quotation characters before trimming, so a field made
// only of quotes is empty here and not just in the compiled prompt.
func cleanField(s string) string {
	return strings.TrimSpace(StripQuotes(s))
}

func (r Request) ProductName() string       { return r.productName }
func (r Request) Features() string          { return r.features }
func (r Request) ExtraInstructions() string { return r.extraInstructions }
func (r Request) Language() Language        { return r.language }
func (r Request) Count() int                { return r.count }
func (r Request) ModelID() string           { return r.modelID }

// Validate checks every field. The zero Request is invalid.
func (r Request) Validate() error {
	if r.productName == "" {
		return &ValidationError{Field: "product_name", Reason: "is required"}
	}
	if r.count < MinCount || r.count > MaxCount {
		return &ValidationError{
			Field:  "count",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinCount, MaxCount, r.count),
		}
	}
	switch r.language {
	case Indonesian, Malay, English:
	default:
		return &ValidationError{Field: "language", Reason: fmt.Sprintf("unsupported language %q", r.language)}
	}
	if r.modelID == "" {
		return &ValidationError{Field: "model", Reason: "is required"}
	}
	if _, ok := ProviderFor(r.modelID); !ok {
		return &ValidationError{Field: "model", Reason: fmt.Sprintf("unknown model %q", r.modelID)}
	}
	return nil
}
