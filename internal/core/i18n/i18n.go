// Package i18n holds the interface strings of the CLI and the web form.
package i18n

import (
	"embed"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yml
var localesFS embed.FS

// Translations holds all translation strings organized by section
type Translations struct {
	Form   FormTranslations   `yaml:"form" json:"form"`
	CLI    CLITranslations    `yaml:"cli" json:"cli"`
	Errors ErrorTranslations  `yaml:"errors" json:"errors"`
	Server ServerTranslations `yaml:"server" json:"server"`
}

// FormTranslations holds the labels of the web form
type FormTranslations struct {
	Title             string `yaml:"title" json:"title"`
	Subtitle          string `yaml:"subtitle" json:"subtitle"`
	ProductName       string `yaml:"product_name" json:"product_name"`
	ProductNameHint   string `yaml:"product_name_hint" json:"product_name_hint"`
	Features          string `yaml:"features" json:"features"`
	FeaturesHint      string `yaml:"features_hint" json:"features_hint"`
	ExtraInstructions string `yaml:"extra_instructions" json:"extra_instructions"`
	Language          string `yaml:"language" json:"language"`
	Count             string `yaml:"count" json:"count"`
	Model             string `yaml:"model" json:"model"`
	ReferenceLink     string `yaml:"reference_link" json:"reference_link"`
	ReferenceFile     string `yaml:"reference_file" json:"reference_file"`
	Generate          string `yaml:"generate" json:"generate"`
	Generating        string `yaml:"generating" json:"generating"`
	Result            string `yaml:"result" json:"result"`
	EditHint          string `yaml:"edit_hint" json:"edit_hint"`
	Download          string `yaml:"download" json:"download"`
	APIKey            string `yaml:"api_key" json:"api_key"`
}

// CLITranslations holds progress messages printed by the CLI
type CLITranslations struct {
	Resolving        string `yaml:"resolving"`
	Generating       string `yaml:"generating"`
	Saved            string `yaml:"saved"`
	ReferenceUsed    string `yaml:"reference_used"`
	ReferenceEmpty   string `yaml:"reference_empty"`
	ReferenceSkipped string `yaml:"reference_skipped"`
	Issues           string `yaml:"issues"`
	EnterPIN         string `yaml:"enter_pin"`
	KeySaved         string `yaml:"key_saved"`
}

// ErrorTranslations holds user-facing error messages
type ErrorTranslations struct {
	ProductNameRequired  string `yaml:"product_name_required" json:"product_name_required"`
	CountRange           string `yaml:"count_range" json:"count_range"`
	InvalidRequest       string `yaml:"invalid_request" json:"invalid_request"`
	ReferenceUnavailable string `yaml:"reference_unavailable" json:"reference_unavailable"`
	TranscriptionFailed  string `yaml:"transcription_failed" json:"transcription_failed"`
	GenerationFailed     string `yaml:"generation_failed" json:"generation_failed"`
	ConfigMissing        string `yaml:"config_missing" json:"config_missing"`
	UploadTooLarge       string `yaml:"upload_too_large" json:"upload_too_large"`
}

// ServerTranslations holds translations for server messages
type ServerTranslations struct {
	NoConfigWarning string `yaml:"no_config_warning" json:"no_config_warning"`
	RunInitHint     string `yaml:"run_init_hint" json:"run_init_hint"`
}

var (
	translationsCache = make(map[string]*Translations)
	cacheMutex        sync.RWMutex
	defaultLang       = "id"
)

// SupportedLanguages returns all available language codes
var SupportedLanguages = []struct {
	Code string
	Name string
}{
	{"id", "Bahasa Indonesia"},
	{"ms", "Bahasa Melayu"},
	{"en", "English"},
}

var matcher = language.NewMatcher([]language.Tag{
	language.Indonesian, // first entry is the fallback
	language.Malay,
	language.English,
})

// Match picks the best supported language for an Accept-Language header
// or a configured language tag.
func Match(prefs ...string) string {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		t, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, t...)
	}
	_, idx, _ := matcher.Match(tags...)
	return SupportedLanguages[idx].Code
}

// GetTranslations returns translations for the specified language
func GetTranslations(lang string) *Translations {
	cacheMutex.RLock()
	if t, ok := translationsCache[lang]; ok {
		cacheMutex.RUnlock()
		return t
	}
	cacheMutex.RUnlock()

	t, err := loadTranslations(lang)
	if err != nil {
		if lang != defaultLang {
			return GetTranslations(defaultLang)
		}
		return &Translations{}
	}

	cacheMutex.Lock()
	translationsCache[lang] = t
	cacheMutex.Unlock()

	return t
}

func loadTranslations(lang string) (*Translations, error) {
	filename := fmt.Sprintf("locales/%s.yml", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var t Translations
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// T is a convenience function for getting translations
func T(lang string) *Translations {
	return GetTranslations(lang)
}
