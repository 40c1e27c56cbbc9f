package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

const (
	// FilePrefix starts every exported copy file.
	FilePrefix = "copywriting"

	// maxNameRunes keeps names well under the 255 byte limit of most
	// filesystems even for 4-byte runes.
	maxNameRunes = 60

	maxCollisions = 999
)

var (
	filenameReplacer = strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"'", "",
		"<", "",
		">", "",
		"|", "",
		"\n", " ",
		"\r", "",
		"\t", " ",
		"【", "", "】", "",
		"「", "", "」", "",
		"『", "", "』", "",
		"《", "", "》", "",
	)
	urlRegex   = regexp.MustCompile(`https?://[^\s]+`)
	spaceRegex = regexp.MustCompile(`\s+`)

	windowsReserved = map[string]bool{
		"con": true, "prn": true, "aux": true, "nul": true,
		"com1": true, "com2": true, "com3": true, "com4": true, "com5": true,
		"com6": true, "com7": true, "com8": true, "com9": true,
		"lpt1": true, "lpt2": true, "lpt3": true, "lpt4": true, "lpt5": true,
		"lpt6": true, "lpt7": true, "lpt8": true, "lpt9": true,
	}
)

// SanitizeFilename makes name safe to use as a file name on Windows, macOS
// and Linux. It may return "".
func SanitizeFilename(name string) string {
	// full-width forms (ＡＢＣ, ：) become their ASCII counterparts first so
	// the replacer catches them. URLs go before the replacer rewrites their
	// ":" and "/".
	result := width.Fold.String(name)
	result = urlRegex.ReplaceAllString(result, "")
	result = filenameReplacer.Replace(result)

	result = spaceRegex.ReplaceAllString(result, " ")
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")

	runes := []rune(result)
	if len(runes) > maxNameRunes {
		result = string(runes[:maxNameRunes])
	}
	result = strings.TrimSpace(result)

	if windowsReserved[strings.ToLower(result)] {
		result = "_" + result
	}
	return result
}

// Filename is the export name for a product: copywriting-<name>.txt, or
// copywriting.txt when nothing of the name survives sanitizing.
func Filename(productName string) string {
	name := SanitizeFilename(productName)
	if name == "" {
		return FilePrefix + ".txt"
	}
	return FilePrefix + "-" + name + ".txt"
}

// WriteText writes the edited copy to dir under Filename(productName). An
// existing file is never overwritten: "name (2).txt", "name (3).txt", ...
// are tried instead. It returns the path written.
func WriteText(dir, productName, text string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	base := Filename(productName)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	for n := 1; n <= maxCollisions; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := f.WriteString(text); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", fmt.Errorf("too many files named %s in %s", base, dir)
}
