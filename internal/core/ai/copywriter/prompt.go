package copywriter

import (
	"strconv"
	"strings"
)

// SystemPrompt is the persona sent as the system message.
const SystemPrompt = "Kamu adalah ahli copywriting TikTok dengan gaya kreatif dan menghibur. " +
	"Tulis untuk video pendek TikTok dengan nada santai, akrab, dan persuasif."

// DefaultCTA closes every variant.
const DefaultCTA = "mau promo [kategori produk]!"

// DefaultTranscriptBudget caps the reference transcript, in runes.
const DefaultTranscriptBudget = 6000

// Options tunes the compiled instruction.
type Options struct {
	CTA              string
	TranscriptBudget int
}

// Payload is the message pair sent to the model.
type Payload struct {
	System string
	User   string
}

// quoteStripper removes quotation characters from user-supplied text.
var quoteStripper = strings.NewReplacer(
	`"`, "", "'", "",
	"“", "", "”", "",
	"‘", "", "’", "",
	"«", "", "»", "",
	"„", "", "‚", "",
)

// StripQuotes removes quotation characters and collapses the whitespace
// left behind.
func StripQuotes(s string) string {
	s = quoteStripper.Replace(s)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Compile builds the system and user messages. It is pure: the same
// request, transcript and options always give the same payload.
//
// The instruction is assembled in a fixed order: count and product name,
// features, extra instructions, reference transcript, language, then the
// formatting rules.
func Compile(req Request, transcript string, opts Options) Payload {
	cta := StripQuotes(opts.CTA)
	if cta == "" {
		cta = DefaultCTA
	}
	budget := opts.TranscriptBudget
	if budget <= 0 {
		budget = DefaultTranscriptBudget
	}

	var b strings.Builder
	b.WriteString("Buatkan " + strconv.Itoa(req.Count()) + " copywriting promosi produk untuk TikTok. ")
	b.WriteString(sentence("Nama produknya adalah " + StripQuotes(req.ProductName())))

	if f := StripQuotes(req.Features()); f != "" {
		b.WriteString("\n" + sentence("Fitur produk yang perlu disertakan: "+f))
	}
	if x := StripQuotes(req.ExtraInstructions()); x != "" {
		b.WriteString("\n" + sentence("Instruksi tambahan: "+x))
	}
	if t := truncateRunes(StripQuotes(transcript), budget); t != "" {
		b.WriteString("\nSesuaikan gaya bahasa dan isi copywriting dengan transkrip video referensi berikut:\n")
		b.WriteString(t)
		b.WriteString("\nAkhir transkrip referensi.")
	}
	b.WriteString("\n" + sentence("Bahasa yang digunakan: "+req.Language().PromptLabel()))

	b.WriteString("\nSyarat:\n")
	b.WriteString("- Awali dengan kalimat yang mengundang perhatian atau bikin shock\n")
	b.WriteString("- Jelaskan keunggulan produk secara singkat dan natural tanpa kesan iklan formal\n")
	b.WriteString("- Hindari tanda petik dan emoji\n")
	b.WriteString("- Gunakan tanda baca seperti ! dan ? untuk penekanan\n")
	b.WriteString("- Jangan gunakan penomoran atau bullet point, pisahkan setiap copywriting dengan satu baris kosong\n")
	b.WriteString("- Akhiri dengan ajakan like dan komen dengan format: " + cta)

	return Payload{System: SystemPrompt, User: b.String()}
}

// sentence terminates s with a period unless it already ends in
// punctuation.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + " ..."
}
