package copywriter

import "testing"

func TestLint(t *testing.T) {
	clean := "Bocor terus tiap pagi? Ini solusinya! Silikon ini nempel kuat. mau promo alat dapur!\n\n" +
		"Capek ngepel? Pasang aja, beres! mau promo keran!"

	tests := []struct {
		name  string
		text  string
		count int
		want  []string
	}{
		{name: "clean", text: clean, count: 2},
		{name: "too few", text: clean, count: 3, want: []string{IssueTooFew}},
		{name: "quotes", text: `Kata dia "mantap" mau promo dapur!`, count: 1, want: []string{IssueQuotes}},
		{name: "emoji", text: "Keren banget 🔥 mau promo dapur!", count: 1, want: []string{IssueEmoji}},
		{name: "numbered", text: "1. Keren banget mau promo dapur!", count: 1, want: []string{IssueNumbering}},
		{name: "no cta", text: "Keren banget!", count: 1, want: []string{IssueMissingCTA}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lint(tt.text, tt.count, "")
			if len(got) != len(tt.want) {
				t.Fatalf("Lint() = %+v; want codes %v", got, tt.want)
			}
			for i, code := range tt.want {
				if got[i].Code != code {
					t.Errorf("issue %d = %q; want %q", i, got[i].Code, code)
				}
			}
		})
	}
}

func TestCTAMarker(t *testing.T) {
	tests := map[string]string{
		"":                             "mau promo",
		"mau promo [kategori produk]!": "mau promo",
		"Cek keranjang kuning!":        "cek keranjang kuning",
	}
	for in, want := range tests {
		if got := ctaMarker(in); got != want {
			t.Errorf("ctaMarker(%q) = %q; want %q", in, got, want)
		}
	}
}
