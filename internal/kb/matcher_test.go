package kb

import (
	"reflect"
	"testing"
)

func TestNormalizeTokens(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		minLen int
		want   []string
	}{
		{
			name:   "folds turkish diacritics",
			input:  "Çizim Görüntüleme Şeması",
			minLen: 1,
			want:   []string{"cizim", "goruntuleme", "semasi"},
		},
		{
			name:   "drops apostrophes inside tokens",
			input:  "Türkiye'de proje",
			minLen: 1,
			want:   []string{"turkiyede", "proje"},
		},
		{
			name:   "punctuation splits tokens",
			input:  "plan,indirme;rehberi",
			minLen: 1,
			want:   []string{"plan", "indirme", "rehberi"},
		},
		{
			name:   "short tokens discarded",
			input:  "a be cde",
			minLen: 2,
			want:   []string{"cde"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeTokens(tc.input, tc.minLen)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("normalizeTokens(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func testCorpus() []Entry {
	return []Entry{
		{
			ID:       "proje-plani-indirme",
			Title:    "Proje Planı İndirme Rehberi",
			Content:  "Proje planı indirme işlemi panel üzerinden yapılır. Plan dosyası PDF olarak iner.",
			Keywords: []string{"plan", "indirme"},
		},
		{
			ID:       "hesap-ayarlari",
			Title:    "Hesap Ayarları",
			Content:  "Hesap ayarları sayfasından parola değiştirilebilir.",
			Keywords: []string{"hesap", "parola"},
		},
	}
}

func TestMatchTitleOverlap(t *testing.T) {
	store := NewStoreFromEntries(testCorpus())
	match := store.Match("proje planı indirme nasıl yapılır")
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Entry.ID != "proje-plani-indirme" {
		t.Fatalf("matched %q, want proje-plani-indirme", match.Entry.ID)
	}
	if match.Score < 30 {
		t.Fatalf("three title token overlaps should score at least 30, got %d", match.Score)
	}
}

func TestMatchBelowThreshold(t *testing.T) {
	store := NewStoreFromEntries(testCorpus())
	if match := store.Match("pdf"); match != nil {
		t.Fatalf("single keyword overlap must not clear the threshold, got %+v", match)
	}
}

func TestMatchWithRelaxedThreshold(t *testing.T) {
	store := NewStoreFromEntries(testCorpus())
	query := "pdf dosyası"
	if match := store.Match(query); match != nil {
		t.Fatalf("query should miss the default threshold, got %+v", match)
	}
	match := store.MatchWithThreshold(query, RelaxedThreshold)
	if match == nil {
		t.Fatal("expected a relaxed match")
	}
	if match.Entry.ID != "proje-plani-indirme" {
		t.Fatalf("matched %q, want proje-plani-indirme", match.Entry.ID)
	}
}

func TestMatchForcedOverride(t *testing.T) {
	entries := append(testCorpus(), Entry{
		ID:      forcedOverrideID,
		Title:   "Daire Numarası Sıfır Olan Çizimler",
		Content: "Daire numarası sıfır görünen çizimler ortak alan paftalarıdır.",
	})
	store := NewStoreFromEntries(entries)

	match := store.Match("daire no 0 olan çizimler ne anlama geliyor")
	if match == nil {
		t.Fatal("expected the override entry")
	}
	if match.Entry.ID != forcedOverrideID {
		t.Fatalf("matched %q, want %q", match.Entry.ID, forcedOverrideID)
	}

	// Without the trigger words the override must not fire.
	if match := store.Match("hesap ayarları parola"); match != nil && match.Entry.ID == forcedOverrideID {
		t.Fatalf("override fired without trigger words")
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	if match := NewStoreFromEntries(nil).Match("proje planı indirme"); match != nil {
		t.Fatalf("empty corpus must not match, got %+v", match)
	}
	store := NewStoreFromEntries(testCorpus())
	if match := store.Match(""); match != nil {
		t.Fatalf("empty query must not match, got %+v", match)
	}
	if match := store.Match("!!! ???"); match != nil {
		t.Fatalf("punctuation-only query must not match, got %+v", match)
	}
}

func TestMatchTieKeepsFirstEntry(t *testing.T) {
	entries := []Entry{
		{ID: "first", Title: "kargo takip", Content: ""},
		{ID: "second", Title: "kargo takip", Content: ""},
	}
	store := NewStoreFromEntries(entries)
	match := store.Match("kargo takip")
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Entry.ID != "first" {
		t.Fatalf("tie must keep the first entry, got %q", match.Entry.ID)
	}
}
