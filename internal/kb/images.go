package kb

import (
	"regexp"
	"strings"

	"github.com/dipos-tr/zetachat/internal/common"
)

const (
	// MaxImages caps how many images a single response may carry.
	MaxImages = 6
	// looseMatchMinHits is the exact-token overlap a corpus entry needs
	// before its image list is considered relevant to a response.
	looseMatchMinHits = 3
	// looseTokenMinLen discards short tokens in the recall-oriented pass.
	looseTokenMinLen = 2
)

var (
	// hostedImagePattern matches corpus image URLs referenced inline in
	// answer text outside of markup.
	hostedImagePattern = regexp.MustCompile(`https?://(?:www\.)?dipos\.com\.tr/[^\s"'<>)]+\.(?:png|jpe?g|gif|webp)`)
	imgTagPattern      = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"`)
)

// ResolveImages collects image URLs for a response: URLs embedded in the
// answer text come first, then the image list of the best loosely-matching
// corpus entry. The result is deduplicated in discovery order and capped at
// MaxImages. This pass is deliberately looser than Match: a wrong image is
// cheaper than a missing one.
func (s *Store) ResolveImages(answerText, query string) []string {
	var images []string
	seen := make(map[string]struct{})
	add := func(url string) {
		url = strings.TrimSpace(url)
		if url == "" || len(images) >= MaxImages {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		images = append(images, url)
	}

	for _, url := range hostedImagePattern.FindAllString(answerText, -1) {
		add(url)
	}
	for _, m := range imgTagPattern.FindAllStringSubmatch(answerText, -1) {
		add(m[1])
	}

	if best := s.looseMatch(answerText + " " + query); best != nil {
		common.Logger().Debug("kb: image match", "entry", best.Entry.ID, "hits", best.Score, "images", len(best.Entry.Images))
		for _, url := range best.Entry.Images {
			add(url)
		}
	}
	return images
}

// looseMatch finds the entry with the most exact token overlaps against the
// combined answer+query signal, considering only entries that carry images
// and requiring at least looseMatchMinHits overlaps.
func (s *Store) looseMatch(signal string) *Match {
	entries := s.Entries()
	if len(entries) == 0 {
		return nil
	}
	signalTokens := uniqueTokens(normalizeTokens(signal, looseTokenMinLen))
	if len(signalTokens) == 0 {
		return nil
	}
	var best *Match
	for _, entry := range entries {
		if len(entry.Images) == 0 {
			continue
		}
		entryTokens := tokenSet(normalizeTokens(entry.Title+" "+entry.Content+" "+entry.Transcript, looseTokenMinLen))
		hits := 0
		for _, tok := range signalTokens {
			if _, ok := entryTokens[tok]; ok {
				hits++
			}
		}
		if hits < looseMatchMinHits {
			continue
		}
		if best == nil || hits > best.Score {
			best = &Match{Entry: entry, Score: hits}
		}
	}
	return best
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
