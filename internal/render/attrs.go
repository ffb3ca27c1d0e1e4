package render

import (
	"strings"
	"unicode/utf8"

	"github.com/varoOP/shinkrolist/internal/domain"
)

const (
	heartLabel      = "❤︎"
	genreHeartLabel = "❤"
	heroAddLabel    = "❤︎ Add to My List"
	heroAddedLabel  = "❤︎ Added"

	likedClass = "liked"

	NoDescription = "No description available."
)

// Attrs is how a heart control looks for a given liked state
type Attrs struct {
	Class string
	Label string
	Liked bool
}

// heartClass is the base class of the heart control on each surface
var heartClass = map[domain.SurfaceKind]string{
	domain.SurfaceCard:   "heart",
	domain.SurfaceHero:   "hero-like-btn",
	domain.SurfaceSearch: "search-heart",
	domain.SurfaceGenre:  "genre-heart",
}

// HeartAttrs projects a liked state onto the heart control of kind
func HeartAttrs(kind domain.SurfaceKind, liked bool) Attrs {
	a := Attrs{Class: heartClass[kind], Liked: liked}

	switch kind {
	case domain.SurfaceHero:
		a.Label = heroAddLabel
		if liked {
			a.Label = heroAddedLabel
		}
	case domain.SurfaceGenre:
		a.Label = genreHeartLabel
	default:
		a.Label = heartLabel
	}

	if liked {
		a.Class += " " + likedClass
	}

	return a
}

// ShortText collapses whitespace and cuts s to at most n characters,
// ending on a word boundary followed by "..."
func ShortText(s string, n int) string {
	cleaned := strings.Join(strings.Fields(s), " ")
	if cleaned == "" {
		return NoDescription
	}
	if utf8.RuneCountInString(cleaned) <= n {
		return cleaned
	}

	sliced := string([]rune(cleaned)[:n])
	if i := strings.LastIndex(sliced, " "); i > 0 {
		sliced = sliced[:i]
	}
	return sliced + "..."
}
