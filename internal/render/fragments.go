package render

import (
	"strconv"

	"github.com/varoOP/shinkrolist/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	MaxSearchResults = 12
	MaxGenreResults  = 24
	HeroSynopsisLen  = 90

	NoResults      = "No results."
	SearchFailed   = "Error loading results. Try again."
	GenreFailed    = "Could not load this genre. Try again."
	SectionFailed  = "Could not load this section. Try again."
	untitled       = "Untitled"
	metaSeparator  = " • "
	heartAriaLabel = "Add to My List"
)

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendAll(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

func titleOf(item domain.CatalogItem) string {
	if item.Title == "" {
		return untitled
	}
	return item.Title
}

// itemAttrs are the data attributes carried by every item container
func itemAttrs(class string, item domain.CatalogItem, image string) []string {
	return []string{
		"class", class,
		"data-url", item.URL,
		"data-mal-id", strconv.Itoa(item.MalID),
		"data-title", item.Title,
		"data-image", image,
	}
}

func heart(a atom.Atom, kind domain.SurfaceKind) *html.Node {
	attrs := HeartAttrs(kind, false)
	n := element(a, "class", attrs.Class)
	if a == atom.Button {
		n.Attr = append(n.Attr,
			html.Attribute{Key: "type", Val: "button"},
			html.Attribute{Key: "aria-label", Val: heartAriaLabel},
		)
	}
	return appendAll(n, text(attrs.Label))
}

func message(class, msg string) *html.Node {
	return appendAll(element(atom.Div, "class", class), text(msg))
}

// Card renders a grid card
func Card(item domain.CatalogItem) *html.Node {
	title := titleOf(item)

	h3 := appendAll(element(atom.H3),
		appendAll(element(atom.Span, "class", "title-text"), text(title)),
		heart(atom.Span, domain.SurfaceCard),
	)

	return appendAll(element(atom.Div, itemAttrs("card", item, item.Image)...),
		element(atom.Img, "src", item.Image, "alt", title),
		h3,
	)
}

// Hero renders a hero slide with the large image and a short synopsis
func Hero(item domain.CatalogItem) *html.Node {
	img := item.LargeImage
	if img == "" {
		img = item.Image
	}

	content := appendAll(element(atom.Div, "class", "hero"),
		appendAll(element(atom.H1), text(item.DisplayTitle())),
		appendAll(element(atom.P), text(ShortText(item.Synopsis, HeroSynopsisLen))),
		appendAll(element(atom.Div, "class", "buttons"), heart(atom.Button, domain.SurfaceHero)),
	)

	return appendAll(element(atom.Div, itemAttrs("slide", item, item.Image)...),
		element(atom.Img, "class", "hero-bg-blur", "src", img, "alt", ""),
		element(atom.Img, "class", "hero-bg", "src", img, "alt", ""),
		content,
	)
}

// SearchResults renders at most MaxSearchResults result cards
func SearchResults(items []domain.CatalogItem) *html.Node {
	if len(items) == 0 {
		return message("search-results-empty", NoResults)
	}
	if len(items) > MaxSearchResults {
		items = items[:MaxSearchResults]
	}

	grid := element(atom.Div, "class", "search-results-grid")
	for _, item := range items {
		title := titleOf(item)

		meta := item.Type
		if item.Year != 0 {
			meta += metaSeparator + strconv.Itoa(item.Year)
		}

		info := appendAll(element(atom.Div, "class", "search-result-info"),
			appendAll(element(atom.Div, "class", "search-result-title"), text(title)),
			appendAll(element(atom.Div, "class", "search-result-meta"), text(meta)),
		)

		grid.AppendChild(appendAll(element(atom.Div, itemAttrs("search-result-card", item, item.Image)...),
			element(atom.Img, "src", item.Image, "alt", title),
			info,
			heart(atom.Button, domain.SurfaceSearch),
		))
	}

	return grid
}

// SearchError is shown in place of results when the search failed
func SearchError() *html.Node {
	return message("search-results-empty", SearchFailed)
}

// GenreGrid renders at most MaxGenreResults genre cards
func GenreGrid(items []domain.CatalogItem) *html.Node {
	if len(items) == 0 {
		return message("genre-empty", NoResults)
	}
	if len(items) > MaxGenreResults {
		items = items[:MaxGenreResults]
	}

	grid := element(atom.Div, "class", "genre-grid")
	for _, item := range items {
		title := titleOf(item)

		row := appendAll(element(atom.Div, "class", "genre-title-row"),
			appendAll(element(atom.Div, "class", "genre-title-text"), text(title)),
			heart(atom.Button, domain.SurfaceGenre),
		)

		grid.AppendChild(appendAll(element(atom.Div, itemAttrs("genre-card", item, item.Image)...),
			element(atom.Img, "src", item.Image, "alt", title),
			appendAll(element(atom.Div, "class", "genre-info"), row),
		))
	}

	return grid
}

// GenreError is shown in place of the grid when a genre failed to load
func GenreError() *html.Node {
	return message("genre-empty", GenreFailed)
}

// GenreList renders the genre picker entries
func GenreList(genres []domain.Genre) *html.Node {
	list := element(atom.Div, "class", "genres-list")
	for _, g := range genres {
		list.AppendChild(appendAll(element(atom.Div,
			"class", "genres-item",
			"data-id", strconv.Itoa(g.MalID),
			"data-name", g.Name,
		), text(g.Name)))
	}
	return list
}
