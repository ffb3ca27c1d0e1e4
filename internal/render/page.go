package render

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/varoOP/shinkrolist/internal/domain"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sections of the page. Each one is re-rendered as a whole.
const (
	SectionHero     = "hero"
	SectionPopular  = "popular"
	SectionTrending = "trending"
	SectionTopRated = "toprated"
	SectionSearch   = "search"
	SectionGenre    = "genre"
)

// cardLimits is the number of card slots per grid section
var cardLimits = map[string]int{
	SectionPopular:  15,
	SectionTrending: 10,
	SectionTopRated: 5,
}

var sectionTitles = map[string]string{
	SectionPopular:  "Popular",
	SectionTrending: "Trending Now",
	SectionTopRated: "Top Rated",
}

// Page is the catalog document. All node access is guarded by one lock,
// shared with the bindings the page hands out.
type Page struct {
	mu       sync.RWMutex
	doc      *html.Node
	sections map[string]*html.Node
	genres   *html.Node
}

func NewPage(title string) *Page {
	p := &Page{sections: make(map[string]*html.Node)}

	head := appendAll(element(atom.Head),
		element(atom.Meta, "charset", "utf-8"),
		appendAll(element(atom.Title), text(title)),
	)

	body := element(atom.Body)

	p.genres = element(atom.Div, "class", "genres-wrap", "id", "genresDropdown", "hidden", "")
	search := element(atom.Div, "id", "search-results", "hidden", "")
	p.sections[SectionSearch] = search
	appendAll(body,
		appendAll(element(atom.Div, "class", "search-container"), search),
		p.genres,
	)

	hero := element(atom.Section, "id", SectionHero, "class", "slides")
	p.sections[SectionHero] = hero
	body.AppendChild(hero)

	for _, name := range []string{SectionPopular, SectionTrending, SectionTopRated} {
		grid := element(atom.Div, "class", "cards")
		p.sections[name] = grid
		body.AppendChild(appendAll(element(atom.Section, "id", name),
			appendAll(element(atom.H2), text(sectionTitles[name])),
			grid,
		))
	}

	genreGrid := element(atom.Div, "id", "genreGrid")
	p.sections[SectionGenre] = genreGrid
	body.AppendChild(appendAll(element(atom.Section, "id", SectionGenre, "hidden", ""),
		element(atom.H2, "id", "genreTitle"),
		genreGrid,
	))

	p.doc = &html.Node{Type: html.DocumentNode}
	p.doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	p.doc.AppendChild(appendAll(element(atom.Html, "lang", "en"), head, body))

	return p
}

// SetCards fills a grid section, keeping at most its slot count
func (p *Page) SetCards(section string, items []domain.CatalogItem) []domain.Binding {
	if limit, ok := cardLimits[section]; ok && len(items) > limit {
		items = items[:limit]
	}

	nodes := make([]*html.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, Card(item))
	}

	return p.replace(section, domain.SurfaceCard, nodes...)
}

func (p *Page) SetHeroes(items []domain.CatalogItem) []domain.Binding {
	nodes := make([]*html.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, Hero(item))
	}
	return p.replace(SectionHero, domain.SurfaceHero, nodes...)
}

// SetSectionError replaces a section's content with an error message
func (p *Page) SetSectionError(section, msg string) {
	p.replace(section, domain.SurfaceCard, message("section-error", msg))
}

// SetSearch shows the results panel with items
func (p *Page) SetSearch(items []domain.CatalogItem) []domain.Binding {
	p.show(SectionSearch, true)
	return p.replace(SectionSearch, domain.SurfaceSearch, SearchResults(items))
}

func (p *Page) SetSearchError() {
	p.show(SectionSearch, true)
	p.replace(SectionSearch, domain.SurfaceSearch, SearchError())
}

// HideSearch empties and hides the results panel
func (p *Page) HideSearch() {
	p.replace(SectionSearch, domain.SurfaceSearch)
	p.show(SectionSearch, false)
}

func (p *Page) SetGenres(genres []domain.Genre) {
	p.mu.Lock()
	defer p.mu.Unlock()
	clearChildren(p.genres)
	p.genres.AppendChild(GenreList(genres))
}

// SetGenre shows the genre section titled name with items
func (p *Page) SetGenre(name string, items []domain.CatalogItem) []domain.Binding {
	p.setGenreTitle(name)
	return p.replace(SectionGenre, domain.SurfaceGenre, GenreGrid(items))
}

func (p *Page) SetGenreError(name string) {
	p.setGenreTitle(name)
	p.replace(SectionGenre, domain.SurfaceGenre, GenreError())
}

// Render writes the whole document as HTML
func (p *Page) Render(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := html.Render(w, p.doc); err != nil {
		return errors.Wrap(err, "could not render page")
	}
	return nil
}

// Section returns the container node of section. Callers must not mutate it.
func (p *Page) Section(section string) *html.Node {
	return p.sections[section]
}

func (p *Page) replace(section string, kind domain.SurfaceKind, nodes ...*html.Node) []domain.Binding {
	root, ok := p.sections[section]
	if !ok {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	clearChildren(root)
	for _, n := range nodes {
		root.AppendChild(n)
	}

	return bind(&p.mu, kind, root)
}

func (p *Page) setGenreTitle(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	grid := p.sections[SectionGenre]
	section := grid.Parent
	removeAttr(section, "hidden")

	title := section.FirstChild
	clearChildren(title)
	title.AppendChild(text(name))
}

func (p *Page) show(section string, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.sections[section]
	removeAttr(n, "hidden")
	if !visible {
		n.Attr = append(n.Attr, html.Attribute{Key: "hidden"})
	}
}

func clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
