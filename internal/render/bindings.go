package render

import (
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/varoOP/shinkrolist/internal/domain"
	"golang.org/x/net/html"
)

// nodeBinding is a heart control inside a rendered item container. Reads
// and writes go through mu, which is shared by every binding of a document.
type nodeBinding struct {
	mu    *sync.RWMutex
	kind  domain.SurfaceKind
	malID int
	item  *goquery.Selection
	heart *goquery.Selection
}

var _ domain.Binding = (*nodeBinding)(nil)

func (b *nodeBinding) MalID() int {
	return b.malID
}

func (b *nodeBinding) Kind() domain.SurfaceKind {
	return b.kind
}

func (b *nodeBinding) Liked() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.heart.HasClass(likedClass)
}

func (b *nodeBinding) SetLiked(liked bool) {
	a := HeartAttrs(b.kind, liked)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.heart.SetAttr("class", a.Class)
	b.heart.SetText(a.Label)
}

func (b *nodeBinding) Favorite() domain.Favorite {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return domain.Favorite{
		MalID: b.malID,
		Title: b.item.AttrOr("data-title", ""),
		Image: b.item.AttrOr("data-image", ""),
		URL:   b.item.AttrOr("data-url", ""),
	}
}

// Bindings finds every item container under root and returns a binding for
// its heart control of the given surface kind
func Bindings(kind domain.SurfaceKind, root *html.Node) []domain.Binding {
	return bind(&sync.RWMutex{}, kind, root)
}

func bind(mu *sync.RWMutex, kind domain.SurfaceKind, root *html.Node) []domain.Binding {
	doc := goquery.NewDocumentFromNode(root)

	var out []domain.Binding
	doc.Find("[data-mal-id]").AddBackFiltered("[data-mal-id]").Each(func(_ int, s *goquery.Selection) {
		id, err := strconv.Atoi(s.AttrOr("data-mal-id", ""))
		if err != nil || id == 0 {
			return
		}

		heart := s.Find("." + heartClass[kind]).First()
		if heart.Length() == 0 {
			return
		}

		out = append(out, &nodeBinding{
			mu:    mu,
			kind:  kind,
			malID: id,
			item:  s,
			heart: heart,
		})
	})

	return out
}
