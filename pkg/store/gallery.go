package store

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 50
)

// Gallery reads saved comics for display, hiding panels whose image does not
// live on the trusted storage host and comics left without panels.
type Gallery struct {
	repo        Repository
	trustedHost string
	cache       *cache.Cache
}

// NewGallery caches list results for ttl; ttl <= 0 disables caching.
func NewGallery(repo Repository, trustedHost string, ttl time.Duration) *Gallery {
	g := &Gallery{
		repo:        repo,
		trustedHost: strings.ToLower(strings.TrimSpace(trustedHost)),
	}
	if ttl > 0 {
		g.cache = cache.New(ttl, 2*ttl)
	}
	return g
}

func (g *Gallery) List(ctx context.Context, limit int) ([]*Comic, error) {
	key := fmt.Sprintf("list:%d", limit)
	if g.cache != nil {
		if v, ok := g.cache.Get(key); ok {
			return v.([]*Comic), nil
		}
	}

	comics, err := g.repo.ListComics(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := lo.FilterMap(comics, func(c *Comic, _ int) (*Comic, bool) {
		return g.visible(c)
	})

	if g.cache != nil {
		g.cache.SetDefault(key, out)
	}
	return out, nil
}

func (g *Gallery) Get(ctx context.Context, id int64) (*Comic, error) {
	comic, err := g.repo.GetComic(ctx, id)
	if err != nil {
		return nil, err
	}
	visible, ok := g.visible(comic)
	if !ok {
		return nil, ErrNotFound
	}
	return visible, nil
}

// Invalidate drops cached listings after a new comic is saved.
func (g *Gallery) Invalidate() {
	if g.cache != nil {
		g.cache.Flush()
	}
}

// visible returns a copy of c with only trusted panels, or false when none remain.
func (g *Gallery) visible(c *Comic) (*Comic, bool) {
	if c == nil {
		return nil, false
	}
	panels := lo.Filter(c.Panels, func(p *Panel, _ int) bool {
		return p != nil && g.TrustedImageURL(p.ImageURL)
	})
	if len(panels) == 0 {
		return nil, false
	}
	cp := *c
	cp.Panels = panels
	return &cp, true
}

// TrustedImageURL accepts https URLs on the trusted host. With no trusted host
// configured only the scheme is checked.
func (g *Gallery) TrustedImageURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return false
	}
	if g.trustedHost == "" {
		return true
	}
	return strings.EqualFold(u.Hostname(), g.trustedHost)
}
