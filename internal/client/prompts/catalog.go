// Package prompts is the in-memory prompt catalog behind the dashboard,
// list, show and editor views. It is seeded with sample templates.
package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
	"github.com/dmitrijs2005/promptmanager/internal/common"
)

const (
	maxTitleLen    = 200
	maxCategoryLen = 50
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrTitleTooLong    = errors.New("title is longer than 200 characters")
	ErrCategoryTooLong = errors.New("category is longer than 50 characters")
	ErrDuplicate       = errors.New("a prompt with the same content already exists")
)

type Catalog struct {
	mu      sync.RWMutex
	prompts []*models.Prompt
	nextID  int64
	now     func() time.Time
}

func NewCatalog(seed []models.Prompt) *Catalog {
	c := &Catalog{nextID: 1, now: time.Now}
	for _, p := range seed {
		p.ContentHash = ContentHash(p.Content)
		if p.ID >= c.nextID {
			c.nextID = p.ID + 1
		}
		c.prompts = append(c.prompts, clone(&p))
	}
	return c
}

// ContentHash is the hex SHA-256 of the trimmed content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(sum[:])
}

func clone(p *models.Prompt) *models.Prompt {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	return &c
}

// List returns prompts in category (all when empty), most recently updated
// first. Category matching ignores case.
func (c *Catalog) List(category string) []models.Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Prompt, 0, len(c.prompts))
	for _, p := range c.prompts {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, *clone(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (c *Catalog) Get(id int64) (models.Prompt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.prompts {
		if p.ID == id {
			return *clone(p), nil
		}
	}
	return models.Prompt{}, common.ErrorNotFound
}

// Add validates p, assigns an id and stores it.
func (c *Catalog) Add(p models.Prompt) (models.Prompt, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)

	switch {
	case p.Title == "":
		return models.Prompt{}, ErrTitleRequired
	case len([]rune(p.Title)) > maxTitleLen:
		return models.Prompt{}, ErrTitleTooLong
	case len([]rune(p.Category)) > maxCategoryLen:
		return models.Prompt{}, ErrCategoryTooLong
	case strings.TrimSpace(p.Content) == "":
		return models.Prompt{}, ErrContentRequired
	}

	p.ContentHash = ContentHash(p.Content)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.prompts {
		if existing.ContentHash == p.ContentHash {
			return models.Prompt{}, ErrDuplicate
		}
	}

	p.ID = c.nextID
	c.nextID++
	p.UpdatedAt = c.now()
	c.prompts = append(c.prompts, clone(&p))
	return p, nil
}

// Use bumps the usage counter of a prompt.
func (c *Catalog) Use(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.prompts {
		if p.ID == id {
			p.UsageCount++
			return nil
		}
	}
	return common.ErrorNotFound
}

type Stats struct {
	Total      int
	Drafts     int
	Categories []string
	MostUsed   []models.Prompt
}

// Summary is what the dashboard shows. top limits MostUsed.
func (c *Catalog) Summary(top int) Stats {
	all := c.List("")

	var s Stats
	seen := map[string]struct{}{}
	for _, p := range all {
		s.Total++
		if p.Draft {
			s.Drafts++
		}
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			s.Categories = append(s.Categories, p.Category)
		}
	}
	sort.Strings(s.Categories)

	sort.SliceStable(all, func(i, j int) bool { return all[i].UsageCount > all[j].UsageCount })
	if top > len(all) {
		top = len(all)
	}
	s.MostUsed = all[:top]
	return s
}
