package usecase

import (
	"regexp"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// slugify lowercases name and collapses each whitespace run into one hyphen.
func slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// buildTree links flat into a forest in one pass over an id index.
// A category whose parent is missing from flat becomes a root. Input order is kept among siblings.
func buildTree(flat []model.Category) []*model.Category {
	byID := make(map[string]*model.Category, len(flat))
	nodes := make([]*model.Category, len(flat))
	for i := range flat {
		c := flat[i]
		c.Children = []*model.Category{}
		nodes[i] = &c
		byID[c.ID] = &c
	}

	roots := make([]*model.Category, 0)
	for _, node := range nodes {
		if node.ParentID != nil {
			if parent, ok := byID[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
