package model

type Category struct {
	BaseModel
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Icon        string      `json:"icon"`
	ImageID     *string     `json:"-"` // storage file id, resolved into Icon
	ParentID    *string     `json:"parent_id,omitempty"`
	Slug        string      `json:"slug"`
	Children    []*Category `json:"children"`
}

// Walk visits c and all of its descendants depth-first. Returning false stops the walk.
func (c *Category) Walk(fn func(*Category) bool) bool {
	if !fn(c) {
		return false
	}
	for _, child := range c.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}
