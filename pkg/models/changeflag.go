package models

// changeFlag is the transient dirty bit carried by every persisted entity.
// Setters flip it only when a value actually changes, so a no-op re-import
// produces no writes and no last_modified_time churn.
type changeFlag struct {
	changed bool
}

func (c *changeFlag) Touch() {
	c.changed = true
}

func (c *changeFlag) Changed() bool {
	return c.changed
}

func (c *changeFlag) ClearChanged() {
	c.changed = false
}
