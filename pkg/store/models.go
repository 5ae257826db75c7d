package store

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("not found")

type Comic struct {
	bun.BaseModel `bun:"table:comics,alias:c"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	UserPrompt string    `bun:"user_prompt,notnull" json:"user_prompt"`
	Style      string    `bun:"style,notnull" json:"style"`
	PanelCount int       `bun:"panel_count,notnull" json:"panel_count"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"-"`

	Panels []*Panel `bun:"rel:has-many,join:id=comic_id" json:"panels"`
}

type Panel struct {
	bun.BaseModel `bun:"table:comic_panels,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	ComicID     int64     `bun:"comic_id,notnull" json:"comic_id"`
	PanelNumber int       `bun:"panel_number,notnull" json:"panel_number"`
	ScriptText  string    `bun:"script_text,notnull" json:"script_text"`
	Dialogue    string    `bun:"dialogue,nullzero" json:"dialogue,omitempty"`
	Mood        string    `bun:"mood,notnull" json:"mood"`
	ImagePrompt string    `bun:"image_prompt,nullzero" json:"image_prompt,omitempty"`
	ImageURL    string    `bun:"image_url,notnull" json:"image_url"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
