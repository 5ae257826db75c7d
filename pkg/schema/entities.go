package schema

import (
	"strings"
	"time"
)

type Style string

const (
	StyleManga      Style = "manga"
	StyleWebtoon    Style = "webtoon"
	StyleBlackWhite Style = "blackwhite"
	StyleChibi      Style = "chibi"
	StyleRealistic  Style = "realistic"
	StyleWatercolor Style = "watercolor"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleManga, StyleWebtoon, StyleBlackWhite, StyleChibi, StyleRealistic, StyleWatercolor}

// ParseStyle returns the matching Style, ignoring case and surrounding spaces.
func ParseStyle(s string) (Style, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, style := range Styles {
		if string(style) == s {
			return style, true
		}
	}
	return "", false
}

const (
	MinPanels       = 1
	MaxPanels       = 6
	DefaultPanels   = 4
	MaxPromptLength = 500
)

type PanelScript struct {
	PanelNumber int    `json:"panelNumber" jsonschema_description:"1-based position of the panel in the comic"`
	Description string `json:"description" jsonschema_description:"Visual scene description: setting, characters, action and camera framing"`
	Dialogue    string `json:"dialogue,omitempty" jsonschema_description:"Short spoken line or caption for the panel, empty when silent"`
	Mood        string `json:"mood" jsonschema_description:"Emotional tone of the panel in one or two words"`
}

// Script is the structured answer expected from the language model.
type Script struct {
	Panels []PanelScript `json:"panels" jsonschema_description:"Ordered panels of the comic, one entry per requested panel"`
}

type GenerateRequest struct {
	Prompt     string `json:"prompt"`
	Style      string `json:"style"`
	PanelCount *int   `json:"panelCount"`
}

type GenerateResponse struct {
	Images    []string      `json:"images"`
	Scripts   []PanelScript `json:"scripts"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	ComicID   int64         `json:"comicId,omitempty"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
}
