package prompts

import "comicgen/pkg/schema"

var styleModifiers = map[schema.Style]string{
	schema.StyleManga:      "manga style, anime style, Japanese comic art",
	schema.StyleWebtoon:    "webtoon style, Korean comic style, vertical comic panels",
	schema.StyleBlackWhite: "black and white ink drawing, monochrome comic art",
	schema.StyleChibi:      "chibi style, cute super deformed characters, kawaii art",
	schema.StyleRealistic:  "realistic comic art, detailed illustration",
	schema.StyleWatercolor: "watercolor comic style, soft colors, artistic painting",
}

// StyleModifier returns the prompt keywords for a style, or "" when unknown.
func StyleModifier(style schema.Style) string {
	return styleModifiers[style]
}
