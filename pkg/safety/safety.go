// Package safety rewrites image prompts after the image model refuses them.
package safety

import (
	"regexp"
	"strings"

	"comicgen/pkg/utils"
)

// Policy rewrites a prompt before the given attempt (2 or later) after the
// previous attempt was blocked.
type Policy interface {
	Rewrite(prompt string, attempt int) Rewrite
}

type Rewrite struct {
	Prompt   string
	Replaced []string
}

type substitution struct {
	rx   *regexp.Regexp
	with string
}

func sub(pattern, with string) substitution {
	return substitution{rx: regexp.MustCompile(`(?i)\b(?:` + pattern + `)\b`), with: with}
}

var defaultSubstitutions = []substitution{
	sub(`kill(?:s|ed|ing)?|murder(?:s|ed|ing)?|slay(?:s|ed|ing)?`, "defeat"),
	sub(`blood(?:y)?|gore|gory`, "red paint"),
	sub(`dead|death|die(?:s|d)?|dying|corpse`, "asleep"),
	sub(`guns?|rifles?|pistols?|firearms?`, "toy blaster"),
	sub(`knife|knives|daggers?|blades?|swords?`, "wooden stick"),
	sub(`weapons?`, "tools"),
	sub(`bombs?|explosions?|explode(?:s|d)?`, "fireworks"),
	sub(`attack(?:s|ed|ing)?|assault(?:s|ed|ing)?`, "confront"),
	sub(`fight(?:s|ing)?|battle(?:s|d)?|war`, "contest"),
	sub(`wound(?:s|ed)?|injur(?:y|ies|ed)|hurt`, "bandaged"),
	sub(`violent|violence|brutal`, "dramatic"),
	sub(`shoot(?:s|ing)?|shot|stab(?:s|bed|bing)?`, "point at"),
	sub(`scream(?:s|ed|ing)?|terrified|horror`, "surprised"),
}

const familyFriendly = "family-friendly, safe for all ages, wholesome"

// RegexPolicy applies fixed word substitutions and, from the third attempt,
// appends a family-friendly qualifier.
type RegexPolicy struct {
	subs []substitution
}

func NewRegexPolicy() *RegexPolicy {
	return &RegexPolicy{subs: defaultSubstitutions}
}

func (p *RegexPolicy) Rewrite(prompt string, attempt int) Rewrite {
	out := prompt
	for _, s := range p.subs {
		out = s.rx.ReplaceAllString(out, s.with)
	}
	if attempt >= 3 && !strings.Contains(out, familyFriendly) {
		out = strings.TrimRight(strings.TrimSpace(out), ",.") + ", " + familyFriendly
	}
	return Rewrite{
		Prompt:   out,
		Replaced: utils.RemovedWords(prompt, out),
	}
}
