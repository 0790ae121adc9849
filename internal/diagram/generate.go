// Package diagram turns a short description into PlantUML source by keyword
// matching.
package diagram

import (
	"embed"
	"strings"
)

//go:embed plantuml/*.puml
var sources embed.FS

// Kind names one of the bundled diagrams.
type Kind string

const (
	KindLogin    Kind = "login"
	KindOrder    Kind = "order"
	KindClass    Kind = "class"
	KindActivity Kind = "activity"
)

// rules are checked in order; the first rule with a matching keyword wins.
var rules = []struct {
	kind     Kind
	keywords []string
}{
	{KindLogin, []string{"登录", "认证", "login"}},
	{KindOrder, []string{"订单", "下单", "order"}},
	{KindClass, []string{"类", "class"}},
}

// Classify picks the diagram kind for description. Matching is on the
// lowercased text; anything unmatched is an activity flow.
func Classify(description string) Kind {
	lower := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.kind
			}
		}
	}
	return KindActivity
}

// Generate returns the PlantUML text for description.
func Generate(description string) string {
	return Source(Classify(description))
}

// Source returns the bundled PlantUML text for k, falling back to the
// activity diagram for unknown kinds.
func Source(k Kind) string {
	b, err := sources.ReadFile("plantuml/" + string(k) + ".puml")
	if err != nil {
		b, _ = sources.ReadFile("plantuml/" + string(KindActivity) + ".puml")
	}
	return strings.TrimSuffix(string(b), "\n")
}
