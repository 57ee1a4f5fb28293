//go:build property

package intent

import (
	"reflect"
	"strings"
	"testing"

	"github.com/conneroisu/smartedit/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genRequest() gopter.Gen {
	words := []string{
		"make", "the", "header", "button", "subscribe", "hero", "banner",
		"bigger", "smaller", "larger", "red", "blue", "green", "text",
		`"Hello"`, "title", "please", "about", "footer",
	}
	return gen.SliceOf(gen.IntRange(0, len(words)-1)).Map(func(idx []int) string {
		parts := make([]string, len(idx))
		for i, w := range idx {
			parts[i] = words[w]
		}
		return strings.Join(parts, " ")
	})
}

func TestResolveProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(8642)
	parameters.MinSuccessfulTests = 300

	properties := gopter.NewProperties(parameters)
	components := types.ComponentMap{
		"cta-btn":      {ID: "cta-btn", Type: types.KindButton},
		"main-header":  {ID: "main-header", Type: types.KindHeader},
		"hero-section": {ID: "hero-section", Type: types.KindHero},
	}

	properties.Property("resolution is deterministic", prop.ForAll(
		func(text string) bool {
			a, okA := Resolve(text, components)
			b, okB := Resolve(text, components)
			return okA == okB && reflect.DeepEqual(a, b)
		},
		genRequest(),
	))

	properties.Property("resolved intents are actionable and target known ids", prop.ForAll(
		func(text string) bool {
			got, ok := Resolve(text, components)
			if !ok {
				return true
			}
			return got.Actionable() && components.Has(got.TargetComponentID)
		},
		genRequest(),
	))

	properties.Property("empty map never resolves", prop.ForAll(
		func(text string) bool {
			_, ok := Resolve(text, types.ComponentMap{})
			return !ok
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
