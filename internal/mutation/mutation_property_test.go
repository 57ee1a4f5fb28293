//go:build property

package mutation

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyIDs = []string{"main-header", "hero-section", "cta-btn", "main-nav"}

// fragment builds a page fragment from element picks; each pick selects an
// id and a tag, so ids repeat and tags vary.
func fragment(picks []int, text string) string {
	tags := []string{"div", "section", "p", "button"}
	var b strings.Builder
	for i, p := range picks {
		id := propertyIDs[p%len(propertyIDs)]
		tag := tags[(p+i)%len(tags)]
		fmt.Fprintf(&b, `<%s id="%s" class="c%d">%s</%s>`, tag, id, i, text, tag)
	}
	return b.String()
}

func TestApplyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	update := types.Updates{
		Style:    map[string]string{"color": "#ff0000"},
		AddClass: "text-lg",
		Content:  types.StringPtr("changed"),
	}

	properties.Property("missing target leaves the input byte-identical", prop.ForAll(
		func(picks []int, text string) bool {
			src := fragment(picks, text)
			intent := types.EditIntent{TargetComponentID: "absent-target", Updates: update}

			if Apply(intent, src) != src {
				return false
			}
			got, err := NewApplier(nil, true).Apply(context.Background(), intent, src)
			return got == src && stderrors.Is(err, errors.ErrTargetNotFound)
		},
		gen.SliceOf(gen.IntRange(0, 7)),
		gen.AlphaString(),
	))

	properties.Property("applying the same update twice equals applying it once", prop.ForAll(
		func(picks []int, text string) bool {
			src := fragment(append(picks, 1), text)
			intent := types.EditIntent{TargetComponentID: "hero-section", Updates: update}

			once := Apply(intent, src)
			return Apply(intent, once) == once
		},
		gen.SliceOf(gen.IntRange(0, 7)),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
