//go:build property

package indexer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genDocument builds small documents out of id-carrying and landmark elements.
func genDocument() gopter.Gen {
	fragments := []string{
		`<div id="main-header">Title</div>`,
		`<section class="hero">Hero</section>`,
		`<a id="cta-btn" class="btn">Go</a>`,
		`<nav>links</nav>`,
		`<footer>bye</footer>`,
		`<p id="about">about</p>`,
		`<div class="video-gallery"><video id="clip"></video></div>`,
		`<span>plain</span>`,
		`<div id="broken"><b>unclosed`,
	}
	return gen.SliceOf(gen.IntRange(0, len(fragments)-1)).Map(func(idx []int) string {
		var b strings.Builder
		for _, i := range idx {
			b.WriteString(fragments[i])
		}
		return b.String()
	})
}

func TestIndexProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("indexing is idempotent", prop.ForAll(
		func(html string) bool {
			return reflect.DeepEqual(Index(html), Index(html))
		},
		genDocument(),
	))

	properties.Property("every key matches its component id", prop.ForAll(
		func(html string) bool {
			for id, c := range Index(html) {
				if id != c.ID || c.Selector == "" {
					return false
				}
			}
			return true
		},
		genDocument(),
	))

	properties.Property("arbitrary text never panics", prop.ForAll(
		func(s string) bool {
			_ = Index(fmt.Sprintf(`<div id="x">%s</div>%s`, s, s))
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
