// Package templates picks a fixed landing page for snippets that cannot be executed.
//
// Selection only looks at marker substrings in the snippet, so it works on text
// that failed to parse. It is deterministic: the same snippet always yields the
// same tree.
package templates

import (
	"strings"

	"genesis-backend/internal/ui"
)

const (
	Rental       = "rental"
	Commerce     = "commerce"
	Education    = "education"
	Hero         = "hero"
	Features     = "features"
	Testimonials = "testimonials"
	Generic      = "generic"
)

type Artifact struct {
	Name string
	Root *ui.Node
}

type category struct {
	name    string
	markers []string
	build   func() *ui.Node
}

// Order matters: the first category with a matching marker wins.
var categories = []category{
	{Rental, []string{"apartment", "rental"}, rentalPage},
	{Commerce, []string{"fashion", "shop", "product", "store"}, commercePage},
	{Education, []string{"course", "learn", "education", "videmy"}, educationPage},
	{Hero, []string{"hero", "gradient-to-r", "launch your"}, heroSection},
	{Features, []string{"feature"}, featuresSection},
	{Testimonials, []string{"testimonial"}, testimonialsSection},
}

// Select returns the template for snippet. It never fails.
func Select(snippet string) Artifact {
	lower := strings.ToLower(snippet)
	for _, c := range categories {
		if containsAny(lower, c.markers) {
			return Artifact{Name: c.name, Root: c.build()}
		}
	}
	return Artifact{Name: Generic, Root: genericPage(variantFor(lower))}
}

// Names lists every template name in selection order, generic last.
func Names() []string {
	names := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		names = append(names, c.name)
	}
	return append(names, Generic)
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// Variant parameterises the generic page.
type Variant struct {
	Business string
	Accent   string
	Headline string
	Subtitle string
}

var variants = []struct {
	marker string
	Variant
}{
	{"restaurant", Variant{"Delicious Bites", "orange", "Exceptional Dining Experience", "Discover authentic flavors and memorable moments at our restaurant"}},
	{"saas", Variant{"CloudApp", "blue", "Streamline Your Workflow", "Powerful tools to boost productivity and grow your business"}},
	{"agency", Variant{"Creative Studio", "purple", "Creative Solutions That Work", "We create stunning designs and digital experiences that convert"}},
	{"fitness", Variant{"FitLife", "green", "Transform Your Body & Mind", "Join our community and achieve your fitness goals with expert guidance"}},
}

var defaultVariant = Variant{"Your Business", "blue", "Transform Your Business Today", "Discover powerful solutions that drive growth and success"}

func variantFor(lower string) Variant {
	for _, v := range variants {
		if strings.Contains(lower, v.marker) {
			return v.Variant
		}
	}
	return defaultVariant
}

