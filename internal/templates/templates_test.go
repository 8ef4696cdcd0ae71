package templates

import (
	"reflect"
	"strings"
	"testing"

	"genesis-backend/internal/ui"
)

func TestSelectCategories(t *testing.T) {
	tests := []struct {
		snippet string
		want    string
		heading string
	}{
		{"const ApartmentRentalLanding = () => <div/>", Rental, "Find Your Perfect Home"},
		{"a cozy RENTAL page", Rental, "Find Your Perfect Home"},
		{"function Shop( {", Commerce, "FashionHub"},
		{"<div>Our Product line", Commerce, "FashionHub"},
		{"Videmy course landing", Education, "Videmy"},
		{"const Hero = (", Hero, sample.Headline},
		{`<section className="bg-gradient-to-r">`, Hero, sample.Headline},
		{"Launch Your startup", Hero, sample.Headline},
		{"const FeatureGrid = 1", Features, "Amazing Features"},
		{"<Testimonials />", Testimonials, "What Our Customers Say"},
		{"", Generic, "Your Business"},
	}

	for _, tt := range tests {
		got := Select(tt.snippet)
		if got.Name != tt.want {
			t.Errorf("Select(%q).Name = %q, want %q", tt.snippet, got.Name, tt.want)
			continue
		}
		if !strings.Contains(got.Root.TextContent(), tt.heading) {
			t.Errorf("Select(%q) text does not contain %q", tt.snippet, tt.heading)
		}
	}
}

func TestSelectPrecedence(t *testing.T) {
	// rental beats commerce, commerce beats hero
	if got := Select("apartment store hero").Name; got != Rental {
		t.Errorf("got %q, want %q", got, Rental)
	}
	if got := Select("HeroShop").Name; got != Commerce {
		t.Errorf("got %q, want %q", got, Commerce)
	}
}

func TestGenericVariants(t *testing.T) {
	tests := []struct {
		snippet  string
		business string
		accent   string
		headline string
	}{
		{"Restaurant menu", "Delicious Bites", "orange", "Exceptional Dining Experience"},
		{"a saas dashboard", "CloudApp", "blue", "Streamline Your Workflow"},
		{"design agency", "Creative Studio", "purple", "Creative Solutions That Work"},
		{"Fitness club", "FitLife", "green", "Transform Your Body & Mind"},
		{"bakery", "Your Business", "blue", "Transform Your Business Today"},
	}

	for _, tt := range tests {
		got := Select(tt.snippet)
		if got.Name != Generic {
			t.Fatalf("Select(%q).Name = %q, want generic", tt.snippet, got.Name)
		}
		title := got.Root.FindTag("h1")
		if title == nil || title.TextContent() != tt.business {
			t.Errorf("Select(%q) business heading = %v, want %q", tt.snippet, title, tt.business)
		}
		accented := got.Root.Find(func(n *ui.Node) bool {
			c, _ := n.Attr("class")
			return strings.Contains(c, "bg-"+tt.accent+"-600")
		})
		if accented == nil {
			t.Errorf("Select(%q) has no %s accent", tt.snippet, tt.accent)
		}
		if !strings.Contains(got.Root.TextContent(), tt.headline) {
			t.Errorf("Select(%q) missing headline %q", tt.snippet, tt.headline)
		}
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	for _, s := range []string{"", "hero", "shop", "restaurant", "{{{ broken"} {
		a, b := Select(s), Select(s)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Select(%q) differs between calls", s)
		}
		if a.Root == b.Root {
			t.Errorf("Select(%q) shares the tree between calls", s)
		}
	}
}

func TestTemplatesRenderToHTML(t *testing.T) {
	for _, snippet := range []string{"apartment", "shop", "course", "hero", "feature", "testimonial", "agency"} {
		a := Select(snippet)
		out, err := ui.SafeHTML(a.Root)
		if err != nil {
			t.Fatalf("SafeHTML(%s): %v", a.Name, err)
		}
		if out == "" || strings.Contains(out, "<script") {
			t.Errorf("unexpected html for %s: %q", a.Name, out)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 7 || names[0] != Rental || names[len(names)-1] != Generic {
		t.Errorf("Names() = %v", names)
	}
}
