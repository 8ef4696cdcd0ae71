package templates

import (
	"fmt"
	"strings"

	"genesis-backend/internal/ui"
)

func h(tag, class string, children ...*ui.Node) *ui.Node {
	if class == "" {
		return ui.El(tag, nil, children...)
	}
	return ui.El(tag, ui.Class(class), children...)
}

func t(s string) *ui.Node {
	return ui.Text(s)
}

func link(class, label string) *ui.Node {
	return ui.El("a", ui.A("href", "#", "class", class), t(label))
}

func header(initial, name, accent, action string, nav ...string) *ui.Node {
	links := make([]*ui.Node, 0, len(nav))
	for _, n := range nav {
		links = append(links, link(fmt.Sprintf("text-gray-600 hover:text-%s-600", accent), n))
	}
	return h("header", "bg-white shadow-sm",
		h("div", "container mx-auto px-4 py-4 flex justify-between items-center",
			h("div", "flex items-center",
				h("div", fmt.Sprintf("w-10 h-10 bg-%s-600 rounded-lg flex items-center justify-center mr-3", accent),
					h("span", "text-white font-bold text-xl", t(initial))),
				h("h1", "text-2xl font-bold text-gray-800", t(name))),
			h("nav", "hidden md:flex space-x-8", links...),
			h("button", fmt.Sprintf("bg-%s-600 hover:bg-%s-700 text-white px-6 py-2 rounded-lg font-medium transition-colors", accent, accent), t(action))))
}

func footer(initial, name, accent, blurb string) *ui.Node {
	year := "© 2024 " + name + ". All rights reserved."
	return h("footer", "bg-gray-800 text-white py-8 md:py-12",
		h("div", "container mx-auto px-4",
			h("div", "flex items-center mb-4",
				h("div", fmt.Sprintf("w-8 h-8 bg-%s-600 rounded-lg flex items-center justify-center mr-3", accent),
					h("span", "text-white font-bold", t(initial))),
				h("h3", "text-xl font-bold", t(name))),
			h("p", "text-gray-300 mb-4 max-w-md", t(blurb)),
			h("div", "border-t border-gray-700 mt-8 pt-8 text-center text-sm text-gray-400", t(year))))
}

func featureCards(class, iconBox string, items []feature) *ui.Node {
	cards := make([]*ui.Node, 0, len(items))
	for _, f := range items {
		cards = append(cards, h("div", class,
			h("div", iconBox, h("span", "text-xl", t(f.Icon))),
			h("h3", "text-xl font-semibold text-gray-900 mb-2", t(f.Title)),
			h("p", "text-gray-600", t(f.Description))))
	}
	return h("div", "grid grid-cols-1 md:grid-cols-3 gap-8", cards...)
}

func testimonialCards(items []testimonial) *ui.Node {
	cards := make([]*ui.Node, 0, len(items))
	for _, r := range items {
		cards = append(cards, h("div", "bg-white p-8 rounded-xl shadow-sm hover:shadow-md transition-shadow",
			h("div", "flex items-center mb-4",
				ui.El("img", ui.A("src", r.Avatar, "alt", r.Name, "class", "w-12 h-12 rounded-full mr-4 object-cover")),
				h("div", "",
					h("h4", "font-semibold text-gray-900", t(r.Name)),
					h("p", "text-gray-500 text-sm", t(r.Role)))),
			h("p", "text-gray-600 italic", t(`"`+r.Quote+`"`))))
	}
	return h("div", "grid grid-cols-1 lg:grid-cols-3 gap-8", cards...)
}

func rentalPage() *ui.Node {
	cards := make([]*ui.Node, 0, len(rentalCategories))
	for _, c := range rentalCategories {
		cards = append(cards, h("div", "bg-white rounded-xl shadow-md overflow-hidden hover:shadow-lg transition-shadow duration-300",
			h("div", "p-6 md:p-8",
				h("div", "text-4xl mb-4", t(c.Icon)),
				h("h3", "text-xl md:text-2xl font-semibold text-gray-900 mb-2", t(c.Title)),
				h("p", "text-gray-600 mb-4", t(c.Description)),
				h("div", "flex justify-between items-center",
					h("span", "text-sm font-medium text-gray-500", t(fmt.Sprintf("%d properties", c.Count))),
					h("button", "text-blue-600 hover:text-blue-800 font-medium transition-colors", t("View all →"))))))
	}

	return h("div", "",
		h("section", "relative h-96 md:h-screen max-h-[800px] w-full",
			h("div", "absolute inset-0 bg-black/30 z-10"),
			ui.El("img", ui.A(
				"src", "https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?auto=format&fit=crop&w=1470&q=80",
				"alt", "Luxury apartment view",
				"class", "w-full h-full object-cover")),
			h("div", "absolute inset-0 z-20 flex flex-col justify-center items-center text-center px-4",
				h("h1", "text-4xl md:text-6xl lg:text-7xl font-bold text-white mb-4 md:mb-6", t("Find Your Perfect Home")),
				h("p", "text-xl md:text-2xl text-white mb-8 max-w-2xl", t("Discover premium apartments and homes across the city")),
				h("div", "flex flex-col sm:flex-row gap-4 w-full max-w-md",
					ui.El("input", ui.A("type", "text", "placeholder", "Search by location...",
						"class", "flex-grow px-4 py-3 rounded-lg focus:outline-none focus:ring-2 focus:ring-blue-500")),
					h("button", "bg-blue-600 hover:bg-blue-700 text-white px-6 py-3 rounded-lg font-semibold transition-colors", t("Search"))))),
		h("section", "py-12 md:py-20 lg:py-24 px-4 md:px-6 lg:px-8 bg-gray-50",
			h("div", "container mx-auto",
				h("div", "text-center mb-12 md:mb-16",
					h("h2", "text-3xl md:text-4xl lg:text-5xl font-bold text-gray-900 mb-4", t("Browse By Category")),
					h("p", "text-lg md:text-xl text-gray-600 max-w-2xl mx-auto", t("Find the perfect rental that matches your lifestyle and needs"))),
				h("div", "grid grid-cols-1 sm:grid-cols-2 lg:grid-cols-3 gap-6 md:gap-8", cards...))),
		footer("H", "HomeRent", "blue",
			"Find your perfect home with our comprehensive rental platform. Quality properties, trusted landlords, seamless experience."))
}

func commercePage() *ui.Node {
	cards := make([]*ui.Node, 0, len(products))
	for _, p := range products {
		cards = append(cards, h("div", "bg-white rounded-lg shadow-md overflow-hidden hover:shadow-lg transition-shadow",
			ui.El("img", ui.A("src", p.Image, "alt", p.Name, "class", "w-full h-64 object-cover")),
			h("div", "p-4",
				h("p", "text-sm text-gray-500 mb-1", t(p.Category)),
				h("h3", "text-lg font-semibold text-gray-800 mb-2", t(p.Name)),
				h("div", "flex justify-between items-center",
					h("span", "text-xl font-bold text-pink-600", t(p.Price)),
					h("button", "bg-pink-600 hover:bg-pink-700 text-white px-4 py-2 rounded-lg text-sm font-medium transition-colors", t("Add to Cart"))))))
	}

	return h("div", "min-h-screen bg-gray-50",
		header("F", "FashionHub", "pink", "Shop Now", "Women", "Men", "Accessories", "Sale"),
		h("section", "py-12 md:py-20 bg-gradient-to-r from-pink-500 to-purple-600 text-white",
			h("div", "container mx-auto px-4 text-center",
				h("h1", "text-3xl md:text-5xl lg:text-6xl font-bold mb-4 md:mb-6", t("Discover Your Style")),
				h("p", "text-lg md:text-xl mb-6 md:mb-8 max-w-2xl mx-auto",
					t("Explore our curated collection of premium fashion pieces that define elegance and comfort.")),
				h("div", "flex flex-col sm:flex-row gap-4 justify-center",
					h("button", "bg-white text-pink-600 px-6 md:px-8 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors", t("Shop Collection")),
					h("button", "border-2 border-white text-white px-6 md:px-8 py-3 rounded-lg font-semibold hover:bg-white hover:text-pink-600 transition-colors", t("View Lookbook"))))),
		h("section", "py-12 md:py-16 bg-white",
			h("div", "container mx-auto px-4",
				h("h2", "text-2xl md:text-3xl font-bold text-center mb-8 md:mb-12 text-gray-800", t("Featured Products")),
				h("div", "grid grid-cols-1 md:grid-cols-3 gap-6 md:gap-8", cards...))),
		h("section", "py-12 md:py-16 bg-gray-100",
			h("div", "container mx-auto px-4 text-center",
				h("h2", "text-2xl md:text-3xl font-bold mb-4 text-gray-800", t("Stay in Style")),
				h("p", "text-gray-600 mb-6 md:mb-8 max-w-2xl mx-auto",
					t("Subscribe to our newsletter and be the first to know about new collections and exclusive offers.")),
				h("div", "flex flex-col sm:flex-row gap-4 justify-center max-w-md mx-auto",
					ui.El("input", ui.A("type", "email", "placeholder", "Enter your email",
						"class", "flex-1 px-4 py-3 rounded-lg border border-gray-300 focus:outline-none focus:ring-2 focus:ring-pink-500")),
					h("button", "bg-pink-600 hover:bg-pink-700 text-white px-6 py-3 rounded-lg font-medium transition-colors", t("Subscribe"))))),
		footer("F", "FashionHub", "pink",
			"Your destination for premium fashion. Discover the latest trends and timeless pieces."))
}

var courseHighlights = []string{
	"Learn from industry experts",
	"Hands-on coding exercises",
	"Real-world projects",
	"Certificate of completion",
	"Lifetime access to materials",
}

func educationPage() *ui.Node {
	why := []feature{
		{"👨‍🏫", "Expert Instructors", "Learn from industry professionals with years of real-world experience."},
		{"📚", "Comprehensive Curriculum", "From basics to advanced topics, our curriculum covers everything you need."},
		{"💻", "Hands-on Projects", "Build real-world projects that you can showcase in your portfolio."},
	}

	highlights := make([]*ui.Node, 0, len(courseHighlights))
	for _, s := range courseHighlights {
		highlights = append(highlights, h("li", "flex items-center text-sm",
			ui.El("svg", ui.A("class", "w-4 h-4 text-green-500 mr-2 flex-shrink-0", "fill", "none", "stroke", "currentColor", "viewBox", "0 0 24 24"),
				ui.El("path", ui.A("stroke-linecap", "round", "stroke-linejoin", "round", "stroke-width", "2", "d", "M5 13l4 4L19 7"))),
			t(s)))
	}

	return h("div", "min-h-screen bg-gray-50",
		header("V", "Videmy", "blue", "Enroll Now", "Features", "Curriculum", "Testimonials", "FAQ"),
		h("main", "",
			h("section", "py-20 bg-gradient-to-r from-blue-500 to-indigo-600 text-white",
				h("div", "container mx-auto px-4 text-center",
					h("h1", "text-4xl md:text-5xl font-bold mb-6", t("Launch Your Programming Career Today")),
					h("p", "text-xl mb-8 max-w-2xl mx-auto",
						t("Master in-demand programming skills with our comprehensive courses designed for beginners and intermediate learners.")),
					h("div", "flex flex-col sm:flex-row justify-center gap-4",
						h("button", "bg-white text-blue-600 px-8 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors", t("Enroll Now - ₦20,000")),
						h("button", "bg-transparent border-2 border-white px-8 py-3 rounded-lg font-semibold hover:bg-white hover:text-blue-600 transition-colors", t("View Curriculum"))))),
			h("section", "py-16 bg-white",
				h("div", "container mx-auto px-4",
					h("h2", "text-3xl font-bold text-center mb-12 text-gray-800", t("Why Choose Videmy?")),
					featureCards("text-center p-6", "w-16 h-16 bg-blue-100 rounded-full flex items-center justify-center mx-auto mb-4", why))),
			h("section", "py-16 bg-gray-50",
				h("div", "container mx-auto px-4",
					h("h2", "text-3xl font-bold text-center mb-12 text-gray-800", t("What Our Students Say")),
					testimonialCards(sample.Testimonials))),
			h("section", "py-12 md:py-16 bg-white",
				h("div", "container mx-auto px-4",
					h("h2", "text-2xl md:text-3xl font-bold text-center mb-8 md:mb-12 text-gray-800", t("Featured Course")),
					h("div", "max-w-sm mx-auto",
						h("div", "bg-white rounded-xl shadow-lg overflow-hidden hover:shadow-xl transition-shadow duration-300",
							ui.El("img", ui.A("src", sample.CourseImage, "alt", "Programming Course", "class", "w-full h-48 object-cover")),
							h("div", "p-6",
								h("h3", "text-xl md:text-2xl font-bold text-gray-800 mb-2", t("Complete Web Development")),
								h("p", "text-gray-600 mb-4", t("Master HTML, CSS, JavaScript, React, and Node.js in this comprehensive course.")),
								h("ul", "mb-6 space-y-2", highlights...),
								h("div", "flex items-center justify-between",
									h("span", "text-xl md:text-2xl font-bold text-gray-800", t("₦20,000")),
									h("button", "bg-blue-600 hover:bg-blue-700 text-white px-4 md:px-6 py-2 rounded-lg font-medium transition-colors text-sm md:text-base", t("Enroll Now")))))))),
			h("section", "py-12 md:py-16 bg-blue-600 text-white",
				h("div", "container mx-auto px-4 text-center",
					h("h2", "text-2xl md:text-3xl lg:text-4xl font-bold mb-4 md:mb-6", t("Ready to Start Your Journey?")),
					h("p", "text-lg md:text-xl mb-6 md:mb-8 max-w-2xl mx-auto",
						t("Join thousands of students who've already transformed their careers with Videmy.")),
					h("button", "bg-white text-blue-600 px-6 md:px-8 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors", t("Enroll Now - ₦20,000"))))),
		footer("V", "Videmy", "blue",
			"Empowering learners worldwide with quality programming education and practical skills."))
}

func heroSection() *ui.Node {
	return h("section", "bg-gradient-to-r from-blue-500 to-purple-600 text-white py-20",
		h("div", "container mx-auto px-4 text-center",
			h("h1", "text-5xl font-bold mb-6", t(sample.Headline)),
			h("p", "text-xl mb-8 max-w-2xl mx-auto", t(sample.Subheadline)),
			h("div", "flex flex-col sm:flex-row gap-4 justify-center",
				h("button", "bg-white text-blue-600 px-8 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors", t(sample.PrimaryAction)),
				h("button", "border-2 border-white text-white px-8 py-3 rounded-lg font-semibold hover:bg-white hover:text-blue-600 transition-colors", t(sample.SecondaryAction)))))
}

func featuresSection() *ui.Node {
	return h("section", "py-16 bg-white",
		h("div", "container mx-auto px-4",
			h("h2", "text-3xl font-bold text-center text-gray-900 mb-12", t("Amazing Features")),
			featureCards("bg-gray-50 p-8 rounded-xl hover:shadow-md transition-shadow",
				"w-12 h-12 bg-blue-100 rounded-lg flex items-center justify-center mb-4", sample.Features)))
}

func testimonialsSection() *ui.Node {
	return h("section", "py-16 bg-gray-50",
		h("div", "container mx-auto px-4",
			h("h2", "text-3xl font-bold text-center text-gray-900 mb-12", t("What Our Customers Say")),
			testimonialCards(sample.Testimonials)))
}

func genericPage(v Variant) *ui.Node {
	initial := strings.ToUpper(v.Business[:1])
	accent := v.Accent

	return h("div", "min-h-screen bg-gradient-to-b from-gray-50 to-white",
		header(initial, v.Business, accent, "Get Started", "About", "Services", "Contact"),
		h("section", fmt.Sprintf("py-12 md:py-20 bg-gradient-to-r from-%s-500 to-%s-600 text-white", accent, accent),
			h("div", "container mx-auto px-4 text-center",
				h("h1", "text-3xl md:text-5xl lg:text-6xl font-bold mb-4 md:mb-6", t(v.Headline)),
				h("p", "text-lg md:text-xl mb-6 md:mb-8 max-w-2xl mx-auto", t(v.Subtitle)),
				h("div", "flex flex-col sm:flex-row gap-4 justify-center",
					h("button", fmt.Sprintf("bg-white text-%s-600 px-6 md:px-8 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors", accent), t("Get Started")),
					h("button", "border-2 border-white text-white px-6 md:px-8 py-3 rounded-lg font-semibold hover:bg-white hover:text-blue-600 transition-colors", t("Learn More"))))),
		h("section", "py-12 md:py-16 bg-white",
			h("div", "container mx-auto px-4",
				h("h2", "text-2xl md:text-3xl font-bold text-center mb-8 md:mb-12 text-gray-800", t("Why Choose Us")),
				featureCards("bg-gray-50 p-6 md:p-8 rounded-xl hover:shadow-md transition-shadow text-center",
					fmt.Sprintf("w-12 h-12 bg-%s-100 rounded-lg flex items-center justify-center mx-auto mb-4", accent), sample.Features))),
		h("section", fmt.Sprintf("py-12 md:py-16 bg-%s-600 text-white", accent),
			h("div", "container mx-auto px-4 text-center",
				h("h2", "text-2xl md:text-3xl lg:text-4xl font-bold mb-4 md:mb-6", t("Ready to Get Started?")),
				h("p", "text-lg md:text-xl mb-6 md:mb-8 max-w-2xl mx-auto",
					t("Join thousands of satisfied customers who've already transformed their experience with us.")),
				h("button", fmt.Sprintf("bg-white text-%s-600 px-6 md:px-8 py-3 rounded-lg font-semibold hover:bg-gray-100 transition-colors", accent), t("Get Started Today")))),
		footer(initial, v.Business, accent,
			"Your trusted partner for innovative solutions and exceptional service."))
}
