package templates

type feature struct {
	Icon, Title, Description string
}

type testimonial struct {
	Name, Role, Quote, Avatar string
}

var sample = struct {
	Headline        string
	Subheadline     string
	PrimaryAction   string
	SecondaryAction string
	CourseImage     string
	Features        []feature
	Testimonials    []testimonial
}{
	Headline:        "Transform Your Business Today",
	Subheadline:     "Discover the power of AI-driven solutions that will revolutionize your workflow and boost your productivity",
	PrimaryAction:   "Get Started",
	SecondaryAction: "Learn More",
	CourseImage:     "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=800&h=600&fit=crop",
	Features: []feature{
		{"🚀", "Lightning Fast", "Experience incredible speed and performance with our optimized solution."},
		{"⚡", "Easy to Use", "Intuitive interface designed for both beginners and professionals."},
		{"🎯", "Precise Results", "Get exactly what you need with our precision-engineered tools."},
	},
	Testimonials: []testimonial{
		{"Sarah Johnson", "CEO, TechCorp", "This solution transformed our business completely. Highly recommended!", "https://images.unsplash.com/photo-1494790108755-2616b612b786?w=100&h=100&fit=crop&crop=face"},
		{"Mike Chen", "CTO, StartupXYZ", "Amazing results in just a few weeks. The team is fantastic!", "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=100&h=100&fit=crop&crop=face"},
		{"Lisa Wang", "Designer, CreativeStudio", "The user experience is incredible. Our clients love it!", "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=100&h=100&fit=crop&crop=face"},
	},
}

type rentalCategory struct {
	Title, Description, Icon string
	Count                    int
}

var rentalCategories = []rentalCategory{
	{"Luxury Apartments", "Premium living spaces with high-end amenities", "🏙️", 124},
	{"Studio Flats", "Compact and efficient living for individuals", "🏠", 89},
	{"Family Homes", "Spacious units perfect for growing families", "👨‍👩‍👧‍👦", 67},
	{"Student Housing", "Affordable options near universities", "🎓", 112},
	{"Short-Term Rentals", "Flexible stays for travelers and professionals", "⏱️", 203},
	{"Pet-Friendly", "Homes that welcome your furry friends", "🐕", 56},
}

type product struct {
	Name, Price, Image, Category string
}

var products = []product{
	{"Elegant Summer Dress", "$89.99", "https://images.unsplash.com/photo-1515372039744-b8f02a3ae446?w=400&h=500&fit=crop", "Dresses"},
	{"Classic Denim Jacket", "$129.99", "https://images.unsplash.com/photo-1544966503-7cc5ac882d5f?w=400&h=500&fit=crop", "Outerwear"},
	{"Designer Handbag", "$199.99", "https://images.unsplash.com/photo-1584917865442-de89df76afd3?w=400&h=500&fit=crop", "Accessories"},
}
