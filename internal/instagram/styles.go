package instagram

import "newsgram/internal/domain"

// Style sets the tone, emoji palette, and base hashtags for one category.
type Style struct {
	Tone     string
	Emojis   []string
	Hashtags []string
}

// categoryStyles maps each classifier category to its caption style.
// Unknown categories fall back to the TECHNOLOGY style.
var categoryStyles = map[domain.Category]Style{
	domain.CategoryTechnology: {
		Tone:     "informative, exciting",
		Emojis:   []string{"🚀", "💡", "🔬", "⚡"},
		Hashtags: []string{"#TechNews", "#Innovation", "#FutureTech"},
	},
	domain.CategoryBusiness: {
		Tone:     "professional, insightful",
		Emojis:   []string{"📈", "💼", "💰", "🎯"},
		Hashtags: []string{"#BusinessNews", "#Finance", "#Markets"},
	},
	domain.CategorySports: {
		Tone:     "energetic, passionate",
		Emojis:   []string{"⚽", "🏀", "🏆", "🔥"},
		Hashtags: []string{"#Sports", "#Athletics", "#GameDay"},
	},
	domain.CategoryPolitics: {
		Tone:     "balanced, informative",
		Emojis:   []string{"🗳️", "🌍", "📰", "⚖️"},
		Hashtags: []string{"#Politics", "#News", "#WorldNews"},
	},
	domain.CategoryEntertainment: {
		Tone:     "fun, engaging",
		Emojis:   []string{"🎬", "🎭", "🎵", "✨"},
		Hashtags: []string{"#Entertainment", "#PopCulture", "#Trending"},
	},
	domain.CategoryHealth: {
		Tone:     "caring, informative",
		Emojis:   []string{"💚", "🧘", "💪", "🏥"},
		Hashtags: []string{"#Health", "#Wellness", "#Healthcare"},
	},
	domain.CategoryScience: {
		Tone:     "curious, educational",
		Emojis:   []string{"🔬", "🧪", "🌌", "🧬"},
		Hashtags: []string{"#Science", "#Research", "#Discovery"},
	},
}

// StyleFor returns the caption style for a category.
func StyleFor(category string) Style {
	if style, ok := categoryStyles[domain.Category(category)]; ok {
		return style
	}
	return categoryStyles[domain.CategoryTechnology]
}
