package domain

// Category is the closed set of article categories produced by the classifier.
type Category string

const (
	CategoryTechnology    Category = "TECHNOLOGY"
	CategoryBusiness      Category = "BUSINESS"
	CategorySports        Category = "SPORTS"
	CategoryPolitics      Category = "POLITICS"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryHealth        Category = "HEALTH"
	CategoryScience       Category = "SCIENCE"
	// CategoryLifestyle is only produced by the enhanced classifier.
	CategoryLifestyle Category = "LIFESTYLE"
)

// Categories returns the categories the standard classifier may produce.
func Categories() []Category {
	return []Category{
		CategoryTechnology,
		CategoryBusiness,
		CategorySports,
		CategoryPolitics,
		CategoryEntertainment,
		CategoryHealth,
		CategoryScience,
	}
}

// Sentiment labels produced by the classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ClassificationResult is the structured output of the standard classifier.
// Its fields are flattened onto Article on write; it is never persisted
// as its own entity.
type ClassificationResult struct {
	Category       string   `json:"category"`
	Subcategory    string   `json:"subcategory"`
	Sentiment      string   `json:"sentiment"`
	Keywords       []string `json:"keywords"`
	RelevanceScore int      `json:"relevance_score"`
}

// Entities groups named entities extracted by the enhanced classifier.
type Entities struct {
	People       []string `json:"people"`
	Companies    []string `json:"companies"`
	Locations    []string `json:"locations"`
	Technologies []string `json:"technologies"`
}

// EnhancedClassificationResult is the richer output of the enhanced classifier.
type EnhancedClassificationResult struct {
	Category          string   `json:"category"`
	Subcategory       string   `json:"subcategory"`
	Sentiment         string   `json:"sentiment"`
	SentimentScore    float64  `json:"sentiment_score"`
	Keywords          []string `json:"keywords"`
	Entities          Entities `json:"entities"`
	OneLineSummary    string   `json:"one_line_summary"`
	KeyPoints         []string `json:"key_points"`
	InstagramWorthy   bool     `json:"instagram_worthy"`
	VisualSuggestion  string   `json:"visual_suggestion"`
	TargetAudience    string   `json:"target_audience"`
	RelevanceScore    int      `json:"relevance_score"`
	TrendingPotential int      `json:"trending_potential"`
	Language          string   `json:"language"`
}

// ArticleSummary is the output of the executive summary generator.
type ArticleSummary struct {
	ExecutiveSummary string `json:"executive_summary"`
	TLDR             string `json:"tldr"`
	MainTakeaway     string `json:"main_takeaway"`
	CallToAction     string `json:"call_to_action"`
}
