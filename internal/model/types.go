// Package model defines shared data structures.
package model

// Exercise is a passage together with the questions asked about it.
type Exercise struct {
	Passage   Passage    `json:"passage"`
	Questions []Question `json:"questions"`
}

// Passage is the reading text of an exercise.
type Passage struct {
	Title   string     `json:"title"`
	Meta    []MetaItem `json:"meta,omitempty"`
	Content Content    `json:"content"`
}

// MetaItem is a header line such as Subject or Date.
type MetaItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Option is one labeled answer choice.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple-choice question about the passage.
type Question struct {
	ID          int      `json:"id"`
	Text        string   `json:"text"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation"`
	Options     []Option `json:"options"`
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Question returns the question with the given id.
func (e Exercise) Question(id int) (Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// SentenceQuestion is the Part 5 sentence-completion shape.
type SentenceQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Panel identifies which half of the practice screen has focus.
type Panel string

// Panels.
const (
	PanelPassage   Panel = "passage"
	PanelQuestions Panel = "questions"
)

// Config defines practice settings.
type Config struct {
	NarrowWidth int
	Key         string
	Topic       string
}

// GeneratorConfig defines how the generation service is reached.
type GeneratorConfig struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// CatalogConfig selects and configures the catalog backend.
type CatalogConfig struct {
	Backend   string
	Dir       string
	DBPath    string
	RedisAddr string
	RedisDB   int
}

// ServerConfig defines the HTTP surface settings.
type ServerConfig struct {
	Addr           string
	LogMode        string
	AllowedOrigins []string
}
