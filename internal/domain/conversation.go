package domain

// Turn is one message of a conversation. Emotion is empty when the turn
// was never classified.
type Turn struct {
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Emotion Emotion `json:"emotion,omitempty"`
}

// Exercise is a read-only entry of the therapeutic exercise catalog.
type Exercise struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration"`
	Steps           []string `json:"steps"`
}

// WordCount is one entry of the top-words ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Progress summarizes one session's conversation log.
type Progress struct {
	EmotionDistribution map[Emotion]int `json:"emotionDistribution"`
	TopWords            []WordCount     `json:"topWords"`
	SessionCount        int             `json:"sessionCount"`
	AvgMessageLength    float64         `json:"avgMessageLength"`
}
