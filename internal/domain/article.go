package domain

import "time"

type Article struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	URL           string     `json:"url"`
	Source        string     `json:"source"`
	SourceType    string     `json:"sourceType"`
	AiScore       float64    `json:"aiScore"`
	AiRelevant    bool       `json:"aiRelevant"`
	AiReason      string     `json:"aiReason"`
	WordCount     int        `json:"wordCount"`
	Status        string     `json:"status"` // processed, filtered, selected, published
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	ScrapedDate   time.Time  `json:"scrapedDate"`
	CreatedAt     time.Time  `json:"createdAt"`
}
