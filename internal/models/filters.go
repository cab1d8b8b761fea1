package models

// ArticleFilter narrows the recent-articles query. Zero values mean "no filter".
type ArticleFilter struct {
	Relevant *bool
	Status   string
	Limit    int
}
