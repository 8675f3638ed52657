package category

type CategoryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}
