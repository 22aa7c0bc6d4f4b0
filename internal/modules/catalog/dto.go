package catalog

type SearchParams struct {
	Query    string
	Location string
	Name     string
	Guests   int
	Date     string
	Sort     string
}

type ReindexResult struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}
