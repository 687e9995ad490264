package request_models

type SuggestPlacesRequest struct {
	City      string `json:"city"`
	Interests string `json:"interests"`
}

type SuggestedPlacesRequest struct {
	Cities []string `json:"cities"`
	Vibe   string   `json:"vibe"`
}
