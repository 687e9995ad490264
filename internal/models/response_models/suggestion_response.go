package response_models

type PlaceSuggestion struct {
	Place       string `json:"place"`
	Description string `json:"description"`
}

type CityPlaceSuggestion struct {
	City        string `json:"city"`
	Place       string `json:"place"`
	Description string `json:"description"`
}

type CityPrediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}
