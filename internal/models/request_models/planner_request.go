package request_models

type ValueRequest struct {
	Value string `json:"value"`
}

type IntermediateCitiesRequest struct {
	Cities []string `json:"cities"`
}

type AddCityRequest struct {
	City string `json:"city"`
}

// SelectCityRequest deselects when City is null.
type SelectCityRequest struct {
	City *string `json:"city"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MapViewRequest struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

type PlaceRequest struct {
	City        string `json:"city"`
	Place       string `json:"place"`
	Description string `json:"description"`
}
