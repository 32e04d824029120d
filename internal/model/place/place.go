package place

// Coordinate is a WGS84 point as reported by the location backend.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Feed is the decoded /api/places payload: the user's position plus the
// named pins around it.
type Feed struct {
	Origin Coordinate            `json:"origin"`
	Places map[string]Coordinate `json:"places"`
}

// TapResult is the decoded /api/place_tapped payload.
type TapResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Accepted reports whether the backend acknowledged the tap. Only accepted
// taps may rewrite a session's bot sender label.
func (t TapResult) Accepted() bool { return t.Status == "success" }
