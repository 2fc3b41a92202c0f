package hospitals

// Hospital is one referral candidate near the caller location.
type Hospital struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Distance       string  `json:"distance"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization"`
	Rating         float64 `json:"rating"`
}

// Location value object
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
