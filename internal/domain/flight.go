package domain

type Flight struct {
	Number      string `json:"number"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
}

type WaitlistEntry struct {
	Passenger    Passenger `json:"passenger"`
	DesiredClass SeatClass `json:"desired_class"`
}
