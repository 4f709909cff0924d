package model

type Slot struct {
	Time        string `json:"time"`
	CourtNumber int    `json:"court_number"`
	Available   bool   `json:"available"`
}

type DayAvailability struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}
