package models

// QCode represents a single Q-code and its meaning
type QCode struct {
	Code    string `json:"code"`
	Meaning string `json:"meaning"`
}
