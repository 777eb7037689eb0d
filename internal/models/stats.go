package models

// StoreCounts reports collection sizes for /metrics
type StoreCounts struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
}
