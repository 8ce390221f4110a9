package models

type VoteRequest struct {
	Value int `json:"value"`
}

// RatingResponse is the aggregated deal thermometer for one offer. Level is
// the PT-BR label bucket derived from the average.
type RatingResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Level   string  `json:"level"`
}

type UserVoteResponse struct {
	Value *int `json:"value"`
}
