package server

type EventPayload struct {
	GameID      string `json:"game_id,omitempty"`
	InviteCode  string `json:"invite_code,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Username    string `json:"username,omitempty"`
	RoundNumber int    `json:"round_number,omitempty"`
	Status      string `json:"status,omitempty"`
	VotedForID  string `json:"voted_for_id,omitempty"`
	VotedOutID  string `json:"voted_out_id,omitempty"`
	Winner      string `json:"winner,omitempty"`
	Correct     bool   `json:"correct,omitempty"`
	Points      int    `json:"points,omitempty"`
	Imposters   int    `json:"imposters,omitempty"`
	EnteredBy   string `json:"entered_by,omitempty"`
}
