package dto

type LeaderboardEntry struct {
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	Position  int     `json:"position"`
	Points    int     `json:"points"`
}
