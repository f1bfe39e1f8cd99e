package domain

import "time"

type Activity struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PointsPerPlay int       `json:"points_per_play"`
	CreatedAt     time.Time `json:"created_at"`
}

type PlaySession struct {
	ID         uint      `json:"id"`
	ActivityID uint      `json:"activity_id"`
	PersonID   uint      `json:"person_id"`
	Score      int       `json:"score"`
	PlayedAt   time.Time `json:"played_at"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Person Person `json:"person"`
	Points int    `json:"points"`
}

type HighScore struct {
	Rank     int         `json:"rank"`
	Username string      `json:"username"`
	Session  PlaySession `json:"session"`
}
