package models

import (
	"database/sql"
	"time"
)

// MatchRecord is one row of the matches table
type MatchRecord struct {
	ID           string         `db:"id" json:"id"`
	PlayerTop    string         `db:"player_top" json:"player_top"`
	PlayerBottom string         `db:"player_bottom" json:"player_bottom"`
	HasBot       bool           `db:"has_bot" json:"has_bot"`
	Status       string         `db:"status" json:"status"`
	WinnerID     sql.NullString `db:"winner_id" json:"winner_id,omitempty"`
	Reason       sql.NullString `db:"reason" json:"reason,omitempty"`
	TopScore     int            `db:"top_score" json:"top_score"`
	BottomScore  int            `db:"bottom_score" json:"bottom_score"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	CompletedAt  sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}

// MatchMove is an accepted claim or flick
type MatchMove struct {
	ID         int       `db:"id" json:"id"`
	MatchID    string    `db:"match_id" json:"match_id"`
	PlayerID   string    `db:"player_id" json:"player_id"`
	MoveNumber int       `db:"move_number" json:"move_number"`
	MoveType   string    `db:"move_type" json:"move_type"`
	Payload    string    `db:"payload" json:"payload"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// MatchResult is a player's result in a finished match
type MatchResult struct {
	MatchID    string    `db:"match_id" json:"match_id"`
	PlayerID   string    `db:"player_id" json:"player_id"`
	Result     string    `db:"result" json:"result"`
	Score      int       `db:"score" json:"score"`
	Reason     string    `db:"reason" json:"reason"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// Match status values
const (
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
	MatchStatusExpired   = "expired"
)

// RuntimeConfig is an operator override of a Config value
type RuntimeConfig struct {
	Key         string         `db:"key" json:"key"`
	Value       string         `db:"value" json:"value"`
	ValueType   string         `db:"value_type" json:"value_type"`
	Description string         `db:"description" json:"description"`
	UpdatedBy   sql.NullString `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit is one admin action
type AdminAudit struct {
	ID        int       `db:"id" json:"id"`
	IP        string    `db:"ip" json:"ip"`
	Route     string    `db:"route" json:"route"`
	Action    string    `db:"action" json:"action"`
	Details   string    `db:"details" json:"details"`
	Success   bool      `db:"success" json:"success"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
