package model

import "time"

type Subject struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Credits   int       `json:"credits"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}
