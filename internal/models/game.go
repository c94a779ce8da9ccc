package models

import "github.com/google/uuid"

type Game struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	MinPlayer   int
	MaxPlayer   int
}
