package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Author    *User
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
