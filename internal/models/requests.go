package models

import "github.com/google/uuid"

// RegisterRequest is the JSON body for POST /api/auth/signup.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=255"`
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username  string `json:"username" validate:"required,max=255"`
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// GatheringInput is one requested occurrence, dates as YYYY-MM-DD and times as HH:MM.
type GatheringInput struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

// CreatePlanInput is the JSON body for POST /api/plans.
type CreatePlanInput struct {
	Name        string           `json:"name" validate:"required,notblank,max=255"`
	IsPrivate   *bool            `json:"isPrivate" validate:"required"`
	Description string           `json:"description"`
	PlayerLimit int              `json:"playerLimit" validate:"min=0"`
	GameID      *uuid.UUID       `json:"gameId"`
	Gatherings  []GatheringInput `json:"gatherings" validate:"dive"`
}

// UpdatePlanInput carries scalar plan fields only; gatherings are replaced separately.
type UpdatePlanInput struct {
	Name        string     `json:"name" validate:"required,notblank,max=255"`
	IsPrivate   *bool      `json:"isPrivate" validate:"required"`
	Description string     `json:"description"`
	PlayerLimit int        `json:"playerLimit" validate:"min=0"`
	Game        *uuid.UUID `json:"game"`
}

type ReplaceGatheringsInput struct {
	Gatherings []GatheringInput `json:"gatherings" validate:"dive"`
}

type CreateGameInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	MinPlayer   int    `json:"minPlayer" validate:"min=0"`
	MaxPlayer   int    `json:"maxPlayer" validate:"min=0,gtefield=MinPlayer"`
}

// CommentInput is the body for adding or editing a plan comment.
type CommentInput struct {
	Comment string `json:"comment" validate:"required,notblank,max=2000"`
}
