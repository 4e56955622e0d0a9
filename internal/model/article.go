package model

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Article struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	References *string    `json:"references"`
	Image      *string    `json:"image"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"created_at"`
}
