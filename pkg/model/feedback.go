package model

import "time"

type Feedback struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ToolID      string    `json:"tool_id" bson:"tool_id" validate:"required,mongodb"`
	AuthorID    string    `json:"author_id" bson:"author_id" validate:"required,mongodb"`
	AuthorName  string    `json:"author_name" bson:"author_name" validate:"required,min=2,max=100"`
	Rate        int       `json:"rate" bson:"rate" validate:"required,min=1,max=5"`
	Description string    `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
