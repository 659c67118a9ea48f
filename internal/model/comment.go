package model

import "time"

const (
	CommentQuestion = "QUESTION"
	CommentConcern  = "CONCERN"
	CommentComment  = "COMMENT"
	CommentUpdate   = "UPDATE"
)

func ValidCommentCategory(c string) bool {
	switch c {
	case CommentQuestion, CommentConcern, CommentComment, CommentUpdate:
		return true
	}
	return false
}

type UserComment struct {
	CommentID       string
	EventID         string
	UserID          string
	UserName        string
	Category        string
	Content         string
	Resolved        bool
	ResolutionNotes string
	ParentCommentID *string
	CreatedAt       time.Time
}
