package model

import "time"

const (
	InquiryOpen      = "OPEN"
	InquiryInReview  = "IN_REVIEW"
	InquiryEscalated = "ESCALATED"
	InquiryResolved  = "RESOLVED"
	InquiryClosed    = "CLOSED"
)

func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryOpen, InquiryInReview, InquiryEscalated, InquiryResolved, InquiryClosed:
		return true
	}
	return false
}

type ProcessInquiry struct {
	InquiryID       string
	EventID         string
	UserID          string
	UserName        string
	Subject         string
	Content         string
	Status          string
	AssignedTo      string
	ResolutionNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
