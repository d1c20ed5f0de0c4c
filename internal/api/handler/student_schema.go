package handler

import (
	"time"

	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
)

// studentRequest documents the accepted body of create and update. The
// handlers decode into a loose map; this type only feeds the API docs.
type studentRequest struct {
	Name           string  `json:"name" example:"Ada Lovelace"`
	Email          string  `json:"email" example:"ada@example.com"`
	Course         string  `json:"course" example:"Mathematics"`
	Age            int     `json:"age" example:"21"`
	Phone          string  `json:"phone,omitempty" example:"5551234567"`
	Address        string  `json:"address,omitempty"`
	EnrollmentDate string  `json:"enrollmentDate,omitempty" example:"2024-09-01"`
	Status         string  `json:"status,omitempty" example:"active"`
	GPA            float64 `json:"gpa,omitempty" example:"3.6"`
}

type studentResponse struct {
	ID             string    `json:"_id"`
	StudentID      string    `json:"studentId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Course         string    `json:"course"`
	Age            int       `json:"age"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
	Status         string    `json:"status"`
	GPA            float64   `json:"gpa"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type studentEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    studentResponse `json:"data"`
}

type listStudentsResponse struct {
	Success     bool              `json:"success"`
	Count       int               `json:"count"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Data        []studentResponse `json:"data"`
}

type statsEnvelope struct {
	Success bool                 `json:"success"`
	Data    *domain.StudentStats `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorEnvelope mirrors the body written by the central error handler.
type errorEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
