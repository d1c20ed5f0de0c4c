package handler

import (
	"github.com/studentsdesk/studentsdesk-api/internal/core/domain"
	"github.com/studentsdesk/studentsdesk-api/internal/core/ports"
)

func toStudentResponse(s *domain.Student) studentResponse {
	return studentResponse{
		ID:             s.ID,
		StudentID:      s.DisplayID(),
		Name:           s.Name,
		Email:          s.Email,
		Course:         string(s.Course),
		Age:            s.Age,
		Phone:          s.Phone,
		Address:        s.Address,
		EnrollmentDate: s.EnrollmentDate.UTC(),
		Status:         string(s.Status),
		GPA:            s.GPA,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt.UTC(),
		UpdatedAt:      s.UpdatedAt.UTC(),
	}
}

func toListResponse(r *ports.ListStudentsResult) listStudentsResponse {
	data := make([]studentResponse, 0, len(r.Items))
	for _, s := range r.Items {
		data = append(data, toStudentResponse(s))
	}
	return listStudentsResponse{
		Success:     true,
		Count:       len(data),
		Total:       r.Total,
		TotalPages:  r.TotalPages,
		CurrentPage: r.CurrentPage,
		Data:        data,
	}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
