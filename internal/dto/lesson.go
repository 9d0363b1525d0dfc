package dto

// CreateLessonRequest places a new lesson occurrence. Times are 24-hour HH:MM.
type CreateLessonRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	TeacherID   string `json:"teacherId" validate:"required"`
	GroupID     string `json:"groupId" validate:"required"`
	ClassroomID string `json:"classroomId"`
	Subject     string `json:"subject" validate:"required"`

	TeacherName   string `json:"teacherName"`
	GroupName     string `json:"groupName"`
	ClassroomName string `json:"classroomName"`
}

// UpdateLessonRequest rewrites an existing lesson occurrence.
type UpdateLessonRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	TeacherID   string `json:"teacherId" validate:"required"`
	GroupID     string `json:"groupId" validate:"required"`
	ClassroomID string `json:"classroomId"`
	Subject     string `json:"subject" validate:"required"`

	TeacherName   string `json:"teacherName"`
	GroupName     string `json:"groupName"`
	ClassroomName string `json:"classroomName"`
}

// ListLessonsQuery filters the lesson listing.
type ListLessonsQuery struct {
	From        string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	TeacherID   string `form:"teacherId"`
	GroupID     string `form:"groupId"`
	ClassroomID string `form:"classroomId"`
	Page        int    `form:"page" validate:"omitempty,min=1"`
	PageSize    int    `form:"pageSize" validate:"omitempty,min=1,max=200"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder" validate:"omitempty,oneof=asc desc ASC DESC"`
}
