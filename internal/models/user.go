package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gofrs/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

const defaultStudentYear = 1

var (
	ErrInvalidRole      = errors.New("invalid role")
	ErrMissingAttribute = errors.New("missing required role attribute")
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type StudentProfile struct {
	StudentID string `json:"studentId"`
	Course    string `json:"course"`
	Year      int    `json:"year"`
	Group     string `json:"group"`
}

type TeacherProfile struct {
	TeacherID  string   `json:"teacherId"`
	Department string   `json:"department"`
	Subjects   []string `json:"subjects"`
}

type AdminProfile struct {
	Permissions []string `json:"permissions"`
}

// RoleAttributes is the flat attribute bag accepted at registration. Only the
// fields belonging to the requested role are used.
type RoleAttributes struct {
	StudentID   string   `json:"studentId"`
	Course      string   `json:"course"`
	Year        int      `json:"year"`
	Group       string   `json:"group"`
	TeacherID   string   `json:"teacherId"`
	Department  string   `json:"department"`
	Subjects    []string `json:"subjects"`
	Permissions []string `json:"permissions"`
}

// User is the stored account record. Exactly one of Student, Teacher, Admin is
// set, matching Role. Tokens holds the active session tokens.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"passwordHash"`
	Role         Role            `json:"role"`
	Student      *StudentProfile `json:"student,omitempty"`
	Teacher      *TeacherProfile `json:"teacher,omitempty"`
	Admin        *AdminProfile   `json:"admin,omitempty"`
	Tokens       []string        `json:"tokens"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// NewUser builds a record for role, filling optional attributes with defaults.
func NewUser(id uuid.UUID, username, passwordHash string, role Role, attrs RoleAttributes, now time.Time) (User, error) {
	user := User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Tokens:       []string{},
		CreatedAt:    now.UTC(),
	}

	switch role {
	case RoleStudent:
		if attrs.StudentID == "" {
			return User{}, fmt.Errorf("%w: studentId", ErrMissingAttribute)
		}
		year := attrs.Year
		if year <= 0 {
			year = defaultStudentYear
		}
		user.Student = &StudentProfile{
			StudentID: attrs.StudentID,
			Course:    attrs.Course,
			Year:      year,
			Group:     attrs.Group,
		}
	case RoleTeacher:
		if attrs.TeacherID == "" {
			return User{}, fmt.Errorf("%w: teacherId", ErrMissingAttribute)
		}
		user.Teacher = &TeacherProfile{
			TeacherID:  attrs.TeacherID,
			Department: attrs.Department,
			Subjects:   nonNil(attrs.Subjects),
		}
	case RoleAdmin:
		user.Admin = &AdminProfile{
			Permissions: nonNil(attrs.Permissions),
		}
	default:
		return User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	return user, nil
}

func (u *User) HasToken(token string) bool {
	return slices.Contains(u.Tokens, token)
}

func (u *User) AddToken(token string) {
	u.Tokens = append(u.Tokens, token)
}

// RemoveToken drops every occurrence of token and reports whether any was found.
func (u *User) RemoveToken(token string) bool {
	n := len(u.Tokens)
	u.Tokens = slices.DeleteFunc(u.Tokens, func(t string) bool { return t == token })
	return len(u.Tokens) != n
}

// UserView is the listing projection: no password hash, no token strings.
type UserView struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	Role           Role            `json:"role"`
	Student        *StudentProfile `json:"student,omitempty"`
	Teacher        *TeacherProfile `json:"teacher,omitempty"`
	Admin          *AdminProfile   `json:"admin,omitempty"`
	ActiveSessions int             `json:"activeSessions"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (u User) View() UserView {
	return UserView{
		ID:             u.ID,
		Username:       u.Username,
		Role:           u.Role,
		Student:        u.Student,
		Teacher:        u.Teacher,
		Admin:          u.Admin,
		ActiveSessions: len(u.Tokens),
		CreatedAt:      u.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
