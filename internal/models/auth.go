package models

import "github.com/seorap-app/seorap-backend/internal/repository"

type RegisterRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	UserCode    string  `json:"userCode"`
	ImageURL    *string `json:"imageUrl"`
}

func ToUserResponse(u *repository.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		UserCode:    u.UserCode,
		ImageURL:    u.ImageURL,
	}
}

type UpdateUserRequest struct {
	DisplayName *string `json:"displayName"`
	ImageURL    *string `json:"imageUrl"`
}
