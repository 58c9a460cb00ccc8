package dto

import authdomain "receipt-backend/internal/auth/domain"

// UserResponse is the profile shown by the front end.
type UserResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type AuthStatusResponse struct {
	LoggedIn bool          `json:"loggedIn"`
	User     *UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(user *authdomain.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:      user.ExternalID,
		Name:    user.Name,
		Email:   user.Email,
		Picture: user.AvatarURL,
	}
}
