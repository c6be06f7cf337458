package httpapi

import (
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/server/models"
)

// userResponse is the public view of an account. The password hash never
// leaves the server.
type userResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	AvatarURL   *string    `json:"avatar_url"`
	Bio         *string    `json:"bio"`
	Status      int        `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Status:      int(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type userListResponse struct {
	Items   []userResponse `json:"items"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Pages   int            `json:"pages"`
	HasPrev bool           `json:"has_prev"`
	HasNext bool           `json:"has_next"`
}

func toUserListResponse(p models.UserPage) userListResponse {
	items := make([]userResponse, 0, len(p.Items))
	for _, u := range p.Items {
		items = append(items, toUserResponse(u))
	}
	return userListResponse{
		Items:   items,
		Total:   p.Total,
		Page:    p.Page,
		PerPage: p.PerPage,
		Pages:   p.Pages(),
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
	}
}

type statisticsResponse struct {
	LastLoginAt      *time.Time `json:"last_login_at"`
	AccountCreatedAt time.Time  `json:"account_created_at"`
	IsActive         bool       `json:"is_active"`
	PreferenceCount  int        `json:"preference_count"`
}

func toStatisticsResponse(st models.UserStatistics) statisticsResponse {
	return statisticsResponse{
		LastLoginAt:      st.LastLoginAt,
		AccountCreatedAt: st.AccountCreatedAt,
		IsActive:         st.IsActive,
		PreferenceCount:  st.PreferenceCount,
	}
}

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// updateProfileRequest lists the editable fields; anything else in the
// body is ignored.
type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
