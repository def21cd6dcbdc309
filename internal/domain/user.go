package domain

type User struct {
	UID      int64  `json:"uid" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	IsAdmin  bool   `json:"isAdmin"`
}

type LoginRequest struct {
	Credentials string `json:"credentials" validate:"required,min=1,max=255"`
	Password    string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token" validate:"required"`
	User
}
