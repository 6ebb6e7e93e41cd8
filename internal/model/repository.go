package model

type Repository struct {
	ID              string `json:"id"`
	OwnerID         string `json:"owner_id"`
	Name            string `json:"name"`
	PrimaryLanguage string `json:"primary_language,omitempty"`
	Ctime           int64  `json:"ctime"`
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Ctime        int64  `json:"ctime"`
}
