package store

// User is an account that owns query logs.
type User struct {
	ID           int32
	UID          string
	Name         string
	Email        string
	PasswordHash string
	CreatedTs    int64
}

type FindUser struct {
	ID    *int32
	UID   *string
	Email *string
}

type DeleteUser struct {
	ID int32
}
