package repoargs

type CreateUser struct {
	Username string
	Password string
	IsAdmin  bool
}
