package domain

// Response is the backend's envelope. Data is only meaningful when Success is true.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// Failed builds an unsuccessful response carrying msg.
func Failed[T any](msg string) Response[T] {
	return Response[T]{Success: false, Error: msg}
}

// PostsPage is the data of GET /posts.
type PostsPage struct {
	Posts []Post `json:"posts"`
}

type (
	PostsResponse        = Response[PostsPage]
	GetUserResponse      = Response[*User]
	RegisterResponse     = Response[User]
	UpdateUserResponse   = Response[User]
	UpdateAvatarResponse = Response[string]
)
