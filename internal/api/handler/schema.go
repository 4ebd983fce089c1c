package handler

// errorResponse is the error envelope rendered by the API error handler.
type errorResponse struct {
	Detail string `json:"detail"`
}

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// shortenRequest is validated by the link service after the token check, so
// an expired token wins over a bad URL.
type shortenRequest struct {
	OriginalURL string `json:"original_url"`
}

type shortenResponse struct {
	ShortURL string `json:"short_url"`
}
