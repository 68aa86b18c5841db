package api

import "context"

// TokenPair is the response of the login endpoint.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// User is the created-user representation returned by registration.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	payload := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}

	var user User
	if err := c.postJSON(ctx, "/users/register", payload, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access/refresh token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var tokens TokenPair
	if err := c.postJSON(ctx, "/users/login", payload, &tokens, false); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	payload := map[string]string{
		"refresh_token": refreshToken,
	}

	var response struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.postJSON(ctx, "/users/refresh_token", payload, &response, false); err != nil {
		return "", err
	}
	return response.AccessToken, nil
}
