package domain

// UserProfile is the staff member returned by the login endpoint.
type UserProfile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Designation string `json:"designation"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// UserUpdate is a partial UserProfile; nil fields are left untouched.
type UserUpdate struct {
	ID          *int64
	Name        *string
	Email       *string
	Role        *string
	Designation *string
	Status      *string
	CreatedAt   *string
	UpdatedAt   *string
}

// Apply returns a copy of u with every non-nil field of up merged in.
func (up UserUpdate) Apply(u UserProfile) UserProfile {
	if up.ID != nil {
		u.ID = *up.ID
	}
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.Email != nil {
		u.Email = *up.Email
	}
	if up.Role != nil {
		u.Role = *up.Role
	}
	if up.Designation != nil {
		u.Designation = *up.Designation
	}
	if up.Status != nil {
		u.Status = *up.Status
	}
	if up.CreatedAt != nil {
		u.CreatedAt = *up.CreatedAt
	}
	if up.UpdatedAt != nil {
		u.UpdatedAt = *up.UpdatedAt
	}
	return u
}

// SessionState is the persisted authentication state of the console.
// IsAuthenticated holds iff AccessToken is non-empty.
type SessionState struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	AccessToken     *string      `json:"accessToken"`
	TokenType       *string      `json:"tokenType"`
	User            *UserProfile `json:"user"`
}

// Token returns the access token, or "" when absent.
func (s SessionState) Token() string {
	if s.AccessToken == nil {
		return ""
	}
	return *s.AccessToken
}

// Type returns the token type, or "" when absent.
func (s SessionState) Type() string {
	if s.TokenType == nil {
		return ""
	}
	return *s.TokenType
}

// Clone returns a deep copy so callers never share the user pointer.
func (s SessionState) Clone() SessionState {
	out := SessionState{IsAuthenticated: s.IsAuthenticated}
	if s.AccessToken != nil {
		v := *s.AccessToken
		out.AccessToken = &v
	}
	if s.TokenType != nil {
		v := *s.TokenType
		out.TokenType = &v
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// Equal reports whether both states hold the same values.
func (s SessionState) Equal(o SessionState) bool {
	if s.IsAuthenticated != o.IsAuthenticated {
		return false
	}
	if !equalStringPtr(s.AccessToken, o.AccessToken) || !equalStringPtr(s.TokenType, o.TokenType) {
		return false
	}
	if (s.User == nil) != (o.User == nil) {
		return false
	}
	return s.User == nil || *s.User == *o.User
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// LoginResult is the data block of a successful login response.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserProfile `json:"user"`
}

// LoginResponse is the full body returned by POST /admin/login.
type LoginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    LoginResult `json:"data"`
}

// BearerHeader formats a token for the Authorization header. It returns ""
// when either part is missing.
func BearerHeader(tokenType, token string) string {
	if tokenType == "" || token == "" {
		return ""
	}
	return tokenType + " " + token
}
