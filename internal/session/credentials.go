package session

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/store/jsonstore"
)

const (
	credFileName     = "credentials.json"
	rememberFileName = "remember.json"

	// TokenEnv overrides the stored token.
	TokenEnv = "HCADMIN_TOKEN"
)

// Credentials is what a login leaves on disk.
type Credentials struct {
	Token     string      `json:"token"`
	Source    string      `json:"source"`     // "env" | "file"
	CreatedAt time.Time   `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time  `json:"expires_at"` // from the JWT exp claim when present
	User      model.Admin `json:"user"`
}

type remembered struct {
	Email string `json:"email"`
}

func loadCredentials(dir string) (*Credentials, error) {
	if env := strings.TrimSpace(os.Getenv(TokenEnv)); env != "" {
		tok := stripBearer(env)
		c := &Credentials{Token: tok, Source: "env", ExpiresAt: tokenExpiry(tok)}
		c.User = userFromClaims(tok)
		return c, nil
	}
	var c Credentials
	found, err := jsonstore.Load(filepath.Join(dir, credFileName), &c)
	if err != nil || !found {
		return nil, err
	}
	c.Token = stripBearer(c.Token)
	c.Source = "file"
	return &c, nil
}

func saveCredentials(dir string, c Credentials) error {
	c.Token = stripBearer(strings.TrimSpace(c.Token))
	c.Source = "file"
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	// the token lives at the top level only
	c.User.Token = ""
	return jsonstore.Save(filepath.Join(dir, credFileName), c)
}

func deleteCredentials(dir string) error {
	return jsonstore.Remove(filepath.Join(dir, credFileName))
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// Claims returns the token's payload without verifying the signature; only
// the server can do that. Opaque tokens return nil.
func Claims(token string) jwt.MapClaims {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	t, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, _ := t.Claims.(jwt.MapClaims)
	return claims
}

func tokenExpiry(token string) *time.Time {
	claims := Claims(token)
	if claims == nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// userFromClaims recovers what it can of the user from an env-provided token.
func userFromClaims(token string) model.Admin {
	claims := Claims(token)
	if claims == nil {
		return model.Admin{}
	}
	str := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := claims[k].(string); ok && v != "" {
				return v
			}
		}
		return ""
	}
	return model.Admin{
		ID:        str("_id", "id", "userId", "sub"),
		Email:     str("email"),
		Role:      str("role"),
		FirstName: str("firstName"),
		LastName:  str("lastName"),
	}
}
