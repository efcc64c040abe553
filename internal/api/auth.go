package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// ProfileInput is the body of update-user.
type ProfileInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	CellphoneNumber string `json:"cellphoneNumber"`
	Department      string `json:"department"`
}

type PasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

var userMarker = MarkerBoth(MarkerStatus, MarkerField("user"))

// Login exchanges credentials for the portal user (which carries its token).
func (c *Client) Login(ctx context.Context, email, password string) (model.Admin, string, error) {
	body := map[string]string{"email": email, "password": password}
	env, err := c.JSON(ctx, http.MethodPost, "/portal/auth/login", body, userMarker)
	if err != nil {
		return model.Admin{}, "", err
	}
	return decodeUser(env)
}

func (c *Client) UpdateProfile(ctx context.Context, id string, in ProfileInput) (model.Admin, string, error) {
	env, err := c.JSON(ctx, http.MethodPut, "/portal/auth/update-user/"+url.PathEscape(id), in, userMarker)
	if err != nil {
		return model.Admin{}, "", err
	}
	return decodeUser(env)
}

func (c *Client) UpdatePassword(ctx context.Context, id string, in PasswordInput) (string, error) {
	return c.ack(ctx, http.MethodPut, "/portal/auth/update-password/"+url.PathEscape(id), in, MarkerStatus)
}

// UploadProfileImage sends the image as multipart field profileImage.
func (c *Client) UploadProfileImage(ctx context.Context, id, name, contentType string, data io.Reader) (model.Admin, string, error) {
	files := []File{{Field: "profileImage", Name: name, ContentType: contentType, Data: data}}
	env, err := c.Multipart(ctx, http.MethodPatch, "/portal/auth/upload-profile-image/"+url.PathEscape(id), nil, files, userMarker)
	if err != nil {
		return model.Admin{}, "", err
	}
	return decodeUser(env)
}

func decodeUser(env Envelope) (model.Admin, string, error) {
	var u model.Admin
	if err := env.Field("user", &u); err != nil {
		return u, "", &Error{Kind: KindDecode, Status: http.StatusOK, Message: decodeMessage, Err: fmt.Errorf("user: %w", err)}
	}
	// some deployments return the token beside the user rather than inside it
	if u.Token == "" && env.Has("token") {
		_ = env.Field("token", &u.Token)
	}
	return u, env.Message, nil
}
