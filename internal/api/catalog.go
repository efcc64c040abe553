package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// SpecializationInput is the create/update body for a specialization.
type SpecializationInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Role        []string `json:"role"`
}

// AilmentInput is the create/update body for an ailment. Specialization is an id.
type AilmentInput struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Cost           model.Flex `json:"cost"`
	Specialization string     `json:"specialization"`
}

type FAQInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (c *Client) Specializations(ctx context.Context) ([]model.Specialization, error) {
	var out []model.Specialization
	err := c.list(ctx, "/portal/specialization/all-specializations", "specializations", MarkerField("specializations"), &out)
	return out, err
}

func (c *Client) CreateSpecialization(ctx context.Context, in SpecializationInput) (string, error) {
	return c.ack(ctx, http.MethodPost, "/portal/specialization/add-new-specialization", in, MarkerMessage)
}

func (c *Client) UpdateSpecialization(ctx context.Context, id string, in SpecializationInput) (string, error) {
	return c.ack(ctx, http.MethodPut, "/portal/specialization/update-specialization/"+url.PathEscape(id), in, MarkerMessage)
}

func (c *Client) DeleteSpecialization(ctx context.Context, id string) (string, error) {
	return c.ack(ctx, http.MethodDelete, "/portal/specialization/delete-specialization/"+url.PathEscape(id), nil, MarkerMessage)
}

func (c *Client) Ailments(ctx context.Context) ([]model.Ailment, error) {
	var out []model.Ailment
	err := c.list(ctx, "/portal/aligment/all-alignments", "ailments", MarkerField("ailments"), &out)
	return out, err
}

func (c *Client) CreateAilment(ctx context.Context, in AilmentInput) (string, error) {
	return c.ack(ctx, http.MethodPost, "/portal/aligment/create-alignment", in, MarkerMessage)
}

func (c *Client) UpdateAilment(ctx context.Context, id string, in AilmentInput) (string, error) {
	return c.ack(ctx, http.MethodPut, "/portal/aligment/update-alignment/"+url.PathEscape(id), in, MarkerMessage)
}

func (c *Client) DeleteAilment(ctx context.Context, id string) (string, error) {
	return c.ack(ctx, http.MethodDelete, "/portal/aligment/delete-alignment/"+url.PathEscape(id), nil, MarkerMessage)
}

func (c *Client) FAQs(ctx context.Context) ([]model.FAQ, error) {
	var out []model.FAQ
	err := c.list(ctx, "/portal/faq/all-faq", "faqs", MarkerField("faqs"), &out)
	return out, err
}

func (c *Client) CreateFAQ(ctx context.Context, in FAQInput) (string, error) {
	return c.ack(ctx, http.MethodPost, "/portal/faq/create-faq", in, MarkerMessage)
}

func (c *Client) UpdateFAQ(ctx context.Context, id string, in FAQInput) (string, error) {
	return c.ack(ctx, http.MethodPut, "/portal/faq/update-faq/"+url.PathEscape(id), in, MarkerMessage)
}

func (c *Client) DeleteFAQ(ctx context.Context, id string) (string, error) {
	return c.ack(ctx, http.MethodDelete, "/portal/faq/delete-faq/"+url.PathEscape(id), nil, MarkerMessage)
}

// list GETs path and decodes the named collection field into out.
func (c *Client) list(ctx context.Context, path, field string, expect Marker, out any) error {
	env, err := c.JSON(ctx, http.MethodGet, path, nil, expect)
	if err != nil {
		return err
	}
	if !env.Has(field) {
		return nil
	}
	if err := env.Field(field, out); err != nil {
		return &Error{Kind: KindDecode, Status: http.StatusOK, Message: decodeMessage, Err: fmt.Errorf("%s: %w", field, err)}
	}
	return nil
}

// ack performs a mutation and returns the server's message.
func (c *Client) ack(ctx context.Context, method, path string, body any, expect Marker) (string, error) {
	env, err := c.JSON(ctx, method, path, body, expect)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
