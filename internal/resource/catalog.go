package resource

import (
	"context"
	"strings"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/model"
)

func roleOptions() []Option {
	out := make([]Option, len(model.ProviderRoles))
	for i, r := range model.ProviderRoles {
		out[i] = Option{Value: r, Label: model.TitleCase(r)}
	}
	return out
}

func Specializations(c *api.Client) Config[model.Specialization] {
	input := func(f Form) api.SpecializationInput {
		roles := f.List("role")
		for i, r := range roles {
			roles[i] = strings.ToLower(r)
		}
		return api.SpecializationInput{Title: f.Get("title"), Description: f.Get("description"), Role: roles}
	}
	return Config[model.Specialization]{
		Name:     "specializations",
		Singular: "specialization",
		ID:       func(s model.Specialization) string { return s.ID },
		Columns: []Column[model.Specialization]{
			{Header: "Title", Width: 24, Cell: func(s model.Specialization) string { return s.Title }},
			{Header: "Description", Width: 40, Cell: func(s model.Specialization) string { return s.Description }},
			{
				Header: "Categories", Width: 30,
				Cell:   func(s model.Specialization) string { return join(s.Chips(), ", ") },
				Export: func(s model.Specialization) string { return join(s.Chips(), "; ") },
			},
			{Header: "Created", Width: 11, Cell: func(s model.Specialization) string { return s.CreatedAt.Date() }},
		},
		Searchable: func(s model.Specialization) []string {
			return append([]string{s.Title, s.Description}, s.Role...)
		},
		Fields: []Field{
			{Key: "title", Label: "Title", Required: true},
			{Key: "description", Label: "Description", Kind: KindLong, Required: true},
			{Key: "role", Label: "Categories", Kind: KindMulti, Required: true, Options: roleOptions()},
		},
		Values: func(s model.Specialization) map[string]string {
			return map[string]string{"title": s.Title, "description": s.Description, "role": join(s.Role, ",")}
		},
		List: c.Specializations,
		Create: func(ctx context.Context, f Form) (string, error) {
			return c.CreateSpecialization(ctx, input(f))
		},
		Update: func(ctx context.Context, id string, f Form) (string, error) {
			return c.UpdateSpecialization(ctx, id, input(f))
		},
		Delete: c.DeleteSpecialization,
	}
}

// specializationOptions feeds the ailment dialog's specialization picker.
func specializationOptions(c *api.Client) func(ctx context.Context) ([]Option, error) {
	return func(ctx context.Context) ([]Option, error) {
		specs, err := c.Specializations(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(specs))
		for _, s := range specs {
			out = append(out, Option{Value: s.ID, Label: s.Title})
		}
		return out, nil
	}
}

func Ailments(c *api.Client) Config[model.Ailment] {
	input := func(f Form) api.AilmentInput {
		return api.AilmentInput{
			Title:          f.Get("title"),
			Description:    f.Get("description"),
			Cost:           model.Flex(f.Get("cost")),
			Specialization: f.Get("specialization"),
		}
	}
	return Config[model.Ailment]{
		Name:     "ailments",
		Singular: "ailment",
		ID:       func(a model.Ailment) string { return a.ID },
		Columns: []Column[model.Ailment]{
			{Header: "Title", Width: 24, Cell: func(a model.Ailment) string { return a.Title }},
			{Header: "Description", Width: 36, Cell: func(a model.Ailment) string { return a.Description }},
			{Header: "Cost", Width: 10, Cell: func(a model.Ailment) string { return "N$" + a.Cost.String() }},
			{Header: "Specialization", Width: 22, Cell: func(a model.Ailment) string { return a.Specialization.Display() }},
		},
		Searchable: func(a model.Ailment) []string { return []string{a.Title, a.Description} },
		Fields: []Field{
			{Key: "title", Label: "Title", Required: true},
			{Key: "description", Label: "Description", Kind: KindLong, Required: true},
			{Key: "cost", Label: "Cost", Kind: KindNumber, Required: true},
			{Key: "specialization", Label: "Specialization", Kind: KindChoice, Required: true, Source: specializationOptions(c)},
		},
		Values: func(a model.Ailment) map[string]string {
			return map[string]string{
				"title":          a.Title,
				"description":    a.Description,
				"cost":           a.Cost.String(),
				"specialization": a.Specialization.ID,
			}
		},
		List: c.Ailments,
		Create: func(ctx context.Context, f Form) (string, error) {
			return c.CreateAilment(ctx, input(f))
		},
		Update: func(ctx context.Context, id string, f Form) (string, error) {
			return c.UpdateAilment(ctx, id, input(f))
		},
		Delete: c.DeleteAilment,
	}
}

func FAQs(c *api.Client) Config[model.FAQ] {
	input := func(f Form) api.FAQInput {
		return api.FAQInput{Question: f.Get("question"), Answer: f.Get("answer")}
	}
	return Config[model.FAQ]{
		Name:     "faqs",
		Singular: "FAQ",
		ID:       func(q model.FAQ) string { return q.ID },
		Columns: []Column[model.FAQ]{
			{Header: "Question", Width: 40, Cell: func(q model.FAQ) string { return q.Question }},
			{Header: "Answer", Width: 50, Cell: func(q model.FAQ) string { return q.Answer }},
		},
		Searchable: func(q model.FAQ) []string { return []string{q.Question, q.Answer} },
		Fields: []Field{
			{Key: "question", Label: "Question", Required: true},
			{Key: "answer", Label: "Answer", Kind: KindLong, Required: true},
		},
		Values: func(q model.FAQ) map[string]string {
			return map[string]string{"question": q.Question, "answer": q.Answer}
		},
		List: c.FAQs,
		Create: func(ctx context.Context, f Form) (string, error) {
			return c.CreateFAQ(ctx, input(f))
		},
		Update: func(ctx context.Context, id string, f Form) (string, error) {
			return c.UpdateFAQ(ctx, id, input(f))
		},
		Delete: c.DeleteFAQ,
	}
}
