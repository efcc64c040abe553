package dashboard

import (
	"context"
	"errors"

	"github.com/idilsaglam/hcadmin/internal/model"
)

var errDown = errors.New("stats unavailable")

type fakeSource struct {
	stats    model.DashboardStats
	statsErr error
	// release gates the stats call so tests can observe partial states.
	release chan struct{}
	specs   int
	ails    int
	faqs    int
}

func (f *fakeSource) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return model.DashboardStats{}, ctx.Err()
		}
	}
	return f.stats, f.statsErr
}

func (f *fakeSource) Specializations(context.Context) ([]model.Specialization, error) {
	return make([]model.Specialization, f.specs), nil
}

func (f *fakeSource) Ailments(context.Context) ([]model.Ailment, error) {
	return make([]model.Ailment, f.ails), nil
}

func (f *fakeSource) FAQs(context.Context) ([]model.FAQ, error) {
	return make([]model.FAQ, f.faqs), nil
}
