package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/visitas/internal/adapters/repository"
	"github.com/okian/visitas/internal/adapters/session"
	"github.com/okian/visitas/internal/domain/aggregate"
	"github.com/okian/visitas/internal/domain/filter"
	"github.com/okian/visitas/internal/domain/model"
	"github.com/okian/visitas/internal/domain/types"
	"github.com/okian/visitas/pkg/logger"
	"github.com/okian/visitas/pkg/metrics"
)

// Session returns the live session for id, creating one when id is empty,
// unknown or expired. The second result reports whether it was created.
func (s *Service) Session(id string) (*session.Session, bool, error) {
	_, sessions, err := s.components()
	if err != nil {
		return nil, false, err
	}
	sess, created := sessions.Resolve(id)
	return sess, created, nil
}

// Controls returns the filter widgets of sess against the current dataset.
func (s *Service) Controls(ctx context.Context, sess *session.Session) (Controls, error) {
	var out Controls
	err := s.interact(ctx, sess, "state", func(ds *repository.Dataset, st *session.State) error {
		out = controls(ds, st)
		return nil
	})
	return out, err
}

// ApplyFilters updates the year, person and top-N filters. Unknown values
// are rejected with ErrInvalidInput and leave the state untouched; top-N is
// clamped into the bounds of the current dataset.
func (s *Service) ApplyFilters(ctx context.Context, sess *session.Session, in FilterInput) (Controls, error) {
	var out Controls
	err := s.interact(ctx, sess, "filters", func(ds *repository.Dataset, st *session.State) error {
		next := st.Filter
		if in.Year != nil {
			year, err := filter.ParseYear(*in.Year)
			if err != nil {
				return fmt.Errorf("%w: year %q: %w", ErrInvalidInput, *in.Year, err)
			}
			next.Selection = next.Selection.SelectFromDropdown(year)
		}
		if in.Person != nil {
			person, err := filter.ParsePerson(*in.Person)
			if err != nil {
				return fmt.Errorf("%w: person %q: %w", ErrInvalidInput, *in.Person, err)
			}
			next.Person = person
		}
		if in.TopN != nil {
			next.TopN = filter.TopNBounds(ds.DistinctCenters).Clamp(*in.TopN)
		}
		st.Filter = next
		out = controls(ds, st)
		return nil
	})
	return out, err
}

// ClickYear toggles the year pin the way a click on a year bar does.
func (s *Service) ClickYear(ctx context.Context, sess *session.Session, year string) (Controls, error) {
	var out Controls
	err := s.interact(ctx, sess, "year_click", func(ds *repository.Dataset, st *session.State) error {
		if !model.IsKnownYear(year) {
			return fmt.Errorf("%w: year %q: %w", ErrInvalidInput, year, filter.ErrUnknownYear)
		}
		st.Filter.Selection = st.Filter.Selection.ClickBar(year)
		out = controls(ds, st)
		return nil
	})
	return out, err
}

// SetView switches the current view of sess.
func (s *Service) SetView(ctx context.Context, sess *session.Session, name string) (Controls, error) {
	var out Controls
	err := s.interact(ctx, sess, "view", func(ds *repository.Dataset, st *session.State) error {
		v, err := types.ParseView(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		st.View = v
		out = controls(ds, st)
		return nil
	})
	return out, err
}

// Render computes one view for sess from the current dataset. An empty view
// renders the session's current view.
func (s *Service) Render(ctx context.Context, sess *session.Session, view types.View) (*Dashboard, error) {
	var out *Dashboard
	err := s.interact(ctx, sess, "render", func(ds *repository.Dataset, st *session.State) error {
		if view == "" {
			view = st.View
		}
		v, err := types.ParseView(string(view))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		start := time.Now()
		out = render(ds, st, v)
		metrics.RecordRenderLatency(string(v), float64(time.Since(start).Nanoseconds())/1e6)
		return nil
	})
	return out, err
}

// interact runs one interaction: it takes the session lock, resolves the
// dataset (reloading when stale) and hands both to fn.
func (s *Service) interact(ctx context.Context, sess *session.Session, kind string, fn func(*repository.Dataset, *session.State) error) error {
	cache, _, err := s.components()
	if err != nil {
		return err
	}
	metrics.RecordInteraction(kind)
	return sess.Do(func(st *session.State) error {
		ds, err := cache.Dataset(ctx)
		if err != nil {
			return err
		}
		if err := fn(ds, st); err != nil {
			s.logger.Debug(ctx, "interaction rejected",
				logger.String("session", sess.ID()),
				logger.String("kind", kind),
				logger.Error(err),
			)
			return err
		}
		return nil
	})
}

func controls(ds *repository.Dataset, st *session.State) Controls {
	bounds := filter.TopNBounds(ds.DistinctCenters)
	views := make([]ViewInfo, len(types.Views))
	for i, v := range types.Views {
		views[i] = ViewInfo{View: v, Title: v.Title()}
	}
	return Controls{
		Year:          st.Filter.Selection.DropdownValue(),
		PinnedYear:    st.Filter.Selection.Year(),
		Person:        st.Filter.PersonFilter(),
		TopN:          bounds.Clamp(st.Filter.TopN),
		YearOptions:   filter.YearOptions(ds.Records),
		PersonOptions: filter.PersonOptions(),
		TopNBounds:    bounds,
		View:          st.View,
		Views:         views,
	}
}

func render(ds *repository.Dataset, st *session.State, v types.View) *Dashboard {
	active := filter.ActiveView(ds.Records, st.Filter)
	persons := filter.ActivePersons(st.Filter)
	ctl := controls(ds, st)

	d := &Dashboard{
		View:     v,
		Title:    v.Title(),
		Controls: ctl,
		Summary:  aggregate.Summarize(active, ds.Records),
	}
	switch v {
	case types.ViewOverview:
		d.Overview = &Overview{
			Years:   aggregate.ByYear(filter.PersonView(ds.Records, st.Filter), st.Filter.Selection),
			Months:  aggregate.ByMonth(active),
			Persons: aggregate.ByPerson(active, persons),
		}
	case types.ViewCenters:
		d.Centers = &Centers{
			TopN:    ctl.TopN,
			Centers: aggregate.ByCenter(active, ctl.TopN),
		}
	case types.ViewEvolution:
		d.Evolution = &EvolutionView{
			Evolution:  aggregate.EvolutionByMonthPerson(active, persons),
			Comparison: aggregate.YearlyComparisonByPerson(ds.Records, persons),
		}
	case types.ViewDurationHour:
		d.Duration = &DurationView{
			Durations: aggregate.ByDurationBucket(active),
			Hours:     aggregate.ByHourBucket(active),
		}
	}
	return d
}
