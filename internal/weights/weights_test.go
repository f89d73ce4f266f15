package weights_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/skillforge/fitscore/internal/weights"
	"github.com/skillforge/fitscore/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestValidateEntries(t *testing.T) {
	t.Run("valid set is normalized", func(t *testing.T) {
		entries, err := weights.ValidateEntries([]weights.Entry{
			{MetricCode: " General_Intellect ", Weight: 0.6},
			{MetricCode: "health", Weight: 0.4, IsCritical: true, Penalty: 0.3, Threshold: 5.0},
		})
		if err != nil {
			t.Fatalf("validate: %v", err)
		}

		if entries[0].MetricCode != "general_intellect" {
			t.Errorf("code = %q, want general_intellect", entries[0].MetricCode)
		}
		if entries[0].Penalty != 0 || entries[0].Threshold != weights.DefaultThreshold {
			t.Errorf("non-critical entry = %+v, want penalty 0 threshold %v", entries[0], weights.DefaultThreshold)
		}
		if entries[1].Penalty != 0.3 || entries[1].Threshold != 5.0 {
			t.Errorf("critical entry = %+v, want penalty 0.3 threshold 5", entries[1])
		}
	})

	t.Run("non-critical penalty and threshold discarded", func(t *testing.T) {
		entries, err := weights.ValidateEntries([]weights.Entry{
			{MetricCode: "activity", Weight: 1.0, Penalty: 0.5, Threshold: 9.0},
		})
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if entries[0].Penalty != 0 {
			t.Errorf("penalty = %v, want 0", entries[0].Penalty)
		}
		if entries[0].Threshold != weights.DefaultThreshold {
			t.Errorf("threshold = %v, want %v", entries[0].Threshold, weights.DefaultThreshold)
		}
	})

	t.Run("missing metric code", func(t *testing.T) {
		_, err := weights.ValidateEntries([]weights.Entry{
			{MetricCode: "   ", Weight: 1.0},
		})
		if !errors.Is(err, weights.ErrIncompleteEntry) {
			t.Errorf("err = %v, want ErrIncompleteEntry", err)
		}
	})

	t.Run("duplicate metric code after normalization", func(t *testing.T) {
		_, err := weights.ValidateEntries([]weights.Entry{
			{MetricCode: "health", Weight: 0.5},
			{MetricCode: "HEALTH", Weight: 0.5},
		})
		if !errors.Is(err, weights.ErrDuplicateMetric) {
			t.Errorf("err = %v, want ErrDuplicateMetric", err)
		}
	})

	t.Run("weight out of range", func(t *testing.T) {
		for _, w := range []float64{-0.1, 1.1} {
			_, err := weights.ValidateEntries([]weights.Entry{
				{MetricCode: "health", Weight: w},
			})
			if !errors.Is(err, weights.ErrInvalidEntry) {
				t.Errorf("weight %v: err = %v, want ErrInvalidEntry", w, err)
			}
		}
	})

	t.Run("critical penalty out of range", func(t *testing.T) {
		for _, p := range []float64{-0.1, 0.991, 1.0} {
			_, err := weights.ValidateEntries([]weights.Entry{
				{MetricCode: "health", Weight: 1.0, IsCritical: true, Penalty: p, Threshold: 6.0},
			})
			if !errors.Is(err, weights.ErrInvalidEntry) {
				t.Errorf("penalty %v: err = %v, want ErrInvalidEntry", p, err)
			}
		}
	})

	t.Run("critical threshold out of range", func(t *testing.T) {
		for _, th := range []float64{0.5, 10.5} {
			_, err := weights.ValidateEntries([]weights.Entry{
				{MetricCode: "health", Weight: 1.0, IsCritical: true, Penalty: 0.3, Threshold: th},
			})
			if !errors.Is(err, weights.ErrInvalidEntry) {
				t.Errorf("threshold %v: err = %v, want ErrInvalidEntry", th, err)
			}
		}
	})

	t.Run("weight sum above tolerance", func(t *testing.T) {
		_, err := weights.ValidateEntries([]weights.Entry{
			{MetricCode: "health", Weight: 0.6},
			{MetricCode: "activity", Weight: 0.5},
		})
		if !errors.Is(err, weights.ErrWeightSum) {
			t.Errorf("err = %v, want ErrWeightSum", err)
		}
	})

	t.Run("weight sum within tolerance passes", func(t *testing.T) {
		_, err := weights.ValidateEntries([]weights.Entry{
			{MetricCode: "health", Weight: 0.5},
			{MetricCode: "activity", Weight: 0.49995},
		})
		if err != nil {
			t.Errorf("validate: %v", err)
		}
	})

	t.Run("empty set fails weight sum", func(t *testing.T) {
		_, err := weights.ValidateEntries(nil)
		if !errors.Is(err, weights.ErrWeightSum) {
			t.Errorf("err = %v, want ErrWeightSum", err)
		}
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", weights.ErrNotFound, http.StatusNotFound},
		{"already exists", weights.ErrAlreadyExists, http.StatusConflict},
		{"invalid name", weights.ErrInvalidName, http.StatusBadRequest},
		{"invalid prof", weights.ErrInvalidProf, http.StatusBadRequest},
		{"incomplete entry", weights.ErrIncompleteEntry, http.StatusUnprocessableEntity},
		{"duplicate metric", weights.ErrDuplicateMetric, http.StatusUnprocessableEntity},
		{"weight sum", weights.ErrWeightSum, http.StatusUnprocessableEntity},
		{"invalid entry", weights.ErrInvalidEntry, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped weight sum", fmt.Errorf("%w: got 0.9000", weights.ErrWeightSum), http.StatusUnprocessableEntity},
		{"wrapped duplicate", fmt.Errorf("%w: health", weights.ErrDuplicateMetric), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := weights.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"prof_activity_code": {"operator"},
			"name":               {"baseline"},
			"active":             {"true"},
		}

		f := weights.FiltersFromQuery(values)

		if f.ProfActivityCode == nil || *f.ProfActivityCode != "operator" {
			t.Errorf("ProfActivityCode = %v, want operator", f.ProfActivityCode)
		}
		if f.Name == nil || *f.Name != "baseline" {
			t.Errorf("Name = %v, want baseline", f.Name)
		}
		if f.Active == nil || !*f.Active {
			t.Errorf("Active = %v, want true", f.Active)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := weights.FiltersFromQuery(url.Values{})

		if f.ProfActivityCode != nil || f.Name != nil || f.Active != nil {
			t.Errorf("filters = %+v, want all nil", f)
		}
	})

	t.Run("invalid active ignored", func(t *testing.T) {
		f := weights.FiltersFromQuery(url.Values{"active": {"maybe"}})
		if f.Active != nil {
			t.Errorf("Active = %v, want nil for invalid bool", f.Active)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	proj := query.
		NewProjectionMap("public", "weight_tables", "wt").
		Project("prof_activity_code", "ProfActivityCode").
		Project("name", "Name").
		Project("active", "Active")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := weights.Filters{}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT wt.prof_activity_code, wt.name, wt.active FROM public.weight_tables wt"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("all filters combine", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := weights.Filters{
			ProfActivityCode: ptr("operator"),
			Name:             ptr("baseline"),
			Active:           ptr(true),
		}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
