package chanbench_test

import (
	"slices"
	"testing"
	"time"

	cb "github.com/azargarov/chanbench"
	"go.uber.org/multierr"
)

func TestFillDefaults(t *testing.T) {
	o := cb.Options{Items: 1000, Binder: cb.NoopBinder{}}
	o.FillDefaults()

	if o.Workers <= 0 {
		t.Fatal("expected Workers to be set by FillDefaults")
	}
	if o.Capacity != 1000 {
		t.Fatalf("capacity = %d; want the whole workload", o.Capacity)
	}
	if o.CompletionCapacity != o.Capacity {
		t.Fatalf("completion capacity = %d; want %d", o.CompletionCapacity, o.Capacity)
	}
	if len(o.Cores) != o.Workers || o.DriverCore != o.Workers {
		t.Fatalf("cores = %v, driver = %d", o.Cores, o.DriverCore)
	}
	if o.ProgressEvery != cb.DefaultProgressEvery {
		t.Fatalf("progress = %d", o.ProgressEvery)
	}
	if err := o.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestFillDefaults_EmptyWorkload(t *testing.T) {
	o := cb.Options{Binder: cb.NoopBinder{}}
	o.FillDefaults()
	if o.Items != 0 || o.Capacity != 1 {
		t.Fatalf("items/capacity = %d/%d; want 0/1", o.Items, o.Capacity)
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	o := cb.Options{
		Items:    -1,
		Workers:  -1,
		Capacity: -1,
		Binder:   cb.NoopBinder{},
	}
	o.FillDefaults()

	err := o.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if n := len(multierr.Errors(err)); n < 3 {
		t.Fatalf("got %d errors; want at least 3: %v", n, err)
	}
}

func TestValidate_Cores(t *testing.T) {
	tests := []struct {
		name    string
		binder  cb.Binder
		cores   []int
		driver  int
		wantErr bool
	}{
		{"Distinct", cb.AffinityBinder{}, []int{0, 1}, 2, false},
		{"DuplicateWorker", cb.AffinityBinder{}, []int{0, 0}, 2, true},
		{"DriverShared", cb.AffinityBinder{}, []int{0, 1}, 1, true},
		{"Negative", cb.AffinityBinder{}, []int{-1, 1}, 2, true},
		{"CountMismatch", cb.AffinityBinder{}, []int{0}, 2, true},
		{"NoopAllowsSharing", cb.NoopBinder{}, []int{0, 0}, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := cb.Options{Items: 1, Workers: 2, Binder: tc.binder, Cores: tc.cores, DriverCore: tc.driver}
			o.FillDefaults()
			if err := o.Validate(); (err != nil) != tc.wantErr {
				t.Fatalf("validate = %v; wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_ParkPolicy(t *testing.T) {
	o := cb.Options{
		Items:  1,
		Binder: cb.NoopBinder{},
		Park:   cb.ParkPolicy{Initial: time.Second, Max: time.Millisecond},
	}
	o.FillDefaults()
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for initial park above max")
	}
}

func TestParseModel(t *testing.T) {
	for _, m := range models {
		got, err := cb.ParseModel(m.String())
		if err != nil || got != m {
			t.Fatalf("parse %q = %v, %v", m, got, err)
		}
	}
	if _, err := cb.ParseModel("threads"); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

func TestCoreMapFor(t *testing.T) {
	cm := cb.CoreMapFor(2, []int{4, 6, 8, 10})
	if !slices.Equal(cm.Workers, []int{4, 6}) || cm.Driver != 8 {
		t.Fatalf("core map = %+v", cm)
	}
	if cm.Core(1) != 6 {
		t.Fatalf("core(1) = %d; want 6", cm.Core(1))
	}

	cm = cb.CoreMapFor(3, []int{0, 1})
	if !slices.Equal(cm.Workers, []int{0, 1, 2}) || cm.Driver != 3 {
		t.Fatalf("fallback core map = %+v", cm)
	}
}

func TestAvailableCPUs(t *testing.T) {
	cpus := cb.AvailableCPUs()
	if len(cpus) == 0 {
		t.Fatal("expected at least one cpu")
	}
	if !slices.IsSorted(cpus) {
		t.Fatalf("cpus not sorted: %v", cpus)
	}
}
