package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct {
	err   error
	calls int
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestProbeCheck(t *testing.T) {
	tests := []struct {
		name     string
		storeErr error
		cacheErr error
		want     Status
	}{
		{
			name: "both reachable",
			want: Status{Database: true, Redis: true},
		},
		{
			name:     "store down does not mask cache",
			storeErr: errors.New("connection refused"),
			want:     Status{Database: false, Redis: true},
		},
		{
			name:     "cache down does not mask store",
			cacheErr: errors.New("connection refused"),
			want:     Status{Database: true, Redis: false},
		},
		{
			name:     "both down",
			storeErr: errors.New("down"),
			cacheErr: errors.New("down"),
			want:     Status{Database: false, Redis: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storePinger := &fakePinger{err: tt.storeErr}
			cachePinger := &fakePinger{err: tt.cacheErr}

			got := NewProbe(storePinger, cachePinger).Check(context.Background())

			if got != tt.want {
				t.Errorf("Check() = %+v, want %+v", got, tt.want)
			}
			if storePinger.calls != 1 || cachePinger.calls != 1 {
				t.Errorf("Expected one ping per dependency, got store=%d cache=%d",
					storePinger.calls, cachePinger.calls)
			}
		})
	}
}

func TestStatusHealthy(t *testing.T) {
	if !(Status{Database: true, Redis: true}).Healthy() {
		t.Error("Healthy() = false with both dependencies up")
	}
	if (Status{Database: true, Redis: false}).Healthy() {
		t.Error("Healthy() = true with cache down")
	}
	if (Status{Database: false, Redis: true}).Healthy() {
		t.Error("Healthy() = true with store down")
	}
}
