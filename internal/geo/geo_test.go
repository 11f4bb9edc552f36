package geo

import (
	"math"
	"testing"
)

func TestDistanceKM(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 27.7041, lon1: 85.3131,
			lat2: 27.7041, lon2: 85.3131,
			want: 0, tolerance: 0.0001,
		},
		{
			name: "ratna park to patan",
			lat1: 27.7041, lon1: 85.3131,
			lat2: 27.6766, lon2: 85.3250,
			want: 3.27, tolerance: 0.1,
		},
		{
			name: "kathmandu to bhaktapur",
			lat1: 27.7041, lon1: 85.3131,
			lat2: 27.6710, lon2: 85.4298,
			want: 12.0, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceKM() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceKMSymmetric(t *testing.T) {
	forward := DistanceKM(27.7041, 85.3131, 27.6766, 85.3250)
	backward := DistanceKM(27.6766, 85.3250, 27.7041, 85.3131)
	if math.Abs(forward-backward) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", forward, backward)
	}
}
