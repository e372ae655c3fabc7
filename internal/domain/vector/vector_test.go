package vector

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestDecode(t *testing.T) {
	v, err := Decode(" [0.5, -1, 2e-3] ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float32{0.5, -1, 0.002}
	if len(v) != len(want) {
		t.Fatalf("len = %d, want %d", len(v), len(want))
	}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("v[%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "[]", "{1,2}", "[1,,2]", "not a vector", `["a"]`} {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) expected error", raw)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in := []float32{0.25, -0.125, 3}
	s := Encode(in)
	if s != "[0.25,-0.125,3]" {
		t.Errorf("Encode = %q", s)
	}
	out, err := Decode(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("component %d: %v != %v", i, in[i], out[i])
		}
	}
}

func TestCosine_Known(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"scaled", []float32{1, 2}, []float32{10, 20}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Cosine(tt.a, tt.b)
			if !ok {
				t.Fatal("ok = false")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosine_ZeroVectorExcluded(t *testing.T) {
	if _, ok := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3}); ok {
		t.Error("zero vector must not be scored")
	}
	if _, ok := Cosine([]float32{1, 2, 3}, []float32{0, 0, 0}); ok {
		t.Error("zero vector must not be scored")
	}
	if _, ok := Cosine(nil, []float32{1}); ok {
		t.Error("empty vector must not be scored")
	}
}

func TestCosine_DimensionMismatchIsZero(t *testing.T) {
	got, ok := Cosine([]float32{1, 2, 3}, []float32{1, 2})
	if !ok {
		t.Fatal("mismatched non-zero vectors must still be scored")
	}
	if got != 0 {
		t.Errorf("Cosine = %v, want 0", got)
	}
}

func TestCosine_SymmetricAndBounded(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		dim := 1 + r.IntN(64)
		a := make([]float32, dim)
		b := make([]float32, dim)
		for j := range a {
			a[j] = float32(r.NormFloat64())
			b[j] = float32(r.NormFloat64())
		}
		ab, okA := Cosine(a, b)
		ba, okB := Cosine(b, a)
		if !okA || !okB {
			continue
		}
		if ab != ba {
			t.Fatalf("asymmetric: %v vs %v", ab, ba)
		}
		if ab < -1 || ab > 1 {
			t.Fatalf("out of bounds: %v", ab)
		}
	}
}
