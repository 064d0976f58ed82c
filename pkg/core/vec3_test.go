package core

import (
	"math"
	"testing"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
	}{
		{"unit x", NewVec3(3, 0, 0), NewVec3(1, 0, 0)},
		{"diagonal", NewVec3(1, 1, 0), NewVec3(1/math.Sqrt2, 1/math.Sqrt2, 0)},
		{"zero vector stays zero", NewVec3(0, 0, 0), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Normalize()
			if !result.ApproxEqual(tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_Reflect(t *testing.T) {
	incoming := NewVec3(1, -1, 0)
	normal := NewVec3(0, 1, 0)

	result := incoming.Reflect(normal)
	expected := NewVec3(1, 1, 0)
	if !result.ApproxEqual(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestVec3_Reciprocal(t *testing.T) {
	r := NewVec3(2, 0, math.Copysign(0, -1)).Reciprocal()

	if r.X != 0.5 {
		t.Errorf("Expected 0.5, got %f", r.X)
	}
	if !math.IsInf(r.Y, 1) {
		t.Errorf("Expected +Inf for +0, got %f", r.Y)
	}
	if !math.IsInf(r.Z, -1) {
		t.Errorf("Expected -Inf for -0, got %f", r.Z)
	}
}

func TestVec3_Axis(t *testing.T) {
	v := NewVec3(1, 2, 3)
	for axis, expected := range []float64{1, 2, 3} {
		if got := v.Axis(axis); got != expected {
			t.Errorf("Axis(%d): expected %f, got %f", axis, expected, got)
		}
	}
}

func TestVec3_Clamp(t *testing.T) {
	result := NewVec3(-0.5, 0.5, 1.5).Clamp(0, 1)
	expected := NewVec3(0, 0.5, 1)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestRay_T(t *testing.T) {
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, -1))
	if ray.HasHit() {
		t.Error("New ray should have no hit recorded")
	}

	ray.T = 2
	if !ray.HasHit() {
		t.Error("Ray with finite T should report a hit")
	}
	if p := ray.HitPoint(); p != NewVec3(0, 0, -2) {
		t.Errorf("Expected hit point (0,0,-2), got %v", p)
	}
	if ray.Reset().HasHit() {
		t.Error("Reset ray should have no hit recorded")
	}
}
