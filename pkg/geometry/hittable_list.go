package geometry

import (
	"github.com/df07/go-weekend-pathtracer/pkg/core"
	"github.com/df07/go-weekend-pathtracer/pkg/material"
)

// HittableList is an ordered collection of shapes tested linearly.
// It is itself a Shape, so it can serve as the whole world.
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list from the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: shapes}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest hit among all shapes
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
