package sim

import "math"

// Point is a 2D position in the engine's world frame.
type Point struct {
	X, Y float64
}

// PlanPath returns a straight-line trajectory from start toward goal.
// Placeholder for a real planner (Hybrid A*): it closes 5% of the
// remaining x-distance per waypoint until within 0.1 of the goal.
func PlanPath(start, goal Point) []Point {
	path := []Point{start}
	for math.Abs(goal.X-path[len(path)-1].X) > 0.1 {
		last := path[len(path)-1]
		step := (goal.X - last.X) * 0.05
		path = append(path, Point{X: last.X + step, Y: last.Y})
	}
	return path
}
