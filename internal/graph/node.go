package graph

import "github.com/iburimskiy/backdrop/internal/vec"

// Node is one moving, connectable point.
type Node struct {
	// Actual is the drift-integrated position.
	Actual vec.Vector2
	// Displayed is Actual plus the current shockwave offset.
	Displayed vec.Vector2

	Speed       float64
	Size        float64
	Connections int
	Active      bool
	Interactive bool
}

// Edge is a connection recorded during the last update.
type Edge struct {
	I, J     int
	Distance float64
	Opacity  float64
}

// Stats summarises the last update.
type Stats struct {
	Nodes          int
	Active         int
	Edges          int
	MaxConnections int
	WaveLive       bool
}
