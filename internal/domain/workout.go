package domain

import "time"

// Exercise is one line of a workout log.
type Exercise struct {
	Name   string   `json:"name"`
	Sets   int      `json:"sets,omitempty"`
	Reps   int      `json:"reps,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// Workout is a logged training session.
type Workout struct {
	ID        ID         `json:"id"`
	MemberID  ID         `json:"member_id"`
	Type      string     `json:"type"`
	Date      *time.Time `json:"date,omitempty"`
	Duration  int        `json:"duration"`
	Calories  int        `json:"calories,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Exercises []Exercise `json:"exercises,omitempty"`
}

// WorkoutInput is the editable subset of a workout.
type WorkoutInput struct {
	MemberID  ID         `json:"member_id"`
	Type      string     `json:"type"`
	Date      string     `json:"date"`
	Duration  int        `json:"duration"`
	Calories  int        `json:"calories,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Exercises []Exercise `json:"exercises,omitempty"`
}

// WorkoutType is a selectable workout category.
type WorkoutType struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
