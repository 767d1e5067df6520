// Package profile stores the self-reported health profiles that
// recommendations are generated from.
package profile

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when no profile has the requested id.
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicateEmail is returned when creating a profile whose email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid profile")
)

// Profile is an immutable snapshot once fetched.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Location  string    `json:"location,omitempty"`
	Lifestyle Lifestyle `json:"lifestyle"`
	CreatedAt time.Time `json:"createdAt"`
}

// Lifestyle holds the optional attributes. Empty means "not reported".
type Lifestyle struct {
	Height            string `json:"height,omitempty"`
	Weight            string `json:"weight,omitempty"`
	Sleep             string `json:"sleep,omitempty"`
	ExerciseFrequency string `json:"exerciseFrequency,omitempty"`
	ExerciseType      string `json:"exerciseType,omitempty"`
	Allergies         string `json:"allergies,omitempty"`
	Alcohol           string `json:"alcohol,omitempty"`
	Smoking           string `json:"smoking,omitempty"`
	Stress            string `json:"stress,omitempty"`
	MealType          string `json:"mealType,omitempty"`
	SugarIntake       string `json:"sugarIntake,omitempty"`
}

// Attribute is one labeled lifestyle value.
type Attribute struct {
	Label string
	Value string
}

// Attributes returns the reported lifestyle values in a fixed order.
func (l Lifestyle) Attributes() []Attribute {
	all := []Attribute{
		{"Height", l.Height},
		{"Weight", l.Weight},
		{"Sleep", l.Sleep},
		{"Exercise frequency", l.ExerciseFrequency},
		{"Exercise type", l.ExerciseType},
		{"Allergies", l.Allergies},
		{"Alcohol", l.Alcohol},
		{"Smoking", l.Smoking},
		{"Stress", l.Stress},
		{"Meal type", l.MealType},
		{"Sugar intake", l.SugarIntake},
	}
	out := all[:0]
	for _, a := range all {
		if v := strings.TrimSpace(a.Value); v != "" {
			out = append(out, Attribute{Label: a.Label, Value: v})
		}
	}
	return out
}

// Validate checks the required fields. Errors wrap ErrInvalid.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(p.Email)); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalid, p.Email)
	}
	if p.Age <= 0 || p.Age > 130 {
		return fmt.Errorf("%w: age must be between 1 and 130, got %d", ErrInvalid, p.Age)
	}
	if strings.TrimSpace(p.Gender) == "" {
		return fmt.Errorf("%w: gender is required", ErrInvalid)
	}
	return nil
}

// Gateway supplies profiles to the recommendation pipeline.
type Gateway interface {
	Fetch(ctx context.Context, id string) (Profile, error)
}
