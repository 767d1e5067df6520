package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sant0-9/healthiq/internal/logger"
	"github.com/sant0-9/healthiq/internal/profile"
)

type ProfileHandler struct {
	store ProfileStore
	log   *logger.Logger
}

// submitRequest is the flat form the web client posts. The client sends
// numeric inputs as JSON numbers, so those fields accept either form.
type submitRequest struct {
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	Age               looseInt    `json:"age"`
	Gender            string      `json:"gender"`
	Location          string      `json:"location"`
	Height            looseString `json:"height"`
	Weight            looseString `json:"weight"`
	Sleep             looseString `json:"sleep"`
	ExerciseFrequency string      `json:"exerciseFrequency"`
	ExerciseType      string      `json:"exerciseType"`
	Allergies         string      `json:"allergies"`
	Alcohol           string      `json:"alcohol"`
	Smoking           string      `json:"smoking"`
	Stress            looseString `json:"stress"`
	MealType          string      `json:"mealType"`
	SugarIntake       string      `json:"sugarIntake"`
}

// looseString decodes a JSON string, number or null.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("want a string or number, got %s", b)
	}
	*s = looseString(n.String())
	return nil
}

// looseInt decodes a JSON number or numeric string. Empty means zero.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return fmt.Errorf("%q is not a number", string(s))
	}
	*n = looseInt(f)
	return nil
}

// submittedUser repeats the id as _id, the field the web client reads.
type submittedUser struct {
	profile.Profile
	LegacyID string `json:"_id"`
}

func (r submitRequest) profile() profile.Profile {
	return profile.Profile{
		Name:     r.Name,
		Email:    r.Email,
		Age:      int(r.Age),
		Gender:   r.Gender,
		Location: r.Location,
		Lifestyle: profile.Lifestyle{
			Height:            string(r.Height),
			Weight:            string(r.Weight),
			Sleep:             string(r.Sleep),
			ExerciseFrequency: r.ExerciseFrequency,
			ExerciseType:      r.ExerciseType,
			Allergies:         r.Allergies,
			Alcohol:           r.Alcohol,
			Smoking:           r.Smoking,
			Stress:            string(r.Stress),
			MealType:          r.MealType,
			SugarIntake:       r.SugarIntake,
		},
	}
}

// Submit handles POST /api/submit.
func (h *ProfileHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	p, err := h.store.Create(c.Request.Context(), req.profile())
	switch {
	case err == nil:
	case errors.Is(err, profile.ErrInvalid):
		RespondError(c, http.StatusBadRequest, "invalid_profile", err)
		return
	case errors.Is(err, profile.ErrDuplicateEmail):
		RespondError(c, http.StatusConflict, "duplicate_email", err)
		return
	default:
		h.log.Error("create profile failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("could not save profile"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User data saved successfully",
		"user":    submittedUser{Profile: p, LegacyID: p.ID},
	})
}

// List handles GET /api/users.
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.store.List(c.Request.Context())
	if err != nil {
		h.log.Error("list profiles failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("could not load profiles"))
		return
	}
	RespondOK(c, profiles)
}
