package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleProfile() Profile {
	return Profile{
		Name:     "Asha",
		Email:    "Asha@Example.com ",
		Age:      29,
		Gender:   "female",
		Location: "Pune",
		Lifestyle: Lifestyle{
			Sleep:     "6 hours",
			Allergies: "peanuts",
		},
	}
}

func TestCreateAndFetch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleProfile())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "asha@example.com", created.Email)

	got, err := s.Fetch(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "peanuts", got.Lifestyle.Allergies)
}

func TestFetchUnknown(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, sampleProfile())
	require.NoError(t, err)

	_, err = s.Create(ctx, sampleProfile())
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := newTestStore(t)

	p := sampleProfile()
	p.Age = 0
	_, err := s.Create(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		at := base.Add(time.Duration(i) * time.Hour)
		s.now = func() time.Time { return at }

		p := sampleProfile()
		p.Email = email
		_, err := s.Create(ctx, p)
		require.NoError(t, err)
	}

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c@x.io", got[0].Email)
	assert.Equal(t, "a@x.io", got[2].Email)
}

func TestLifestyleAttributesOrderAndSkip(t *testing.T) {
	l := Lifestyle{
		SugarIntake: "high",
		Height:      "170cm",
		Stress:      "  ",
	}

	assert.Equal(t, []Attribute{
		{Label: "Height", Value: "170cm"},
		{Label: "Sugar intake", Value: "high"},
	}, l.Attributes())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"no name", func(p *Profile) { p.Name = " " }},
		{"no email", func(p *Profile) { p.Email = "" }},
		{"bad email", func(p *Profile) { p.Email = "not-an-email" }},
		{"age too high", func(p *Profile) { p.Age = 200 }},
		{"no gender", func(p *Profile) { p.Gender = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProfile()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalid)
		})
	}
}
